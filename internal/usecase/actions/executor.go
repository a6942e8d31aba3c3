// Package actions maps a parsed action onto one browser operation and
// normalizes the outcome. Failures come back as values, never as faults, so
// the loop can feed them to the model as observations.
package actions

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"webagent/internal/application/port/output"
	"webagent/internal/domain/entity"
)

// screenshotTimeFormat includes nanoseconds so back-to-back captures within
// one run never collide on the generated filename.
const screenshotTimeFormat = "20060102_150405.000000000"

type Executor struct {
	browser       output.BrowserPort
	logger        output.LoggerPort
	screenshotDir string
	now           func() time.Time
}

func NewExecutor(browser output.BrowserPort, logger output.LoggerPort, screenshotDir string) *Executor {
	return &Executor{
		browser:       browser,
		logger:        logger,
		screenshotDir: screenshotDir,
		now:           time.Now,
	}
}

// Execute dispatches one validated action. Unknown names are a contract
// violation: the parser rejects them before they can get here, so the
// executor fails fast with a programming-error result rather than guessing.
func (e *Executor) Execute(ctx context.Context, action entity.ActionName, params entity.ActionParams) entity.ActionResult {
	start := e.now()

	var result entity.ActionResult
	switch action {
	case entity.ActionNavigate:
		result = e.navigate(ctx, params)
	case entity.ActionClick:
		result = e.click(ctx, params)
	case entity.ActionType:
		result = e.typeText(ctx, params)
	case entity.ActionGetText:
		result = e.getText(ctx, params)
	case entity.ActionScreenshot:
		result = e.screenshot(ctx, params)
	default:
		result = entity.ActionFailed(fmt.Sprintf("unknown action %q reached the executor", action))
	}

	e.logger.Info("action executed",
		"action", action.String(),
		"success", result.Success,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result
}

func (e *Executor) navigate(ctx context.Context, params entity.ActionParams) entity.ActionResult {
	url, ok := params.String("url")
	if !ok || url == "" {
		return missingParam(entity.ActionNavigate, "url")
	}
	if err := e.browser.Navigate(ctx, url); err != nil {
		return entity.ActionFailed(fmt.Sprintf("navigation to %s failed: %v", url, err))
	}
	return entity.ActionOK(fmt.Sprintf("Navigated to %s", url))
}

func (e *Executor) click(ctx context.Context, params entity.ActionParams) entity.ActionResult {
	selector, ok := params.String("selector")
	if !ok || selector == "" {
		return missingParam(entity.ActionClick, "selector")
	}
	if err := e.browser.Click(ctx, selector); err != nil {
		return entity.ActionFailed(fmt.Sprintf("click on %s failed: %v", selector, err))
	}
	return entity.ActionOK(fmt.Sprintf("Clicked on %s", selector))
}

func (e *Executor) typeText(ctx context.Context, params entity.ActionParams) entity.ActionResult {
	selector, ok := params.String("selector")
	if !ok || selector == "" {
		return missingParam(entity.ActionType, "selector")
	}
	text, ok := params.String("text")
	if !ok {
		return missingParam(entity.ActionType, "text")
	}
	if err := e.browser.Fill(ctx, selector, text); err != nil {
		return entity.ActionFailed(fmt.Sprintf("typing into %s failed: %v", selector, err))
	}
	return entity.ActionOK(fmt.Sprintf("Typed %q into %s", text, selector))
}

func (e *Executor) getText(ctx context.Context, params entity.ActionParams) entity.ActionResult {
	selector, ok := params.String("selector")
	if !ok || selector == "" {
		return missingParam(entity.ActionGetText, "selector")
	}
	text, err := e.browser.Text(ctx, selector)
	if err != nil {
		return entity.ActionFailed(fmt.Sprintf("reading text from %s failed: %v", selector, err))
	}
	return entity.ActionOK(text)
}

func (e *Executor) screenshot(ctx context.Context, params entity.ActionParams) entity.ActionResult {
	path, ok := params.String("path")
	if !ok || path == "" {
		path = fmt.Sprintf("screenshot_%s.png", e.now().Format(screenshotTimeFormat))
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(e.screenshotDir, path)
	}

	saved, err := e.browser.Screenshot(ctx, path)
	if err != nil {
		return entity.ActionFailed(fmt.Sprintf("screenshot failed: %v", err))
	}
	return entity.ActionOK(fmt.Sprintf("Screenshot saved to %s", saved))
}

func missingParam(action entity.ActionName, key string) entity.ActionResult {
	return entity.ActionFailed(fmt.Sprintf("action %s requires parameter %q", action, key))
}
