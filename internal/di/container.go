// Package di wires the adapters and the run loop together.
package di

import (
	"context"
	"fmt"

	"webagent/internal/application/port/input"
	"webagent/internal/application/port/output"
	"webagent/internal/infrastructure/browser/rod"
	"webagent/internal/infrastructure/env"
	"webagent/internal/infrastructure/llm/azure"
	"webagent/internal/infrastructure/logger"
	"webagent/internal/infrastructure/prompts"
	"webagent/internal/usecase/actions"
	"webagent/internal/usecase/runner"
)

type Container struct {
	Browser output.BrowserPort
	LLM     output.LLMPort
	Logger  output.LoggerPort
	Runner  input.TaskRunner
}

// NewContainer builds the full object graph. A browser that fails to start is
// fatal; everything already opened is closed again before returning the error.
func NewContainer(ctx context.Context, cfg *env.Config) (*Container, error) {
	log, err := logger.NewAdapter(logger.Config{
		Level:      cfg.LogLevel,
		LogFile:    cfg.LogFile,
		MaxSizeMB:  20,
		MaxBackups: 3,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	browserCfg := rod.DefaultConfig()
	browserCfg.Headless = cfg.Headless
	browser, err := rod.NewAdapter(ctx, browserCfg)
	if err != nil {
		_ = log.Close()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	llm := azure.NewAdapter(azure.Config{
		APIKey:     cfg.APIKey,
		Endpoint:   cfg.Endpoint,
		Deployment: cfg.Deployment,
		APIVersion: cfg.APIVersion,
	})

	executor := actions.NewExecutor(browser, log, cfg.ScreenshotDir)

	run := runner.New(llm, executor, log, runner.Config{
		SystemPrompt:      prompts.SystemPrompt,
		MaxIterations:     cfg.MaxIterations,
		ParseFailureLimit: cfg.ParseFailureLimit,
	})

	return &Container{
		Browser: browser,
		LLM:     llm,
		Logger:  log,
		Runner:  run,
	}, nil
}

// Close releases the browser session and flushes the logger. Safe on every
// exit path, including aborted runs.
func (c *Container) Close() {
	if c.Browser != nil {
		c.Browser.Close()
	}
	if c.Logger != nil {
		_ = c.Logger.Close()
	}
}
