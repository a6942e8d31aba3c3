// Package rod adapts go-rod to the application's BrowserPort. One adapter
// owns one launcher, one browser process and one page for the lifetime of a
// run; Close tears all three down.
package rod

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"webagent/internal/application/port/output"

	"github.com/disintegration/imaging"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"
)

var _ output.BrowserPort = (*Adapter)(nil)

type Adapter struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	page     *rod.Page
	timeout  time.Duration
}

type Config struct {
	Headless   bool
	SlowMotion time.Duration
	Timeout    time.Duration
	NoSandbox  bool
}

func DefaultConfig() Config {
	return Config{
		Headless:   false,
		SlowMotion: 500 * time.Millisecond,
		Timeout:    10 * time.Second,
		NoSandbox:  true,
	}
}

func NewAdapter(ctx context.Context, cfg Config) (*Adapter, error) {
	l := launcher.New().
		Headless(cfg.Headless).
		NoSandbox(cfg.NoSandbox).
		Delete("use-mock-keychain").
		Set("disable-setuid-sandbox")

	url, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().
		ControlURL(url).
		SlowMotion(cfg.SlowMotion)
	if err := browser.Connect(); err != nil {
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		_ = browser.Close()
		l.Kill()
		l.Cleanup()
		return nil, fmt.Errorf("failed to open page: %w", err)
	}

	return &Adapter{
		browser:  browser,
		launcher: l,
		page:     page,
		timeout:  cfg.Timeout,
	}, nil
}

func (a *Adapter) Navigate(ctx context.Context, url string) error {
	if err := a.page.Context(ctx).Navigate(url); err != nil {
		return fmt.Errorf("navigation failed: %w", err)
	}
	if err := a.page.Timeout(a.timeout).WaitLoad(); err != nil {
		return fmt.Errorf("page did not finish loading: %w", err)
	}
	a.page.WaitIdle(2 * time.Second)
	return nil
}

func (a *Adapter) Click(ctx context.Context, selector string) error {
	el, err := a.element(selector)
	if err != nil {
		return err
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("click failed: %w", err)
	}
	a.page.WaitIdle(2 * time.Second)
	return nil
}

func (a *Adapter) Fill(ctx context.Context, selector, text string) error {
	el, err := a.element(selector)
	if err != nil {
		return err
	}

	// Clear any existing value before typing.
	if err := el.SelectAllText(); err == nil {
		_ = el.Input("")
	}

	if err := el.Input(text); err != nil {
		return fmt.Errorf("input failed: %w", err)
	}
	return nil
}

func (a *Adapter) Text(ctx context.Context, selector string) (string, error) {
	el, err := a.element(selector)
	if err != nil {
		return "", err
	}
	text, err := el.Text()
	if err != nil {
		return "", fmt.Errorf("reading text failed: %w", err)
	}
	return text, nil
}

// Screenshot captures the full page and writes it to path, creating the
// parent directory as needed. Captures wider than maxScreenshotWidth are
// downscaled before saving. Returns the path actually written.
func (a *Adapter) Screenshot(ctx context.Context, path string) (string, error) {
	imgBytes, err := a.page.Screenshot(true, &proto.PageCaptureScreenshot{
		Format:  proto.PageCaptureScreenshotFormatJpeg,
		Quality: gson.Int(80),
	})
	if err != nil {
		return "", fmt.Errorf("screenshot capture failed: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(imgBytes))
	if err != nil {
		return "", fmt.Errorf("screenshot decode failed: %w", err)
	}
	if img.Bounds().Dx() > maxScreenshotWidth {
		img = imaging.Resize(img, maxScreenshotWidth, 0, imaging.Lanczos)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("screenshot dir: %w", err)
		}
	}
	if err := imaging.Save(img, path); err != nil {
		return "", fmt.Errorf("screenshot save failed: %w", err)
	}
	return path, nil
}

const maxScreenshotWidth = 1440

func (a *Adapter) CurrentURL() string {
	info, err := a.page.Info()
	if err != nil {
		return ""
	}
	return info.URL
}

func (a *Adapter) Close() {
	if a.browser != nil {
		_ = a.browser.Close()
	}
	if a.launcher != nil {
		a.launcher.Kill()
		a.launcher.Cleanup()
	}
}

// element resolves a selector with the configured timeout. Selectors that
// start with "/" are treated as XPath, everything else as CSS.
func (a *Adapter) element(selector string) (*rod.Element, error) {
	selector = strings.TrimSpace(selector)

	var el *rod.Element
	var err error
	if strings.HasPrefix(selector, "/") || strings.HasPrefix(selector, "(") {
		el, err = a.page.Timeout(a.timeout).ElementX(selector)
	} else {
		el, err = a.page.Timeout(a.timeout).Element(selector)
	}
	if err != nil {
		return nil, fmt.Errorf("element not found: %s: %w", selector, err)
	}
	return el, nil
}
