// Package browser runs headless Chrome pages through the DevTools protocol.
package browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/charter-search/charter-availability/internal/infrastructure/logger"
)

// Config holds browser launch settings.
type Config struct {
	Headless      bool
	ExecPath      string
	UserAgent     string
	NoSandbox     bool
	WindowWidth   int
	WindowHeight  int
	ActionTimeout time.Duration
}

// DefaultConfig returns a headless configuration suitable for servers.
func DefaultConfig() Config {
	return Config{
		Headless:      true,
		WindowWidth:   1366,
		WindowHeight:  900,
		ActionTimeout: 30 * time.Second,
	}
}

func (c Config) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts,
		chromedp.Flag("headless", c.Headless),
		chromedp.Flag("disable-gpu", true),
	)
	if c.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(c.ExecPath))
	}
	if c.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(c.UserAgent))
	}
	if c.NoSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}
	if c.WindowWidth > 0 && c.WindowHeight > 0 {
		opts = append(opts, chromedp.WindowSize(c.WindowWidth, c.WindowHeight))
	}
	return opts
}

// Launcher starts one browser process per Launch call.
type Launcher struct {
	config Config
	log    *logger.Logger
}

// NewLauncher creates a launcher. A nil logger discards browser diagnostics.
func NewLauncher(cfg Config, log *logger.Logger) *Launcher {
	if cfg.ActionTimeout <= 0 {
		cfg.ActionTimeout = DefaultConfig().ActionTimeout
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Launcher{config: cfg, log: log}
}

// Launch starts a browser with a single tab. The browser outlives ctx; it is
// released by Tab.Close.
func (l *Launcher) Launch(ctx context.Context) (*Tab, error) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), l.config.allocatorOptions()...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(l.log.Logf),
		chromedp.WithErrorf(l.log.Errorf),
	)

	tab := &Tab{ctx: tabCtx, cancel: tabCancel, allocCancel: allocCancel, timeout: l.config.ActionTimeout}

	// The first Run must use the tab context itself, or the browser dies with its child.
	stop := context.AfterFunc(ctx, tabCancel)
	timer := time.AfterFunc(l.config.ActionTimeout, tabCancel)
	err := chromedp.Run(tabCtx)
	err = startResult(ctx, err, timer.Stop(), stop(), l.config.ActionTimeout)
	if err != nil {
		_ = tab.Close()
		return nil, fmt.Errorf("start browser: %w", err)
	}
	return tab, nil
}

// startResult settles a browser start. A tab whose start timer or caller context
// already fired has been cancelled, so it counts as failed even when Run returned nil.
func startResult(ctx context.Context, runErr error, timerStopped, watchStopped bool, timeout time.Duration) error {
	switch {
	case runErr != nil:
		return runErr
	case !watchStopped:
		return ctx.Err()
	case !timerStopped:
		return fmt.Errorf("%w: no response within %s", context.DeadlineExceeded, timeout)
	}
	return nil
}

// Tab is one browser page. Its methods are safe to call from one goroutine at a time.
type Tab struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	timeout     time.Duration
	closeOnce   sync.Once
}

// run executes actions bounded by timeout and by the caller's ctx.
func (t *Tab) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithTimeout(t.ctx, timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	err := chromedp.Run(runCtx, actions...)
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// Navigate loads url.
func (t *Tab) Navigate(ctx context.Context, url string) error {
	return t.run(ctx, t.timeout, chromedp.Navigate(url))
}

// Fill replaces the text of an input.
func (t *Tab) Fill(ctx context.Context, selector, value string) error {
	return t.run(ctx, t.timeout,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.Clear(selector, chromedp.ByQuery),
		chromedp.SendKeys(selector, value, chromedp.ByQuery),
	)
}

// Select picks the option with value and fires the change event page scripts listen for.
func (t *Tab) Select(ctx context.Context, selector, value string) error {
	var selected bool
	script := fmt.Sprintf(
		`(() => { const el = document.querySelector(%s); el.dispatchEvent(new Event("change", {bubbles: true})); return el.value === %s; })()`,
		quote(selector), quote(value),
	)
	err := t.run(ctx, t.timeout,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.SetValue(selector, value, chromedp.ByQuery),
		chromedp.Evaluate(script, &selected),
	)
	if err != nil {
		return err
	}
	if !selected {
		return fmt.Errorf("%s has no option %q", selector, value)
	}
	return nil
}

// Click clicks a visible element.
func (t *Tab) Click(ctx context.Context, selector string) error {
	return t.run(ctx, t.timeout, chromedp.Click(selector, chromedp.ByQuery, chromedp.NodeVisible))
}

// Submit clicks an element and waits for the resulting page load.
func (t *Tab) Submit(ctx context.Context, selector string) error {
	return t.run(ctx, t.timeout, chromedp.ActionFunc(func(ctx context.Context) error {
		_, err := chromedp.RunResponse(ctx, chromedp.Click(selector, chromedp.ByQuery, chromedp.NodeVisible))
		return err
	}))
}

// WaitVisible waits up to timeout for selector to become visible.
func (t *Tab) WaitVisible(ctx context.Context, selector string, timeout time.Duration) error {
	return t.run(ctx, timeout, chromedp.WaitVisible(selector, chromedp.ByQuery))
}

// WaitGone waits up to timeout for selector to leave the page.
func (t *Tab) WaitGone(ctx context.Context, selector string, timeout time.Duration) error {
	return t.run(ctx, timeout, chromedp.WaitNotPresent(selector, chromedp.ByQuery))
}

// Exists reports whether selector matches an element right now.
func (t *Tab) Exists(ctx context.Context, selector string) (bool, error) {
	var found bool
	err := t.run(ctx, t.timeout,
		chromedp.Evaluate(fmt.Sprintf("document.querySelector(%s) !== null", quote(selector)), &found),
	)
	return found, err
}

// OuterHTML returns the markup of the first element matching selector.
func (t *Tab) OuterHTML(ctx context.Context, selector string) (string, error) {
	var html string
	err := t.run(ctx, t.timeout, chromedp.OuterHTML(selector, &html, chromedp.ByQuery))
	return html, err
}

// Close shuts the tab and its browser process.
func (t *Tab) Close() error {
	var err error
	t.closeOnce.Do(func() {
		err = chromedp.Cancel(t.ctx)
		t.cancel()
		t.allocCancel()
		if errors.Is(err, context.Canceled) {
			err = nil
		}
	})
	return err
}

// quote renders s as a JavaScript string literal.
func quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
