// Package browser wraps chromedp with the session lifecycle the probe
// suite needs: a configured headless Chrome, navigation with readiness
// waits, console/error capture, and screenshot helpers.
package browser

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/specto/internal/common"
	"github.com/ternarybob/specto/internal/models"
)

// Session owns a browser tab for the duration of a probe run.
// Cleanup functions run LIFO on Close.
type Session struct {
	ctx     context.Context
	cleanup []func()
	config  common.BrowserConfig
	baseURL string
	console *consoleCapture
	logger  arbor.ILogger
}

// NewSession launches Chrome and opens a tab. The returned session must
// be closed by the caller.
func NewSession(parent context.Context, cfg common.BrowserConfig, target common.TargetConfig) (*Session, error) {
	logger := common.GetLogger().WithPrefix("browser")

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(int(cfg.WindowWidth), int(cfg.WindowHeight)),
	)
	if target.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(target.UserAgent))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(parent, opts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	session := &Session{
		ctx:     tabCtx,
		cleanup: []func(){allocCancel, tabCancel},
		config:  cfg,
		baseURL: strings.TrimRight(target.BaseURL, "/"),
		logger:  logger,
	}
	session.console = newConsoleCapture(tabCtx)

	// force browser startup so failures surface here, not mid-probe
	startCtx, cancel := context.WithTimeout(tabCtx, cfg.NavigationTimeout)
	defer cancel()
	if err := chromedp.Run(startCtx); err != nil {
		session.Close()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	logger.Debug().
		Bool("headless", cfg.Headless).
		Int64("width", cfg.WindowWidth).
		Int64("height", cfg.WindowHeight).
		Msg("Browser session started")

	return session, nil
}

// Context returns the tab context for custom chromedp actions
func (s *Session) Context() context.Context {
	return s.ctx
}

// Close tears the session down, newest cleanup first
func (s *Session) Close() {
	for i := len(s.cleanup) - 1; i >= 0; i-- {
		s.cleanup[i]()
	}
	s.cleanup = nil
}

// URL resolves a route against the session's base URL
func (s *Session) URL(route string) string {
	if strings.HasPrefix(route, "http://") || strings.HasPrefix(route, "https://") {
		return route
	}
	if !strings.HasPrefix(route, "/") {
		route = "/" + route
	}
	return s.baseURL + route
}

// Navigate loads a route, waits for readySelector to become visible when
// provided, then lets the page settle.
func (s *Session) Navigate(route, readySelector string) error {
	target := s.URL(route)
	if _, err := url.Parse(target); err != nil {
		return fmt.Errorf("invalid target URL %s: %w", target, err)
	}

	s.logger.Info().Str("url", target).Msg("Navigating")

	navCtx, cancel := context.WithTimeout(s.ctx, s.config.NavigationTimeout)
	defer cancel()

	actions := []chromedp.Action{chromedp.Navigate(target)}
	if readySelector != "" {
		actions = append(actions, chromedp.WaitVisible(readySelector, chromedp.ByQuery))
	} else {
		actions = append(actions, chromedp.WaitReady("body", chromedp.ByQuery))
	}
	actions = append(actions, chromedp.Sleep(s.config.SettleDelay))

	if err := chromedp.Run(navCtx, actions...); err != nil {
		return fmt.Errorf("failed to load %s: %w", target, err)
	}
	return nil
}

// SetViewport switches the tab to the given emulated viewport
func (s *Session) SetViewport(vp common.ViewportConfig) error {
	if err := chromedp.Run(s.ctx, chromedp.EmulateViewport(vp.Width, vp.Height)); err != nil {
		return fmt.Errorf("failed to emulate viewport %s: %w", vp.Name, err)
	}
	// allow layout to reflow before any capture
	return chromedp.Run(s.ctx, chromedp.Sleep(500*time.Millisecond))
}

// Click clicks the first visible element matching the selector
func (s *Session) Click(selector string) error {
	ctx, cancel := context.WithTimeout(s.ctx, 10*time.Second)
	defer cancel()
	if err := chromedp.Run(ctx, chromedp.Click(selector, chromedp.ByQuery, chromedp.NodeVisible)); err != nil {
		return fmt.Errorf("failed to click %s: %w", selector, err)
	}
	return nil
}

// Fill clears an input and types a value into it
func (s *Session) Fill(selector, value string) error {
	ctx, cancel := context.WithTimeout(s.ctx, 10*time.Second)
	defer cancel()
	err := chromedp.Run(ctx,
		chromedp.Clear(selector, chromedp.ByQuery),
		chromedp.SendKeys(selector, value, chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("failed to fill %s: %w", selector, err)
	}
	return nil
}

// Text returns the trimmed text content of the first matching element
func (s *Session) Text(selector string) (string, error) {
	ctx, cancel := context.WithTimeout(s.ctx, 10*time.Second)
	defer cancel()
	var text string
	if err := chromedp.Run(ctx, chromedp.Text(selector, &text, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("failed to read text of %s: %w", selector, err)
	}
	return strings.TrimSpace(text), nil
}

// HTML returns the full document markup
func (s *Session) HTML() (string, error) {
	var html string
	if err := chromedp.Run(s.ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("failed to capture document HTML: %w", err)
	}
	return html, nil
}

// Evaluate runs a JavaScript expression and unmarshals the result into out
func (s *Session) Evaluate(expression string, out interface{}) error {
	ctx, cancel := context.WithTimeout(s.ctx, 15*time.Second)
	defer cancel()
	if err := chromedp.Run(ctx, chromedp.Evaluate(expression, out)); err != nil {
		return fmt.Errorf("failed to evaluate expression: %w", err)
	}
	return nil
}

// Count returns how many elements match a CSS selector
func (s *Session) Count(selector string) (int, error) {
	var count int
	expr := fmt.Sprintf("document.querySelectorAll(%q).length", selector)
	if err := s.Evaluate(expr, &count); err != nil {
		return 0, err
	}
	return count, nil
}

// CurrentURL returns the tab's current location
func (s *Session) CurrentURL() (string, error) {
	var loc string
	if err := s.Evaluate("window.location.href", &loc); err != nil {
		return "", err
	}
	return loc, nil
}

// ConsoleMessages returns console output captured since the session started
func (s *Session) ConsoleMessages() []models.ConsoleMessage {
	return s.console.Messages()
}

// PageErrors returns uncaught exceptions captured since the session started
func (s *Session) PageErrors() []models.PageError {
	return s.console.Errors()
}

// ResetCapture discards captured console messages and page errors
func (s *Session) ResetCapture() {
	s.console.Reset()
}
