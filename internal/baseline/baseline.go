// Package baseline captures an ordered set of reference screenshots for
// a route and compares later runs against the stored baseline.
package baseline

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/specto/internal/browser"
	"github.com/ternarybob/specto/internal/common"
	"github.com/ternarybob/specto/internal/models"
)

// Capturer executes the baseline capture plan for one page
type Capturer struct {
	config common.BaselineConfig
	logger arbor.ILogger
}

func NewCapturer(cfg common.BaselineConfig) *Capturer {
	return &Capturer{
		config: cfg,
		logger: common.GetLogger().WithPrefix("baseline"),
	}
}

// Capture runs the plan: full page first, then any isolated elements the
// page spec names, then the viewport sweep. Screenshots are numbered in
// plan order.
func (c *Capturer) Capture(s *browser.Session, shots *browser.Screenshotter, spec models.PageSpec) ([]string, error) {
	if err := s.Navigate(spec.Route, spec.ReadySelector); err != nil {
		return nil, err
	}

	var captured []string

	path, err := shots.CaptureFullPage(s, "full_page_baseline")
	if err != nil {
		return nil, fmt.Errorf("full page capture failed: %w", err)
	}
	captured = append(captured, path)

	for _, selector := range spec.IsolateSelectors {
		path, err := shots.CaptureElement(s, selector, elementShotName(selector))
		if err != nil {
			c.logger.Warn().Str("selector", selector).Err(err).Msg("Element capture skipped")
			continue
		}
		captured = append(captured, path)
	}

	for _, vp := range c.config.Viewports {
		if err := s.SetViewport(vp); err != nil {
			return captured, err
		}
		path, err := shots.Capture(s, fmt.Sprintf("viewport_%s_%dx%d", vp.Name, vp.Width, vp.Height))
		if err != nil {
			return captured, fmt.Errorf("viewport capture failed at %s: %w", vp.Name, err)
		}
		captured = append(captured, path)
	}

	c.logger.Info().
		Str("route", spec.Route).
		Int("screenshots", len(captured)).
		Msg("Baseline captured")
	return captured, nil
}

func elementShotName(selector string) string {
	name := strings.NewReplacer(
		"[", "", "]", "", `"`, "", "=", "_", ".", "", "#", "", ">", "_",
	).Replace(selector)
	return "element_" + strings.TrimSpace(name)
}

// stem returns the screenshot name with its sequence prefix and
// extension stripped, so shots pair up across runs regardless of
// capture order.
func stem(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if len(base) > 3 && base[2] == '_' {
		return base[3:]
	}
	return base
}
