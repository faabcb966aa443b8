package audit

import (
	"fmt"

	"github.com/ternarybob/specto/internal/browser"
	"github.com/ternarybob/specto/internal/common"
	"github.com/ternarybob/specto/internal/models"
)

// sweepViewports renders the page at each configured viewport and flags
// layouts that force horizontal scrolling.
func sweepViewports(s *browser.Session, shots *browser.Screenshotter, viewports []common.ViewportConfig) ([]models.ViewportCheck, error) {
	var checks []models.ViewportCheck

	for _, vp := range viewports {
		if err := s.SetViewport(vp); err != nil {
			return checks, err
		}

		check := models.ViewportCheck{
			Name:   vp.Name,
			Width:  vp.Width,
			Height: vp.Height,
		}

		var contentWidth int64
		if err := s.Evaluate("document.documentElement.scrollWidth", &contentWidth); err != nil {
			return checks, err
		}
		check.ContentWidth = contentWidth
		check.HorizontalScroll = contentWidth > vp.Width

		shot, err := shots.Capture(s, fmt.Sprintf("viewport_%s_%dx%d", vp.Name, vp.Width, vp.Height))
		if err == nil {
			check.Screenshot = shot
		}

		checks = append(checks, check)
	}

	return checks, nil
}
