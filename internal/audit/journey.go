package audit

import (
	"fmt"
	"strings"

	"github.com/ternarybob/specto/internal/browser"
	"github.com/ternarybob/specto/internal/models"
)

type navLink struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}

const navLinksExpr = `(() => {
	const scope = document.querySelector('nav, [role="navigation"]') || document;
	return [...scope.querySelectorAll('a[href]')]
		.filter(a => a.offsetParent !== null)
		.map(a => ({ label: a.textContent.trim(), href: a.getAttribute('href') }))
		.filter(l => l.href && !l.href.startsWith('#') && !l.href.startsWith('mailto:'));
})()`

// walkJourney follows the first few navigation links, verifying each one
// actually changes the location, then returns to the starting route.
func walkJourney(s *browser.Session, shots *browser.Screenshotter, startRoute string, maxLinks int) (*models.JourneyResult, error) {
	var links []navLink
	if err := s.Evaluate(navLinksExpr, &links); err != nil {
		return nil, err
	}

	result := &models.JourneyResult{LinksFound: len(links)}
	if len(links) > maxLinks {
		links = links[:maxLinks]
	}

	for i, link := range links {
		step := models.JourneyStep{Label: link.Label, Href: link.Href}

		before, err := s.CurrentURL()
		if err != nil {
			return nil, err
		}

		if navErr := s.Navigate(link.Href, ""); navErr == nil {
			after, urlErr := s.CurrentURL()
			if urlErr == nil && after != before {
				step.Navigated = true
				result.Navigations++
				_, _ = shots.Capture(s, fmt.Sprintf("journey_%d_%s", i+1, journeyShotName(link)))
			}
		}

		result.Steps = append(result.Steps, step)

		if err := s.Navigate(startRoute, ""); err != nil {
			return result, fmt.Errorf("failed to return to %s after journey step: %w", startRoute, err)
		}
	}

	return result, nil
}

func journeyShotName(link navLink) string {
	if link.Label != "" {
		return link.Label
	}
	return strings.TrimPrefix(link.Href, "/")
}
