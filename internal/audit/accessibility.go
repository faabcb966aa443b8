package audit

import (
	"github.com/ternarybob/specto/internal/browser"
	"github.com/ternarybob/specto/internal/models"
)

// accessibilityExpr collects the raw counts the score is computed from.
// Inputs count as labeled when they have an associated <label>, an
// aria-label, or an aria-labelledby reference.
const accessibilityExpr = `(() => {
	const images = [...document.querySelectorAll('img')];
	const withAlt = images.filter(img => img.hasAttribute('alt') && img.getAttribute('alt').trim() !== '');

	const inputs = [...document.querySelectorAll('input:not([type="hidden"]), textarea, select')];
	const labeled = inputs.filter(el => {
		if (el.getAttribute('aria-label') || el.getAttribute('aria-labelledby')) return true;
		if (el.id && document.querySelector('label[for="' + CSS.escape(el.id) + '"]')) return true;
		return el.closest('label') !== null;
	});

	const headings = [...document.querySelectorAll('h1, h2, h3, h4, h5, h6')];
	let hierarchyIssues = 0;
	let previous = 0;
	for (const heading of headings) {
		const level = parseInt(heading.tagName[1], 10);
		if (previous > 0 && level > previous + 1) hierarchyIssues++;
		previous = level;
	}

	const landmarks = document.querySelectorAll(
		'main, nav, header, footer, aside, [role="main"], [role="navigation"], ' +
		'[role="banner"], [role="contentinfo"], [role="complementary"], [role="search"]'
	).length;

	const focusable = document.querySelectorAll(
		'a[href], button:not([disabled]), input:not([disabled]), select:not([disabled]), ' +
		'textarea:not([disabled]), [tabindex]:not([tabindex="-1"])'
	).length;

	const skipLinks = [...document.querySelectorAll('a[href^="#"]')]
		.filter(a => /skip/i.test(a.textContent)).length;

	return {
		images_total: images.length,
		images_with_alt: withAlt.length,
		inputs_total: inputs.length,
		inputs_labeled: labeled.length,
		headings_total: headings.length,
		heading_hierarchy_issues: hierarchyIssues,
		landmarks: landmarks,
		focusable_elements: focusable,
		skip_links: skipLinks,
	};
})()`

func assessAccessibility(s *browser.Session) (*models.AccessibilityResult, error) {
	var snapshot models.AccessibilitySnapshot
	if err := s.Evaluate(accessibilityExpr, &snapshot); err != nil {
		return nil, err
	}

	result := &models.AccessibilityResult{AccessibilitySnapshot: snapshot}
	result.Score = scoreAccessibility(snapshot)
	result.Grade = accessibilityGrade(result.Score)
	return result, nil
}

// scoreAccessibility converts raw counts into a 0-100 score.
// Weights: alt text 20, form labels 30, landmarks 20 (5 each, capped),
// heading hierarchy 20 (minus 5 per issue), keyboard focusability 10.
func scoreAccessibility(snap models.AccessibilitySnapshot) int {
	score := 0

	if snap.ImagesTotal == 0 {
		score += 20
	} else {
		score += int(20 * float64(snap.ImagesWithAlt) / float64(snap.ImagesTotal))
	}

	if snap.InputsTotal == 0 {
		score += 30
	} else {
		score += int(30 * float64(snap.InputsLabeled) / float64(snap.InputsTotal))
	}

	landmarkPoints := snap.Landmarks * 5
	if landmarkPoints > 20 {
		landmarkPoints = 20
	}
	score += landmarkPoints

	// a page with no headings earns no hierarchy points
	if snap.HeadingsTotal > 0 {
		headingPoints := 20 - snap.HeadingIssues*5
		if headingPoints < 0 {
			headingPoints = 0
		}
		score += headingPoints
	}

	if snap.FocusableElements > 0 {
		score += 10
	}

	if score > 100 {
		score = 100
	}
	return score
}

func accessibilityGrade(score int) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	default:
		return "D"
	}
}
