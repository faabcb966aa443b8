package audit

import (
	"github.com/ternarybob/specto/internal/browser"
	"github.com/ternarybob/specto/internal/models"
)

// performanceExpr pulls navigation and paint timing out of the page.
const performanceExpr = `(() => {
	const nav = performance.getEntriesByType('navigation')[0];
	const paints = performance.getEntriesByType('paint');
	const paint = name => {
		const entry = paints.find(p => p.name === name);
		return entry ? entry.startTime : 0;
	};
	if (!nav) {
		return { total_load_ms: 0, page_load_ms: 0, dom_ready_ms: 0,
			first_paint_ms: 0, first_contentful_paint_ms: 0, resource_count: 0 };
	}
	return {
		total_load_ms: nav.duration,
		page_load_ms: nav.loadEventEnd - nav.startTime,
		dom_ready_ms: nav.domContentLoadedEventEnd - nav.startTime,
		first_paint_ms: paint('first-paint'),
		first_contentful_paint_ms: paint('first-contentful-paint'),
		resource_count: performance.getEntriesByType('resource').length,
	};
})()`

// Load time thresholds in milliseconds for the performance grade.
const (
	performanceExcellentMs = 2000
	performanceGoodMs      = 4000
)

func measurePerformance(s *browser.Session) (*models.PerformanceResult, error) {
	var result models.PerformanceResult
	if err := s.Evaluate(performanceExpr, &result); err != nil {
		return nil, err
	}
	result.Grade = gradePerformance(result.TotalLoadMs)
	return &result, nil
}

func gradePerformance(totalLoadMs float64) models.PerformanceGrade {
	switch {
	case totalLoadMs < performanceExcellentMs:
		return models.PerformanceExcellent
	case totalLoadMs < performanceGoodMs:
		return models.PerformanceGood
	default:
		return models.PerformanceNeedsImprovement
	}
}
