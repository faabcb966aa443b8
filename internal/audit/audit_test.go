package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/specto/internal/models"
)

func TestGradePerformance(t *testing.T) {
	assert.Equal(t, models.PerformanceExcellent, gradePerformance(0))
	assert.Equal(t, models.PerformanceExcellent, gradePerformance(1999))
	assert.Equal(t, models.PerformanceGood, gradePerformance(2000))
	assert.Equal(t, models.PerformanceGood, gradePerformance(3999))
	assert.Equal(t, models.PerformanceNeedsImprovement, gradePerformance(4000))
	assert.Equal(t, models.PerformanceNeedsImprovement, gradePerformance(12000))
}

func TestScoreAccessibility_Perfect(t *testing.T) {
	snap := models.AccessibilitySnapshot{
		ImagesTotal:       4,
		ImagesWithAlt:     4,
		InputsTotal:       3,
		InputsLabeled:     3,
		HeadingsTotal:     5,
		HeadingIssues:     0,
		Landmarks:         4,
		FocusableElements: 20,
	}

	assert.Equal(t, 100, scoreAccessibility(snap))
	assert.Equal(t, "A", accessibilityGrade(scoreAccessibility(snap)))
}

func TestScoreAccessibility_NoImagesOrInputs(t *testing.T) {
	// pages without images or inputs get full credit for both categories
	snap := models.AccessibilitySnapshot{
		HeadingsTotal:     1,
		Landmarks:         2,
		FocusableElements: 5,
	}

	// 20 (images) + 30 (inputs) + 10 (landmarks) + 20 (headings) + 10 (focus)
	assert.Equal(t, 90, scoreAccessibility(snap))
}

func TestScoreAccessibility_NoHeadings(t *testing.T) {
	// heading hierarchy points require at least one heading
	snap := models.AccessibilitySnapshot{
		Landmarks:         2,
		FocusableElements: 5,
	}

	// 20 (images) + 30 (inputs) + 10 (landmarks) + 0 (headings) + 10 (focus)
	assert.Equal(t, 70, scoreAccessibility(snap))
}

func TestScoreAccessibility_Penalties(t *testing.T) {
	snap := models.AccessibilitySnapshot{
		ImagesTotal:       10,
		ImagesWithAlt:     5, // 10 of 20 points
		InputsTotal:       4,
		InputsLabeled:     1, // 7 of 30 points
		HeadingsTotal:     4,
		HeadingIssues:     2, // 10 of 20 points
		Landmarks:         1, // 5 of 20 points
		FocusableElements: 0, // 0 of 10 points
	}

	assert.Equal(t, 32, scoreAccessibility(snap))
	assert.Equal(t, "D", accessibilityGrade(32))
}

func TestScoreAccessibility_LandmarksCapped(t *testing.T) {
	snap := models.AccessibilitySnapshot{HeadingsTotal: 2, Landmarks: 10, FocusableElements: 1}
	// 20 + 30 + 20 (capped) + 20 + 10
	assert.Equal(t, 100, scoreAccessibility(snap))
}

func TestAccessibilityGrades(t *testing.T) {
	assert.Equal(t, "A", accessibilityGrade(90))
	assert.Equal(t, "B", accessibilityGrade(89))
	assert.Equal(t, "B", accessibilityGrade(80))
	assert.Equal(t, "C", accessibilityGrade(79))
	assert.Equal(t, "C", accessibilityGrade(70))
	assert.Equal(t, "D", accessibilityGrade(69))
}

func TestAssembleFindings(t *testing.T) {
	report := &models.AuditReport{
		Performance: &models.PerformanceResult{
			TotalLoadMs: 6500,
			Grade:       models.PerformanceNeedsImprovement,
		},
		Structure: &models.StructureResult{
			HeadingsH1:  0,
			NavElements: 0,
		},
		Accessibility: &models.AccessibilityResult{
			AccessibilitySnapshot: models.AccessibilitySnapshot{
				InputsTotal:   5,
				InputsLabeled: 2,
			},
			Score: 55,
			Grade: "D",
		},
		Responsive: []models.ViewportCheck{
			{Name: "mobile", Width: 375, Height: 667, ContentWidth: 812, HorizontalScroll: true},
		},
		PageErrors: []models.PageError{
			{Message: "TypeError: x is undefined"},
		},
		ConsoleMessages: []models.ConsoleMessage{
			{Type: "error", Text: "Failed to fetch"},
			{Type: "log", Text: "ready"},
		},
	}

	assembleFindings(report)

	assert.True(t, report.HasIssues())
	assert.Contains(t, report.Issues, "Slow page load: 6500ms")
	assert.Contains(t, report.Issues, "Page has no h1 heading")
	assert.Contains(t, report.Issues, "No navigation landmark found")
	assert.Contains(t, report.Issues, "Poor accessibility score: 55/100")
	assert.Contains(t, report.Issues, "3 of 5 form inputs are unlabeled")
	assert.Contains(t, report.Issues, "Horizontal scroll at mobile (375x667): content is 812px wide")
	assert.Contains(t, report.Issues, "Page error: TypeError: x is undefined")
	assert.Contains(t, report.Issues, "Console error: Failed to fetch")

	// only the error-level console message becomes an issue
	for _, issue := range report.Issues {
		assert.NotContains(t, issue, "ready")
	}
	assert.NotEmpty(t, report.Recommendations)
}

func TestAssembleFindings_CleanReport(t *testing.T) {
	report := &models.AuditReport{
		Performance: &models.PerformanceResult{TotalLoadMs: 850, Grade: models.PerformanceExcellent},
		Structure:   &models.StructureResult{HeadingsH1: 1, NavElements: 1},
	}

	assembleFindings(report)

	assert.False(t, report.HasIssues())
	assert.Empty(t, report.Recommendations)
}

func TestWriteResults(t *testing.T) {
	dir := t.TempDir()
	report := &models.AuditReport{
		RunID:     "run_test",
		TargetURL: "http://localhost:3000/history",
		StartedAt: time.Now(),
		Duration:  "2.5s",
	}

	path, err := WriteResults(report, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "audit-results.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var loaded models.AuditReport
	require.NoError(t, json.Unmarshal(data, &loaded))
	assert.Equal(t, "run_test", loaded.RunID)
}

func TestInteractionExpressionsShareButtonList(t *testing.T) {
	// label collection and click dispatch must index the same filtered
	// element list, or a click can land on a different button than the
	// one the label describes
	assert.Contains(t, interactableButtonsExpr(5), interactableButtonsJS)
	assert.Contains(t, clickButtonExpr(2), interactableButtonsJS)
	assert.Contains(t, clickButtonExpr(2), "[2]")
	assert.NotContains(t, clickButtonExpr(2), "nth-of-type")
}

func TestFillInputExprQuotesValue(t *testing.T) {
	expr := fillInputExpr(1, `say "hi"`)
	assert.Contains(t, expr, "[1]")
	assert.Contains(t, expr, `"say \"hi\""`)
	assert.NotContains(t, expr, "nth-of-type")
}
