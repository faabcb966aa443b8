package models

import "time"

// PerformanceGrade buckets page load time the way the UX audit reports it.
type PerformanceGrade string

const (
	PerformanceExcellent        PerformanceGrade = "excellent"
	PerformanceGood             PerformanceGrade = "good"
	PerformanceNeedsImprovement PerformanceGrade = "needs-improvement"
)

// PerformanceResult holds navigation timing metrics captured from the page.
type PerformanceResult struct {
	TotalLoadMs          float64          `json:"total_load_ms"`
	PageLoadMs           float64          `json:"page_load_ms"`
	DOMReadyMs           float64          `json:"dom_ready_ms"`
	FirstPaintMs         float64          `json:"first_paint_ms"`
	FirstContentfulMs    float64          `json:"first_contentful_paint_ms"`
	ResourceCount        int              `json:"resource_count"`
	Grade                PerformanceGrade `json:"grade"`
}

// StructureResult is a census of the page's DOM grouped by concern.
type StructureResult struct {
	NavElements     int `json:"nav_elements"`
	MenuItems       int `json:"menu_items"`
	Breadcrumbs     int `json:"breadcrumbs"`
	HeadingsH1      int `json:"headings_h1"`
	HeadingsH2      int `json:"headings_h2"`
	HeadingsH3      int `json:"headings_h3"`
	HeadingsTotal   int `json:"headings_total"`
	Cards           int `json:"cards"`
	Tables          int `json:"tables"`
	Lists           int `json:"lists"`
	Buttons         int `json:"buttons"`
	Inputs          int `json:"inputs"`
	Links           int `json:"links"`
	Forms           int `json:"forms"`
	BlueprintWidgets int `json:"blueprint_widgets"`
	BlueprintIcons   int `json:"blueprint_icons"`
	BlueprintDialogs int `json:"blueprint_dialogs"`
}

// InteractionProbe records a single button click or input fill attempt.
type InteractionProbe struct {
	Index   int    `json:"index"`
	Kind    string `json:"kind"` // "button" or "input"
	Label   string `json:"label,omitempty"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// InteractionResult summarizes interaction probing for a page.
type InteractionResult struct {
	ButtonsFound     int                `json:"buttons_found"`
	InputsFound      int                `json:"inputs_found"`
	SuccessfulClicks int                `json:"successful_clicks"`
	SuccessfulFills  int                `json:"successful_fills"`
	Probes           []InteractionProbe `json:"probes"`
}

// AccessibilitySnapshot holds the raw counts the accessibility score is
// computed from.
type AccessibilitySnapshot struct {
	ImagesTotal        int `json:"images_total"`
	ImagesWithAlt      int `json:"images_with_alt"`
	InputsTotal        int `json:"inputs_total"`
	InputsLabeled      int `json:"inputs_labeled"`
	HeadingsTotal      int `json:"headings_total"`
	HeadingIssues      int `json:"heading_hierarchy_issues"`
	Landmarks          int `json:"landmarks"`
	FocusableElements  int `json:"focusable_elements"`
	SkipLinks          int `json:"skip_links"`
}

// AccessibilityResult is the scored accessibility assessment.
type AccessibilityResult struct {
	AccessibilitySnapshot
	Score int    `json:"score"` // 0-100
	Grade string `json:"grade"` // A-D
}

// JourneyStep records one navigation link that was followed.
type JourneyStep struct {
	Label     string `json:"label"`
	Href      string `json:"href"`
	Navigated bool   `json:"navigated"`
}

// JourneyResult summarizes the navigation flow assessment.
type JourneyResult struct {
	LinksFound  int           `json:"links_found"`
	Steps       []JourneyStep `json:"steps"`
	Navigations int           `json:"successful_navigations"`
}

// ViewportCheck is the layout result for one emulated viewport.
type ViewportCheck struct {
	Name             string `json:"name"`
	Width            int64  `json:"width"`
	Height           int64  `json:"height"`
	ContentWidth     int64  `json:"content_width"`
	HorizontalScroll bool   `json:"horizontal_scroll"`
	Screenshot       string `json:"screenshot,omitempty"`
}

// ConsoleMessage is a browser console entry captured during a run.
type ConsoleMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// PageError is an uncaught exception captured from the page.
type PageError struct {
	Message string `json:"message"`
	Stack   string `json:"stack,omitempty"`
}

// AuditReport aggregates all probe results for a single audit run.
type AuditReport struct {
	RunID     string    `json:"run_id"`
	TargetURL string    `json:"target_url"`
	StartedAt time.Time `json:"started_at"`
	Duration  string    `json:"duration"`

	Performance   *PerformanceResult   `json:"performance,omitempty"`
	Structure     *StructureResult     `json:"structure,omitempty"`
	Interactions  *InteractionResult   `json:"interactions,omitempty"`
	Accessibility *AccessibilityResult `json:"accessibility,omitempty"`
	Journey       *JourneyResult       `json:"journey,omitempty"`
	Responsive    []ViewportCheck      `json:"responsive,omitempty"`

	ConsoleMessages []ConsoleMessage `json:"console_messages"`
	PageErrors      []PageError      `json:"page_errors"`

	Issues          []string `json:"issues"`
	Recommendations []string `json:"recommendations"`
}

// HasIssues reports whether the audit surfaced any issues.
func (r *AuditReport) HasIssues() bool {
	return len(r.Issues) > 0
}
