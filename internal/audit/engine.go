// Package audit runs the UX audit: performance timing, DOM structure
// census, interaction probes, accessibility assessment, navigation
// journey, and responsive sweep against a single dashboard page.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/time/rate"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/specto/internal/browser"
	"github.com/ternarybob/specto/internal/common"
	"github.com/ternarybob/specto/internal/features"
	"github.com/ternarybob/specto/internal/models"
)

const resultsFileName = "audit-results.json"

// Engine runs all enabled audit probes against one page
type Engine struct {
	session *browser.Session
	shots   *browser.Screenshotter
	config  common.AuditConfig
	baseCfg common.BaselineConfig
	flags   *features.Service
	limiter *rate.Limiter
	logger  arbor.ILogger
}

// NewEngine wires an audit engine to an open browser session
func NewEngine(session *browser.Session, shots *browser.Screenshotter, cfg common.AuditConfig, baseline common.BaselineConfig, flags *features.Service) *Engine {
	return &Engine{
		session: session,
		shots:   shots,
		config:  cfg,
		baseCfg: baseline,
		flags:   flags,
		limiter: rate.NewLimiter(rate.Every(cfg.InteractionDelay), 1),
		logger:  common.GetLogger().WithPrefix("audit"),
	}
}

// Run executes the audit against the page described by spec
func (e *Engine) Run(ctx context.Context, runID string, spec models.PageSpec) (*models.AuditReport, error) {
	started := time.Now()
	report := &models.AuditReport{
		RunID:     runID,
		TargetURL: e.session.URL(spec.Route),
		StartedAt: started,
	}

	e.session.ResetCapture()
	if err := e.session.Navigate(spec.Route, spec.ReadySelector); err != nil {
		return nil, err
	}
	if _, err := e.shots.CaptureFullPage(e.session, "full_page_baseline"); err != nil {
		e.logger.Warn().Err(err).Msg("Baseline screenshot failed")
	}

	perf, err := measurePerformance(e.session)
	if err != nil {
		return nil, fmt.Errorf("performance probe failed: %w", err)
	}
	report.Performance = perf
	e.logger.Info().
		Float64("total_load_ms", perf.TotalLoadMs).
		Str("grade", string(perf.Grade)).
		Msg("Performance measured")

	structure, err := censusStructure(e.session)
	if err != nil {
		return nil, fmt.Errorf("structure census failed: %w", err)
	}
	report.Structure = structure

	if e.flags.IsEnabled(ctx, "accessibility") {
		a11y, err := assessAccessibility(e.session)
		if err != nil {
			return nil, fmt.Errorf("accessibility probe failed: %w", err)
		}
		report.Accessibility = a11y
		e.logger.Info().Int("score", a11y.Score).Str("grade", a11y.Grade).Msg("Accessibility assessed")
	}

	if e.flags.IsEnabled(ctx, "interactions") {
		interactions, err := probeInteractions(ctx, e.session, e.shots, e.config, e.limiter)
		if err != nil {
			return nil, fmt.Errorf("interaction probe failed: %w", err)
		}
		report.Interactions = interactions
	}

	if e.flags.IsEnabled(ctx, "journey") {
		journey, err := walkJourney(e.session, e.shots, spec.Route, e.config.MaxNavLinks)
		if err != nil {
			e.logger.Warn().Err(err).Msg("Journey probe incomplete")
		}
		report.Journey = journey
	}

	if e.flags.IsEnabled(ctx, "responsive") {
		checks, err := sweepViewports(e.session, e.shots, e.baseCfg.Viewports)
		if err != nil {
			e.logger.Warn().Err(err).Msg("Responsive sweep incomplete")
		}
		report.Responsive = checks
	}

	if e.flags.IsEnabled(ctx, "console_capture") {
		report.ConsoleMessages = e.session.ConsoleMessages()
		report.PageErrors = e.session.PageErrors()
	}

	report.Duration = time.Since(started).Round(time.Millisecond).String()
	assembleFindings(report)
	return report, nil
}

// WriteResults saves the report as JSON into the run's results directory
func WriteResults(report *models.AuditReport, dir string) (string, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal audit results: %w", err)
	}
	path := filepath.Join(dir, resultsFileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write audit results: %w", err)
	}
	return path, nil
}

// assembleFindings derives issues and recommendations from probe results
func assembleFindings(report *models.AuditReport) {
	if perf := report.Performance; perf != nil {
		if perf.Grade == models.PerformanceNeedsImprovement {
			report.Issues = append(report.Issues,
				fmt.Sprintf("Slow page load: %.0fms", perf.TotalLoadMs))
			report.Recommendations = append(report.Recommendations,
				"Reduce initial bundle size or defer non-critical resources")
		}
	}

	if structure := report.Structure; structure != nil {
		if structure.HeadingsH1 == 0 {
			report.Issues = append(report.Issues, "Page has no h1 heading")
		}
		if structure.HeadingsH1 > 1 {
			report.Issues = append(report.Issues,
				fmt.Sprintf("Page has %d h1 headings, expected 1", structure.HeadingsH1))
		}
		if structure.NavElements == 0 {
			report.Issues = append(report.Issues, "No navigation landmark found")
			report.Recommendations = append(report.Recommendations,
				"Wrap primary navigation in a <nav> element")
		}
	}

	if a11y := report.Accessibility; a11y != nil {
		if a11y.Grade == "D" {
			report.Issues = append(report.Issues,
				fmt.Sprintf("Poor accessibility score: %d/100", a11y.Score))
		}
		if a11y.InputsTotal > 0 && a11y.InputsLabeled < a11y.InputsTotal {
			report.Issues = append(report.Issues,
				fmt.Sprintf("%d of %d form inputs are unlabeled",
					a11y.InputsTotal-a11y.InputsLabeled, a11y.InputsTotal))
			report.Recommendations = append(report.Recommendations,
				"Associate a label or aria-label with every form input")
		}
		if a11y.ImagesTotal > 0 && a11y.ImagesWithAlt < a11y.ImagesTotal {
			report.Recommendations = append(report.Recommendations,
				"Add alt text to all informative images")
		}
	}

	if interactions := report.Interactions; interactions != nil {
		for _, probe := range interactions.Probes {
			if !probe.Success && probe.Error != "" {
				report.Issues = append(report.Issues,
					fmt.Sprintf("Interaction failed (%s %d): %s", probe.Kind, probe.Index+1, probe.Error))
			}
		}
	}

	for _, check := range report.Responsive {
		if check.HorizontalScroll {
			report.Issues = append(report.Issues,
				fmt.Sprintf("Horizontal scroll at %s (%dx%d): content is %dpx wide",
					check.Name, check.Width, check.Height, check.ContentWidth))
		}
	}

	for _, pageErr := range report.PageErrors {
		report.Issues = append(report.Issues, fmt.Sprintf("Page error: %s", pageErr.Message))
	}
	for _, msg := range report.ConsoleMessages {
		if msg.Type == "error" {
			report.Issues = append(report.Issues, fmt.Sprintf("Console error: %s", msg.Text))
		}
	}
}
