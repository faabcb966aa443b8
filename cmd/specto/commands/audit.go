package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ternarybob/specto/internal/audit"
	"github.com/ternarybob/specto/internal/browser"
	"github.com/ternarybob/specto/internal/common"
	"github.com/ternarybob/specto/internal/models"
	"github.com/ternarybob/specto/internal/runner"
)

func auditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit [route]",
		Short: "Run the full UX audit against a dashboard page",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp()
			if err != nil {
				return err
			}
			defer app.Close()

			summary, err := runAudit(cmd.Context(), app, routeArg(args))
			if err != nil {
				return err
			}
			if code := summary.ExitCode(); code != 0 {
				os.Exit(code)
			}
			return nil
		},
	}
	return cmd
}

func runAudit(ctx context.Context, app *appContext, route string) (*runner.Summary, error) {
	spec, err := pageSpecFor(route)
	if err != nil {
		return nil, err
	}

	dir, err := runner.NewRunDir(cfg.Results.BaseDir, "audit")
	if err != nil {
		return nil, err
	}

	session, err := browser.NewSession(ctx, cfg.Browser, cfg.Target)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	shotsDir, err := dir.Sub("screenshots")
	if err != nil {
		return nil, err
	}
	shots, err := browser.NewScreenshotter(shotsDir)
	if err != nil {
		return nil, err
	}

	runID := common.NewRunID()
	run := &models.RunRecord{
		ID:        runID,
		Kind:      models.RunKindAudit,
		TargetURL: session.URL(spec.Route),
		Route:     spec.Route,
		StartedAt: time.Now(),
		ResultsDir: dir.Path,
	}

	summary := &runner.Summary{}
	runner.SectionStarted(fmt.Sprintf("audit %s", spec.Route))

	engine := audit.NewEngine(session, shots, cfg.Audit, cfg.Baseline, app.flags)
	report, err := engine.Run(ctx, runID, spec)
	if err != nil {
		summary.Add("audit", runner.StepFailed, err.Error())
		run.Status = models.RunStatusError
		run.CompletedAt = time.Now()
		run.Notes = err.Error()
		_ = app.runs.SaveRun(ctx, run)
		summary.Print(dir.Path)
		return summary, nil
	}

	if _, err := audit.WriteResults(report, dir.Path); err != nil {
		return nil, err
	}

	summary.Add("performance", runner.StepPassed, fmt.Sprintf("%.0fms %s", report.Performance.TotalLoadMs, report.Performance.Grade))
	summary.Add("structure", runner.StepPassed, "")
	addOptionalStep(summary, "accessibility", report.Accessibility != nil, func() string {
		return fmt.Sprintf("%d/100 %s", report.Accessibility.Score, report.Accessibility.Grade)
	})
	addOptionalStep(summary, "interactions", report.Interactions != nil, func() string {
		return fmt.Sprintf("%d clicks, %d fills", report.Interactions.SuccessfulClicks, report.Interactions.SuccessfulFills)
	})
	addOptionalStep(summary, "journey", report.Journey != nil, func() string {
		return fmt.Sprintf("%d/%d navigations", report.Journey.Navigations, len(report.Journey.Steps))
	})
	addOptionalStep(summary, "responsive", len(report.Responsive) > 0, func() string {
		return fmt.Sprintf("%d viewports", len(report.Responsive))
	})
	summary.AddIssues(report.Issues)

	run.CompletedAt = time.Now()
	run.Screenshots = shots.Paths()
	run.IssueCount = len(report.Issues)
	run.Status = models.RunStatusPassed
	if report.HasIssues() {
		run.Status = models.RunStatusFailed
	}
	if err := app.runs.SaveRun(ctx, run); err != nil {
		return nil, err
	}

	summary.Print(dir.Path)
	return summary, nil
}

func addOptionalStep(summary *runner.Summary, name string, ran bool, detail func() string) {
	if ran {
		summary.Add(name, runner.StepPassed, detail())
	} else {
		summary.Add(name, runner.StepSkipped, "flag disabled")
	}
}
