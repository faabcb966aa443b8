package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ternarybob/specto/internal/browser"
	"github.com/ternarybob/specto/internal/common"
	"github.com/ternarybob/specto/internal/history"
	"github.com/ternarybob/specto/internal/models"
	"github.com/ternarybob/specto/internal/runner"
)

func headersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "headers [route]",
		Short: "Verify the processing history table headers",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp()
			if err != nil {
				return err
			}
			defer app.Close()

			ctx := cmd.Context()
			route := "/history"
			if len(args) > 0 {
				route = args[0]
			}
			spec, err := pageSpecFor(route)
			if err != nil {
				return err
			}

			session, err := browser.NewSession(ctx, cfg.Browser, cfg.Target)
			if err != nil {
				return err
			}
			defer session.Close()

			runner.SectionStarted(fmt.Sprintf("headers %s", spec.Route))
			verifier := history.NewVerifier()
			result, err := verifier.VerifyPage(session, spec)
			if err != nil {
				return err
			}

			summary := &runner.Summary{}
			if result.Passed {
				summary.Add("headers", runner.StepPassed,
					fmt.Sprintf("%d headers in order", len(result.ActualHeaders)))
			} else {
				summary.Add("headers", runner.StepPassed, "verification complete")
				summary.AddIssues(result.Issues())
			}

			if html, htmlErr := session.HTML(); htmlErr == nil {
				if decks, rowErr := history.ParseRows(html); rowErr == nil {
					summary.Add("rows", runner.StepPassed, fmt.Sprintf("%d decks listed", len(decks)))
				}
			}

			status := models.RunStatusPassed
			if !result.Passed {
				status = models.RunStatusFailed
			}
			run := &models.RunRecord{
				ID:          common.NewRunID(),
				Kind:        models.RunKindHeaders,
				TargetURL:   session.URL(spec.Route),
				Route:       spec.Route,
				StartedAt:   time.Now(),
				CompletedAt: time.Now(),
				Status:      status,
				IssueCount:  len(result.Issues()),
			}
			if err := app.runs.SaveRun(ctx, run); err != nil {
				return err
			}

			summary.Print("")
			if code := summary.ExitCode(); code != 0 {
				os.Exit(code)
			}
			return nil
		},
	}
	return cmd
}
