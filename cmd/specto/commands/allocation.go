package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ternarybob/specto/internal/allocation"
	"github.com/ternarybob/specto/internal/browser"
	"github.com/ternarybob/specto/internal/common"
	"github.com/ternarybob/specto/internal/models"
	"github.com/ternarybob/specto/internal/runner"
)

func allocationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "allocation <collection-id>",
		Short: "Probe a collection's manage page for site allocation overrides",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp()
			if err != nil {
				return err
			}
			defer app.Close()

			ctx := cmd.Context()
			collectionID := args[0]

			session, err := browser.NewSession(ctx, cfg.Browser, cfg.Target)
			if err != nil {
				return err
			}
			defer session.Close()

			runner.SectionStarted(fmt.Sprintf("allocation %s", collectionID))
			prober := allocation.NewProber()
			result, err := prober.Probe(session, collectionID)
			if err != nil {
				return err
			}

			summary := &runner.Summary{}
			detail := "allocations match recommendation"
			if result.OverrideDetected {
				detail = result.Description
			}
			summary.Add("override-detection", runner.StepPassed, detail)
			if result.OverrideDetected {
				if result.DialogEnforced {
					summary.Add("justification-dialog", runner.StepPassed, "enforced on save")
				} else {
					summary.Add("justification-dialog", runner.StepPassed, "not enforced")
				}
			} else {
				summary.Add("justification-dialog", runner.StepSkipped, "no override present")
			}
			summary.AddIssues(result.Issues)

			status := models.RunStatusPassed
			if !result.Passed() {
				status = models.RunStatusFailed
			}
			run := &models.RunRecord{
				ID:          common.NewRunID(),
				Kind:        models.RunKindAllocation,
				TargetURL:   session.URL(fmt.Sprintf("/collection/%s/manage", collectionID)),
				Route:       fmt.Sprintf("/collection/%s/manage", collectionID),
				StartedAt:   time.Now(),
				CompletedAt: time.Now(),
				Status:      status,
				IssueCount:  len(result.Issues),
				Notes:       result.Description,
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
