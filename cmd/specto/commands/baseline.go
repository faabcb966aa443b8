package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ternarybob/specto/internal/baseline"
	"github.com/ternarybob/specto/internal/browser"
	"github.com/ternarybob/specto/internal/common"
	"github.com/ternarybob/specto/internal/models"
	"github.com/ternarybob/specto/internal/runner"
)

func baselineCmd() *cobra.Command {
	var compare bool

	cmd := &cobra.Command{
		Use:   "baseline [route]",
		Short: "Capture reference screenshots for a page, or compare against the stored baseline",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp()
			if err != nil {
				return err
			}
			defer app.Close()

			ctx := cmd.Context()
			spec, err := pageSpecFor(routeArg(args))
			if err != nil {
				return err
			}

			dir, err := runner.NewRunDir(cfg.Results.BaseDir, "baseline")
			if err != nil {
				return err
			}

			session, err := browser.NewSession(ctx, cfg.Browser, cfg.Target)
			if err != nil {
				return err
			}
			defer session.Close()

			shots, err := browser.NewScreenshotter(dir.Path)
			if err != nil {
				return err
			}

			runner.SectionStarted(fmt.Sprintf("baseline %s", spec.Route))
			capturer := baseline.NewCapturer(cfg.Baseline)
			captured, err := capturer.Capture(session, shots, spec)
			if err != nil {
				return err
			}

			run := &models.RunRecord{
				ID:          common.NewRunID(),
				Kind:        models.RunKindBaseline,
				TargetURL:   session.URL(spec.Route),
				Route:       spec.Route,
				StartedAt:   time.Now(),
				CompletedAt: time.Now(),
				Status:      models.RunStatusPassed,
				ResultsDir:  dir.Path,
				Screenshots: captured,
				Baseline:    !compare,
			}

			summary := &runner.Summary{}
			summary.Add("capture", runner.StepPassed, fmt.Sprintf("%d screenshots", len(captured)))

			if compare {
				stored, err := app.runs.LatestBaseline(ctx, spec.Route)
				if err != nil {
					return fmt.Errorf("no stored baseline for %s: %w", spec.Route, err)
				}

				comparison, err := baseline.Compare(stored.Screenshots, captured)
				if err != nil {
					return err
				}

				if comparison.Clean() {
					summary.Add("compare", runner.StepPassed,
						fmt.Sprintf("matches %s", stored.ID))
				} else {
					summary.Add("compare", runner.StepPassed,
						fmt.Sprintf("%d changed, %d missing", comparison.ChangedNum, comparison.MissingNum))
					for _, shot := range comparison.Shots {
						if shot.Missing {
							summary.AddIssues([]string{fmt.Sprintf("screenshot %s missing from current run", shot.Name)})
						} else if shot.Changed {
							summary.AddIssues([]string{fmt.Sprintf("screenshot %s changed (size delta %.1f%%)", shot.Name, shot.SizeDeltaPct)})
						}
					}
					run.Status = models.RunStatusFailed
					run.IssueCount = len(summary.Issues)
				}
			}

			if err := app.runs.SaveRun(ctx, run); err != nil {
				return err
			}

			summary.Print(dir.Path)
			if code := summary.ExitCode(); code != 0 {
				os.Exit(code)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&compare, "compare", false, "compare against the latest stored baseline instead of recording a new one")
	return cmd
}
