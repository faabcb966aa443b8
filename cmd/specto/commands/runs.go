package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ternarybob/specto/internal/interfaces"
	"github.com/ternarybob/specto/internal/models"
)

func runsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect recorded probe runs",
	}
	cmd.AddCommand(runsListCmd(), runsShowCmd(), runsDeleteCmd())
	return cmd
}

func runsListCmd() *cobra.Command {
	var kind string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp()
			if err != nil {
				return err
			}
			defer app.Close()

			runs, err := app.runs.ListRuns(cmd.Context(), interfaces.ListRunOptions{
				Kind:  models.RunKind(kind),
				Limit: limit,
			})
			if err != nil {
				return err
			}

			if len(runs) == 0 {
				fmt.Println("No runs recorded")
				return nil
			}

			fmt.Printf("%-42s %-11s %-24s %-8s %s\n", "RUN", "KIND", "ROUTE", "STATUS", "ISSUES")
			for _, run := range runs {
				fmt.Printf("%-42s %-11s %-24s %-8s %d\n",
					run.ID, run.Kind, run.Route, run.Status, run.IssueCount)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "filter by run kind (audit, baseline, headers, pagemap, allocation)")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum runs to list")
	return cmd
}

func runsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <run-id>",
		Short: "Delete a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp()
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.runs.DeleteRun(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted run %s\n", args[0])
			return nil
		},
	}
}

func runsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one run record as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp()
			if err != nil {
				return err
			}
			defer app.Close()

			run, err := app.runs.GetRun(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			data, err := json.MarshalIndent(run, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		},
	}
}
