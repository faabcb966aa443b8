package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ternarybob/specto/internal/models"
	"github.com/ternarybob/specto/internal/reporter"
)

func reportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "report <run-id>",
		Short: "Compile a recorded run into a PDF report",
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

			var report *models.AuditReport
			if run.ResultsDir != "" {
				if loaded, err := loadAuditResults(run.ResultsDir); err == nil {
					report = loaded
				}
			}

			if output == "" {
				output = filepath.Join(run.ResultsDir, "report.pdf")
				if run.ResultsDir == "" {
					output = fmt.Sprintf("%s.pdf", run.ID)
				}
			}

			pdf := reporter.NewPDFReporter()
			if err := pdf.WriteFile(run, report, output); err != nil {
				return err
			}

			fmt.Printf("Report written to %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output PDF path (default <results-dir>/report.pdf)")
	return cmd
}

func loadAuditResults(dir string) (*models.AuditReport, error) {
	data, err := os.ReadFile(filepath.Join(dir, "audit-results.json"))
	if err != nil {
		return nil, err
	}
	var report models.AuditReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, err
	}
	return &report, nil
}
