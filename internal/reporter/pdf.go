// Package reporter renders a completed run as a PDF document: cover page
// with run metadata, findings, and one page per captured screenshot.
package reporter

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/specto/internal/common"
	"github.com/ternarybob/specto/internal/models"
)

// PDFReporter compiles run artifacts into a PDF
type PDFReporter struct {
	logger arbor.ILogger
}

func NewPDFReporter() *PDFReporter {
	return &PDFReporter{logger: common.GetLogger().WithPrefix("reporter")}
}

// Compile builds the report PDF and returns its bytes
func (r *PDFReporter) Compile(run *models.RunRecord, report *models.AuditReport) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)

	r.coverPage(pdf, run, report)
	if report != nil {
		r.findingsPage(pdf, report)
	}
	r.screenshotPages(pdf, run.Screenshots)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}

	r.logger.Info().
		Str("run_id", run.ID).
		Int("bytes", buf.Len()).
		Msg("PDF report compiled")
	return buf.Bytes(), nil
}

// WriteFile compiles the report and writes it alongside the run results
func (r *PDFReporter) WriteFile(run *models.RunRecord, report *models.AuditReport, path string) error {
	data, err := r.Compile(run, report)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write PDF report %s: %w", path, err)
	}
	return nil
}

func (r *PDFReporter) coverPage(pdf *fpdf.Fpdf, run *models.RunRecord, report *models.AuditReport) {
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 22)
	pdf.CellFormat(0, 14, "Dashboard Audit Report", "", 1, "C", false, 0, "")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 11)
	rows := [][2]string{
		{"Run ID", run.ID},
		{"Kind", string(run.Kind)},
		{"Target", run.TargetURL},
		{"Route", run.Route},
		{"Started", run.StartedAt.Format("2006-01-02 15:04:05")},
		{"Status", string(run.Status)},
	}
	if report != nil {
		rows = append(rows, [2]string{"Duration", report.Duration})
		if report.Accessibility != nil {
			rows = append(rows, [2]string{"Accessibility",
				fmt.Sprintf("%d/100 (%s)", report.Accessibility.Score, report.Accessibility.Grade)})
		}
		if report.Performance != nil {
			rows = append(rows, [2]string{"Performance",
				fmt.Sprintf("%.0fms (%s)", report.Performance.TotalLoadMs, report.Performance.Grade)})
		}
	}

	for _, row := range rows {
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(40, 8, row[0], "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 11)
		pdf.CellFormat(0, 8, row[1], "", 1, "L", false, 0, "")
	}
}

func (r *PDFReporter) findingsPage(pdf *fpdf.Fpdf, report *models.AuditReport) {
	if len(report.Issues) == 0 && len(report.Recommendations) == 0 {
		return
	}
	pdf.AddPage()

	if len(report.Issues) > 0 {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, fmt.Sprintf("Issues (%d)", len(report.Issues)), "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		for _, issue := range report.Issues {
			pdf.MultiCell(0, 6, "- "+issue, "", "L", false)
		}
		pdf.Ln(6)
	}

	if len(report.Recommendations) > 0 {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, "Recommendations", "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		for _, rec := range report.Recommendations {
			pdf.MultiCell(0, 6, "- "+rec, "", "L", false)
		}
	}
}

func (r *PDFReporter) screenshotPages(pdf *fpdf.Fpdf, screenshots []string) {
	for _, shot := range screenshots {
		if _, err := os.Stat(shot); err != nil {
			r.logger.Warn().Str("path", shot).Msg("Screenshot missing, skipped in report")
			continue
		}

		pdf.AddPage()
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(0, 8, filepath.Base(shot), "", 1, "L", false, 0, "")

		opts := fpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
		// fit to page width, preserve aspect ratio via zero height
		pdf.ImageOptions(shot, 15, pdf.GetY()+2, 180, 0, false, opts, 0, "")
	}
}
