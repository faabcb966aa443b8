package runner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

var consoleSectionColor = color.New(color.Bold)                 //nolint:gochecknoglobals
var consolePassColor = color.New(color.FgGreen)                 //nolint:gochecknoglobals
var consoleFailColor = color.New(color.FgRed)                   //nolint:gochecknoglobals
var consoleWarnColor = color.New(color.FgYellow)                //nolint:gochecknoglobals
var consoleDetailColor = color.New(color.Faint)                 //nolint:gochecknoglobals
var consoleSkipColor = color.New(color.Faint, color.FgBlue)     //nolint:gochecknoglobals

// StepStatus is the console outcome of one probe step
type StepStatus string

const (
	StepPassed  StepStatus = "passed"
	StepFailed  StepStatus = "failed"
	StepSkipped StepStatus = "skipped"
)

// Step is one probe's console summary line
type Step struct {
	Name   string
	Status StepStatus
	Detail string
}

// Summary accumulates probe outcomes for the end-of-run report
type Summary struct {
	Steps  []Step
	Issues []string
}

// Add records a probe outcome
func (s *Summary) Add(name string, status StepStatus, detail string) {
	s.Steps = append(s.Steps, Step{Name: name, Status: status, Detail: detail})
}

// AddIssues appends findings to the summary
func (s *Summary) AddIssues(issues []string) {
	s.Issues = append(s.Issues, issues...)
}

// Failed reports whether any step failed
func (s *Summary) Failed() bool {
	for _, step := range s.Steps {
		if step.Status == StepFailed {
			return true
		}
	}
	return false
}

// ExitCode is the process exit contract: 0 clean, 1 issues found, 2
// probe failure.
func (s *Summary) ExitCode() int {
	if s.Failed() {
		return 2
	}
	if len(s.Issues) > 0 {
		return 1
	}
	return 0
}

// SectionStarted prints a probe section header
func SectionStarted(name string) {
	_, _ = consoleSectionColor.Printf("[%s]\n", name)
}

// Print renders the run summary to the console
func (s *Summary) Print(resultsDir string) {
	fmt.Println()
	_, _ = consoleSectionColor.Println("Run Summary")

	for _, step := range s.Steps {
		switch step.Status {
		case StepPassed:
			_, _ = consolePassColor.Printf("  PASS  %s", step.Name)
		case StepFailed:
			_, _ = consoleFailColor.Printf("  FAIL  %s", step.Name)
		case StepSkipped:
			_, _ = consoleSkipColor.Printf("  SKIP  %s", step.Name)
		}
		if step.Detail != "" {
			_, _ = consoleDetailColor.Printf("  (%s)", step.Detail)
		}
		fmt.Println()
	}

	if len(s.Issues) > 0 {
		fmt.Println()
		_, _ = consoleWarnColor.Fprintf(os.Stderr, "Issues (%d):\n", len(s.Issues))
		for _, issue := range s.Issues {
			_, _ = consoleWarnColor.Fprintf(os.Stderr, "  * %s\n", issue)
		}
	} else if !s.Failed() {
		_, _ = consolePassColor.Println("\nNo issues found")
	}

	if resultsDir != "" {
		fmt.Printf("\nResults: %s\n", resultsDir)
		s.writeLog(resultsDir)
	}
}

// writeLog leaves a plain-text copy of the summary in the run directory
func (s *Summary) writeLog(dir string) {
	var b strings.Builder
	for _, step := range s.Steps {
		fmt.Fprintf(&b, "%-7s %s", strings.ToUpper(string(step.Status)), step.Name)
		if step.Detail != "" {
			fmt.Fprintf(&b, " (%s)", step.Detail)
		}
		b.WriteString("\n")
	}
	for _, issue := range s.Issues {
		fmt.Fprintf(&b, "issue: %s\n", issue)
	}
	_ = os.WriteFile(filepath.Join(dir, "run.log"), []byte(b.String()), 0644)
}
