package models

import "time"

// RunKind identifies which probe family produced a run record.
type RunKind string

const (
	RunKindAudit      RunKind = "audit"
	RunKindBaseline   RunKind = "baseline"
	RunKindHeaders    RunKind = "headers"
	RunKindPagemap    RunKind = "pagemap"
	RunKindAllocation RunKind = "allocation"
)

// RunStatus is the terminal state of a run.
type RunStatus string

const (
	RunStatusPassed RunStatus = "passed"
	RunStatusFailed RunStatus = "failed"
	RunStatusError  RunStatus = "error"
)

// RunRecord is the persisted summary of a single probe run.
// Full artifacts (screenshots, JSON reports) live in ResultsDir;
// the record carries enough to list and compare runs.
type RunRecord struct {
	ID          string    `json:"id" badgerhold:"key"`
	Kind        RunKind   `json:"kind" badgerholdIndex:"Kind"`
	TargetURL   string    `json:"target_url"`
	Route       string    `json:"route"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
	Status      RunStatus `json:"status"`
	ResultsDir  string    `json:"results_dir"`
	Screenshots []string  `json:"screenshots,omitempty"`
	IssueCount  int       `json:"issue_count"`
	Baseline    bool      `json:"baseline"` // marks a baseline-capture run others compare against
	Notes       string    `json:"notes,omitempty"`
}
