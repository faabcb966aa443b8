package interfaces

import (
	"context"
	"errors"

	"github.com/ternarybob/specto/internal/models"
)

// ErrRunNotFound is returned when a run record does not exist
var ErrRunNotFound = errors.New("run not found")

// ListRunOptions filters and bounds run listing
type ListRunOptions struct {
	Kind  models.RunKind // empty = all kinds
	Route string         // empty = all routes
	Limit int            // 0 = no limit
}

// RunStorage defines operations for persisted probe run records
type RunStorage interface {
	// SaveRun inserts or updates a run record
	SaveRun(ctx context.Context, run *models.RunRecord) error

	// GetRun retrieves a run record by ID
	GetRun(ctx context.Context, id string) (*models.RunRecord, error)

	// ListRuns returns run records ordered by start time DESC
	ListRuns(ctx context.Context, opts ListRunOptions) ([]models.RunRecord, error)

	// LatestBaseline returns the most recent baseline-capture run for a route,
	// or ErrRunNotFound when none exists
	LatestBaseline(ctx context.Context, route string) (*models.RunRecord, error)

	// DeleteRun removes a run record by ID
	DeleteRun(ctx context.Context, id string) error
}
