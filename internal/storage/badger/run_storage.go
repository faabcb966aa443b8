package badger

import (
	"context"
	"fmt"

	"github.com/timshannon/badgerhold/v4"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/specto/internal/common"
	"github.com/ternarybob/specto/internal/interfaces"
	"github.com/ternarybob/specto/internal/models"
)

// runStorage persists probe run records
type runStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewRunStorage creates a badger-backed run record storage service
func NewRunStorage(db *BadgerDB) interfaces.RunStorage {
	return &runStorage{
		db:     db,
		logger: common.GetLogger().WithPrefix("run-storage"),
	}
}

func (s *runStorage) SaveRun(ctx context.Context, run *models.RunRecord) error {
	if run.ID == "" {
		return fmt.Errorf("run ID cannot be empty")
	}

	if err := s.db.Store().Upsert(run.ID, run); err != nil {
		return fmt.Errorf("failed to save run %s: %w", run.ID, err)
	}

	s.logger.Debug().
		Str("run_id", run.ID).
		Str("kind", string(run.Kind)).
		Msg("Run record saved")
	return nil
}

func (s *runStorage) GetRun(ctx context.Context, id string) (*models.RunRecord, error) {
	var run models.RunRecord
	err := s.db.Store().Get(id, &run)
	if err == badgerhold.ErrNotFound {
		return nil, interfaces.ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run %s: %w", id, err)
	}
	return &run, nil
}

func (s *runStorage) ListRuns(ctx context.Context, opts interfaces.ListRunOptions) ([]models.RunRecord, error) {
	var query *badgerhold.Query
	switch {
	case opts.Kind != "" && opts.Route != "":
		query = badgerhold.Where("Kind").Eq(opts.Kind).And("Route").Eq(opts.Route)
	case opts.Kind != "":
		query = badgerhold.Where("Kind").Eq(opts.Kind)
	case opts.Route != "":
		query = badgerhold.Where("Route").Eq(opts.Route)
	default:
		query = &badgerhold.Query{}
	}

	query = query.SortBy("StartedAt").Reverse()
	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}

	var runs []models.RunRecord
	if err := s.db.Store().Find(&runs, query); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}

func (s *runStorage) LatestBaseline(ctx context.Context, route string) (*models.RunRecord, error) {
	query := badgerhold.Where("Baseline").Eq(true).
		And("Route").Eq(route).
		SortBy("StartedAt").Reverse().Limit(1)

	var runs []models.RunRecord
	if err := s.db.Store().Find(&runs, query); err != nil {
		return nil, fmt.Errorf("failed to find baseline for route %s: %w", route, err)
	}
	if len(runs) == 0 {
		return nil, interfaces.ErrRunNotFound
	}
	return &runs[0], nil
}

func (s *runStorage) DeleteRun(ctx context.Context, id string) error {
	err := s.db.Store().Delete(id, &models.RunRecord{})
	if err == badgerhold.ErrNotFound {
		return interfaces.ErrRunNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete run %s: %w", id, err)
	}
	return nil
}
