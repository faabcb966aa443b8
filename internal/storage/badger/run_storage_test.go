package badger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/specto/internal/common"
	"github.com/ternarybob/specto/internal/interfaces"
	"github.com/ternarybob/specto/internal/models"
)

func newTestDB(t *testing.T) *BadgerDB {
	t.Helper()

	db, err := NewBadgerDB(common.BadgerConfig{
		Path:           t.TempDir(),
		ResetOnStartup: false,
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRunStorage_SaveAndGet(t *testing.T) {
	db := newTestDB(t)
	storage := NewRunStorage(db)
	ctx := context.Background()

	run := &models.RunRecord{
		ID:        common.NewRunID(),
		Kind:      models.RunKindAudit,
		TargetURL: "http://localhost:3000",
		Route:     "/history",
		StartedAt: time.Now(),
		Status:    models.RunStatusPassed,
	}

	require.NoError(t, storage.SaveRun(ctx, run))

	got, err := storage.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, models.RunKindAudit, got.Kind)
	assert.Equal(t, "/history", got.Route)
}

func TestRunStorage_GetMissing(t *testing.T) {
	db := newTestDB(t)
	storage := NewRunStorage(db)

	_, err := storage.GetRun(context.Background(), "run_missing")
	assert.ErrorIs(t, err, interfaces.ErrRunNotFound)
}

func TestRunStorage_SaveEmptyID(t *testing.T) {
	db := newTestDB(t)
	storage := NewRunStorage(db)

	err := storage.SaveRun(context.Background(), &models.RunRecord{})
	assert.Error(t, err)
}

func TestRunStorage_ListByKind(t *testing.T) {
	db := newTestDB(t)
	storage := NewRunStorage(db)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i, kind := range []models.RunKind{models.RunKindAudit, models.RunKindBaseline, models.RunKindAudit} {
		run := &models.RunRecord{
			ID:        common.NewRunID(),
			Kind:      kind,
			Route:     "/decks",
			StartedAt: base.Add(time.Duration(i) * time.Minute),
			Status:    models.RunStatusPassed,
		}
		require.NoError(t, storage.SaveRun(ctx, run))
	}

	audits, err := storage.ListRuns(ctx, interfaces.ListRunOptions{Kind: models.RunKindAudit})
	require.NoError(t, err)
	assert.Len(t, audits, 2)

	all, err := storage.ListRuns(ctx, interfaces.ListRunOptions{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	// newest first
	assert.True(t, all[0].StartedAt.After(all[1].StartedAt))

	limited, err := storage.ListRuns(ctx, interfaces.ListRunOptions{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestRunStorage_LatestBaseline(t *testing.T) {
	db := newTestDB(t)
	storage := NewRunStorage(db)
	ctx := context.Background()

	_, err := storage.LatestBaseline(ctx, "/history")
	assert.ErrorIs(t, err, interfaces.ErrRunNotFound)

	older := &models.RunRecord{
		ID:        common.NewRunID(),
		Kind:      models.RunKindBaseline,
		Route:     "/history",
		Baseline:  true,
		StartedAt: time.Now().Add(-time.Hour),
		Status:    models.RunStatusPassed,
	}
	newer := &models.RunRecord{
		ID:        common.NewRunID(),
		Kind:      models.RunKindBaseline,
		Route:     "/history",
		Baseline:  true,
		StartedAt: time.Now(),
		Status:    models.RunStatusPassed,
	}
	require.NoError(t, storage.SaveRun(ctx, older))
	require.NoError(t, storage.SaveRun(ctx, newer))

	latest, err := storage.LatestBaseline(ctx, "/history")
	require.NoError(t, err)
	assert.Equal(t, newer.ID, latest.ID)
}

func TestRunStorage_Delete(t *testing.T) {
	db := newTestDB(t)
	storage := NewRunStorage(db)
	ctx := context.Background()

	run := &models.RunRecord{
		ID:        common.NewRunID(),
		Kind:      models.RunKindHeaders,
		StartedAt: time.Now(),
		Status:    models.RunStatusFailed,
	}
	require.NoError(t, storage.SaveRun(ctx, run))
	require.NoError(t, storage.DeleteRun(ctx, run.ID))

	_, err := storage.GetRun(ctx, run.ID)
	assert.ErrorIs(t, err, interfaces.ErrRunNotFound)

	assert.ErrorIs(t, storage.DeleteRun(ctx, run.ID), interfaces.ErrRunNotFound)
}

func TestKeyValueStorage_RoundTrip(t *testing.T) {
	db := newTestDB(t)
	storage := NewKeyValueStorage(db)
	ctx := context.Background()

	pair := &interfaces.KeyValuePair{
		Key:   "flag.dark_mode",
		Value: "true",
	}
	require.NoError(t, storage.Set(ctx, pair))
	assert.False(t, pair.CreatedAt.IsZero())

	got, err := storage.Get(ctx, "flag.dark_mode")
	require.NoError(t, err)
	assert.Equal(t, "true", got.Value)

	// update preserves creation time
	created := got.CreatedAt
	pair.Value = "false"
	require.NoError(t, storage.Set(ctx, pair))
	got, err = storage.Get(ctx, "flag.dark_mode")
	require.NoError(t, err)
	assert.Equal(t, "false", got.Value)
	assert.Equal(t, created.Unix(), got.CreatedAt.Unix())
}

func TestKeyValueStorage_ListByPrefix(t *testing.T) {
	db := newTestDB(t)
	storage := NewKeyValueStorage(db)
	ctx := context.Background()

	for _, key := range []string{"flag.a", "flag.b", "setting.theme"} {
		require.NoError(t, storage.Set(ctx, &interfaces.KeyValuePair{Key: key, Value: "x"}))
	}

	flags, err := storage.ListByPrefix(ctx, "flag.")
	require.NoError(t, err)
	assert.Len(t, flags, 2)

	all, err := storage.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = storage.Get(ctx, "flag.missing")
	assert.ErrorIs(t, err, interfaces.ErrKeyNotFound)
}
