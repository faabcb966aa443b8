package badger

import (
	"fmt"
	"os"

	"github.com/timshannon/badgerhold/v4"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/specto/internal/common"
)

// BadgerDB wraps the badgerhold store shared by all storage services
type BadgerDB struct {
	store  *badgerhold.Store
	logger arbor.ILogger
}

// NewBadgerDB opens (and optionally resets) the on-disk store
func NewBadgerDB(cfg common.BadgerConfig) (*BadgerDB, error) {
	logger := common.GetLogger().WithPrefix("storage")

	if cfg.ResetOnStartup {
		logger.Warn().Str("path", cfg.Path).Msg("Resetting storage on startup")
		if err := os.RemoveAll(cfg.Path); err != nil {
			return nil, fmt.Errorf("failed to reset storage at %s: %w", cfg.Path, err)
		}
	}

	if err := os.MkdirAll(cfg.Path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", cfg.Path, err)
	}

	options := badgerhold.DefaultOptions
	options.Dir = cfg.Path
	options.ValueDir = cfg.Path
	options.Logger = nil

	store, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger store at %s: %w", cfg.Path, err)
	}

	logger.Debug().Str("path", cfg.Path).Msg("Badger store opened")

	return &BadgerDB{
		store:  store,
		logger: logger,
	}, nil
}

// Store exposes the underlying badgerhold store
func (db *BadgerDB) Store() *badgerhold.Store {
	return db.store
}

// Close closes the underlying store
func (db *BadgerDB) Close() error {
	if db.store == nil {
		return nil
	}
	return db.store.Close()
}
