package badger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/timshannon/badgerhold/v4"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/specto/internal/common"
	"github.com/ternarybob/specto/internal/interfaces"
)

// kvStorage persists key/value pairs (feature flags, saved settings)
type kvStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewKeyValueStorage creates a badger-backed key/value storage service
func NewKeyValueStorage(db *BadgerDB) interfaces.KeyValueStorage {
	return &kvStorage{
		db:     db,
		logger: common.GetLogger().WithPrefix("kv-storage"),
	}
}

func (s *kvStorage) Get(ctx context.Context, key string) (*interfaces.KeyValuePair, error) {
	var pair interfaces.KeyValuePair
	err := s.db.Store().Get(key, &pair)
	if err == badgerhold.ErrNotFound {
		return nil, interfaces.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get key %s: %w", key, err)
	}
	return &pair, nil
}

func (s *kvStorage) Set(ctx context.Context, pair *interfaces.KeyValuePair) error {
	if pair.Key == "" {
		return fmt.Errorf("key cannot be empty")
	}

	now := time.Now()
	existing, err := s.Get(ctx, pair.Key)
	if err == nil {
		pair.CreatedAt = existing.CreatedAt
	} else {
		pair.CreatedAt = now
	}
	pair.UpdatedAt = now

	if err := s.db.Store().Upsert(pair.Key, pair); err != nil {
		return fmt.Errorf("failed to set key %s: %w", pair.Key, err)
	}

	s.logger.Debug().Str("key", pair.Key).Msg("Key/value pair saved")
	return nil
}

func (s *kvStorage) Delete(ctx context.Context, key string) error {
	err := s.db.Store().Delete(key, &interfaces.KeyValuePair{})
	if err == badgerhold.ErrNotFound {
		return interfaces.ErrKeyNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}

func (s *kvStorage) List(ctx context.Context) ([]interfaces.KeyValuePair, error) {
	var pairs []interfaces.KeyValuePair
	if err := s.db.Store().Find(&pairs, nil); err != nil {
		return nil, fmt.Errorf("failed to list key/value pairs: %w", err)
	}
	return pairs, nil
}

func (s *kvStorage) ListByPrefix(ctx context.Context, prefix string) ([]interfaces.KeyValuePair, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	var matched []interfaces.KeyValuePair
	for _, pair := range all {
		if strings.HasPrefix(pair.Key, prefix) {
			matched = append(matched, pair)
		}
	}
	return matched, nil
}
