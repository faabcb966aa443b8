// Package features resolves named feature flags that gate individual
// probe stages. Resolution order: SPECTO_FLAG_<NAME> environment
// variable, then the persisted flag store, then configured defaults.
package features

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/specto/internal/common"
	"github.com/ternarybob/specto/internal/interfaces"
)

const flagKeyPrefix = "flag."

// Flag is a resolved feature flag with its source of truth
type Flag struct {
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
	Source  string `json:"source"` // env, store, default
}

// Service resolves, lists, and persists feature flags
type Service struct {
	defaults map[string]bool
	kv       interfaces.KeyValueStorage
	logger   arbor.ILogger
}

// NewService creates a flag service. kv may be nil, in which case only
// environment variables and configured defaults are consulted.
func NewService(defaults map[string]bool, kv interfaces.KeyValueStorage) *Service {
	return &Service{
		defaults: defaults,
		kv:       kv,
		logger:   common.GetLogger().WithPrefix("features"),
	}
}

// IsEnabled resolves a flag by name. Unknown flags are disabled.
func (s *Service) IsEnabled(ctx context.Context, name string) bool {
	flag, _ := s.Resolve(ctx, name)
	return flag.Enabled
}

// Resolve returns the flag's value and where it came from
func (s *Service) Resolve(ctx context.Context, name string) (Flag, error) {
	name = normalize(name)

	if raw := os.Getenv(envVar(name)); raw != "" {
		enabled, err := strconv.ParseBool(raw)
		if err != nil {
			s.logger.Warn().
				Str("flag", name).
				Str("value", raw).
				Msg("Ignoring unparseable flag override from environment")
		} else {
			return Flag{Name: name, Enabled: enabled, Source: "env"}, nil
		}
	}

	if s.kv != nil {
		pair, err := s.kv.Get(ctx, flagKeyPrefix+name)
		if err == nil {
			enabled, parseErr := strconv.ParseBool(pair.Value)
			if parseErr == nil {
				return Flag{Name: name, Enabled: enabled, Source: "store"}, nil
			}
		} else if err != interfaces.ErrKeyNotFound {
			return Flag{Name: name, Source: "default"}, fmt.Errorf("failed to read flag %s: %w", name, err)
		}
	}

	enabled, known := s.defaults[name]
	if !known {
		return Flag{Name: name, Source: "default"}, nil
	}
	return Flag{Name: name, Enabled: enabled, Source: "default"}, nil
}

// Set persists a flag value to the store
func (s *Service) Set(ctx context.Context, name string, enabled bool) error {
	if s.kv == nil {
		return fmt.Errorf("flag store is not available")
	}
	name = normalize(name)
	if name == "" {
		return fmt.Errorf("flag name cannot be empty")
	}

	pair := &interfaces.KeyValuePair{
		Key:         flagKeyPrefix + name,
		Value:       strconv.FormatBool(enabled),
		Description: "feature flag",
	}
	if err := s.kv.Set(ctx, pair); err != nil {
		return fmt.Errorf("failed to persist flag %s: %w", name, err)
	}

	s.logger.Info().Str("flag", name).Bool("enabled", enabled).Msg("Flag persisted")
	return nil
}

// Clear removes a persisted flag, falling back to env/default resolution
func (s *Service) Clear(ctx context.Context, name string) error {
	if s.kv == nil {
		return fmt.Errorf("flag store is not available")
	}
	err := s.kv.Delete(ctx, flagKeyPrefix+normalize(name))
	if err != nil && err != interfaces.ErrKeyNotFound {
		return fmt.Errorf("failed to clear flag %s: %w", name, err)
	}
	return nil
}

// List resolves every known flag (defaults plus persisted), sorted by name
func (s *Service) List(ctx context.Context) ([]Flag, error) {
	names := make(map[string]struct{}, len(s.defaults))
	for name := range s.defaults {
		names[name] = struct{}{}
	}

	if s.kv != nil {
		pairs, err := s.kv.ListByPrefix(ctx, flagKeyPrefix)
		if err != nil {
			return nil, fmt.Errorf("failed to list persisted flags: %w", err)
		}
		for _, pair := range pairs {
			names[strings.TrimPrefix(pair.Key, flagKeyPrefix)] = struct{}{}
		}
	}

	flags := make([]Flag, 0, len(names))
	for name := range names {
		flag, err := s.Resolve(ctx, name)
		if err != nil {
			return nil, err
		}
		flags = append(flags, flag)
	}
	sort.Slice(flags, func(i, j int) bool { return flags[i].Name < flags[j].Name })
	return flags, nil
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func envVar(name string) string {
	return "SPECTO_FLAG_" + strings.ToUpper(strings.ReplaceAll(name, ".", "_"))
}
