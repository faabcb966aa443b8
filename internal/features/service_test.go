package features

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/specto/internal/interfaces"
)

// memoryKV is an in-memory KeyValueStorage for tests
type memoryKV struct {
	pairs map[string]interfaces.KeyValuePair
}

func newMemoryKV() *memoryKV {
	return &memoryKV{pairs: make(map[string]interfaces.KeyValuePair)}
}

func (m *memoryKV) Get(ctx context.Context, key string) (*interfaces.KeyValuePair, error) {
	pair, ok := m.pairs[key]
	if !ok {
		return nil, interfaces.ErrKeyNotFound
	}
	return &pair, nil
}

func (m *memoryKV) Set(ctx context.Context, pair *interfaces.KeyValuePair) error {
	m.pairs[pair.Key] = *pair
	return nil
}

func (m *memoryKV) Delete(ctx context.Context, key string) error {
	if _, ok := m.pairs[key]; !ok {
		return interfaces.ErrKeyNotFound
	}
	delete(m.pairs, key)
	return nil
}

func (m *memoryKV) List(ctx context.Context) ([]interfaces.KeyValuePair, error) {
	out := make([]interfaces.KeyValuePair, 0, len(m.pairs))
	for _, pair := range m.pairs {
		out = append(out, pair)
	}
	return out, nil
}

func (m *memoryKV) ListByPrefix(ctx context.Context, prefix string) ([]interfaces.KeyValuePair, error) {
	var out []interfaces.KeyValuePair
	for key, pair := range m.pairs {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			out = append(out, pair)
		}
	}
	return out, nil
}

func TestService_DefaultResolution(t *testing.T) {
	svc := NewService(map[string]bool{"accessibility": true, "journey": false}, nil)
	ctx := context.Background()

	flag, err := svc.Resolve(ctx, "accessibility")
	require.NoError(t, err)
	assert.True(t, flag.Enabled)
	assert.Equal(t, "default", flag.Source)

	flag, err = svc.Resolve(ctx, "journey")
	require.NoError(t, err)
	assert.False(t, flag.Enabled)

	// unknown flags are off
	assert.False(t, svc.IsEnabled(ctx, "nonexistent"))
}

func TestService_StoreOverridesDefault(t *testing.T) {
	kv := newMemoryKV()
	svc := NewService(map[string]bool{"interactions": true}, kv)
	ctx := context.Background()

	require.NoError(t, svc.Set(ctx, "interactions", false))

	flag, err := svc.Resolve(ctx, "interactions")
	require.NoError(t, err)
	assert.False(t, flag.Enabled)
	assert.Equal(t, "store", flag.Source)

	require.NoError(t, svc.Clear(ctx, "interactions"))

	flag, err = svc.Resolve(ctx, "interactions")
	require.NoError(t, err)
	assert.True(t, flag.Enabled)
	assert.Equal(t, "default", flag.Source)
}

func TestService_EnvOverridesStore(t *testing.T) {
	kv := newMemoryKV()
	svc := NewService(map[string]bool{"responsive": true}, kv)
	ctx := context.Background()

	require.NoError(t, svc.Set(ctx, "responsive", true))
	t.Setenv("SPECTO_FLAG_RESPONSIVE", "false")

	flag, err := svc.Resolve(ctx, "responsive")
	require.NoError(t, err)
	assert.False(t, flag.Enabled)
	assert.Equal(t, "env", flag.Source)
}

func TestService_UnparseableEnvIgnored(t *testing.T) {
	svc := NewService(map[string]bool{"console_capture": true}, nil)
	t.Setenv("SPECTO_FLAG_CONSOLE_CAPTURE", "banana")

	flag, err := svc.Resolve(context.Background(), "console_capture")
	require.NoError(t, err)
	assert.True(t, flag.Enabled)
	assert.Equal(t, "default", flag.Source)
}

func TestService_List(t *testing.T) {
	kv := newMemoryKV()
	svc := NewService(map[string]bool{"b_flag": true, "a_flag": false}, kv)
	ctx := context.Background()

	require.NoError(t, svc.Set(ctx, "c_flag", true))

	flags, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, flags, 3)
	assert.Equal(t, "a_flag", flags[0].Name)
	assert.Equal(t, "b_flag", flags[1].Name)
	assert.Equal(t, "c_flag", flags[2].Name)
	assert.Equal(t, "store", flags[2].Source)
}
