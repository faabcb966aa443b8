package browser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScreenshotter_Save(t *testing.T) {
	sc, err := NewScreenshotter(t.TempDir())
	require.NoError(t, err)

	first, err := sc.save("Full Page Baseline", []byte("png"))
	require.NoError(t, err)
	assert.Contains(t, first, "01_full_page_baseline.png")

	second, err := sc.save("header/region", []byte("png"))
	require.NoError(t, err)
	assert.Contains(t, second, "02_header_region.png")
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "viewport_375x667", sanitizeName("Viewport 375x667"))
	assert.Equal(t, "history_page", sanitizeName("/history page"))
	assert.Equal(t, "screenshot", sanitizeName("  "))
}
