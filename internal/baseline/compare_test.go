package baseline

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, path string, width, height int, fill color.Color) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, fill)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
}

func TestCompare_IdenticalRuns(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "01_full_page.png")
	// different sequence number, same stem
	current := filepath.Join(dir, "02_full_page.png")
	writePNG(t, base, 100, 50, color.White)
	writePNG(t, current, 100, 50, color.White)

	comparison, err := Compare([]string{base}, []string{current})
	require.NoError(t, err)

	assert.True(t, comparison.Clean())
	require.Len(t, comparison.Shots, 1)
	assert.True(t, comparison.Shots[0].DimensionMatch)
	assert.False(t, comparison.Shots[0].Changed)
}

func TestCompare_DimensionChange(t *testing.T) {
	dir := t.TempDir()
	baseDir := filepath.Join(dir, "base")
	currentDir := filepath.Join(dir, "current")
	require.NoError(t, os.MkdirAll(baseDir, 0755))
	require.NoError(t, os.MkdirAll(currentDir, 0755))
	base := filepath.Join(baseDir, "01_viewport_mobile.png")
	current := filepath.Join(currentDir, "01_viewport_mobile.png")
	writePNG(t, base, 375, 667, color.White)
	writePNG(t, current, 375, 812, color.White)

	comparison, err := Compare([]string{base}, []string{current})
	require.NoError(t, err)

	assert.False(t, comparison.Clean())
	assert.Equal(t, 1, comparison.ChangedNum)
	assert.False(t, comparison.Shots[0].DimensionMatch)
}

func TestCompare_MissingAndNewShots(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "01_header.png")
	extra := filepath.Join(dir, "02_footer.png")
	writePNG(t, base, 10, 10, color.White)
	writePNG(t, extra, 10, 10, color.White)

	comparison, err := Compare([]string{base}, []string{extra})
	require.NoError(t, err)

	assert.False(t, comparison.Clean())
	assert.Equal(t, 1, comparison.MissingNum)
	require.Len(t, comparison.NewShots, 1)
	assert.Contains(t, comparison.NewShots[0], "02_footer.png")
	assert.True(t, comparison.Shots[0].Missing)
}

func TestStem(t *testing.T) {
	assert.Equal(t, "full_page_baseline", stem("/runs/x/01_full_page_baseline.png"))
	assert.Equal(t, "viewport_mobile_375x812", stem("07_viewport_mobile_375x812.png"))
	assert.Equal(t, "unprefixed", stem("unprefixed.png"))
}
