package models

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const historySpecYAML = `name: history
route: /history
title: Processing History
ready_selector: '[data-testid="history-table"]'
expected_headers:
  - Deck Name
  - Deck Status
  - Processing Status
  - Progress
  - Created
  - Completed
  - Actions
expected_testids:
  - history-table
`

func TestLoadPageSpec(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.yaml")
	require.NoError(t, os.WriteFile(path, []byte(historySpecYAML), 0644))

	spec, err := LoadPageSpec(path)
	require.NoError(t, err)

	assert.Equal(t, "history", spec.Name)
	assert.Equal(t, "/history", spec.Route)
	assert.Len(t, spec.ExpectedHeaders, 7)
	assert.Equal(t, "Deck Name", spec.ExpectedHeaders[0])
	assert.Equal(t, "Actions", spec.ExpectedHeaders[6])
}

func TestLoadPageSpec_Invalid(t *testing.T) {
	dir := t.TempDir()

	noName := filepath.Join(dir, "noname.yaml")
	require.NoError(t, os.WriteFile(noName, []byte("route: /x\n"), 0644))
	_, err := LoadPageSpec(noName)
	assert.Error(t, err)

	badRoute := filepath.Join(dir, "badroute.yaml")
	require.NoError(t, os.WriteFile(badRoute, []byte("name: x\nroute: history\n"), 0644))
	_, err = LoadPageSpec(badRoute)
	assert.Error(t, err)
}

func TestLoadPageSpecs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "history.yaml"), []byte(historySpecYAML), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "decks.yml"), []byte("name: decks\nroute: /decks\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0644))

	specs, err := LoadPageSpecs(dir)
	require.NoError(t, err)

	assert.Len(t, specs, 2)
	assert.Contains(t, specs, "history")
	assert.Contains(t, specs, "decks")
}

func TestLoadPageSpecs_MissingDir(t *testing.T) {
	specs, err := LoadPageSpecs(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	assert.Empty(t, specs)
}

func TestLoadPageSpecs_DuplicateName(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yaml"), []byte("name: history\nroute: /history\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.yaml"), []byte("name: history\nroute: /other\n"), 0644))

	_, err := LoadPageSpecs(dir)
	assert.Error(t, err)
}
