package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/specto/internal/models"
)

const historyTableHTML = `<table>
<thead><tr>
	<th>Deck Name</th><th>Deck Status</th><th>Processing Status</th>
	<th>Progress</th><th>Created</th><th>Completed</th><th>Actions</th>
</tr></thead>
<tbody>
	<tr data-deck-id="d1">
		<td>Q3 Collections</td><td>Ready</td><td>Complete</td>
		<td>100%</td><td>2026-08-01</td><td>2026-08-02</td><td><button>View</button></td>
	</tr>
	<tr data-deck-id="d2">
		<td>Q4 Pilot</td><td>Processing</td><td>Matching sites</td>
		<td>42%</td><td>2026-08-28</td><td></td><td><button>View</button></td>
	</tr>
	<tr><td colspan="7">footer row, too few cells</td></tr>
</tbody>
</table>`

func TestParseRows(t *testing.T) {
	decks, err := ParseRows(historyTableHTML)
	require.NoError(t, err)
	require.Len(t, decks, 2)

	assert.Equal(t, "d1", decks[0].ID)
	assert.Equal(t, "Q3 Collections", decks[0].Name)
	assert.Equal(t, models.DeckStatusReady, decks[0].Status)
	assert.Equal(t, 100, decks[0].Progress)

	assert.Equal(t, models.DeckStatusProcessing, decks[1].Status)
	assert.Equal(t, "Matching sites", decks[1].ProcessingStatus)
	assert.Equal(t, 42, decks[1].Progress)
}

func TestParseRows_EmptyTable(t *testing.T) {
	decks, err := ParseRows("<table><thead><tr><th>Deck Name</th></tr></thead><tbody></tbody></table>")
	require.NoError(t, err)
	assert.Empty(t, decks)
}

func TestParseProgress(t *testing.T) {
	assert.Equal(t, 42, parseProgress("42%"))
	assert.Equal(t, 7, parseProgress(" 7 "))
	assert.Equal(t, 100, parseProgress("250%"))
	assert.Equal(t, 0, parseProgress("n/a"))
	assert.Equal(t, 0, parseProgress("-5"))
}