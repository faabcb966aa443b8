package history

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tableHTML(headers []string, withThead bool) string {
	var cells strings.Builder
	for _, header := range headers {
		fmt.Fprintf(&cells, "<th>%s</th>", header)
	}
	row := "<tr>" + cells.String() + "</tr>"
	if withThead {
		return "<html><body><table><thead>" + row + "</thead><tbody></tbody></table></body></html>"
	}
	return "<html><body><table>" + row + "</table></body></html>"
}

func TestVerifyHTML_AllHeadersPresent(t *testing.T) {
	v := NewVerifier()

	result, err := v.VerifyHTML(tableHTML(DefaultExpectedHeaders, true), DefaultExpectedHeaders)
	require.NoError(t, err)

	assert.True(t, result.Passed)
	assert.True(t, result.HasTheadRow)
	assert.True(t, result.OrderCorrect)
	assert.Equal(t, 1, result.TablesFound)
	assert.Len(t, result.ActualHeaders, 7)
	assert.Empty(t, result.Missing)
	assert.Empty(t, result.Duplicates)
	assert.Empty(t, result.Issues())
}

func TestVerifyHTML_MissingHeader(t *testing.T) {
	v := NewVerifier()
	headers := []string{"Deck Name", "Deck Status", "Processing Status", "Progress", "Created", "Completed"}

	result, err := v.VerifyHTML(tableHTML(headers, true), DefaultExpectedHeaders)
	require.NoError(t, err)

	assert.False(t, result.Passed)
	assert.Equal(t, []string{"Actions"}, result.Missing)
	assert.Contains(t, result.Issues(), "missing headers: Actions")
}

func TestVerifyHTML_UnexpectedHeader(t *testing.T) {
	v := NewVerifier()
	headers := append([]string{}, DefaultExpectedHeaders...)
	headers = append(headers, "Owner")

	result, err := v.VerifyHTML(tableHTML(headers, true), DefaultExpectedHeaders)
	require.NoError(t, err)

	assert.False(t, result.Passed)
	assert.Equal(t, []string{"Owner"}, result.Unexpected)
}

func TestVerifyHTML_DuplicateHeaders(t *testing.T) {
	v := NewVerifier()
	headers := []string{"Deck Name", "Deck Name", "Deck Status", "Processing Status", "Progress", "Created", "Completed", "Actions"}

	result, err := v.VerifyHTML(tableHTML(headers, true), DefaultExpectedHeaders)
	require.NoError(t, err)

	assert.False(t, result.Passed)
	assert.Equal(t, []string{"Deck Name"}, result.Duplicates)
}

func TestVerifyHTML_WrongOrder(t *testing.T) {
	v := NewVerifier()
	headers := []string{"Deck Status", "Deck Name", "Processing Status", "Progress", "Created", "Completed", "Actions"}

	result, err := v.VerifyHTML(tableHTML(headers, true), DefaultExpectedHeaders)
	require.NoError(t, err)

	assert.False(t, result.Passed)
	assert.False(t, result.OrderCorrect)
	assert.Empty(t, result.Missing)
	assert.NotEmpty(t, result.Issues())
}

func TestVerifyHTML_MissingThead(t *testing.T) {
	v := NewVerifier()

	result, err := v.VerifyHTML(tableHTML(DefaultExpectedHeaders, false), DefaultExpectedHeaders)
	require.NoError(t, err)

	assert.False(t, result.Passed)
	assert.False(t, result.HasTheadRow)
	// headers still readable from the first row
	assert.Len(t, result.ActualHeaders, 7)
	assert.Contains(t, result.Issues(), "table has no thead header row")
}

func TestVerifyHTML_NoTable(t *testing.T) {
	v := NewVerifier()

	result, err := v.VerifyHTML("<html><body><div>empty state</div></body></html>", DefaultExpectedHeaders)
	require.NoError(t, err)

	assert.False(t, result.Passed)
	assert.Equal(t, 0, result.TablesFound)
	assert.Equal(t, []string{"no table found on page"}, result.Issues())
}

func TestVerifyHTML_WhitespaceTrimmed(t *testing.T) {
	v := NewVerifier()
	html := `<table><thead><tr><th>
		Deck Name
	</th></tr></thead></table>`

	result, err := v.VerifyHTML(html, []string{"Deck Name"})
	require.NoError(t, err)

	assert.True(t, result.Passed)
	assert.Equal(t, []string{"Deck Name"}, result.ActualHeaders)
}
