package history

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ternarybob/specto/internal/models"
)

// Column positions in the history table, matching DefaultExpectedHeaders.
const (
	colDeckName = iota
	colDeckStatus
	colProcessingStatus
	colProgress
)

// ParseRows reads the history table body into deck rows. Only the
// columns the probes assert on are extracted; timestamps and action
// buttons stay in the DOM.
func ParseRows(html string) ([]models.Deck, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse history HTML: %w", err)
	}

	var decks []models.Deck
	doc.Find("table").First().Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() <= colProgress {
			return
		}

		deck := models.Deck{
			Name:             cellText(cells, colDeckName),
			Status:           models.DeckStatus(strings.ToLower(cellText(cells, colDeckStatus))),
			ProcessingStatus: cellText(cells, colProcessingStatus),
			Progress:         parseProgress(cellText(cells, colProgress)),
		}
		if id, ok := row.Attr("data-deck-id"); ok {
			deck.ID = id
		}
		decks = append(decks, deck)
	})

	return decks, nil
}

func cellText(cells *goquery.Selection, index int) string {
	return strings.TrimSpace(cells.Eq(index).Text())
}

// parseProgress reads "42%" or "42" style cells; anything else is 0.
func parseProgress(text string) int {
	text = strings.TrimSuffix(strings.TrimSpace(text), "%")
	value, err := strconv.Atoi(text)
	if err != nil || value < 0 {
		return 0
	}
	if value > 100 {
		return 100
	}
	return value
}
