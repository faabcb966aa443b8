// Package history verifies table structure on the processing history
// page: the expected column headers, in order, each exactly once, inside
// a proper thead.
package history

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/specto/internal/browser"
	"github.com/ternarybob/specto/internal/common"
	"github.com/ternarybob/specto/internal/models"
)

// DefaultExpectedHeaders is the column set the history table renders
// when no page spec overrides it.
var DefaultExpectedHeaders = []string{
	"Deck Name",
	"Deck Status",
	"Processing Status",
	"Progress",
	"Created",
	"Completed",
	"Actions",
}

// Result is the outcome of one header verification
type Result struct {
	Route           string   `json:"route"`
	TablesFound     int      `json:"tables_found"`
	HasTheadRow     bool     `json:"has_thead_row"`
	ExpectedHeaders []string `json:"expected_headers"`
	ActualHeaders   []string `json:"actual_headers"`
	Missing         []string `json:"missing,omitempty"`
	Unexpected      []string `json:"unexpected,omitempty"`
	Duplicates      []string `json:"duplicates,omitempty"`
	OrderCorrect    bool     `json:"order_correct"`
	Passed          bool     `json:"passed"`
}

// Verifier checks the history table's headers against expectations
type Verifier struct {
	logger arbor.ILogger
}

func NewVerifier() *Verifier {
	return &Verifier{logger: common.GetLogger().WithPrefix("history")}
}

// VerifyPage navigates to the page described by spec and verifies its
// table headers against the spec's expected set (or the defaults).
func (v *Verifier) VerifyPage(s *browser.Session, spec models.PageSpec) (*Result, error) {
	if err := s.Navigate(spec.Route, spec.ReadySelector); err != nil {
		return nil, err
	}

	html, err := s.HTML()
	if err != nil {
		return nil, err
	}

	expected := spec.ExpectedHeaders
	if len(expected) == 0 {
		expected = DefaultExpectedHeaders
	}

	result, err := v.VerifyHTML(html, expected)
	if err != nil {
		return nil, err
	}
	result.Route = spec.Route

	v.logger.Info().
		Str("route", spec.Route).
		Bool("passed", result.Passed).
		Int("headers", len(result.ActualHeaders)).
		Msg("Header verification complete")
	return result, nil
}

// VerifyHTML checks the first table in the markup against the expected
// header list.
func (v *Verifier) VerifyHTML(html string, expected []string) (*Result, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page HTML: %w", err)
	}

	result := &Result{ExpectedHeaders: expected}
	result.TablesFound = doc.Find("table").Length()
	if result.TablesFound == 0 {
		return result, nil
	}

	table := doc.Find("table").First()
	headerScope := table.Find("thead th")
	if headerScope.Length() > 0 {
		result.HasTheadRow = true
	} else {
		// fall back to the first row when the table lacks a thead
		headerScope = table.Find("tr").First().Find("th, td")
	}

	headerScope.Each(func(_ int, cell *goquery.Selection) {
		result.ActualHeaders = append(result.ActualHeaders, strings.TrimSpace(cell.Text()))
	})

	evaluate(result)
	return result, nil
}

func evaluate(r *Result) {
	counts := make(map[string]int, len(r.ActualHeaders))
	for _, header := range r.ActualHeaders {
		counts[header]++
	}
	for _, header := range r.ActualHeaders {
		if counts[header] > 1 {
			if !contains(r.Duplicates, header) {
				r.Duplicates = append(r.Duplicates, header)
			}
		}
	}

	expectedSet := make(map[string]struct{}, len(r.ExpectedHeaders))
	for _, header := range r.ExpectedHeaders {
		expectedSet[header] = struct{}{}
		if counts[header] == 0 {
			r.Missing = append(r.Missing, header)
		}
	}
	for header := range counts {
		if _, ok := expectedSet[header]; !ok {
			r.Unexpected = append(r.Unexpected, header)
		}
	}

	r.OrderCorrect = len(r.ActualHeaders) == len(r.ExpectedHeaders)
	if r.OrderCorrect {
		for i, header := range r.ExpectedHeaders {
			if r.ActualHeaders[i] != header {
				r.OrderCorrect = false
				break
			}
		}
	}

	r.Passed = r.HasTheadRow &&
		r.OrderCorrect &&
		len(r.Missing) == 0 &&
		len(r.Unexpected) == 0 &&
		len(r.Duplicates) == 0
}

// Issues renders the verification failures as human-readable findings
func (r *Result) Issues() []string {
	var issues []string
	if r.TablesFound == 0 {
		return []string{"no table found on page"}
	}
	if !r.HasTheadRow {
		issues = append(issues, "table has no thead header row")
	}
	if len(r.Missing) > 0 {
		issues = append(issues, fmt.Sprintf("missing headers: %s", strings.Join(r.Missing, ", ")))
	}
	if len(r.Unexpected) > 0 {
		issues = append(issues, fmt.Sprintf("unexpected headers: %s", strings.Join(r.Unexpected, ", ")))
	}
	if len(r.Duplicates) > 0 {
		issues = append(issues, fmt.Sprintf("duplicate headers: %s", strings.Join(r.Duplicates, ", ")))
	}
	if !r.OrderCorrect && len(r.Missing) == 0 && len(r.Unexpected) == 0 {
		issues = append(issues, fmt.Sprintf("header order mismatch: got [%s]", strings.Join(r.ActualHeaders, ", ")))
	}
	return issues
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
