// Package allocation probes the collection manage page: it extracts the
// current and recommended site allocations from the DOM, runs override
// detection on them, and verifies the justification dialog is enforced
// when the allocations differ.
package allocation

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/specto/internal/browser"
	"github.com/ternarybob/specto/internal/common"
	"github.com/ternarybob/specto/internal/models"
	"github.com/ternarybob/specto/internal/override"
)

// DOM hooks the manage page renders its allocations under.
const (
	currentSitesSelector       = `[data-testid="current-sites"] [data-site-id]`
	recommendedSitesSelector   = `[data-testid="recommended-sites"] [data-site-id]`
	overrideBadgeSelector      = `[data-testid="override-badge"]`
	justificationSelector      = `[data-testid="justification-dialog"]`
	justificationFieldSelector = `[data-testid="justification-dialog"] textarea`
	saveButtonSelector         = `[data-testid="save-allocation"]`
)

// long enough to satisfy the dialog's justification minimum
const diagnosticJustification = "Automated diagnostic entry confirming the justification field accepts text input."

// Result is the outcome of one allocation probe
type Result struct {
	Opportunity      models.CollectionOpportunity `json:"opportunity"`
	OverrideDetected bool                         `json:"override_detected"`
	Description      string                       `json:"description,omitempty"`
	BadgeShown       bool                         `json:"badge_shown"`
	DialogEnforced   bool                         `json:"dialog_enforced"`
	Issues           []string                     `json:"issues,omitempty"`
}

// Passed reports whether the dashboard's override handling matched the
// detector's verdict.
func (r *Result) Passed() bool {
	return len(r.Issues) == 0
}

// Prober runs allocation probes against manage pages
type Prober struct {
	logger arbor.ILogger
}

func NewProber() *Prober {
	return &Prober{logger: common.GetLogger().WithPrefix("allocation")}
}

// Probe loads /collection/{id}/manage and checks override handling
func (p *Prober) Probe(s *browser.Session, collectionID string) (*Result, error) {
	route := fmt.Sprintf("/collection/%s/manage", collectionID)
	if err := s.Navigate(route, `[data-testid="current-sites"]`); err != nil {
		return nil, err
	}

	html, err := s.HTML()
	if err != nil {
		return nil, err
	}

	result, err := p.Analyze(html, collectionID)
	if err != nil {
		return nil, err
	}

	// when an override exists, the save button must surface the
	// justification dialog rather than save silently
	if result.OverrideDetected {
		clickErr := s.Click(saveButtonSelector)
		var dialogs int
		var countErr error
		if clickErr == nil {
			dialogs, countErr = s.Count(justificationSelector)
		}
		enforced, issue := evaluateDialogCheck(clickErr, dialogs, countErr)
		result.DialogEnforced = enforced
		if issue != "" {
			result.Issues = append(result.Issues, issue)
		}
		if enforced {
			if fillErr := s.Fill(justificationFieldSelector, diagnosticJustification); fillErr != nil {
				result.Issues = append(result.Issues,
					"justification dialog field did not accept input: "+fillErr.Error())
			}
		}
	}

	p.logger.Info().
		Str("collection_id", collectionID).
		Bool("override", result.OverrideDetected).
		Bool("passed", result.Passed()).
		Msg("Allocation probe complete")
	return result, nil
}

// evaluateDialogCheck interprets the outcome of activating save while an
// override is pending. A save button that cannot be activated means the
// enforcement check never ran, which is itself a finding.
func evaluateDialogCheck(clickErr error, dialogs int, countErr error) (bool, string) {
	if clickErr != nil {
		return false, "could not activate save to verify the justification dialog: " + clickErr.Error()
	}
	if countErr != nil {
		return false, "could not inspect the justification dialog after saving: " + countErr.Error()
	}
	if dialogs == 0 {
		return false, "override present but saving did not open the justification dialog"
	}
	return true, ""
}

// Analyze extracts the allocations from markup and runs the detector.
// Split from Probe so the DOM contract is testable without a browser.
func (p *Prober) Analyze(html, collectionID string) (*Result, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse manage page HTML: %w", err)
	}

	opportunity := models.CollectionOpportunity{
		ID:               collectionID,
		CurrentSites:     extractSites(doc, currentSitesSelector),
		RecommendedSites: extractSites(doc, recommendedSitesSelector),
	}

	result := &Result{Opportunity: opportunity}
	result.OverrideDetected = override.Detect(opportunity.CurrentSites, opportunity.RecommendedSites)
	result.Description = override.Describe(opportunity.CurrentSites, opportunity.RecommendedSites)
	result.BadgeShown = doc.Find(overrideBadgeSelector).Length() > 0

	switch {
	case len(opportunity.CurrentSites) == 0:
		result.Opportunity.MatchStatus = models.MatchStatusPending
	case result.OverrideDetected:
		result.Opportunity.MatchStatus = models.MatchStatusOverridden
	default:
		result.Opportunity.MatchStatus = models.MatchStatusMatched
	}

	if result.OverrideDetected && !result.BadgeShown {
		result.Issues = append(result.Issues,
			"override detected but the override badge is not shown")
	}
	if !result.OverrideDetected && result.BadgeShown {
		result.Issues = append(result.Issues,
			"override badge shown although allocations match the recommendation")
	}

	return result, nil
}

func extractSites(doc *goquery.Document, selector string) []models.Site {
	var sites []models.Site
	doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		id, _ := sel.Attr("data-site-id")
		if id == "" {
			return
		}
		sites = append(sites, models.Site{
			ID:   id,
			Name: strings.TrimSpace(sel.Text()),
		})
	})
	return sites
}
