package audit

import (
	"github.com/ternarybob/specto/internal/browser"
	"github.com/ternarybob/specto/internal/models"
)

// structureSelectors maps each census field to the CSS selector counted
// for it. Blueprint selectors cover both the bp5 and bp6 class prefixes
// so the census survives a Blueprint upgrade.
var structureSelectors = []struct {
	selector string
	assign   func(*models.StructureResult, int)
}{
	{`nav, [role="navigation"]`, func(r *models.StructureResult, n int) { r.NavElements = n }},
	{`.bp5-menu-item, .bp6-menu-item, [role="menuitem"]`, func(r *models.StructureResult, n int) { r.MenuItems = n }},
	{`.bp5-breadcrumb, .bp6-breadcrumb, [class*="breadcrumb"]`, func(r *models.StructureResult, n int) { r.Breadcrumbs = n }},
	{`h1`, func(r *models.StructureResult, n int) { r.HeadingsH1 = n }},
	{`h2`, func(r *models.StructureResult, n int) { r.HeadingsH2 = n }},
	{`h3`, func(r *models.StructureResult, n int) { r.HeadingsH3 = n }},
	{`h1, h2, h3, h4, h5, h6`, func(r *models.StructureResult, n int) { r.HeadingsTotal = n }},
	{`.bp5-card, .bp6-card, [class*="card"]`, func(r *models.StructureResult, n int) { r.Cards = n }},
	{`table`, func(r *models.StructureResult, n int) { r.Tables = n }},
	{`ul, ol`, func(r *models.StructureResult, n int) { r.Lists = n }},
	{`button, [role="button"]`, func(r *models.StructureResult, n int) { r.Buttons = n }},
	{`input, textarea, select`, func(r *models.StructureResult, n int) { r.Inputs = n }},
	{`a[href]`, func(r *models.StructureResult, n int) { r.Links = n }},
	{`form`, func(r *models.StructureResult, n int) { r.Forms = n }},
	{`[class*="bp5-"], [class*="bp6-"]`, func(r *models.StructureResult, n int) { r.BlueprintWidgets = n }},
	{`.bp5-icon, .bp6-icon, [class*="bp5-icon"], [class*="bp6-icon"]`, func(r *models.StructureResult, n int) { r.BlueprintIcons = n }},
	{`.bp5-dialog, .bp6-dialog, [role="dialog"]`, func(r *models.StructureResult, n int) { r.BlueprintDialogs = n }},
}

func censusStructure(s *browser.Session) (*models.StructureResult, error) {
	var result models.StructureResult
	for _, entry := range structureSelectors {
		count, err := s.Count(entry.selector)
		if err != nil {
			return nil, err
		}
		entry.assign(&result, count)
	}
	return &result, nil
}
