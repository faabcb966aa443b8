// Package pagemap builds a component inventory of a dashboard page from
// its rendered markup: test hooks, Blueprint widgets, routes, and a
// markdown application map for documentation.
package pagemap

import (
	"fmt"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Component is one element of interest found on a page
type Component struct {
	TestID  string `json:"test_id,omitempty"`
	Tag     string `json:"tag"`
	Kind    string `json:"kind"`
	Classes string `json:"classes,omitempty"`
	Text    string `json:"text,omitempty"`
}

// Link is an internal route reachable from the page
type Link struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}

// PageMap is the parsed inventory of a single page
type PageMap struct {
	Route      string         `json:"route"`
	Title      string         `json:"title"`
	Components []Component    `json:"components"`
	Counts     map[string]int `json:"counts"`
	Links      []Link         `json:"links"`
}

// Parse inventories the page markup
func Parse(html, route string) (*PageMap, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page HTML: %w", err)
	}

	pm := &PageMap{
		Route:  route,
		Title:  strings.TrimSpace(doc.Find("title").First().Text()),
		Counts: make(map[string]int),
	}

	doc.Find("[data-testid]").Each(func(_ int, sel *goquery.Selection) {
		testID, _ := sel.Attr("data-testid")
		classes, _ := sel.Attr("class")
		component := Component{
			TestID:  testID,
			Tag:     goquery.NodeName(sel),
			Kind:    classify(goquery.NodeName(sel), classes),
			Classes: classes,
			Text:    truncate(strings.TrimSpace(sel.Text()), 80),
		}
		pm.Components = append(pm.Components, component)
	})

	for _, component := range pm.Components {
		pm.Counts[component.Kind]++
	}

	seen := make(map[string]struct{})
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if !strings.HasPrefix(href, "/") {
			return
		}
		if _, dup := seen[href]; dup {
			return
		}
		seen[href] = struct{}{}
		pm.Links = append(pm.Links, Link{
			Label: strings.TrimSpace(sel.Text()),
			Href:  href,
		})
	})
	sort.Slice(pm.Links, func(i, j int) bool { return pm.Links[i].Href < pm.Links[j].Href })

	return pm, nil
}

// blueprintKinds maps Blueprint class fragments to component kinds, most
// specific first.
var blueprintKinds = []struct {
	fragment string
	kind     string
}{
	{"-dialog", "dialog"},
	{"-card", "card"},
	{"-button", "button"},
	{"-menu-item", "menu-item"},
	{"-menu", "menu"},
	{"-tab", "tab"},
	{"-tag", "tag"},
	{"-input", "input"},
	{"-table", "table"},
	{"-navbar", "navbar"},
	{"-breadcrumb", "breadcrumb"},
	{"-spinner", "spinner"},
	{"-callout", "callout"},
	{"-icon", "icon"},
}

// classify determines a component kind from its tag and Blueprint classes
func classify(tag, classes string) string {
	lowered := strings.ToLower(classes)
	if strings.Contains(lowered, "bp5-") || strings.Contains(lowered, "bp6-") {
		for _, entry := range blueprintKinds {
			if strings.Contains(lowered, entry.fragment) {
				return entry.kind
			}
		}
		return "blueprint"
	}

	switch tag {
	case "button":
		return "button"
	case "table":
		return "table"
	case "input", "textarea", "select":
		return "input"
	case "nav":
		return "navbar"
	case "a":
		return "link"
	case "form":
		return "form"
	default:
		return "element"
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
