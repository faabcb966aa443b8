package pagemap

import (
	"fmt"
	"sort"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
)

// RenderMarkdown produces the application map document from one or more
// parsed pages.
func RenderMarkdown(pages []*PageMap) string {
	var b strings.Builder

	b.WriteString("# Application Map\n\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", time.Now().Format("2006-01-02 15:04:05"))

	for _, page := range pages {
		fmt.Fprintf(&b, "## %s\n\n", page.Route)
		if page.Title != "" {
			fmt.Fprintf(&b, "Title: %s\n\n", page.Title)
		}

		if len(page.Counts) > 0 {
			b.WriteString("### Component Counts\n\n")
			b.WriteString("| Kind | Count |\n|------|-------|\n")
			kinds := make([]string, 0, len(page.Counts))
			for kind := range page.Counts {
				kinds = append(kinds, kind)
			}
			sort.Strings(kinds)
			for _, kind := range kinds {
				fmt.Fprintf(&b, "| %s | %d |\n", kind, page.Counts[kind])
			}
			b.WriteString("\n")
		}

		if len(page.Components) > 0 {
			b.WriteString("### Test Hooks\n\n")
			b.WriteString("| data-testid | Tag | Kind | Text |\n|-------------|-----|------|------|\n")
			for _, component := range page.Components {
				fmt.Fprintf(&b, "| `%s` | %s | %s | %s |\n",
					component.TestID, component.Tag, component.Kind, escapeCell(component.Text))
			}
			b.WriteString("\n")
		}

		if len(page.Links) > 0 {
			b.WriteString("### Routes\n\n")
			for _, link := range page.Links {
				label := link.Label
				if label == "" {
					label = link.Href
				}
				fmt.Fprintf(&b, "- [%s](%s)\n", label, link.Href)
			}
			b.WriteString("\n")
		}
	}

	return b.String()
}

// ContentSnapshot converts the page markup to markdown for a readable
// content record alongside the structural map.
func ContentSnapshot(html, baseURL string) (string, error) {
	converter := md.NewConverter(baseURL, true, nil)
	markdown, err := converter.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("failed to convert page content to markdown: %w", err)
	}
	return markdown, nil
}

func escapeCell(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "|", "\\|"), "\n", " ")
}
