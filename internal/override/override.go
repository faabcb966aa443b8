// Package override implements site allocation override detection for
// collection opportunities. An override exists when the set of currently
// allocated sites differs from the recommended allocation.
package override

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/ternarybob/specto/internal/models"
)

// MinJustificationLength is the minimum number of characters (after
// trimming) required to justify an allocation override.
const MinJustificationLength = 50

// Detect reports whether the current site allocation overrides the
// recommendation. Comparison is by site ID as a set: order and duplicates
// are ignored. When either allocation is empty there is nothing to
// compare, so no override is reported.
func Detect(current, recommended []models.Site) bool {
	if len(current) == 0 || len(recommended) == 0 {
		return false
	}
	return !idSet(current).equals(idSet(recommended))
}

// Describe returns a human-readable summary of an override: sites present
// in the recommendation but not the current allocation ("Removed"), and
// sites allocated but not recommended ("Added"). Segments are joined with
// "; ". Returns "" when the allocations match or either is empty.
func Describe(current, recommended []models.Site) string {
	if !Detect(current, recommended) {
		return ""
	}

	currentIDs := idSet(current)
	recommendedIDs := idSet(recommended)

	var removed, added []string
	for _, site := range dedupe(recommended) {
		if !currentIDs.contains(site.ID) {
			removed = append(removed, site.Name)
		}
	}
	for _, site := range dedupe(current) {
		if !recommendedIDs.contains(site.ID) {
			added = append(added, site.Name)
		}
	}

	var segments []string
	if len(removed) > 0 {
		segments = append(segments, fmt.Sprintf("Removed: %s", strings.Join(removed, ", ")))
	}
	if len(added) > 0 {
		segments = append(segments, fmt.Sprintf("Added: %s", strings.Join(added, ", ")))
	}
	return strings.Join(segments, "; ")
}

// IsJustificationRequired reports whether saving the given allocation
// requires a justification. Justification is required exactly when the
// allocation is an override.
func IsJustificationRequired(current, recommended []models.Site) bool {
	return Detect(current, recommended)
}

// ValidateJustification checks an override justification against a
// minimum character count. Leading and trailing whitespace does not
// count towards the minimum; length is measured in characters, not
// bytes. A non-positive minLen means MinJustificationLength.
func ValidateJustification(justification string, minLen int) error {
	if minLen <= 0 {
		minLen = MinJustificationLength
	}
	trimmed := strings.TrimSpace(justification)
	if trimmed == "" {
		return fmt.Errorf("justification is required for site allocation overrides")
	}
	if chars := utf8.RuneCountInString(trimmed); chars < minLen {
		return fmt.Errorf("justification must be at least %d characters, got %d",
			minLen, chars)
	}
	return nil
}

type siteIDSet map[string]struct{}

func idSet(sites []models.Site) siteIDSet {
	set := make(siteIDSet, len(sites))
	for _, site := range sites {
		set[site.ID] = struct{}{}
	}
	return set
}

func (s siteIDSet) contains(id string) bool {
	_, ok := s[id]
	return ok
}

func (s siteIDSet) equals(other siteIDSet) bool {
	if len(s) != len(other) {
		return false
	}
	for id := range s {
		if _, ok := other[id]; !ok {
			return false
		}
	}
	return true
}

// dedupe removes duplicate site IDs, keeping first occurrence order stable
// for deterministic descriptions.
func dedupe(sites []models.Site) []models.Site {
	seen := make(siteIDSet, len(sites))
	out := make([]models.Site, 0, len(sites))
	for _, site := range sites {
		if seen.contains(site.ID) {
			continue
		}
		seen[site.ID] = struct{}{}
		out = append(out, site)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
