package models

// MatchStatus describes how well a site allocation matches the
// system recommendation for a collection opportunity.
type MatchStatus string

const (
	MatchStatusMatched    MatchStatus = "matched"
	MatchStatusOverridden MatchStatus = "overridden"
	MatchStatusPending    MatchStatus = "pending"
)

// Site represents a collection site as displayed in the dashboard.
type Site struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CollectionOpportunity is a schedulable unit (e.g. a satellite pass)
// shown in the management table, with its current and recommended
// site allocations.
type CollectionOpportunity struct {
	ID               string      `json:"id"`
	Name             string      `json:"name"`
	MatchStatus      MatchStatus `json:"match_status"`
	CurrentSites     []Site      `json:"current_sites"`
	RecommendedSites []Site      `json:"recommended_sites"`
	Justification    string      `json:"justification,omitempty"`
}
