package models

import "time"

// DeckStatus is the lifecycle state of a collection deck.
type DeckStatus string

const (
	DeckStatusDraft      DeckStatus = "draft"
	DeckStatusProcessing DeckStatus = "processing"
	DeckStatusReady      DeckStatus = "ready"
	DeckStatusCompleted  DeckStatus = "completed"
	DeckStatusFailed     DeckStatus = "failed"
)

// Deck represents a collection deck row as rendered in the history table.
type Deck struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Status           DeckStatus `json:"status"`
	ProcessingStatus string     `json:"processing_status"`
	Progress         int        `json:"progress"` // 0-100
	CreatedAt        time.Time  `json:"created_at"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
}
