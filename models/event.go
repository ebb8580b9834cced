package models

import "time"

// City sentinel values used while an event moves through the pipeline.
// Pending and Error must never be counted by the heatmap aggregation.
const (
	CityPending = "Pending"
	CityUnknown = "Unknown"
	CityError   = "Error"
)

// Event moderation states as stored in PostgreSQL.
const (
	StatusApproved = "approved"
	StatusPending  = "pending"
	StatusRejected = "rejected"
)

// Event is the unit flowing through crawler → resolver → storage.
// URL is the unique key for deduplication and upserts.
type Event struct {
	ID        int64     `json:"id,omitempty"`
	Name      string    `json:"name"`
	Place     string    `json:"place"`
	Date      string    `json:"date"`
	Price     string    `json:"price"`
	URL       string    `json:"url"`
	City      string    `json:"city"`
	Status    string    `json:"status,omitempty"`
	ScrapedAt time.Time `json:"scraped_at"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}
