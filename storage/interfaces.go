package storage

import (
	"context"

	"github.com/FDT12/TN-by-Night-B/models"
)

// EventSink accepts the deduplicated event list produced by a crawl run.
// Upsert is keyed by URL: an existing record gets its mutable fields
// refreshed, a new one is inserted as approved.
type EventSink interface {
	UpsertEvents(events []*models.Event) (inserted, updated int, err error)
	Close() error
}

// EventSource supplies stored events to the aggregation step.
type EventSource interface {
	FetchByStatus(status string) ([]*models.Event, error)
	Ping(ctx context.Context) error
}
