package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/FDT12/TN-by-Night-B/models"
)

// PostgresWriter persists events to PostgreSQL and serves them back to the
// aggregation step.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS events (
			id              SERIAL PRIMARY KEY,
			name            VARCHAR(500) NOT NULL,
			place           VARCHAR(300) NOT NULL DEFAULT 'N/A',
			date            VARCHAR(200) NOT NULL DEFAULT 'N/A',
			price           VARCHAR(100) NOT NULL DEFAULT 'N/A',
			url             VARCHAR(500) UNIQUE NOT NULL,
			city            VARCHAR(100) NOT NULL,
			status          VARCHAR(20)  NOT NULL DEFAULT 'approved',
			suggested_by_id INTEGER,
			scraped_at      TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
			created_at      TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
			updated_at      TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_events_status ON events(status);
		CREATE INDEX IF NOT EXISTS idx_events_city   ON events(city);
	`)
	return err
}

// Ping checks database connectivity for the health endpoint.
func (pw *PostgresWriter) Ping(ctx context.Context) error {
	return pw.db.PingContext(ctx)
}

// UpsertEvents writes events keyed by URL. An existing record gets its
// mutable fields refreshed and keeps its id and status; a new record is
// inserted as approved. A uniqueness conflict racing the insert is treated
// as "already exists" and counted as an update, never as a failure.
func (pw *PostgresWriter) UpsertEvents(events []*models.Event) (inserted, updated int, err error) {
	for _, ev := range events {
		res, err := pw.db.Exec(`
			UPDATE events
			SET name = $1, place = $2, date = $3, price = $4, city = $5,
			    scraped_at = $6, updated_at = NOW()
			WHERE url = $7
		`, ev.Name, ev.Place, ev.Date, ev.Price, ev.City, ev.ScrapedAt, ev.URL)
		if err != nil {
			return inserted, updated, fmt.Errorf("postgres: update %q: %w", ev.URL, err)
		}
		if rows, _ := res.RowsAffected(); rows > 0 {
			updated++
			continue
		}

		_, err = pw.db.Exec(`
			INSERT INTO events (name, place, date, price, url, city, status, scraped_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, ev.Name, ev.Place, ev.Date, ev.Price, ev.URL, ev.City, models.StatusApproved, ev.ScrapedAt)
		if err != nil {
			if isUniqueViolation(err) {
				updated++
				continue
			}
			return inserted, updated, fmt.Errorf("postgres: insert %q: %w", ev.URL, err)
		}
		inserted++
	}

	return inserted, updated, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// FetchByStatus retrieves all stored events with the given status, in
// insertion order.
func (pw *PostgresWriter) FetchByStatus(status string) ([]*models.Event, error) {
	rows, err := pw.db.Query(`
		SELECT id, name, place, date, price, url, city, status,
		       scraped_at, created_at, updated_at
		FROM events
		WHERE status = $1
		ORDER BY id
	`, status)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch by status: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		ev := &models.Event{}
		if err := rows.Scan(
			&ev.ID, &ev.Name, &ev.Place, &ev.Date, &ev.Price, &ev.URL,
			&ev.City, &ev.Status, &ev.ScrapedAt, &ev.CreatedAt, &ev.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}
