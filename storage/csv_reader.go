package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/FDT12/TN-by-Night-B/models"
)

// ReadEvents loads events back from a CSV export. Columns are located by
// header name, so column order does not matter on the way in. Rows without
// a URL are skipped; an unparsable scraped_at falls back to the current time.
func ReadEvents(path string) ([]*models.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %q: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("csv: read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	if _, ok := col["url"]; !ok {
		return nil, fmt.Errorf("csv: %q has no url column", path)
	}

	field := func(row []string, name, def string) string {
		idx, ok := col[name]
		if !ok || idx >= len(row) || row[idx] == "" {
			return def
		}
		return row[idx]
	}

	var events []*models.Event
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: read row: %w", err)
		}

		url := field(row, "url", "")
		if url == "" {
			continue
		}

		scrapedAt, err := time.Parse(time.RFC3339, field(row, "scraped_at", ""))
		if err != nil {
			scrapedAt = time.Now()
		}

		events = append(events, &models.Event{
			Name:      field(row, "name", "Unknown"),
			Place:     field(row, "place", "N/A"),
			Date:      field(row, "date", "N/A"),
			Price:     field(row, "price", "N/A"),
			URL:       url,
			City:      field(row, "city", models.CityUnknown),
			ScrapedAt: scrapedAt,
		})
	}

	return events, nil
}
