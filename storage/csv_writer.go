package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/FDT12/TN-by-Night-B/models"
)

// csvColumns is the fixed export column order.
var csvColumns = []string{"name", "place", "date", "price", "url", "city", "scraped_at"}

// CSVWriter exports events to a flat CSV file. The file is always rewritten
// fresh: a prior file at the same path is removed first, and if it cannot be
// removed (still open elsewhere) the writer falls back to a
// timestamp-suffixed name instead of failing the run.
type CSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
	path   string
}

// NewCSVWriter creates the CSV file and writes the header row. Intermediate
// directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("csv: create output dir: %w", err)
		}
	}

	final := path
	if _, err := os.Stat(path); err == nil {
		if err := os.Remove(path); err != nil {
			ext := filepath.Ext(path)
			final = strings.TrimSuffix(path, ext) + "_" +
				time.Now().Format("20060102_150405") + ext
		}
	}

	f, err := os.Create(final)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", final, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(csvColumns); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w, path: final}, nil
}

// Path returns the file path actually written to, which differs from the
// requested path when the fallback name was used.
func (c *CSVWriter) Path() string {
	return c.path
}

// Write appends event rows in the fixed column order.
func (c *CSVWriter) Write(events []*models.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, ev := range events {
		row := []string{
			ev.Name,
			ev.Place,
			ev.Date,
			ev.Price,
			ev.URL,
			ev.City,
			ev.ScrapedAt.Format(time.RFC3339),
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}
