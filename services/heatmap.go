// Package services contains the pure aggregation step that turns stored
// events into display-ready heatmap structures. No I/O, no shared state:
// every call builds its output fresh from its input.
package services

import (
	"strings"

	"github.com/FDT12/TN-by-Night-B/geo"
	"github.com/FDT12/TN-by-Night-B/models"
)

// Density band colors.
const (
	ColorBlue   = "#3388FF" // no events
	ColorYellow = "#FFD700" // 1-3 events
	ColorOrange = "#FF8800" // 4-6 events
	ColorRed    = "#FF0000" // 7+ events
)

// maxSampleEvents bounds the per-bucket event sample kept for display.
const maxSampleEvents = 5

// Bucket is the per-governorate accumulator. EventsCount always equals
// Score; both are kept for interface stability with the frontend.
type Bucket struct {
	Score       int             `json:"score"`
	Color       string          `json:"color"`
	EventsCount int             `json:"events_count"`
	Events      []*models.Event `json:"events"`
}

// HeatmapEntry is the ordered array form of a bucket for frontend consumption.
type HeatmapEntry struct {
	Governorate string          `json:"governorate"`
	Score       int             `json:"score"`
	Color       string          `json:"color"`
	EventsCount int             `json:"events_count"`
	Events      []*models.Event `json:"events"`
}

// Summary holds aggregate statistics over the full heatmap.
type Summary struct {
	TotalEvents            int      `json:"total_events"`
	ActiveGovernorates     int      `json:"active_governorates"`
	TotalGovernorates      int      `json:"total_governorates"`
	GovernoratesWithEvents []string `json:"governorates_with_events"`
}

// ColorForScore maps an event count to its density band color. Total over
// all non-negative scores: 0 blue, 1-3 yellow, 4-6 orange, 7+ red.
func ColorForScore(score int) string {
	switch {
	case score == 0:
		return ColorBlue
	case score <= 3:
		return ColorYellow
	case score <= 6:
		return ColorOrange
	default:
		return ColorRed
	}
}

// bucketFor normalizes an event's city to its governorate bucket. Transient
// and unmappable cities report ok=false and never create new buckets, so
// aggregation output is always exactly the fixed 24-entry set.
func bucketFor(city string) (string, bool) {
	city = strings.TrimSpace(city)
	if city == "" || city == models.CityUnknown || city == models.CityError || city == models.CityPending {
		return "", false
	}

	governorate, mapped := geo.CityToGovernorate[city]
	if !mapped {
		governorate = city
	}
	if geo.IsGovernorate(governorate) {
		return governorate, true
	}
	if geo.IsGovernorate(city) {
		return city, true
	}
	return "", false
}

// CalculateScores counts events per governorate. Every taxonomy entry is
// present in the result, zero-initialized.
func CalculateScores(events []*models.Event) map[string]int {
	scores := make(map[string]int, len(geo.Governorates))
	for _, gov := range geo.Governorates {
		scores[gov] = 0
	}

	for _, ev := range events {
		if gov, ok := bucketFor(ev.City); ok {
			scores[gov]++
		}
	}
	return scores
}

// BuildHeatmap buckets events by governorate, keeping up to five sample
// events per bucket. Events beyond the sample cap still count toward the
// score, so aggregate accuracy is never lost to the display bound.
func BuildHeatmap(events []*models.Event) map[string]*Bucket {
	data := make(map[string]*Bucket, len(geo.Governorates))
	for _, gov := range geo.Governorates {
		data[gov] = &Bucket{
			Color:  ColorForScore(0),
			Events: []*models.Event{},
		}
	}

	for _, ev := range events {
		gov, ok := bucketFor(ev.City)
		if !ok {
			continue
		}

		bucket := data[gov]
		bucket.Score++
		bucket.EventsCount++
		bucket.Color = ColorForScore(bucket.Score)
		if len(bucket.Events) < maxSampleEvents {
			bucket.Events = append(bucket.Events, ev)
		}
	}
	return data
}

// HeatmapEntries flattens a heatmap into the equivalent array form, in
// taxonomy order.
func HeatmapEntries(data map[string]*Bucket) []HeatmapEntry {
	entries := make([]HeatmapEntry, 0, len(geo.Governorates))
	for _, gov := range geo.Governorates {
		bucket := data[gov]
		entries = append(entries, HeatmapEntry{
			Governorate: gov,
			Score:       bucket.Score,
			Color:       bucket.Color,
			EventsCount: bucket.EventsCount,
			Events:      bucket.Events,
		})
	}
	return entries
}

// Summarize derives the read-only snapshot used by the stats endpoint and
// the terminal report. Nonzero governorate names come back in taxonomy order.
func Summarize(events []*models.Event) Summary {
	scores := CalculateScores(events)

	summary := Summary{
		TotalGovernorates:      len(geo.Governorates),
		GovernoratesWithEvents: []string{},
	}
	for _, gov := range geo.Governorates {
		score := scores[gov]
		summary.TotalEvents += score
		if score > 0 {
			summary.ActiveGovernorates++
			summary.GovernoratesWithEvents = append(summary.GovernoratesWithEvents, gov)
		}
	}
	return summary
}
