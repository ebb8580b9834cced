package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/FDT12/TN-by-Night-B/config"
	"github.com/FDT12/TN-by-Night-B/models"
	"github.com/FDT12/TN-by-Night-B/monitoring"
	"github.com/FDT12/TN-by-Night-B/utils"
)

type stubSource struct {
	events []*models.Event
	err    error
}

func (s *stubSource) FetchByStatus(status string) ([]*models.Event, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []*models.Event
	for _, ev := range s.events {
		if ev.Status == status {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (s *stubSource) Ping(ctx context.Context) error { return s.err }

func newTestServer(source *stubSource) *Server {
	cfg := &config.Config{ServerPort: "0"}
	return NewServer(cfg, source, nil, nil, utils.NewLogger())
}

func doRequest(s *Server, path string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	s.router.ServeHTTP(rr, req)
	return rr
}

func approvedEvents(cities ...string) []*models.Event {
	events := make([]*models.Event, 0, len(cities))
	for i, city := range cities {
		events = append(events, &models.Event{
			Name:   "Event",
			URL:    "https://teskerti.tn/event/" + string(rune('a'+i)),
			City:   city,
			Status: models.StatusApproved,
		})
	}
	return events
}

func TestHeatmapEndpoint(t *testing.T) {
	s := newTestServer(&stubSource{events: approvedEvents("Monastir", "Sfax", "Sfax")})

	rr := doRequest(s, "/api/heatmap")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}

	var resp heatmapResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success {
		t.Error("success: got false")
	}
	if len(resp.Data) != 24 {
		t.Errorf("data: got %d entries, want 24", len(resp.Data))
	}
	if resp.Summary.TotalEvents != 3 {
		t.Errorf("total events: got %d, want 3", resp.Summary.TotalEvents)
	}
	if resp.Governorates["Sfax"].Score != 2 {
		t.Errorf("Sfax score: got %d, want 2", resp.Governorates["Sfax"].Score)
	}
}

func TestHeatmapStatsEndpoint(t *testing.T) {
	s := newTestServer(&stubSource{events: approvedEvents("Sfax", "Sfax", "Tunis")})

	rr := doRequest(s, "/api/heatmap/stats")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}

	var resp struct {
		Success         bool `json:"success"`
		TopGovernorates []struct {
			Governorate string `json:"governorate"`
			EventsCount int    `json:"events_count"`
		} `json:"top_governorates"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.TopGovernorates) != 10 {
		t.Fatalf("top governorates: got %d, want 10", len(resp.TopGovernorates))
	}
	if resp.TopGovernorates[0].Governorate != "Sfax" || resp.TopGovernorates[0].EventsCount != 2 {
		t.Errorf("top entry: got %+v, want Sfax with 2", resp.TopGovernorates[0])
	}
}

func TestEventsEndpointRejectsBadStatus(t *testing.T) {
	s := newTestServer(&stubSource{})

	rr := doRequest(s, "/api/events?status=bogus")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rr.Code)
	}
}

func TestEventsEndpointDefaultsToApproved(t *testing.T) {
	events := approvedEvents("Tunis")
	events = append(events, &models.Event{
		Name: "Suggested", URL: "https://teskerti.tn/event/z",
		City: "Sousse", Status: models.StatusPending,
	})
	s := newTestServer(&stubSource{events: events})

	rr := doRequest(s, "/api/events")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}

	var resp struct {
		Count  int             `json:"count"`
		Events []*models.Event `json:"events"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count != 1 {
		t.Errorf("count: got %d, want 1 approved event", resp.Count)
	}
}

func TestRequestMetricsAreExported(t *testing.T) {
	// One metrics set per test binary; promauto registers into the default
	// registry, which /metrics serves.
	s := NewServer(&config.Config{ServerPort: "0"}, &stubSource{}, nil, monitoring.NewMetrics(), utils.NewLogger())

	if rr := doRequest(s, "/api/health"); rr.Code != http.StatusOK {
		t.Fatalf("health status: got %d, want 200", rr.Code)
	}

	rr := doRequest(s, "/metrics")
	if rr.Code != http.StatusOK {
		t.Fatalf("metrics status: got %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, `tnbynight_http_requests_total{method="GET",path="/api/health",status="200"} 1`) {
		t.Errorf("request counter missing from /metrics exposition:\n%s", body)
	}
}

func TestHealthEndpointDegraded(t *testing.T) {
	s := newTestServer(&stubSource{err: errors.New("connection refused")})

	rr := doRequest(s, "/api/health")
	if rr.Code != http.StatusServiceUnavailable {
		t.Errorf("status: got %d, want 503", rr.Code)
	}
}

func TestHealthEndpointHealthy(t *testing.T) {
	s := newTestServer(&stubSource{})

	rr := doRequest(s, "/api/health")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rr.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["postgres"] != "healthy" || resp["redis"] != "disabled" {
		t.Errorf("health payload: got %v", resp)
	}
}
