package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/FDT12/TN-by-Night-B/models"
	"github.com/FDT12/TN-by-Night-B/services"
)

// heatmapResponse carries the heatmap both keyed by governorate and as an
// ordered array for easier frontend consumption.
type heatmapResponse struct {
	Success      bool                        `json:"success"`
	Summary      services.Summary            `json:"summary"`
	Governorates map[string]*services.Bucket `json:"governorates"`
	Data         []services.HeatmapEntry     `json:"data"`
}

func (s *Server) handleHeatmap(w http.ResponseWriter, r *http.Request) {
	if payload, ok := s.cache.GetHeatmap(r.Context()); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(payload)
		return
	}

	events, err := s.source.FetchByStatus(models.StatusApproved)
	if err != nil {
		s.logger.Error("[api] Heatmap fetch failed: %v", err)
		s.respondWithError(w, http.StatusInternalServerError, "Could not load events")
		return
	}

	data := services.BuildHeatmap(events)
	resp := heatmapResponse{
		Success:      true,
		Summary:      services.Summarize(events),
		Governorates: data,
		Data:         services.HeatmapEntries(data),
	}

	payload, err := json.Marshal(resp)
	if err != nil {
		s.respondWithError(w, http.StatusInternalServerError, "Could not encode heatmap")
		return
	}
	s.cache.SetHeatmap(r.Context(), payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(payload)
}

func (s *Server) handleHeatmapStats(w http.ResponseWriter, r *http.Request) {
	events, err := s.source.FetchByStatus(models.StatusApproved)
	if err != nil {
		s.logger.Error("[api] Stats fetch failed: %v", err)
		s.respondWithError(w, http.StatusInternalServerError, "Could not load events")
		return
	}

	entries := services.HeatmapEntries(services.BuildHeatmap(events))
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	if len(entries) > 10 {
		entries = entries[:10]
	}

	type topGovernorate struct {
		Governorate string `json:"governorate"`
		EventsCount int    `json:"events_count"`
	}
	top := make([]topGovernorate, 0, len(entries))
	for _, e := range entries {
		top = append(top, topGovernorate{Governorate: e.Governorate, EventsCount: e.Score})
	}

	s.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success":          true,
		"summary":          services.Summarize(events),
		"top_governorates": top,
	})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status == "" {
		status = models.StatusApproved
	}
	switch status {
	case models.StatusApproved, models.StatusPending, models.StatusRejected:
	default:
		s.respondWithError(w, http.StatusBadRequest, "Invalid status filter")
		return
	}

	events, err := s.source.FetchByStatus(status)
	if err != nil {
		s.logger.Error("[api] Events fetch failed: %v", err)
		s.respondWithError(w, http.StatusInternalServerError, "Could not load events")
		return
	}
	if events == nil {
		events = []*models.Event{}
	}

	s.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"count":   len(events),
		"events":  events,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	healthStatus := make(map[string]string)

	if err := s.source.Ping(ctx); err != nil {
		healthStatus["postgres"] = "unhealthy"
		s.logger.Error("[api] Health check failed for postgres: %v", err)
	} else {
		healthStatus["postgres"] = "healthy"
	}

	if s.cache == nil {
		healthStatus["redis"] = "disabled"
	} else if err := s.cache.Ping(ctx); err != nil {
		healthStatus["redis"] = "unhealthy"
		s.logger.Error("[api] Health check failed for redis: %v", err)
	} else {
		healthStatus["redis"] = "healthy"
	}

	if healthStatus["postgres"] != "healthy" || healthStatus["redis"] == "unhealthy" {
		s.respondWithJSON(w, http.StatusServiceUnavailable, healthStatus)
		return
	}
	s.respondWithJSON(w, http.StatusOK, healthStatus)
}

func (s *Server) respondWithError(w http.ResponseWriter, code int, message string) {
	s.respondWithJSON(w, code, map[string]string{"error": message})
}

func (s *Server) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
