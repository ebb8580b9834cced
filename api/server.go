package api

import (
	"context"
	"net/http"
	"time"

	"github.com/FDT12/TN-by-Night-B/config"
	"github.com/FDT12/TN-by-Night-B/monitoring"
	"github.com/FDT12/TN-by-Night-B/storage"
	"github.com/FDT12/TN-by-Night-B/utils"
)

// Server exposes the heatmap and events read API over HTTP.
type Server struct {
	cfg        *config.Config
	source     storage.EventSource
	cache      *storage.RedisCache
	metrics    *monitoring.Metrics
	logger     *utils.Logger
	router     http.Handler
	httpServer *http.Server
}

// NewServer wires the API against an event source, an optional (nil)
// heatmap cache and an optional (nil) metrics set.
func NewServer(cfg *config.Config, source storage.EventSource, cache *storage.RedisCache, metrics *monitoring.Metrics, logger *utils.Logger) *Server {
	s := &Server{
		cfg:     cfg,
		source:  source,
		cache:   cache,
		metrics: metrics,
		logger:  logger,
	}
	s.router = s.setupRouter()
	return s
}

func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:         ":" + s.cfg.ServerPort,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	s.logger.Info("[api] Listening on %s", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
