package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/FDT12/TN-by-Night-B/utils"
)

// StartServer exposes /metrics on the given port for the lifetime of a
// crawl run, so Prometheus can scrape the crawl counters while the run is
// in flight. Returns nil when port is empty, which disables the listener.
func StartServer(port string, logger *utils.Logger) *http.Server {
	if port == "" {
		return nil
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("[metrics] Exposing /metrics on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Warn("[metrics] Listener failed: %v", err)
		}
	}()

	return srv
}
