package app

import (
	"net/http"
	"time"

	"github.com/calgapt/calgapt/internal/config"
	"github.com/calgapt/calgapt/internal/metrics"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// SetupMiddleware wires all HTTP middlewares for the application.
func SetupMiddleware(r *mux.Router, cfg config.Application) {
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	if cfg.Metrics.Enabled {
		r.Use(metrics.Middleware())
	}

	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)

			next.ServeHTTP(ww, req)

			log.WithFields(log.Fields{
				"request_id": middleware.GetReqID(req.Context()),
				"method":     req.Method,
				"path":       req.URL.Path,
				"status":     ww.Status(),
				"elapsed":    time.Since(start),
			}).Debug("Handled request")
		})
	})
}
