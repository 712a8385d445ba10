package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/abelbrown/lineup/internal/metrics"
	"github.com/abelbrown/lineup/internal/otel"
)

// statusRecorder wraps http.ResponseWriter to capture status code
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// instrument records a metric and an event per request. Paths are taken from
// the route template so unknown URLs cannot blow up label cardinality.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := "unmatched"
		if route := mux.CurrentRoute(r); route != nil {
			if tpl, err := route.GetPathTemplate(); err == nil {
				path = tpl
			}
		}
		if path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		rec := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		dur := time.Since(start)

		status := strconv.Itoa(rec.statusCode)
		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, path, status).Inc()

		level := otel.LevelDebug
		if rec.statusCode >= 500 {
			level = otel.LevelError
		}
		s.events.Emit(otel.Event{
			Level: level,
			Kind:  otel.KindHTTPRequest,
			Comp:  "server",
			Dur:   dur,
			Msg:   r.Method + " " + path + " " + status,
		})
	})
}
