// Package server exposes the lineup state commands over HTTP.
//
// Every mutating route maps onto one Controller command and answers with the
// resulting snapshot, so a client never has to re-read state after a change.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/abelbrown/lineup/internal/lineup"
	"github.com/abelbrown/lineup/internal/logging"
	"github.com/abelbrown/lineup/internal/otel"
)

// Server routes HTTP requests to a Controller.
type Server struct {
	ctrl   *lineup.Controller
	acq    lineup.Acquirer
	events *otel.Logger
}

// New creates a Server. acq may be nil, in which case POST /load only
// accepts playlist text in the body.
func New(ctrl *lineup.Controller, acq lineup.Acquirer, events *otel.Logger) *Server {
	return &Server{ctrl: ctrl, acq: acq, events: events}
}

// Router builds the route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.instrument)

	r.HandleFunc("/healthz", s.Health).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	r.HandleFunc("/load", s.Load).Methods("POST")
	r.HandleFunc("/query", s.SetQuery).Methods("PUT")
	r.HandleFunc("/category", s.SetCategory).Methods("PUT")
	r.HandleFunc("/select", s.Select).Methods("PUT")
	r.HandleFunc("/channels", s.Channels).Methods("GET")
	r.HandleFunc("/channels/selected", s.Selected).Methods("GET")
	r.HandleFunc("/groups", s.Groups).Methods("GET")

	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	logging.Info("http server listening", "addr", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logging.Info("http server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Warn("http server shutdown error", "error", err)
		return err
	}
	return nil
}
