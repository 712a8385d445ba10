package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/abelbrown/lineup/internal/fetch"
	"github.com/abelbrown/lineup/internal/filter"
	"github.com/abelbrown/lineup/internal/lineup"
	"github.com/abelbrown/lineup/internal/logging"
)

type snapshotResponse struct {
	lineup.Snapshot
	Status string `json:"status"`
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("failed to encode JSON response", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	writeJSON(w, map[string]string{"error": message})
}

func writeSnapshot(w http.ResponseWriter, snap lineup.Snapshot) {
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, snapshotResponse{Snapshot: snap, Status: snap.Status()})
}

func decodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// Health reports liveness.
func (s *Server) Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, map[string]string{"status": "ok"})
}

// Load replaces the channel list. With ?source= the playlist is acquired by
// the server; otherwise the request body is the playlist text.
func (s *Server) Load(w http.ResponseWriter, r *http.Request) {
	if source := strings.TrimSpace(r.URL.Query().Get("source")); source != "" {
		if s.acq == nil {
			writeJSONError(w, "server cannot acquire sources", http.StatusBadRequest)
			return
		}
		snap, err := s.ctrl.LoadSource(r.Context(), s.acq, source)
		if err != nil {
			writeJSONError(w, err.Error(), errorStatus(err))
			return
		}
		writeSnapshot(w, snap)
		return
	}

	text, err := fetch.Decode(r.Body)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, fetch.ErrTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		writeJSONError(w, err.Error(), status)
		return
	}
	writeSnapshot(w, s.ctrl.Apply(lineup.NewLoadID(), "request body", text))
}

type queryRequest struct {
	Query string `json:"query"`
}

// SetQuery changes the search query.
func (s *Server) SetQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeSnapshot(w, s.ctrl.OnQueryChange(req.Query))
}

type categoryRequest struct {
	SportsOnly *bool `json:"sports_only"`
}

// SetCategory switches the sports filter.
func (s *Server) SetCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.SportsOnly == nil {
		writeJSONError(w, "sports_only is required", http.StatusBadRequest)
		return
	}
	writeSnapshot(w, s.ctrl.OnCategoryToggle(*req.SportsOnly))
}

type selectRequest struct {
	URL string `json:"url"`
}

// Select selects a loaded channel by stream URL.
func (s *Server) Select(w http.ResponseWriter, r *http.Request) {
	var req selectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	snap, ok := s.ctrl.OnSelectURL(req.URL)
	if !ok {
		writeJSONError(w, "no loaded channel has that url", http.StatusNotFound)
		return
	}
	writeSnapshot(w, snap)
}

// Channels returns the current snapshot. ?all=true returns every loaded
// channel instead of the visible ones.
func (s *Server) Channels(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("all") == "true" {
		w.Header().Set("Content-Type", "application/json")
		writeJSON(w, s.ctrl.Channels())
		return
	}
	writeSnapshot(w, s.ctrl.Snapshot())
}

// Selected returns the selected channel.
func (s *Server) Selected(w http.ResponseWriter, _ *http.Request) {
	c, ok := s.ctrl.Selected()
	if !ok {
		writeJSONError(w, "nothing selected", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, c)
}

// Groups lists distinct group titles in playlist order.
func (s *Server) Groups(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, filter.Groups(s.ctrl.Channels()))
}

// errorStatus maps oversized playlists to 413, other acquisition failures
// to 502 and anything else to 500.
func errorStatus(err error) int {
	if errors.Is(err, fetch.ErrTooLarge) {
		return http.StatusRequestEntityTooLarge
	}
	var ae *fetch.AcquireError
	if errors.As(err, &ae) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
