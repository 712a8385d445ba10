// Package otel records what lineup did as a JSONL event log.
//
// Events are typed structs, one per line. The Logger writes them from a
// background goroutine so that emitting never blocks the UI loop. An optional
// Recent buffer keeps the last events in memory for the debug overlay.
package otel

import (
	"encoding/json"
	"time"
)

// Level defines event severity.
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// EventKind is dot-delimited: "<subsystem>.<action>".
type EventKind string

const (
	// Acquisition and parsing
	KindLoadStart    EventKind = "load.start"
	KindLoadComplete EventKind = "load.complete"
	KindLoadError    EventKind = "load.error"
	KindLoadStale    EventKind = "load.stale"
	KindParseSkip    EventKind = "parse.skip"

	// State commands
	KindQuery    EventKind = "state.query"
	KindCategory EventKind = "state.category"
	KindSelect   EventKind = "state.select"

	// HTTP surface
	KindHTTPRequest EventKind = "http.request"

	// System
	KindStartup  EventKind = "sys.startup"
	KindShutdown EventKind = "sys.shutdown"
	KindError    EventKind = "sys.error"
)

// Event is the universal record. Every field except Kind and Time is optional.
type Event struct {
	Time      time.Time      `json:"t"`
	Level     Level          `json:"level,omitempty"`
	Kind      EventKind      `json:"kind"`
	Comp      string         `json:"comp,omitempty"` // "ui", "server", "cli", "state"
	SessionID string         `json:"session_id,omitempty"`
	LoadID    string         `json:"load_id,omitempty"` // correlates start/complete of one load
	Dur       time.Duration  `json:"-"`
	DurMs     float64        `json:"dur_ms,omitempty"` // computed from Dur at marshal time
	Count     int            `json:"count,omitempty"`
	Visible   int            `json:"visible,omitempty"`
	Source    string         `json:"source,omitempty"`
	Query     string         `json:"query,omitempty"`
	URL       string         `json:"url,omitempty"`
	Err       string         `json:"err,omitempty"`
	Msg       string         `json:"msg,omitempty"`
	Extra     map[string]any `json:"extra,omitempty"`
}

// MarshalJSON converts Dur to DurMs.
func (e Event) MarshalJSON() ([]byte, error) {
	type alias Event
	a := struct {
		alias
	}{alias: alias(e)}
	if e.Dur > 0 {
		a.DurMs = float64(e.Dur) / float64(time.Millisecond)
	}
	return json.Marshal(a)
}
