// Package ui provides the Bubble Tea TUI for lineup.
package ui

// PlaylistLoaded is sent when an acquisition started by a Loader finishes.
// LoadID matches the request; results for older requests are dropped.
type PlaylistLoaded struct {
	LoadID string
	Source string
	Text   string
	Err    error
}
