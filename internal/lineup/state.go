// Package lineup holds the filter and selection state of a loaded playlist.
//
// State is plain data plus synchronous commands: every command stores its
// input and fully recomputes the visible list, so the visible list is always
// the filter of the current channels under the current query and category
// flag. Controller wraps a State for callers that share it across goroutines.
package lineup

import (
	"fmt"

	"github.com/abelbrown/lineup/internal/filter"
	"github.com/abelbrown/lineup/internal/playlist"
)

// EmptyMessage is shown when no channel passes the filters.
const EmptyMessage = "No channels match your filter."

// State is the filter and selection state. It is not safe for concurrent use.
type State struct {
	channels     []playlist.Channel
	visible      []playlist.Channel
	query        string
	categoryOnly bool
	selectedURL  string
	hasSelection bool
	lastStats    playlist.Stats
}

// New returns an empty State: no channels, empty query, category off,
// nothing selected.
func New() *State {
	return &State{
		channels: []playlist.Channel{},
		visible:  []playlist.Channel{},
	}
}

// Load replaces the channel list with Parse(text) and recomputes the visible
// list under the existing query and category flag. If anything is visible the
// first visible channel becomes selected; otherwise the selection is kept,
// even if it now points at a channel that no longer exists.
func (s *State) Load(text string) {
	channels, stats := playlist.ParseStats(text)
	s.channels = channels
	s.lastStats = stats
	s.recompute()
	if len(s.visible) > 0 {
		s.selectedURL = s.visible[0].StreamURL
		s.hasSelection = true
	}
}

// SetQuery stores q as typed and recomputes.
func (s *State) SetQuery(q string) {
	s.query = q
	s.recompute()
}

// SetCategoryOnly toggles the sports filter and recomputes.
func (s *State) SetCategoryOnly(on bool) {
	s.categoryOnly = on
	s.recompute()
}

// Select marks c's stream URL as selected. The channel is not checked
// against the loaded list.
func (s *State) Select(c playlist.Channel) {
	s.selectedURL = c.StreamURL
	s.hasSelection = true
}

// SelectURL selects url only if some loaded channel has it. It reports
// whether the selection changed hands; unknown URLs leave the state alone.
func (s *State) SelectURL(url string) bool {
	for _, c := range s.channels {
		if c.StreamURL == url {
			s.Select(c)
			return true
		}
	}
	return false
}

func (s *State) recompute() {
	s.visible = filter.Apply(s.channels, s.query, s.categoryOnly)
}

// Channels returns the loaded channels in playlist order.
func (s *State) Channels() []playlist.Channel { return s.channels }

// Visible returns the channels passing the current filters.
func (s *State) Visible() []playlist.Channel { return s.visible }

// Query returns the query as last set, untrimmed.
func (s *State) Query() string { return s.query }

// CategoryOnly reports whether the sports filter is on.
func (s *State) CategoryOnly() bool { return s.categoryOnly }

// LastStats returns the parser counters from the most recent Load.
func (s *State) LastStats() playlist.Stats { return s.lastStats }

// SelectedURL returns the selected stream URL, if any.
func (s *State) SelectedURL() (string, bool) {
	return s.selectedURL, s.hasSelection
}

// Selected returns the first loaded channel whose URL is selected.
func (s *State) Selected() (playlist.Channel, bool) {
	if !s.hasSelection {
		return playlist.Channel{}, false
	}
	for _, c := range s.channels {
		if c.StreamURL == s.selectedURL {
			return c, true
		}
	}
	return playlist.Channel{}, false
}

// IsSelected reports whether c carries the selected URL.
func (s *State) IsSelected(c playlist.Channel) bool {
	return s.hasSelection && c.StreamURL == s.selectedURL
}

// Snapshot copies what a presentation layer needs to render.
func (s *State) Snapshot() Snapshot {
	visible := make([]playlist.Channel, len(s.visible))
	copy(visible, s.visible)
	return Snapshot{
		Visible:      visible,
		SelectedURL:  s.selectedURL,
		HasSelection: s.hasSelection,
		Total:        len(s.channels),
		Query:        s.query,
		CategoryOnly: s.categoryOnly,
	}
}

// Snapshot is an immutable view of State after a command.
type Snapshot struct {
	Visible      []playlist.Channel `json:"visible"`
	SelectedURL  string             `json:"selected_url,omitempty"`
	HasSelection bool               `json:"has_selection"`
	Total        int                `json:"total"`
	Query        string             `json:"query"`
	CategoryOnly bool               `json:"category_only"`
}

// Status renders the status line, e.g. "Loaded 12 channels • Showing 3".
func (s Snapshot) Status() string {
	return fmt.Sprintf("Loaded %d channels • Showing %d", s.Total, len(s.Visible))
}

// Empty reports whether nothing passes the filters.
func (s Snapshot) Empty() bool {
	return len(s.Visible) == 0
}
