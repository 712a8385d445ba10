package lineup

import (
	"testing"

	"github.com/abelbrown/lineup/internal/filter"
	"github.com/abelbrown/lineup/internal/playlist"
)

const samplePlaylist = `#EXTM3U
#EXTINF:-1 tvg-logo="http://logo/bbc.png" group-title="News",BBC News
http://example.com/bbc
#EXTINF:-1 group-title="Sports",Sky Sports Main Event
http://example.com/sky
#EXTINF:-1 group-title="Kids",Cartoon Time
rtmp://example.com/cartoon
#EXTINF:-1 group-title="Football",Match Day
https://example.com/matchday
`

func urls(channels []playlist.Channel) []string {
	out := make([]string, len(channels))
	for i, c := range channels {
		out[i] = c.StreamURL
	}
	return out
}

func equalURLs(t *testing.T, got []playlist.Channel, want ...string) {
	t.Helper()
	g := urls(got)
	if len(g) != len(want) {
		t.Fatalf("got %v, want %v", g, want)
	}
	for i := range want {
		if g[i] != want[i] {
			t.Fatalf("got %v, want %v", g, want)
		}
	}
}

func TestNewState(t *testing.T) {
	s := New()
	if len(s.Channels()) != 0 || len(s.Visible()) != 0 {
		t.Error("new state should be empty")
	}
	if s.Visible() == nil {
		t.Error("visible should be non-nil")
	}
	if s.Query() != "" || s.CategoryOnly() {
		t.Error("new state should have no filters")
	}
	if _, ok := s.SelectedURL(); ok {
		t.Error("new state should have no selection")
	}
}

func TestLoadSelectsFirstVisible(t *testing.T) {
	s := New()
	s.Load(samplePlaylist)

	if len(s.Channels()) != 4 {
		t.Fatalf("expected 4 channels, got %d", len(s.Channels()))
	}
	equalURLs(t, s.Visible(),
		"http://example.com/bbc", "http://example.com/sky",
		"rtmp://example.com/cartoon", "https://example.com/matchday")

	url, ok := s.SelectedURL()
	if !ok || url != "http://example.com/bbc" {
		t.Errorf("selected = %q, %v; want first visible", url, ok)
	}
	c, ok := s.Selected()
	if !ok || c.Name != "BBC News" {
		t.Errorf("Selected() = %+v, %v", c, ok)
	}
}

func TestLoadKeepsFilters(t *testing.T) {
	s := New()
	s.SetQuery("match")
	s.SetCategoryOnly(true)
	s.Load(samplePlaylist)

	equalURLs(t, s.Visible(), "https://example.com/matchday")
	if url, _ := s.SelectedURL(); url != "https://example.com/matchday" {
		t.Errorf("should select first visible under filters, got %q", url)
	}
}

func TestLoadEmptyKeepsSelection(t *testing.T) {
	s := New()
	s.Load(samplePlaylist)
	s.SelectURL("http://example.com/sky")

	for _, text := range []string{"", "not a playlist", "#EXTM3U\n#EXTINF:-1,Lonely\n"} {
		s.Load(text)
		if len(s.Channels()) != 0 {
			t.Errorf("Load(%q) should leave no channels", text)
		}
		url, ok := s.SelectedURL()
		if !ok || url != "http://example.com/sky" {
			t.Errorf("Load(%q) changed selection to %q, %v", text, url, ok)
		}
		if _, ok := s.Selected(); ok {
			t.Errorf("Selected() should not resolve a URL that is no longer loaded")
		}
	}
}

func TestLoadNothingVisibleKeepsSelection(t *testing.T) {
	s := New()
	s.Load(samplePlaylist)
	s.SetQuery("zzz")
	s.Load(samplePlaylist)

	if len(s.Visible()) != 0 {
		t.Fatalf("expected nothing visible, got %v", urls(s.Visible()))
	}
	if url, _ := s.SelectedURL(); url != "http://example.com/bbc" {
		t.Errorf("selection should survive, got %q", url)
	}
}

func TestSetQuery(t *testing.T) {
	s := New()
	s.Load(samplePlaylist)

	s.SetQuery("  NEWS ")
	equalURLs(t, s.Visible(), "http://example.com/bbc")
	if s.Query() != "  NEWS " {
		t.Errorf("query should be stored as typed, got %q", s.Query())
	}

	// group is searchable too
	s.SetQuery("kids")
	equalURLs(t, s.Visible(), "rtmp://example.com/cartoon")

	s.SetQuery("   ")
	if len(s.Visible()) != len(s.Channels()) {
		t.Error("whitespace query should match everything")
	}
}

func TestSetCategoryOnly(t *testing.T) {
	s := New()
	s.Load(samplePlaylist)

	s.SetCategoryOnly(true)
	equalURLs(t, s.Visible(), "http://example.com/sky", "https://example.com/matchday")

	s.SetQuery("sky")
	equalURLs(t, s.Visible(), "http://example.com/sky")

	s.SetCategoryOnly(false)
	equalURLs(t, s.Visible(), "http://example.com/sky")
}

func TestFilterChangesDoNotTouchSelection(t *testing.T) {
	s := New()
	s.Load(samplePlaylist)
	s.SetQuery("cartoon")
	s.SetCategoryOnly(true)

	if url, _ := s.SelectedURL(); url != "http://example.com/bbc" {
		t.Errorf("filters must not move the selection, got %q", url)
	}
}

func TestVisibleMatchesFilterApply(t *testing.T) {
	s := New()
	s.Load(samplePlaylist)

	steps := []func(){
		func() { s.SetQuery("s") },
		func() { s.SetCategoryOnly(true) },
		func() { s.SetQuery("") },
		func() { s.Load(samplePlaylist + "#EXTINF:-1,Soccer Live\nhttp://x/soccer\n") },
		func() { s.SetCategoryOnly(false) },
	}
	for i, step := range steps {
		step()
		want := filter.Apply(s.Channels(), s.Query(), s.CategoryOnly())
		equalURLs(t, s.Visible(), urls(want)...)
		if t.Failed() {
			t.Fatalf("step %d diverged", i)
		}
	}
}

func TestRecomputeIdempotent(t *testing.T) {
	s := New()
	s.Load(samplePlaylist)
	s.SetQuery("sport")
	first := urls(s.Visible())
	s.SetQuery("sport")
	s.SetCategoryOnly(false)
	equalURLs(t, s.Visible(), first...)
}

func TestSelectUnconditional(t *testing.T) {
	s := New()
	s.Load(samplePlaylist)

	stranger := playlist.Channel{Name: "Elsewhere", StreamURL: "http://nowhere/stream"}
	s.Select(stranger)
	if url, ok := s.SelectedURL(); !ok || url != stranger.StreamURL {
		t.Errorf("Select should not validate, got %q", url)
	}
	if !s.IsSelected(stranger) {
		t.Error("IsSelected should match by URL")
	}
	if len(s.Visible()) != 4 {
		t.Error("Select must not change the visible list")
	}
}

func TestSelectURL(t *testing.T) {
	s := New()
	s.Load(samplePlaylist)

	if !s.SelectURL("rtmp://example.com/cartoon") {
		t.Fatal("known URL should be selectable")
	}
	if url, _ := s.SelectedURL(); url != "rtmp://example.com/cartoon" {
		t.Errorf("got %q", url)
	}

	if s.SelectURL("http://unknown/") {
		t.Error("unknown URL should be rejected")
	}
	if url, _ := s.SelectedURL(); url != "rtmp://example.com/cartoon" {
		t.Errorf("rejected SelectURL changed selection to %q", url)
	}
}

func TestSelectDuplicateURL(t *testing.T) {
	s := New()
	s.Load("#EXTINF:-1,First\nhttp://dup\n#EXTINF:-1,Second\nhttp://dup\n")

	s.Select(s.Visible()[1])
	c, ok := s.Selected()
	if !ok || c.Name != "First" {
		t.Errorf("Selected should resolve to the first channel with the URL, got %+v", c)
	}
	for _, v := range s.Visible() {
		if !s.IsSelected(v) {
			t.Errorf("%s shares the selected URL", v.Name)
		}
	}
}

func TestSnapshot(t *testing.T) {
	s := New()
	s.Load(samplePlaylist)
	s.SetCategoryOnly(true)

	snap := s.Snapshot()
	if snap.Total != 4 || len(snap.Visible) != 2 {
		t.Errorf("snapshot counts = %d/%d", snap.Total, len(snap.Visible))
	}
	if !snap.CategoryOnly || !snap.HasSelection || snap.SelectedURL != "http://example.com/bbc" {
		t.Errorf("unexpected snapshot %+v", snap)
	}
	if got := snap.Status(); got != "Loaded 4 channels • Showing 2" {
		t.Errorf("Status() = %q", got)
	}

	// later commands must not leak into an earlier snapshot
	s.SetQuery("zzz")
	if len(snap.Visible) != 2 || snap.Empty() {
		t.Error("snapshot should be independent of the state")
	}
	if !s.Snapshot().Empty() {
		t.Error("expected empty snapshot")
	}
}

func TestLastStats(t *testing.T) {
	s := New()
	s.Load(samplePlaylist + "#EXTINF:-1,Broken\n#EXTINF:-1,FTP\nftp://x/y\n")
	st := s.LastStats()
	if st.Accepted != 4 || st.MissingURL != 1 || st.BadScheme != 1 {
		t.Errorf("stats = %+v", st)
	}
}
