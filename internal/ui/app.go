package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/abelbrown/lineup/internal/filter"
	"github.com/abelbrown/lineup/internal/lineup"
	"github.com/abelbrown/lineup/internal/otel"
	"github.com/abelbrown/lineup/internal/playlist"
)

// Loader starts acquiring source off the UI loop. The returned command must
// yield a PlaylistLoaded carrying loadID.
type Loader func(loadID, source string) tea.Cmd

// NewLoader returns a Loader backed by acq.
func NewLoader(ctx context.Context, acq lineup.Acquirer, events *otel.Logger) Loader {
	return func(loadID, source string) tea.Cmd {
		return func() tea.Msg {
			text, err := lineup.Acquire(ctx, acq, events, "ui", loadID, source)
			return PlaylistLoaded{LoadID: loadID, Source: source, Text: text, Err: err}
		}
	}
}

// Options configures an App.
type Options struct {
	Source     string // loaded on Init; empty starts with nothing
	SportsOnly bool   // initial category toggle
	ShowLogos  bool
	Events     *otel.Logger
	Recent     *otel.Recent // feeds the debug overlay; nil disables it
}

type inputMode int

const (
	modeList inputMode = iota
	modeSearch
	modeSource
)

// App is the root Bubble Tea model.
// App never acquires playlists itself: it asks the Loader and applies the
// PlaylistLoaded that comes back through the Controller.
type App struct {
	ctrl   *lineup.Controller
	load   Loader
	events *otel.Logger
	recent *otel.Recent

	snap        lineup.Snapshot
	header      playlist.Header
	groups      int
	source      string
	pendingLoad string // load ID whose result will be applied
	pendingSrc  string
	showLogos   bool

	search      textinput.Model
	sourceInput textinput.Model
	spinner     spinner.Model
	help        help.Model
	mode        inputMode

	cursor    int
	err       error
	width     int
	height    int
	ready     bool
	loading   bool
	showDebug bool
}

// NewApp creates an App driving ctrl.
func NewApp(ctrl *lineup.Controller, load Loader, opts Options) App {
	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "search name or group"
	search.PromptStyle = FilterBarPrompt
	search.CharLimit = 128

	src := textinput.New()
	src.Prompt = "open: "
	src.Placeholder = "URL, file path or bundled:sample"
	src.PromptStyle = FilterBarPrompt
	src.CharLimit = 2048

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(colorHighlight)

	a := App{
		ctrl:        ctrl,
		load:        load,
		events:      opts.Events,
		recent:      opts.Recent,
		source:      opts.Source,
		showLogos:   opts.ShowLogos,
		search:      search,
		sourceInput: src,
		spinner:     s,
		help:        help.New(),
	}

	if opts.SportsOnly {
		a.snap = ctrl.OnCategoryToggle(true)
	} else {
		a.snap = ctrl.Snapshot()
	}

	// The first load ID is minted here because Init cannot keep model changes.
	if load != nil && opts.Source != "" {
		a.pendingLoad = lineup.NewLoadID()
		a.pendingSrc = opts.Source
		a.loading = true
	}
	return a
}

// Init starts the initial load, if there is a source.
func (a App) Init() tea.Cmd {
	if a.pendingLoad == "" {
		return nil
	}
	return tea.Batch(a.spinner.Tick, a.load(a.pendingLoad, a.pendingSrc))
}

// Update handles messages and returns the updated model and any commands.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.help.Width = msg.Width
		a.search.Width = msg.Width - 20
		a.sourceInput.Width = msg.Width - 12
		return a, nil

	case PlaylistLoaded:
		return a.handleLoaded(msg)

	case spinner.TickMsg:
		if !a.loading {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		switch a.mode {
		case modeSearch:
			return a.handleSearchKey(msg)
		case modeSource:
			return a.handleSourceKey(msg)
		}
		return a.handleKeyMsg(msg)
	}

	// Cursor blink and other input-internal messages.
	var cmd tea.Cmd
	switch a.mode {
	case modeSearch:
		a.search, cmd = a.search.Update(msg)
	case modeSource:
		a.sourceInput, cmd = a.sourceInput.Update(msg)
	}
	return a, cmd
}

func (a App) handleLoaded(msg PlaylistLoaded) (tea.Model, tea.Cmd) {
	if msg.LoadID != a.pendingLoad {
		a.events.Emit(otel.Event{
			Level:  otel.LevelDebug,
			Kind:   otel.KindLoadStale,
			Comp:   "ui",
			LoadID: msg.LoadID,
			Source: msg.Source,
		})
		return a, nil
	}

	a.pendingLoad = ""
	a.pendingSrc = ""
	a.loading = false
	if msg.Err != nil {
		a.err = msg.Err
		return a, nil
	}

	a.err = nil
	a.source = msg.Source
	a.header = playlist.ParseHeader(msg.Text)
	a.snap = a.ctrl.Apply(msg.LoadID, msg.Source, msg.Text)
	a.groups = len(filter.Groups(a.ctrl.Channels()))
	a.cursor = a.selectedIndex()
	return a, nil
}

// handleKeyMsg processes keyboard input in list mode.
func (a App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Clear any existing error on key press
	if a.err != nil {
		a.err = nil
	}

	if a.showDebug {
		switch {
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Debug), msg.String() == "esc":
			a.showDebug = false
		}
		return a, nil
	}

	visible := len(a.snap.Visible)
	switch {
	case key.Matches(msg, keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, keys.Down):
		if a.cursor < visible-1 {
			a.cursor++
		}
	case key.Matches(msg, keys.Up):
		if a.cursor > 0 {
			a.cursor--
		}
	case key.Matches(msg, keys.PageDown):
		a.cursor = min(a.cursor+a.listHeight(), max(visible-1, 0))
	case key.Matches(msg, keys.PageUp):
		a.cursor = max(a.cursor-a.listHeight(), 0)
	case key.Matches(msg, keys.Home):
		a.cursor = 0
	case key.Matches(msg, keys.End):
		if visible > 0 {
			a.cursor = visible - 1
		}

	case key.Matches(msg, keys.Search):
		a.mode = modeSearch
		a.search.SetValue(a.snap.Query)
		a.search.CursorEnd()
		cmd := a.search.Focus()
		return a, cmd

	case key.Matches(msg, keys.Clear):
		if a.snap.Query != "" {
			a.setSnapshot(a.ctrl.OnQueryChange(""))
		}

	case key.Matches(msg, keys.Sports):
		a.setSnapshot(a.ctrl.OnCategoryToggle(!a.snap.CategoryOnly))

	case key.Matches(msg, keys.Select):
		if a.cursor >= 0 && a.cursor < visible {
			a.snap = a.ctrl.OnSelect(a.snap.Visible[a.cursor])
		}

	case key.Matches(msg, keys.Reload):
		return a.requestLoad(a.source)

	case key.Matches(msg, keys.Open):
		a.mode = modeSource
		a.sourceInput.SetValue(a.source)
		a.sourceInput.CursorEnd()
		cmd := a.sourceInput.Focus()
		return a, cmd

	case key.Matches(msg, keys.Debug):
		a.showDebug = a.recent != nil

	case key.Matches(msg, keys.Help):
		a.help.ShowAll = !a.help.ShowAll
	}
	return a, nil
}

// handleSearchKey filters live as the query is typed.
func (a App) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit
	case "enter":
		a.mode = modeList
		a.search.Blur()
		return a, nil
	case "esc":
		a.mode = modeList
		a.search.Blur()
		a.search.SetValue("")
		if a.snap.Query != "" {
			a.setSnapshot(a.ctrl.OnQueryChange(""))
		}
		return a, nil
	}

	var cmd tea.Cmd
	before := a.search.Value()
	a.search, cmd = a.search.Update(msg)
	if v := a.search.Value(); v != before {
		a.setSnapshot(a.ctrl.OnQueryChange(v))
	}
	return a, cmd
}

func (a App) handleSourceKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit
	case "enter":
		a.mode = modeList
		a.sourceInput.Blur()
		return a.requestLoad(strings.TrimSpace(a.sourceInput.Value()))
	case "esc":
		a.mode = modeList
		a.sourceInput.Blur()
		return a, nil
	}

	var cmd tea.Cmd
	a.sourceInput, cmd = a.sourceInput.Update(msg)
	return a, cmd
}

// requestLoad supersedes any load in flight: only the newest request's
// result is applied.
func (a App) requestLoad(source string) (tea.Model, tea.Cmd) {
	if a.load == nil || source == "" {
		return a, nil
	}
	a.pendingLoad = lineup.NewLoadID()
	a.pendingSrc = source
	a.loading = true
	a.err = nil
	return a, tea.Batch(a.spinner.Tick, a.load(a.pendingLoad, source))
}

// setSnapshot applies a filter change and keeps the cursor in range.
func (a *App) setSnapshot(snap lineup.Snapshot) {
	a.snap = snap
	if a.cursor >= len(snap.Visible) {
		a.cursor = len(snap.Visible) - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}

// selectedIndex is the first visible row carrying the selected URL, or 0.
func (a App) selectedIndex() int {
	if !a.snap.HasSelection {
		return 0
	}
	for i, c := range a.snap.Visible {
		if c.StreamURL == a.snap.SelectedURL {
			return i
		}
	}
	return 0
}

// listHeight is the number of rows left for channels.
func (a App) listHeight() int {
	used := 1 // header
	if a.mode == modeSearch || a.snap.Query != "" || a.mode == modeSource {
		used++
	}
	if a.snap.HasSelection {
		used++
	}
	if a.err != nil {
		used++
	}
	if a.help.ShowAll {
		used += lipgloss.Height(a.help.View(keys))
	}
	used++ // status bar
	if h := a.height - used; h > 0 {
		return h
	}
	return 1
}

// View renders the UI.
func (a App) View() string {
	if !a.ready {
		return "Loading..."
	}

	if a.showDebug {
		overlay := debugOverlay(a.recent, a.width, a.height-1)
		placed := lipgloss.Place(a.width, a.height-1, lipgloss.Center, lipgloss.Center, overlay)
		return placed + "\n" + debugStatusBar(a.width)
	}

	parts := []string{RenderHeader(a.source, a.header, a.groups, a.width)}

	switch {
	case a.mode == modeSource:
		parts = append(parts, RenderInputBar(a.sourceInput.View(), "", a.width))
	case a.mode == modeSearch || a.snap.Query != "":
		count := fmt.Sprintf("%d/%d", len(a.snap.Visible), a.snap.Total)
		parts = append(parts, RenderInputBar(a.search.View(), count, a.width))
	}

	if a.snap.HasSelection {
		sel, ok := a.ctrl.Selected()
		if !ok {
			sel, ok = playlist.Channel{Name: "(not in playlist)", StreamURL: a.snap.SelectedURL}, true
		}
		parts = append(parts, RenderNowPlaying(sel, ok, a.showLogos, a.width))
	}

	parts = append(parts, strings.TrimRight(RenderList(a.snap.Visible, a.cursor, a.snap, a.width, a.listHeight()), "\n"))

	if a.err != nil {
		parts = append(parts, ErrorStyle.Width(a.width).Render("Error: "+a.err.Error()+" (press any key to dismiss)"))
	}

	loading := ""
	if a.loading {
		loading = a.spinner.View() + " Loading " + a.pendingSrc
	}
	if a.help.ShowAll {
		parts = append(parts, a.help.View(keys))
		parts = append(parts, RenderStatusBar(a.snap, loading, "", a.width))
	} else {
		parts = append(parts, RenderStatusBar(a.snap, loading, a.help.View(keys), a.width))
	}

	return strings.Join(parts, "\n")
}

// Cursor returns the current cursor position (for testing).
func (a App) Cursor() int {
	return a.cursor
}

// Snapshot returns the state last rendered (for testing).
func (a App) Snapshot() lineup.Snapshot {
	return a.snap
}

// Loading reports whether a load is in flight.
func (a App) Loading() bool {
	return a.loading
}

// Err returns the error shown in the error bar, if any.
func (a App) Err() error {
	return a.err
}

// Source returns the source of the last applied load.
func (a App) Source() string {
	return a.source
}
