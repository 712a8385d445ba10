package lineup

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abelbrown/lineup/internal/logging"
	"github.com/abelbrown/lineup/internal/metrics"
	"github.com/abelbrown/lineup/internal/otel"
	"github.com/abelbrown/lineup/internal/playlist"
)

// Acquirer turns a source string into playlist text.
// *fetch.Acquirer satisfies it.
type Acquirer interface {
	Acquire(ctx context.Context, source string) (string, error)
}

// Controller dispatches the four state commands and records each one.
//
// Commands are serialised by a mutex, so a Controller may be shared by HTTP
// handlers. Acquisition happens outside the lock; only the final Load holds it.
type Controller struct {
	mu     sync.Mutex
	state  *State
	events *otel.Logger
	comp   string
}

// NewController wraps a fresh State. A nil events logger disables the event log.
func NewController(events *otel.Logger, comp string) *Controller {
	return &Controller{
		state:  New(),
		events: events,
		comp:   comp,
	}
}

// OnLoad parses text into the state.
func (c *Controller) OnLoad(text string) Snapshot {
	return c.load("", "", text)
}

func (c *Controller) load(loadID, source string, text string) Snapshot {
	c.mu.Lock()
	c.state.Load(text)
	stats := c.state.LastStats()
	snap := c.state.Snapshot()
	c.mu.Unlock()

	metrics.CommandsTotal.WithLabelValues("load").Inc()
	metrics.ChannelsParsedTotal.Add(float64(stats.Accepted))
	metrics.EntriesSkippedTotal.WithLabelValues("missing_url").Add(float64(stats.MissingURL))
	metrics.EntriesSkippedTotal.WithLabelValues("bad_scheme").Add(float64(stats.BadScheme))
	c.observe(snap)

	if stats.Skipped() > 0 {
		logging.Debug("parser skipped entries",
			"headers", stats.Headers, "missing_url", stats.MissingURL, "bad_scheme", stats.BadScheme)
		c.events.Emit(otel.Event{
			Level:  otel.LevelDebug,
			Kind:   otel.KindParseSkip,
			Comp:   c.comp,
			LoadID: loadID,
			Source: source,
			Count:  stats.Skipped(),
			Extra: map[string]any{
				"missing_url": stats.MissingURL,
				"bad_scheme":  stats.BadScheme,
			},
		})
	}
	return snap
}

// OnQueryChange sets the search query.
func (c *Controller) OnQueryChange(q string) Snapshot {
	c.mu.Lock()
	c.state.SetQuery(q)
	snap := c.state.Snapshot()
	c.mu.Unlock()

	metrics.CommandsTotal.WithLabelValues("query").Inc()
	c.observe(snap)
	c.events.Emit(otel.Event{
		Level:   otel.LevelDebug,
		Kind:    otel.KindQuery,
		Comp:    c.comp,
		Query:   q,
		Visible: len(snap.Visible),
	})
	return snap
}

// OnCategoryToggle sets the sports-only flag.
func (c *Controller) OnCategoryToggle(on bool) Snapshot {
	c.mu.Lock()
	c.state.SetCategoryOnly(on)
	snap := c.state.Snapshot()
	c.mu.Unlock()

	metrics.CommandsTotal.WithLabelValues("category").Inc()
	c.observe(snap)
	c.events.Emit(otel.Event{
		Level:   otel.LevelDebug,
		Kind:    otel.KindCategory,
		Comp:    c.comp,
		Visible: len(snap.Visible),
		Extra:   map[string]any{"sports_only": on},
	})
	return snap
}

// OnSelect selects ch unconditionally.
func (c *Controller) OnSelect(ch playlist.Channel) Snapshot {
	c.mu.Lock()
	c.state.Select(ch)
	snap := c.state.Snapshot()
	c.mu.Unlock()

	c.recordSelect(ch.StreamURL)
	return snap
}

// OnSelectURL selects url if a loaded channel carries it. ok is false, and
// nothing changes, for unknown URLs.
func (c *Controller) OnSelectURL(url string) (snap Snapshot, ok bool) {
	c.mu.Lock()
	ok = c.state.SelectURL(url)
	snap = c.state.Snapshot()
	c.mu.Unlock()

	if ok {
		c.recordSelect(url)
	}
	return snap, ok
}

func (c *Controller) recordSelect(url string) {
	metrics.CommandsTotal.WithLabelValues("select").Inc()
	c.events.Emit(otel.Event{
		Level: otel.LevelInfo,
		Kind:  otel.KindSelect,
		Comp:  c.comp,
		URL:   url,
	})
}

// LoadSource acquires source and loads it. On acquisition failure the state is
// untouched and the error is returned as is.
func (c *Controller) LoadSource(ctx context.Context, acq Acquirer, source string) (Snapshot, error) {
	loadID := NewLoadID()
	text, err := Acquire(ctx, acq, c.events, c.comp, loadID, source)
	if err != nil {
		return c.Snapshot(), err
	}
	return c.Apply(loadID, source, text), nil
}

// Apply loads text that was acquired for loadID. It is OnLoad with the load
// recorded against its acquisition.
func (c *Controller) Apply(loadID, source, text string) Snapshot {
	snap := c.load(loadID, source, text)
	c.events.Emit(otel.Event{
		Level:   otel.LevelInfo,
		Kind:    otel.KindLoadComplete,
		Comp:    c.comp,
		LoadID:  loadID,
		Source:  source,
		Count:   snap.Total,
		Visible: len(snap.Visible),
	})
	logging.Info("playlist loaded", "source", source, "channels", snap.Total, "visible", len(snap.Visible))
	return snap
}

// Snapshot returns the current state without changing it.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Snapshot()
}

// Channels returns a copy of every loaded channel.
func (c *Controller) Channels() []playlist.Channel {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]playlist.Channel, len(c.state.Channels()))
	copy(out, c.state.Channels())
	return out
}

// Selected returns the first loaded channel carrying the selected URL.
func (c *Controller) Selected() (playlist.Channel, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Selected()
}

func (c *Controller) observe(snap Snapshot) {
	metrics.ChannelsLoaded.Set(float64(snap.Total))
	metrics.VisibleChannels.Set(float64(len(snap.Visible)))
}

// NewLoadID tags one acquisition so its result can be matched to its request.
func NewLoadID() string {
	return uuid.NewString()
}

// Acquire runs acq for source and records the attempt under loadID. It
// touches no state, so it can run off the UI loop.
func Acquire(ctx context.Context, acq Acquirer, events *otel.Logger, comp, loadID, source string) (string, error) {
	events.Emit(otel.Event{
		Level:  otel.LevelInfo,
		Kind:   otel.KindLoadStart,
		Comp:   comp,
		LoadID: loadID,
		Source: source,
	})

	start := time.Now()
	text, err := acq.Acquire(ctx, source)
	dur := time.Since(start)
	metrics.LoadDuration.Observe(dur.Seconds())

	if err != nil {
		metrics.LoadsTotal.WithLabelValues("error").Inc()
		logging.Error("playlist load failed", "source", source, "error", err)
		events.Emit(otel.Event{
			Level:  otel.LevelError,
			Kind:   otel.KindLoadError,
			Comp:   comp,
			LoadID: loadID,
			Source: source,
			Dur:    dur,
			Err:    err.Error(),
		})
		return "", err
	}

	metrics.LoadsTotal.WithLabelValues("ok").Inc()
	logging.Debug("playlist acquired", "source", source, "bytes", len(text), "dur", dur)
	return text, nil
}
