package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/abelbrown/lineup/internal/otel"
)

func TestDebugOverlayNilRecent(t *testing.T) {
	result := debugOverlay(nil, 80, 24)
	if result != "" {
		t.Errorf("debugOverlay(nil) should return empty string, got %q", result)
	}
}

func TestDebugOverlayRendersStats(t *testing.T) {
	recent := otel.NewRecent(64)
	recent.Push(otel.Event{Kind: otel.KindLoadStart, Time: time.Now()})
	recent.Push(otel.Event{Kind: otel.KindLoadStart, Time: time.Now()})
	recent.Push(otel.Event{Kind: otel.KindLoadComplete, Time: time.Now()})
	recent.Push(otel.Event{Kind: otel.KindLoadError, Time: time.Now()})
	recent.Push(otel.Event{Kind: otel.KindQuery, Time: time.Now()})

	result := debugOverlay(recent, 80, 40)

	if !strings.Contains(result, "Session Stats") {
		t.Error("overlay should contain 'Session Stats' header")
	}
	if !strings.Contains(result, "2 started, 1 complete, 1 errors, 0 stale") {
		t.Errorf("overlay should show load stats, got:\n%s", result)
	}
	if !strings.Contains(result, "1 query, 0 category, 0 select") {
		t.Errorf("overlay should show command stats, got:\n%s", result)
	}
	if !strings.Contains(result, "5 / 64 events") {
		t.Errorf("overlay should show buffer stats, got:\n%s", result)
	}
}

func TestDebugOverlayRecentEvents(t *testing.T) {
	recent := otel.NewRecent(64)
	recent.Push(otel.Event{Kind: otel.KindStartup, Time: time.Now(), Msg: "hello world"})
	recent.Push(otel.Event{Kind: otel.KindLoadError, Time: time.Now(), Err: "timeout"})
	recent.Push(otel.Event{Kind: otel.KindLoadStart, Time: time.Now(), LoadID: "abcdef1234567890"})
	recent.Push(otel.Event{Kind: otel.KindQuery, Time: time.Now(), Query: "sky"})

	result := debugOverlay(recent, 80, 40)

	if !strings.Contains(result, "Recent Events") {
		t.Error("overlay should contain 'Recent Events' header")
	}
	if !strings.Contains(result, "hello world") {
		t.Errorf("overlay should show event message, got:\n%s", result)
	}
	if !strings.Contains(result, "ERR:timeout") {
		t.Errorf("overlay should show error, got:\n%s", result)
	}
	if !strings.Contains(result, "load:abcdef12") {
		t.Errorf("overlay should show truncated load ID, got:\n%s", result)
	}
	if !strings.Contains(result, `q:"sky"`) {
		t.Errorf("overlay should show the query, got:\n%s", result)
	}
}

func TestDebugOverlayTruncation(t *testing.T) {
	recent := otel.NewRecent(64)
	for i := 0; i < 30; i++ {
		recent.Push(otel.Event{Kind: otel.KindLoadStart, Time: time.Now()})
	}

	result := debugOverlay(recent, 80, 10)
	if result == "" {
		t.Error("overlay should still render with small height")
	}

	// height 10 leaves 6 content lines plus 4 lines of chrome
	lines := strings.Count(result, "\n") + 1
	if lines > 10 {
		t.Errorf("overlay has %d lines, want <= 10", lines)
	}
}

func TestFormatAge(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{-time.Second, "0ms"},
		{500 * time.Millisecond, "500ms"},
		{1500 * time.Millisecond, "1.5s"},
		{3 * time.Minute, "3m"},
	}
	for _, tt := range tests {
		if got := formatAge(tt.d); got != tt.want {
			t.Errorf("formatAge(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
