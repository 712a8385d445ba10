package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/abelbrown/lineup/internal/otel"
)

// debugPanelChrome is the number of terminal lines consumed by DebugPanel's
// border (top + bottom = 2) and vertical padding (top + bottom = 2).
// Must be updated if DebugPanel style changes.
const debugPanelChrome = 4

// debugOverlay renders load/command counters and the newest events.
// Returns empty string if recent is nil.
func debugOverlay(recent *otel.Recent, width, height int) string {
	if recent == nil {
		return ""
	}

	counts := recent.Counts()
	events := recent.Last(20)

	var lines []string
	lines = append(lines, DebugHeaderStyle.Render("Session Stats"))
	lines = append(lines, fmt.Sprintf("  Loads:      %d started, %d complete, %d errors, %d stale",
		counts[otel.KindLoadStart], counts[otel.KindLoadComplete], counts[otel.KindLoadError], counts[otel.KindLoadStale]))
	lines = append(lines, fmt.Sprintf("  Parser:     %d loads with skipped entries", counts[otel.KindParseSkip]))
	lines = append(lines, fmt.Sprintf("  Commands:   %d query, %d category, %d select",
		counts[otel.KindQuery], counts[otel.KindCategory], counts[otel.KindSelect]))
	lines = append(lines, fmt.Sprintf("  Buffer:     %d / %d events", recent.Len(), recent.Cap()))
	lines = append(lines, "")

	lines = append(lines, DebugHeaderStyle.Render("Recent Events"))
	for _, e := range events {
		line := fmt.Sprintf("  %6s  %-15s", formatAge(time.Since(e.Time)), string(e.Kind))
		if e.Msg != "" {
			line += "  " + runewidth.Truncate(e.Msg, 40, "…")
		}
		if e.Query != "" {
			line += fmt.Sprintf("  q:%q", runewidth.Truncate(e.Query, 20, "…"))
		}
		if e.Err != "" {
			line += "  ERR:" + runewidth.Truncate(e.Err, 30, "…")
		}
		if e.LoadID != "" {
			id := e.LoadID
			if len(id) > 8 {
				id = id[:8]
			}
			line += "  load:" + id
		}
		lines = append(lines, line)
	}

	maxHeight := height - debugPanelChrome
	if maxHeight < 1 {
		maxHeight = 1
	}
	if len(lines) > maxHeight {
		lines = lines[:maxHeight]
	}

	panelWidth := 76
	if panelWidth > width-4 {
		panelWidth = width - 4
	}
	if panelWidth < 20 {
		panelWidth = 20
	}

	return DebugPanel.Width(panelWidth).Render(strings.Join(lines, "\n"))
}

// formatAge formats a duration as a compact human string.
// Negative durations (clock skew) clamp to "0ms".
func formatAge(d time.Duration) string {
	if d < 0 {
		return "0ms"
	}
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return fmt.Sprintf("%.0fm", d.Minutes())
	}
}

// debugStatusBar renders the status bar for the debug overlay.
func debugStatusBar(width int) string {
	keys := StatusBarKey.Render("D") + StatusBarText.Render(":close")
	return StatusBar.Width(width).Render("  [DEBUG]  " + keys)
}
