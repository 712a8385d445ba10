package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/abelbrown/lineup/internal/lineup"
	"github.com/abelbrown/lineup/internal/playlist"
)

const (
	groupColWidth = 14
	markerWidth   = 2
)

// RenderList renders the visible channels with the cursor row highlighted and
// a marker on every row carrying the selected URL.
func RenderList(channels []playlist.Channel, cursor int, snap lineup.Snapshot, width, height int) string {
	if len(channels) == 0 {
		if snap.Total == 0 {
			return HelpStyle.Render("No channels loaded. Press 'o' to open a playlist or 'r' to reload.")
		}
		return HelpStyle.Render(lineup.EmptyMessage)
	}
	if height < 1 {
		height = 1
	}

	var b strings.Builder
	offset := calcScrollOffset(cursor, height)
	for i := offset; i < len(channels) && i < offset+height; i++ {
		c := channels[i]
		selected := snap.HasSelection && c.StreamURL == snap.SelectedURL
		b.WriteString(renderChannelLine(c, i == cursor, selected, width))
		b.WriteString("\n")
	}
	return b.String()
}

// calcScrollOffset keeps the cursor on screen.
func calcScrollOffset(cursor, height int) int {
	if cursor < 0 || height < 1 {
		return 0
	}
	if cursor >= height {
		return cursor - height + 1
	}
	return 0
}

func renderChannelLine(c playlist.Channel, atCursor, selected bool, width int) string {
	marker := "  "
	if selected {
		marker = SelectedMarker.Render("▶ ")
	}

	group := runewidth.Truncate(c.Group, groupColWidth, "…")
	group = runewidth.FillRight(group, groupColWidth)
	badge := GroupBadge.Render(group)

	nameWidth := width - markerWidth - lipgloss.Width(badge) - 2
	if nameWidth < 10 {
		nameWidth = 10
	}
	name := runewidth.Truncate(c.Name, nameWidth, "…")

	style := NormalItem
	if atCursor {
		style = CursorItem
	}
	return marker + badge + style.Render(name)
}

// RenderHeader renders the title line: source plus EPG hint when the playlist
// declared one.
func RenderHeader(source string, header playlist.Header, groups int, width int) string {
	title := HeaderBar.Render("lineup")
	meta := ""
	if source != "" {
		meta = " " + source
	}
	if groups > 0 {
		meta += fmt.Sprintf(" · %d groups", groups)
	}
	if header.EPGURL != "" {
		meta += " · EPG " + header.EPGURL
	}
	avail := width - lipgloss.Width(title) - 1
	if avail < 0 {
		avail = 0
	}
	return title + HeaderMeta.Render(runewidth.Truncate(meta, avail, "…"))
}

// RenderNowPlaying renders the selected channel, or nothing.
func RenderNowPlaying(c playlist.Channel, ok, showLogo bool, width int) string {
	if !ok {
		return ""
	}
	line := fmt.Sprintf("▶ %s  %s", c.Name, c.StreamURL)
	if showLogo && c.Logo != "" {
		line += "  logo " + c.Logo
	}
	return NowPlaying.Render(runewidth.Truncate(line, max(width-2, 1), "…"))
}

// RenderInputBar renders an input line (search or source prompt) with a
// right-aligned count.
func RenderInputBar(input string, count string, width int) string {
	right := FilterBarCount.Render(count)
	padding := width - lipgloss.Width(input) - lipgloss.Width(right) - 2
	if padding < 0 {
		padding = 0
	}
	return FilterBar.Width(width).Render(input + strings.Repeat(" ", padding) + right)
}

// RenderStatusBar renders the bottom bar: load status on the left, key hints
// on the right.
func RenderStatusBar(snap lineup.Snapshot, loading string, hints string, width int) string {
	left := " " + snap.Status() + " "
	if loading != "" {
		left = " " + loading + " "
	}
	if snap.CategoryOnly {
		left += SportsTag.Render("sports") + " "
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(hints) - 2
	if padding < 0 {
		// hints go first on narrow terminals
		hints = ""
		padding = 0
	}
	return StatusBar.Width(width).Render(left + strings.Repeat(" ", padding) + hints)
}
