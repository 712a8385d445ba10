// Package playlist parses extended M3U text into channel records.
//
// Parsing is best-effort: entries with a missing URL line, a directive where
// the URL should be, or an unsupported scheme are skipped, never reported.
package playlist

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	// DefaultName is used when an EXTINF line carries no comma.
	DefaultName = "Unknown"
	// DefaultGroup is used when group-title is absent or empty.
	DefaultGroup = "Other"

	headerPrefix = "#EXTINF"
)

// Channel is one playable entry derived from an EXTINF/URL pair.
// Treat values as immutable once returned by Parse.
type Channel struct {
	Name      string `json:"name"`
	Group     string `json:"group"`
	Logo      string `json:"logo"`
	StreamURL string `json:"stream_url"`
}

// Stats counts what the scanner saw. Every header ends up in exactly one of
// Accepted, MissingURL or BadScheme.
type Stats struct {
	Headers    int `json:"headers"`
	Accepted   int `json:"accepted"`
	MissingURL int `json:"missing_url"`
	BadScheme  int `json:"bad_scheme"`
}

// Skipped returns the number of headers that produced no channel.
func (s Stats) Skipped() int {
	return s.MissingURL + s.BadScheme
}

var (
	attrRegex   = regexp.MustCompile(`([\w-]+)="([^"]*)"`)
	schemeRegex = regexp.MustCompile(`(?i)^(https?://|rtsp://|rtmp://)`)
)

// Parse converts playlist text into channels in encounter order.
// It never fails; text without valid entries yields an empty slice.
func Parse(text string) []Channel {
	channels, _ := ParseStats(text)
	return channels
}

// ParseStats is Parse plus counters describing skipped entries.
func ParseStats(text string) ([]Channel, Stats) {
	lines := splitLines(text)
	channels := make([]Channel, 0)
	var stats Stats

	for i, line := range lines {
		if !strings.HasPrefix(line, headerPrefix) {
			continue
		}
		stats.Headers++

		// Lookahead of one: the URL line is not consumed, so a header in that
		// position is evaluated as a header on the next iteration.
		if i+1 >= len(lines) || strings.HasPrefix(lines[i+1], "#") {
			stats.MissingURL++
			continue
		}
		url := lines[i+1]
		if !IsLikelyStreamURL(url) {
			stats.BadScheme++
			continue
		}

		attrs := ParseAttributes(line)
		group := attrs["group-title"]
		if group == "" {
			group = DefaultGroup
		}

		channels = append(channels, Channel{
			Name:      extractName(line),
			Group:     group,
			Logo:      attrs["tvg-logo"],
			StreamURL: url,
		})
		stats.Accepted++
	}

	return channels, stats
}

// ParseAttributes extracts key="value" pairs from a directive line.
// A repeated key keeps its last value.
func ParseAttributes(line string) map[string]string {
	attrs := make(map[string]string)
	for _, m := range attrRegex.FindAllStringSubmatch(line, -1) {
		attrs[m[1]] = m[2]
	}
	return attrs
}

// IsLikelyStreamURL reports whether url starts with http, https, rtsp or rtmp
// (case-insensitive).
func IsLikelyStreamURL(url string) bool {
	return schemeRegex.MatchString(url)
}

// extractName returns everything after the first comma, trimmed.
// Commas inside the name are preserved.
func extractName(line string) string {
	_, name, found := strings.Cut(line, ",")
	if !found {
		return DefaultName
	}
	return strings.TrimSpace(name)
}

// isTrimmable covers Unicode whitespace and the byte order mark.
func isTrimmable(r rune) bool {
	return unicode.IsSpace(r) || r == '\ufeff'
}

// splitLines splits on \n or \r\n, trims every line and drops empty ones.
func splitLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		l = strings.TrimFunc(l, isTrimmable)
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
