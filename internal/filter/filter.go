// Package filter provides pure filter functions for channels.
// All functions are simple: []Channel in, []Channel out. No side effects.
// Results preserve input order and are never nil.
package filter

import (
	"strings"

	"github.com/abelbrown/lineup/internal/playlist"
)

// sportsKeywords classify a channel as football/sports. Matching is plain
// substring on lowercase text, so "sport" also hits "esports".
var sportsKeywords = []string{
	"football",
	"soccer",
	"sports",
	"sport",
	"premier league",
	"laliga",
	"serie a",
	"champions league",
}

// searchable returns the lowercase "{name} {group}" text both filters match against.
func searchable(c playlist.Channel) string {
	return strings.ToLower(c.Name + " " + c.Group)
}

// normalizeQuery trims and lowercases a query. Whitespace-only becomes "".
func normalizeQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// MatchesQuery reports whether c contains query (case-insensitive) in its
// name or group. An empty or whitespace-only query matches everything.
func MatchesQuery(c playlist.Channel, query string) bool {
	q := normalizeQuery(query)
	return q == "" || strings.Contains(searchable(c), q)
}

// IsSports reports whether c looks like a football or sports channel.
func IsSports(c playlist.Channel) bool {
	text := searchable(c)
	for _, kw := range sportsKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// ByQuery keeps channels matching query.
func ByQuery(channels []playlist.Channel, query string) []playlist.Channel {
	q := normalizeQuery(query)
	result := make([]playlist.Channel, 0, len(channels))
	for _, c := range channels {
		if q == "" || strings.Contains(searchable(c), q) {
			result = append(result, c)
		}
	}
	return result
}

// BySports keeps only sports channels.
func BySports(channels []playlist.Channel) []playlist.Channel {
	result := make([]playlist.Channel, 0, len(channels))
	for _, c := range channels {
		if IsSports(c) {
			result = append(result, c)
		}
	}
	return result
}

// Apply returns the channels passing the query and, when categoryOnly is set,
// the sports classification. This is the visible set shown to the user.
func Apply(channels []playlist.Channel, query string, categoryOnly bool) []playlist.Channel {
	q := normalizeQuery(query)
	result := make([]playlist.Channel, 0, len(channels))
	for _, c := range channels {
		if q != "" && !strings.Contains(searchable(c), q) {
			continue
		}
		if categoryOnly && !IsSports(c) {
			continue
		}
		result = append(result, c)
	}
	return result
}

// ByGroup keeps only channels whose group is one of groups (exact match).
func ByGroup(channels []playlist.Channel, groups []string) []playlist.Channel {
	if len(channels) == 0 || len(groups) == 0 {
		return []playlist.Channel{}
	}

	allowed := make(map[string]bool, len(groups))
	for _, g := range groups {
		allowed[g] = true
	}

	result := make([]playlist.Channel, 0, len(channels))
	for _, c := range channels {
		if allowed[c.Group] {
			result = append(result, c)
		}
	}
	return result
}

// DedupURL removes channels whose stream URL was already seen. First occurrence wins.
func DedupURL(channels []playlist.Channel) []playlist.Channel {
	seen := make(map[string]bool, len(channels))
	result := make([]playlist.Channel, 0, len(channels))
	for _, c := range channels {
		if seen[c.StreamURL] {
			continue
		}
		seen[c.StreamURL] = true
		result = append(result, c)
	}
	return result
}

// Groups lists distinct group names in first-seen order.
func Groups(channels []playlist.Channel) []string {
	seen := make(map[string]bool)
	groups := make([]string, 0)
	for _, c := range channels {
		if !seen[c.Group] {
			seen[c.Group] = true
			groups = append(groups, c.Group)
		}
	}
	return groups
}
