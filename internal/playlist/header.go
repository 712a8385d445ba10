package playlist

import "strings"

// Header holds the attributes of a leading #EXTM3U line.
type Header struct {
	Present bool
	EPGURL  string
	Attrs   map[string]string
}

// ParseHeader reads the #EXTM3U line if it is the first non-empty line.
// Playlists without one return the zero Header.
func ParseHeader(text string) Header {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.TrimPrefix(line, "\ufeff"))
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "#EXTM3U") {
			return Header{}
		}
		attrs := ParseAttributes(line)
		epg := attrs["url-tvg"]
		if epg == "" {
			epg = attrs["x-tvg-url"]
		}
		return Header{Present: true, EPGURL: epg, Attrs: attrs}
	}
	return Header{}
}
