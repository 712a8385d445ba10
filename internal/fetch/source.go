package fetch

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

//go:embed bundled/*.m3u
var bundledFS embed.FS

// BundledPrefix marks a source naming a playlist shipped inside the binary.
const BundledPrefix = "bundled:"

// ErrUnknownBundle is returned (wrapped) for a bundled name that does not exist.
var ErrUnknownBundle = errors.New("unknown bundled playlist")

// Kind is how a source string is acquired.
type Kind int

const (
	KindBundled Kind = iota
	KindRemote
	KindFile
)

func (k Kind) String() string {
	switch k {
	case KindBundled:
		return "bundled"
	case KindRemote:
		return "remote"
	default:
		return "file"
	}
}

// Classify decides how source is acquired: "bundled:<name>", an http(s)
// URL, or otherwise a local path.
func Classify(source string) Kind {
	lower := strings.ToLower(source)
	switch {
	case strings.HasPrefix(lower, BundledPrefix):
		return KindBundled
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return KindRemote
	default:
		return KindFile
	}
}

// Bundled returns the text of a playlist embedded in the binary.
// name may omit the .m3u extension.
func Bundled(name string) (string, error) {
	name = strings.TrimSuffix(strings.TrimSpace(name), ".m3u")
	f, err := bundledFS.Open(path.Join("bundled", name+".m3u"))
	if err != nil {
		return "", &AcquireError{Source: BundledPrefix + name, Err: fmt.Errorf("%w: %q", ErrUnknownBundle, name)}
	}
	defer f.Close()
	text, err := Decode(f)
	if err != nil {
		return "", &AcquireError{Source: BundledPrefix + name, Err: err}
	}
	return text, nil
}

// BundledNames lists the embedded playlists, sorted.
func BundledNames() []string {
	entries, _ := bundledFS.ReadDir("bundled")
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".m3u"))
	}
	sort.Strings(names)
	return names
}

// ReadFile reads a user-supplied local playlist, decompressing it if needed.
func ReadFile(p string) (string, error) {
	f, err := os.Open(p)
	if err != nil {
		return "", &AcquireError{Source: p, Err: err}
	}
	defer f.Close()

	text, err := Decode(f)
	if err != nil {
		return "", &AcquireError{Source: p, Err: err}
	}
	return text, nil
}

// Acquirer resolves any source string to playlist text.
// Remote fetches are throttled so repeated reloads cannot hammer a server.
type Acquirer struct {
	fetcher *Fetcher
	limiter *rate.Limiter
}

// NewAcquirer creates an Acquirer. minInterval <= 0 disables throttling.
func NewAcquirer(fetcher *Fetcher, minInterval time.Duration) *Acquirer {
	limit := rate.Inf
	if minInterval > 0 {
		limit = rate.Every(minInterval)
	}
	return &Acquirer{
		fetcher: fetcher,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Acquire returns the text behind source. Blocks on the throttle for remote
// sources until ctx is done.
func (a *Acquirer) Acquire(ctx context.Context, source string) (string, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return "", &AcquireError{Source: source, Err: errors.New("empty source")}
	}

	switch Classify(source) {
	case KindBundled:
		return Bundled(source[len(BundledPrefix):])
	case KindRemote:
		if err := a.limiter.Wait(ctx); err != nil {
			return "", &AcquireError{Source: source, Err: err}
		}
		return a.fetcher.Fetch(ctx, source)
	default:
		if ctx.Err() != nil {
			return "", &AcquireError{Source: source, Err: ctx.Err()}
		}
		return ReadFile(source)
	}
}
