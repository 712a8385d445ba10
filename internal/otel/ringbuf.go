package otel

import "sync"

// DefaultRecentSize is the default Recent capacity.
const DefaultRecentSize = 256

// Recent is a fixed-size circular buffer of the newest events. Goroutine-safe.
type Recent struct {
	mu    sync.Mutex
	buf   []Event
	head  int // next write position
	count int
}

// NewRecent creates a buffer holding up to size events.
func NewRecent(size int) *Recent {
	if size <= 0 {
		size = DefaultRecentSize
	}
	return &Recent{buf: make([]Event, size)}
}

// Push adds an event, overwriting the oldest when full.
func (r *Recent) Push(e Event) {
	if e.Extra != nil {
		cp := make(map[string]any, len(e.Extra))
		for k, v := range e.Extra {
			cp[k] = v
		}
		e.Extra = cp
	}
	r.mu.Lock()
	r.buf[r.head] = e
	r.head = (r.head + 1) % len(r.buf)
	if r.count < len(r.buf) {
		r.count++
	}
	r.mu.Unlock()
}

// Last returns up to n newest events, oldest first. n <= 0 returns nil.
func (r *Recent) Last(n int) []Event {
	if n <= 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if n > r.count {
		n = r.count
	}
	if n == 0 {
		return nil
	}
	size := len(r.buf)
	out := make([]Event, n)
	start := (r.head - n + size) % size
	for i := 0; i < n; i++ {
		out[i] = r.buf[(start+i)%size]
	}
	return out
}

// Len returns the number of buffered events.
func (r *Recent) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Counts aggregates buffered events by kind.
func (r *Recent) Counts() map[EventKind]int {
	r.mu.Lock()
	defer r.mu.Unlock()

	counts := make(map[EventKind]int)
	size := len(r.buf)
	start := (r.head - r.count + size) % size
	for i := 0; i < r.count; i++ {
		counts[r.buf[(start+i)%size].Kind]++
	}
	return counts
}

// Cap returns the buffer capacity.
func (r *Recent) Cap() int {
	return len(r.buf)
}
