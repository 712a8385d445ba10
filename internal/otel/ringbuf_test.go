package otel

import (
	"sync"
	"testing"
)

func TestRecentLast(t *testing.T) {
	r := NewRecent(8)
	for i := 0; i < 5; i++ {
		r.Push(Event{Kind: KindQuery, Count: i})
	}

	got := r.Last(3)
	if len(got) != 3 {
		t.Fatalf("expected 3, got %d", len(got))
	}
	for i, e := range got {
		if e.Count != i+2 {
			t.Errorf("got[%d].Count=%d, want %d", i, e.Count, i+2)
		}
	}
}

func TestRecentWrapAround(t *testing.T) {
	r := NewRecent(4)
	for i := 0; i < 6; i++ {
		r.Push(Event{Kind: KindQuery, Count: i})
	}

	got := r.Last(10)
	if len(got) != 4 {
		t.Fatalf("expected 4, got %d", len(got))
	}
	for i, e := range got {
		if e.Count != i+2 {
			t.Errorf("got[%d].Count=%d, want %d", i, e.Count, i+2)
		}
	}
	if r.Len() != 4 {
		t.Errorf("Len() = %d, want 4", r.Len())
	}
}

func TestRecentEmptyAndNonPositive(t *testing.T) {
	r := NewRecent(0)
	if got := r.Last(5); got != nil {
		t.Errorf("empty buffer should return nil, got %v", got)
	}
	r.Push(Event{Kind: KindStartup})
	if got := r.Last(0); got != nil {
		t.Errorf("Last(0) should return nil, got %v", got)
	}
}

func TestRecentCopiesExtra(t *testing.T) {
	r := NewRecent(2)
	extra := map[string]any{"k": 1}
	r.Push(Event{Kind: KindStartup, Extra: extra})
	extra["k"] = 2

	if got := r.Last(1)[0].Extra["k"]; got != 1 {
		t.Errorf("Extra was aliased: got %v", got)
	}
}

func TestRecentCounts(t *testing.T) {
	r := NewRecent(3)
	r.Push(Event{Kind: KindQuery})
	r.Push(Event{Kind: KindSelect})
	r.Push(Event{Kind: KindQuery})
	r.Push(Event{Kind: KindQuery})

	counts := r.Counts()
	if counts[KindQuery] != 2 || counts[KindSelect] != 1 {
		t.Errorf("counts = %v", counts)
	}
}

func TestRecentConcurrent(t *testing.T) {
	r := NewRecent(16)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			r.Push(Event{Kind: KindQuery, Count: n})
		}(i)
		go func() {
			defer wg.Done()
			_ = r.Last(4)
		}()
	}
	wg.Wait()
	if r.Len() != 16 {
		t.Errorf("Len() = %d, want 16", r.Len())
	}
}
