package checker

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lukemcguire/zombiecheck/result"
)

func TestCache_FirstWriteWins(t *testing.T) {
	var c Cache
	first := result.HTTPStatus(404)
	if got := c.Store("k", first); got != first {
		t.Fatalf("Store returned %+v, want %+v", got, first)
	}
	if got := c.Store("k", result.HTTPStatus(200)); got != first {
		t.Errorf("second Store returned %+v, want the first value", got)
	}
	got, ok := c.Load("k")
	if !ok || got != first {
		t.Errorf("Load = %+v, %v; want %+v, true", got, ok, first)
	}
	if _, ok := c.Load("missing"); ok {
		t.Error("Load of unknown key reported a hit")
	}
}

func TestCache_ResolveCoalescesConcurrentMisses(t *testing.T) {
	var c Cache
	var calls atomic.Int32
	start := make(chan struct{})

	check := func() result.Status {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return result.HTTPStatus(410)
	}

	var wg sync.WaitGroup
	var fresh atomic.Int32
	for range 16 {
		wg.Go(func() {
			<-start
			status, cached := c.Resolve("k", check)
			if status.Code != 410 {
				t.Errorf("Code = %d, want 410", status.Code)
			}
			if !cached {
				fresh.Add(1)
			}
		})
	}
	close(start)
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Errorf("check ran %d times, want 1", got)
	}
	if got := fresh.Load(); got != 1 {
		t.Errorf("%d callers reported a fresh check, want 1", got)
	}

	if _, cached := c.Resolve("k", check); !cached {
		t.Error("later Resolve should be served from the cache")
	}
}
