package checker

import (
	"errors"
	"fmt"
	"os"
	"sync"

	bloom "github.com/bits-and-blooms/bloom/v3"
	"github.com/edsrzf/mmap-go"
)

const (
	// seenCapacity and seenFalsePositive size the filter: about 1.8 MiB
	// for a million distinct links at 0.1%.
	seenCapacity      = 1_000_000
	seenFalsePositive = 0.001

	// seenSyncEvery is how many insertions pass between mmap flushes.
	seenSyncEvery = 4096
)

// SeenTracker remembers which links a run has already dispatched, using a
// bloom filter mirrored into a memory-mapped temp file. A false positive
// makes a never-seen link look seen; there are no false negatives.
type SeenTracker struct {
	mu       sync.Mutex
	filter   *bloom.BloomFilter
	file     *os.File
	mapped   mmap.MMap
	path     string
	unsynced int
	lastErr  error
}

// NewSeenTracker creates a tracker backed by a fresh temp file.
func NewSeenTracker() (*SeenTracker, error) {
	filter := bloom.NewWithEstimates(seenCapacity, seenFalsePositive)
	data, err := filter.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("marshal bloom filter: %w", err)
	}

	f, err := os.CreateTemp("", "zombiecheck-seen-*.bloom")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	t := &SeenTracker{filter: filter, file: f, path: f.Name()}

	if err := f.Truncate(int64(len(data))); err != nil {
		_ = t.Close()
		return nil, fmt.Errorf("size temp file: %w", err)
	}
	t.mapped, err = mmap.MapRegion(f, len(data), mmap.RDWR, 0, 0)
	if err != nil {
		_ = t.Close()
		return nil, fmt.Errorf("mmap temp file: %w", err)
	}
	copy(t.mapped, data)
	return t, nil
}

// FirstSighting records link and reports whether it had not been seen before.
func (t *SeenTracker) FirstSighting(link string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.filter.TestOrAddString(link) {
		return false
	}
	t.unsynced++
	if t.unsynced >= seenSyncEvery {
		if err := t.syncLocked(); err != nil {
			t.lastErr = err
		}
	}
	return true
}

// syncLocked mirrors the filter into the mapping. Must be called with mu held.
func (t *SeenTracker) syncLocked() error {
	data, err := t.filter.MarshalBinary()
	if err != nil {
		return fmt.Errorf("marshal bloom filter: %w", err)
	}
	copy(t.mapped, data)
	if err := t.mapped.Flush(); err != nil {
		return fmt.Errorf("flush mmap: %w", err)
	}
	t.unsynced = 0
	return nil
}

// Close unmaps and removes the backing file. It reports any flush error
// recorded since creation.
func (t *SeenTracker) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	var errs []error
	if t.lastErr != nil {
		errs = append(errs, t.lastErr)
	}
	if t.mapped != nil {
		if err := t.mapped.Unmap(); err != nil {
			errs = append(errs, fmt.Errorf("unmap: %w", err))
		}
		t.mapped = nil
	}
	if t.file != nil {
		if err := t.file.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close file: %w", err))
		}
		t.file = nil
	}
	if t.path != "" {
		if err := os.Remove(t.path); err != nil && !os.IsNotExist(err) {
			errs = append(errs, fmt.Errorf("remove temp file: %w", err))
		}
		t.path = ""
	}
	if len(errs) > 0 {
		return fmt.Errorf("close seen tracker: %w", errors.Join(errs...))
	}
	return nil
}
