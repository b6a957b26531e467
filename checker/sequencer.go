package checker

import (
	"context"
	"fmt"

	"github.com/lukemcguire/zombiecheck/result"
)

// sequencer restores discovery order. It is the only writer to the sink.
type sequencer struct {
	workers  int
	sink     result.Sink
	progress chan<- Event
	stats    *result.Stats

	pending map[int]record
	next    int
}

func newSequencer(workers int, sink result.Sink, progress chan<- Event, stats *result.Stats) *sequencer {
	return &sequencer{
		workers:  workers,
		sink:     sink,
		progress: progress,
		stats:    stats,
		pending:  make(map[int]record),
	}
}

// run consumes records until every worker has stopped. A sink error does
// not stop consumption; the first one is returned.
func (s *sequencer) run(ctx context.Context, records <-chan record) error {
	var emitErr error
	for stopped := 0; stopped < s.workers; {
		rec := <-records
		if rec.done {
			stopped++
			continue
		}
		if _, dup := s.pending[rec.seq]; dup || rec.seq < s.next {
			panic(fmt.Sprintf("sequencer: duplicate seq id %d", rec.seq))
		}
		s.pending[rec.seq] = rec
		s.stats.Record(rec.status, rec.result)
		s.notify(ctx, rec)

		for {
			ready, ok := s.pending[s.next]
			if !ok {
				break
			}
			delete(s.pending, s.next)
			s.next++
			if ready.result == nil || emitErr != nil {
				continue
			}
			if err := s.sink.Emit(*ready.result); err != nil {
				emitErr = fmt.Errorf("emit result: %w", err)
			}
		}
	}
	if len(s.pending) != 0 {
		panic(fmt.Sprintf("sequencer: %d results still pending after all workers stopped (next seq %d)", len(s.pending), s.next))
	}
	return emitErr
}

func (s *sequencer) notify(ctx context.Context, rec record) {
	if s.progress == nil {
		return
	}
	evt := Event{Link: rec.link, Checked: s.stats.TotalChecked, Problems: s.stats.ProblemCount}
	if rec.status != nil {
		evt.Status = *rec.status
	}
	select {
	case s.progress <- evt:
	case <-ctx.Done():
	}
}
