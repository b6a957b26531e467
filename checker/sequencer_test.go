package checker

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lukemcguire/zombiecheck/result"
)

func linkRecord(seq int, link string) record {
	status := result.HTTPStatus(404)
	return record{
		seq:    seq,
		link:   link,
		status: &status,
		result: &result.LinkResult{Location: result.Location{Source: "in", Line: seq + 1}, Link: link, Status: status},
	}
}

func suppressedRecord(seq int, link string) record {
	status := result.HTTPStatus(200)
	return record{seq: seq, link: link, status: &status}
}

func feed(workers int, recs ...record) <-chan record {
	ch := make(chan record, len(recs)+workers)
	for _, r := range recs {
		ch <- r
	}
	for range workers {
		ch <- record{done: true}
	}
	return ch
}

func emittedLinks(c *result.Collector) []string {
	links := make([]string, 0, len(c.Results))
	for _, r := range c.Results {
		links = append(links, r.Link)
	}
	return links
}

func TestSequencer_RestoresOrder(t *testing.T) {
	var sink result.Collector
	stats := &result.Stats{}
	s := newSequencer(1, &sink, nil, stats)

	err := s.run(context.Background(), feed(1,
		linkRecord(2, "c"),
		linkRecord(0, "a"),
		suppressedRecord(1, "b"),
	))
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}

	if diff := cmp.Diff([]string{"a", "c"}, emittedLinks(&sink)); diff != "" {
		t.Errorf("emitted links mismatch (-want +got):\n%s", diff)
	}
	if stats.TotalChecked != 3 || stats.Reported != 2 || stats.ProblemCount != 2 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.ByKind[result.KindOK] != 1 || stats.ByKind[result.KindHTTPError] != 2 {
		t.Errorf("ByKind = %v", stats.ByKind)
	}
}

func TestSequencer_WaitsForEveryWorker(t *testing.T) {
	ch := make(chan record, 8)
	ch <- record{done: true}
	ch <- linkRecord(1, "b")
	ch <- linkRecord(0, "a")
	ch <- record{done: true}
	ch <- record{done: true}

	var sink result.Collector
	if err := newSequencer(3, &sink, nil, &result.Stats{}).run(context.Background(), ch); err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, emittedLinks(&sink)); diff != "" {
		t.Errorf("emitted links mismatch (-want +got):\n%s", diff)
	}
}

func TestSequencer_PanicsOnDuplicateSeq(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected a panic for a duplicate seq id")
		}
		if !strings.Contains(r.(string), "duplicate seq id 0") {
			t.Errorf("panic = %v", r)
		}
	}()
	var sink result.Collector
	_ = newSequencer(1, &sink, nil, &result.Stats{}).run(context.Background(), feed(1,
		linkRecord(0, "a"),
		linkRecord(0, "a-again"),
	))
}

func TestSequencer_PanicsOnGap(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic when results are left pending")
		}
	}()
	var sink result.Collector
	_ = newSequencer(1, &sink, nil, &result.Stats{}).run(context.Background(), feed(1, linkRecord(1, "b")))
}

type failingSink struct {
	emits int
}

func (f *failingSink) Emit(result.LinkResult) error {
	f.emits++
	return errors.New("disk full")
}

func (f *failingSink) Close() error { return nil }

func TestSequencer_KeepsDrainingAfterSinkError(t *testing.T) {
	sink := &failingSink{}
	stats := &result.Stats{}
	err := newSequencer(1, sink, nil, stats).run(context.Background(), feed(1,
		linkRecord(0, "a"),
		linkRecord(1, "b"),
		linkRecord(2, "c"),
	))
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("run() error = %v, want the sink error", err)
	}
	if sink.emits != 1 {
		t.Errorf("sink saw %d emits after failing, want 1", sink.emits)
	}
	if stats.TotalChecked != 3 {
		t.Errorf("TotalChecked = %d, want all records drained", stats.TotalChecked)
	}
}

func TestSequencer_SendsProgress(t *testing.T) {
	progress := make(chan Event, 4)
	var sink result.Collector
	err := newSequencer(1, &sink, progress, &result.Stats{}).run(context.Background(), feed(1,
		suppressedRecord(1, "b"),
		linkRecord(0, "a"),
	))
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
	close(progress)

	var events []Event
	for evt := range progress {
		events = append(events, evt)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].Link != "b" || events[0].Checked != 1 || events[0].Problems != 0 {
		t.Errorf("first event = %+v", events[0])
	}
	if events[1].Link != "a" || events[1].Checked != 2 || events[1].Problems != 1 {
		t.Errorf("second event = %+v", events[1])
	}
}
