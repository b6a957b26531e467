package checker

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/lukemcguire/zombiecheck/extract"
	"github.com/lukemcguire/zombiecheck/input"
	"github.com/lukemcguire/zombiecheck/result"
)

// WorkItem is one link to check, numbered in discovery order.
type WorkItem struct {
	Seq      int
	Location result.Location
	Link     string
}

// queueItem is what travels to the workers. A done item tells one worker
// to stop.
type queueItem struct {
	item WorkItem
	done bool
}

// dispatcher reads sources in order and numbers every extracted link.
type dispatcher struct {
	cfg    Config
	seen   *SeenTracker // nil unless Unique is set
	logger *zap.Logger

	next         int
	sourceErrors int
}

// run feeds items until every source is read or ctx is done, then sends
// one stop item per worker.
func (d *dispatcher) run(ctx context.Context, sources []string, items chan<- queueItem) {
	defer func() {
		for range d.cfg.Workers {
			items <- queueItem{done: true}
		}
	}()

	for _, source := range sources {
		if ctx.Err() != nil {
			return
		}
		if err := d.readSource(ctx, source, items); err != nil {
			d.sourceErrors++
			d.logger.Error("source failed", zap.String("source", source), zap.Error(err))
			if d.cfg.OnSourceError != nil {
				d.cfg.OnSourceError(source, err)
			}
		}
	}
}

func (d *dispatcher) readSource(ctx context.Context, source string, items chan<- queueItem) error {
	rc, err := input.Open(source)
	if err != nil {
		return err
	}
	defer func() { _ = rc.Close() }()

	reader := bufio.NewReader(input.NewReader(rc, d.cfg.Encoding))
	lineNo := 0
	for {
		line, readErr := reader.ReadString('\n')
		if line != "" {
			lineNo++
			d.dispatchLine(result.Location{Source: source, Line: lineNo}, strings.TrimRight(line, "\r\n"), items)
		}
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return nil
			}
			return fmt.Errorf("read %s: %w", source, readErr)
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

func (d *dispatcher) dispatchLine(loc result.Location, line string, items chan<- queueItem) {
	for link := range extract.Links(line) {
		if d.seen != nil && !d.seen.FirstSighting(link) {
			continue
		}
		items <- queueItem{item: WorkItem{Seq: d.next, Location: loc, Link: link}}
		d.next++
	}
}
