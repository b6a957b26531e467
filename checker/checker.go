// Package checker finds links in text sources and checks that they resolve.
//
// A run is a pipeline: one dispatcher extracts links line by line and
// numbers them, a pool of workers resolves them concurrently, and a
// sequencer puts the results back into discovery order before writing them
// to a result.Sink.
package checker

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lukemcguire/zombiecheck/input"
	"github.com/lukemcguire/zombiecheck/result"
)

// Checker runs link-checking pipelines.
type Checker struct {
	cfg        Config
	logger     *zap.Logger
	progressCh chan<- Event
}

// New creates a Checker with the given configuration.
// The progressCh parameter is optional; pass nil to disable progress events.
func New(cfg Config, progressCh chan<- Event) *Checker {
	cfg = cfg.withDefaults()
	return &Checker{cfg: cfg, logger: cfg.Logger, progressCh: progressCh}
}

// Run checks every link in sources, read in order, and emits the results to
// sink in the order the links appear. No sources means standard input.
// Sources that fail are reported through Config.OnSourceError and counted
// in the returned Stats. The sink is not closed.
func (c *Checker) Run(ctx context.Context, sources []string, sink result.Sink) (*result.Stats, error) {
	start := time.Now()
	if len(sources) == 0 {
		sources = []string{input.Stdin}
	}

	d := &dispatcher{cfg: c.cfg, logger: c.logger}
	if c.cfg.Unique {
		seen, err := NewSeenTracker()
		if err != nil {
			return nil, fmt.Errorf("create seen tracker: %w", err)
		}
		defer func() {
			if closeErr := seen.Close(); closeErr != nil {
				c.logger.Warn("closing seen tracker", zap.Error(closeErr))
			}
		}()
		d.seen = seen
	}

	var resolver *Resolver
	if !c.cfg.ListOnly {
		resolver = NewResolver(c.cfg)
		defer resolver.CloseIdleConnections()
	}

	items := make(chan queueItem, c.cfg.Workers*3)
	records := make(chan record, c.cfg.Workers*3)
	stats := &result.Stats{ByKind: make(map[result.Kind]int)}

	var group errgroup.Group
	group.Go(func() error {
		d.run(ctx, sources, items)
		return nil
	})
	for range c.cfg.Workers {
		group.Go(func() error {
			c.work(ctx, resolver, items, records)
			return nil
		})
	}

	seqErr := newSequencer(c.cfg.Workers, sink, c.progressCh, stats).run(ctx, records)
	_ = group.Wait()

	stats.SourceErrors = d.sourceErrors
	stats.Duration = time.Since(start)
	c.logger.Debug("run finished",
		zap.Int("checked", stats.TotalChecked),
		zap.Int("problems", stats.ProblemCount),
		zap.Int("source_errors", stats.SourceErrors),
		zap.Duration("duration", stats.Duration),
	)

	if seqErr != nil {
		return stats, seqErr
	}
	if err := ctx.Err(); err != nil {
		return stats, fmt.Errorf("run interrupted: %w", err)
	}
	return stats, nil
}
