package checker

import (
	"context"

	"github.com/lukemcguire/zombiecheck/result"
)

// record is a worker's answer for one WorkItem. A nil result means the
// item produced nothing to report; done marks a worker that has stopped.
type record struct {
	seq    int
	link   string
	status *result.Status
	result *result.LinkResult
	done   bool
}

// work processes items until it receives a stop item, which it forwards.
func (c *Checker) work(ctx context.Context, resolver *Resolver, items <-chan queueItem, records chan<- record) {
	for qi := range items {
		if qi.done {
			records <- record{done: true}
			return
		}
		records <- c.process(ctx, resolver, qi.item)
	}
}

func (c *Checker) process(ctx context.Context, resolver *Resolver, item WorkItem) record {
	rec := record{seq: item.Seq, link: item.Link}
	if c.cfg.ListOnly {
		rec.result = &result.LinkResult{Location: item.Location, Link: item.Link, ListOnly: true}
		return rec
	}

	status := resolver.Resolve(ctx, item.Link)
	rec.status = &status
	if status.OK() && !c.cfg.Verbose {
		return rec
	}
	rec.result = &result.LinkResult{Location: item.Location, Link: item.Link, Status: status}
	return rec
}
