// Package worker runs bounded fan-out jobs and reports per-item outcomes.
package worker

import (
	"context"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/okian/mindset-tracker/pkg/logger"
	"github.com/okian/mindset-tracker/pkg/metrics"
)

// Outcomes reported to metrics for each item.
const (
	OutcomeUpdated  = "updated"
	OutcomeFailed   = "failed"
	OutcomeCanceled = "canceled"
)

// Handler processes one item.
type Handler func(ctx context.Context, item string) error

// Failure records one item that could not be processed.
type Failure struct {
	Item  string `json:"item"`
	Error string `json:"error"`
}

// Report summarizes a fan-out run. Every item is either in Updated or in
// Failed; nothing is silently skipped.
type Report struct {
	Matched  int       `json:"matched"`
	Updated  []string  `json:"updated"`
	Failed   []Failure `json:"failed"`
	Duration string    `json:"duration"`
}

// OK reports whether every item succeeded.
func (r Report) OK() bool { return len(r.Failed) == 0 }

// Pool runs a Handler over a batch of items with bounded concurrency.
// Failures do not stop the run.
type Pool struct {
	workers int
	handler Handler
	name    string
	logger  logger.Logger
}

// NewPool creates a pool of workerCount workers. A count below one uses
// runtime.NumCPU().
func NewPool(workerCount int, handler Handler, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}
	p := &Pool{
		workers: workerCount,
		handler: handler,
		name:    "worker-pool",
		logger:  logger.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type result struct {
	item string
	err  error
}

// Run processes items and blocks until all are done or ctx is canceled.
// Items not started before cancellation are reported as failed.
func (p *Pool) Run(ctx context.Context, items []string) Report {
	start := time.Now()
	jobs := make(chan string)
	results := make(chan result, len(items))

	var wg sync.WaitGroup
	n := p.workers
	if n > len(items) {
		n = len(items)
	}
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range jobs {
				results <- result{item: item, err: p.handler(ctx, item)}
			}
		}()
	}

	sent := 0
feed:
	for _, item := range items {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- item:
			sent++
		}
	}
	close(jobs)
	wg.Wait()
	close(results)

	rep := Report{Matched: len(items), Updated: []string{}, Failed: []Failure{}}
	for r := range results {
		if r.err != nil {
			metrics.RecordFanoutItem(OutcomeFailed)
			p.logger.Warn(ctx, "item failed",
				logger.String("pool", p.name),
				logger.String("item", r.item),
				logger.Error(r.err))
			rep.Failed = append(rep.Failed, Failure{Item: r.item, Error: r.err.Error()})
			continue
		}
		metrics.RecordFanoutItem(OutcomeUpdated)
		rep.Updated = append(rep.Updated, r.item)
	}
	for _, item := range items[sent:] {
		metrics.RecordFanoutItem(OutcomeCanceled)
		rep.Failed = append(rep.Failed, Failure{Item: item, Error: context.Cause(ctx).Error()})
	}

	sort.Strings(rep.Updated)
	sort.Slice(rep.Failed, func(i, j int) bool { return rep.Failed[i].Item < rep.Failed[j].Item })
	rep.Duration = time.Since(start).String()

	p.logger.Info(ctx, "fan-out finished",
		logger.String("pool", p.name),
		logger.Int("matched", rep.Matched),
		logger.Int("updated", len(rep.Updated)),
		logger.Int("failed", len(rep.Failed)))
	return rep
}
