package repository

import (
	"context"
	"errors"
	"time"

	"github.com/okian/mindset-tracker/pkg/metrics"
)

// instrumented records latency and errors of every call to the wrapped Store.
type instrumented struct {
	next Store
}

// Instrument wraps s so each operation reports latency and failures to the
// metrics registry. ErrNotFound is not counted as a failure.
func Instrument(s Store) Store {
	return &instrumented{next: s}
}

func observe(op string, t Table, start time.Time, err error) {
	metrics.RecordStoreLatency(op, t.Name, float64(time.Since(start).Microseconds())/1000)
	if err != nil && !errors.Is(err, ErrNotFound) {
		metrics.RecordStoreError(op, t.Name)
	}
}

func (s *instrumented) Get(ctx context.Context, t Table, k Key, out any) (err error) {
	defer func(start time.Time) { observe("get", t, start, err) }(time.Now())
	return s.next.Get(ctx, t, k, out)
}

func (s *instrumented) Put(ctx context.Context, t Table, item any) (err error) {
	defer func(start time.Time) { observe("put", t, start, err) }(time.Now())
	return s.next.Put(ctx, t, item)
}

func (s *instrumented) Delete(ctx context.Context, t Table, k Key) (err error) {
	defer func(start time.Time) { observe("delete", t, start, err) }(time.Now())
	return s.next.Delete(ctx, t, k)
}

func (s *instrumented) Query(ctx context.Context, t Table, q Query, out any) (err error) {
	defer func(start time.Time) { observe("query", t, start, err) }(time.Now())
	return s.next.Query(ctx, t, q, out)
}

func (s *instrumented) Scan(ctx context.Context, t Table, f Filter, out any) (err error) {
	defer func(start time.Time) { observe("scan", t, start, err) }(time.Now())
	return s.next.Scan(ctx, t, f, out)
}

func (s *instrumented) Update(ctx context.Context, t Table, k Key, set map[string]any, remove ...string) (err error) {
	defer func(start time.Time) { observe("update", t, start, err) }(time.Now())
	return s.next.Update(ctx, t, k, set, remove...)
}

func (s *instrumented) BatchPut(ctx context.Context, t Table, items []any) (err error) {
	defer func(start time.Time) { observe("batch_put", t, start, err) }(time.Now())
	return s.next.BatchPut(ctx, t, items)
}
