// Package repository persists participants, ratings, audit entries, notes
// and org units in a partition/sort-key record store.
package repository

import "context"

// Table names a record collection and its key attributes. SortKey is empty
// for tables keyed by partition only.
type Table struct {
	Name         string
	PartitionKey string
	SortKey      string
}

// Key addresses one record.
type Key struct {
	Partition string
	Sort      string
}

// Query selects the records of one partition, optionally narrowed to sort
// keys beginning with SortPrefix.
type Query struct {
	Partition  string
	SortPrefix string
	Descending bool
}

// Filter matches records whose attributes equal the given string values.
type Filter map[string]string

// Store is the key-value collaborator every repository builds on. Each
// single-record write is atomic; there are no cross-record transactions.
type Store interface {
	// Get decodes the record at k into out. Returns ErrNotFound if absent.
	Get(ctx context.Context, t Table, k Key, out any) error
	// Put writes item, replacing any record with the same key.
	Put(ctx context.Context, t Table, item any) error
	// Delete removes the record at k. Deleting an absent record is not an error.
	Delete(ctx context.Context, t Table, k Key) error
	// Query decodes matching records, ordered by sort key, into out (*[]T).
	Query(ctx context.Context, t Table, q Query, out any) error
	// Scan decodes every record matching f into out (*[]T).
	Scan(ctx context.Context, t Table, f Filter, out any) error
	// Update sets and removes attributes on the record at k, creating it if absent.
	Update(ctx context.Context, t Table, k Key, set map[string]any, remove ...string) error
	// BatchPut writes up to MaxBatchSize items.
	BatchPut(ctx context.Context, t Table, items []any) error
}

// MaxBatchSize is the largest batch BatchPut accepts.
const MaxBatchSize = 25
