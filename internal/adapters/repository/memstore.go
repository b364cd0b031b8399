package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
)

// record is a stored item normalized through its JSON encoding, so the
// memory store sees the same attribute names as the other backends.
type record map[string]any

// MemoryStore is an in-process Store for development and tests.
type MemoryStore struct {
	mu     sync.RWMutex
	tables map[string]map[Key]record
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tables: make(map[string]map[Key]record)}
}

func (s *MemoryStore) Get(_ context.Context, t Table, k Key, out any) error {
	s.mu.RLock()
	rec, ok := s.tables[t.Name][s.normalizeKey(t, k)]
	s.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}
	return decode(rec, out)
}

func (s *MemoryStore) Put(_ context.Context, t Table, item any) error {
	rec, err := toRecord(item)
	if err != nil {
		return err
	}
	k, err := keyOf(t, rec)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.table(t)[k] = rec
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, t Table, k Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tables[t.Name], s.normalizeKey(t, k))
	return nil
}

func (s *MemoryStore) Query(_ context.Context, t Table, q Query, out any) error {
	s.mu.RLock()
	var matched []record
	for k, rec := range s.tables[t.Name] {
		if k.Partition != q.Partition || !strings.HasPrefix(k.Sort, q.SortPrefix) {
			continue
		}
		matched = append(matched, rec)
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		a, b := str(matched[i][t.SortKey]), str(matched[j][t.SortKey])
		if q.Descending {
			return a > b
		}
		return a < b
	})
	return decodeList(matched, out)
}

func (s *MemoryStore) Scan(_ context.Context, t Table, f Filter, out any) error {
	s.mu.RLock()
	keys := make([]Key, 0, len(s.tables[t.Name]))
	for k, rec := range s.tables[t.Name] {
		if matches(rec, f) {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Partition != keys[j].Partition {
			return keys[i].Partition < keys[j].Partition
		}
		return keys[i].Sort < keys[j].Sort
	})
	matched := make([]record, 0, len(keys))
	for _, k := range keys {
		matched = append(matched, s.tables[t.Name][k])
	}
	s.mu.RUnlock()

	return decodeList(matched, out)
}

func (s *MemoryStore) Update(_ context.Context, t Table, k Key, set map[string]any, remove ...string) error {
	patch, err := toRecord(set)
	if err != nil {
		return err
	}
	k = s.normalizeKey(t, k)

	s.mu.Lock()
	defer s.mu.Unlock()

	tbl := s.table(t)
	rec, ok := tbl[k]
	if !ok {
		rec = record{t.PartitionKey: k.Partition}
		if t.SortKey != "" {
			rec[t.SortKey] = k.Sort
		}
	} else {
		rec = copyRecord(rec)
	}
	for name, v := range patch {
		rec[name] = v
	}
	for _, name := range remove {
		delete(rec, name)
	}
	tbl[k] = rec
	return nil
}

func (s *MemoryStore) BatchPut(ctx context.Context, t Table, items []any) error {
	if len(items) > MaxBatchSize {
		return fmt.Errorf("%w: %d items", ErrBatchTooLarge, len(items))
	}
	recs := make([]record, 0, len(items))
	for _, it := range items {
		rec, err := toRecord(it)
		if err != nil {
			return err
		}
		if _, err := keyOf(t, rec); err != nil {
			return err
		}
		recs = append(recs, rec)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	tbl := s.table(t)
	for _, rec := range recs {
		k, _ := keyOf(t, rec)
		tbl[k] = rec
	}
	return nil
}

// Len returns the number of records in t.
func (s *MemoryStore) Len(t Table) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tables[t.Name])
}

// table must be called with s.mu held for writing.
func (s *MemoryStore) table(t Table) map[Key]record {
	tbl, ok := s.tables[t.Name]
	if !ok {
		tbl = make(map[Key]record)
		s.tables[t.Name] = tbl
	}
	return tbl
}

func (s *MemoryStore) normalizeKey(t Table, k Key) Key {
	if t.SortKey == "" {
		k.Sort = ""
	}
	return k
}

func keyOf(t Table, rec record) (Key, error) {
	pk, ok := rec[t.PartitionKey].(string)
	if !ok || pk == "" {
		return Key{}, fmt.Errorf("%w: %s", ErrMissingKey, t.PartitionKey)
	}
	k := Key{Partition: pk}
	if t.SortKey != "" {
		sk, ok := rec[t.SortKey].(string)
		if !ok || sk == "" {
			return Key{}, fmt.Errorf("%w: %s", ErrMissingKey, t.SortKey)
		}
		k.Sort = sk
	}
	return k, nil
}

func matches(rec record, f Filter) bool {
	for name, want := range f {
		if str(rec[name]) != want {
			return false
		}
	}
	return true
}

func str(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func toRecord(item any) (record, error) {
	b, err := json.Marshal(item)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	var rec record
	if err := json.Unmarshal(b, &rec); err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return rec, nil
}

func copyRecord(rec record) record {
	out := make(record, len(rec))
	for k, v := range rec {
		out[k] = v
	}
	return out
}

func decode(v, out any) error {
	if rv := reflect.ValueOf(out); rv.Kind() != reflect.Pointer || rv.IsNil() {
		return ErrInvalidTarget
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	return nil
}

func decodeList(recs []record, out any) error {
	if recs == nil {
		recs = []record{}
	}
	return decode(recs, out)
}
