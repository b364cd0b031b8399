package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
)

var (
	testUsers = Table{Name: "users", PartitionKey: "userId"}
	testRates = Table{Name: "rates", PartitionKey: "participantId", SortKey: "dayAssessor"}
)

type userRow struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	VBU    string `json:"vbu,omitempty"`
	Level  *int   `json:"aiMaturityLevel,omitempty"`
}

type rateRow struct {
	ParticipantID string `json:"participantId"`
	DayAssessor   string `json:"dayAssessor"`
	Day           string `json:"day"`
	Level         string `json:"level"`
}

func TestMemoryStore_GetPutDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	var got userRow
	if err := s.Get(ctx, testUsers, Key{Partition: "a"}, &got); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := s.Put(ctx, testUsers, userRow{UserID: "a", Name: "Ada"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := s.Get(ctx, testUsers, Key{Partition: "a"}, &got); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Ada" {
		t.Errorf("expected Ada, got %q", got.Name)
	}

	// Put replaces the whole record.
	if err := s.Put(ctx, testUsers, userRow{UserID: "a", Name: "Ada L"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if n := s.Len(testUsers); n != 1 {
		t.Errorf("expected 1 record, got %d", n)
	}

	if err := s.Delete(ctx, testUsers, Key{Partition: "a"}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.Delete(ctx, testUsers, Key{Partition: "a"}); err != nil {
		t.Fatalf("second delete should be a no-op: %v", err)
	}
	if err := s.Get(ctx, testUsers, Key{Partition: "a"}, &got); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestMemoryStore_MissingKey(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := s.Put(ctx, testUsers, userRow{Name: "nobody"}); !errors.Is(err, ErrMissingKey) {
		t.Errorf("expected ErrMissingKey, got %v", err)
	}
	if err := s.Put(ctx, testRates, rateRow{ParticipantID: "p"}); !errors.Is(err, ErrMissingKey) {
		t.Errorf("expected ErrMissingKey for sort key, got %v", err)
	}
}

func TestMemoryStore_Query(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	rows := []rateRow{
		{"p", "D1#b", "D1", "action"},
		{"p", "D1#a", "D1", "talker"},
		{"p", "D10#a", "D10", "driver"},
		{"p", "D2#a", "D2", "toxic"},
		{"q", "D1#a", "D1", "action"},
	}
	for _, r := range rows {
		if err := s.Put(ctx, testRates, r); err != nil {
			t.Fatalf("put: %v", err)
		}
	}

	tests := []struct {
		name string
		q    Query
		want []string
	}{
		{"whole partition", Query{Partition: "p"}, []string{"D1#a", "D1#b", "D10#a", "D2#a"}},
		{"day prefix", Query{Partition: "p", SortPrefix: "D1#"}, []string{"D1#a", "D1#b"}},
		{"descending", Query{Partition: "p", SortPrefix: "D1#", Descending: true}, []string{"D1#b", "D1#a"}},
		{"empty partition", Query{Partition: "none"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []rateRow
			if err := s.Query(ctx, testRates, tt.q, &got); err != nil {
				t.Fatalf("query: %v", err)
			}
			if got == nil {
				t.Fatal("expected non-nil slice")
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d rows, got %d", len(tt.want), len(got))
			}
			for i, r := range got {
				if r.DayAssessor != tt.want[i] {
					t.Errorf("row %d: expected %s, got %s", i, tt.want[i], r.DayAssessor)
				}
			}
		})
	}
}

func TestMemoryStore_ScanFilter(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	for _, r := range []rateRow{
		{"p", "D1#a", "D1", "action"},
		{"q", "D1#a", "D1", "action"},
		{"p", "D2#a", "D2", "toxic"},
	} {
		if err := s.Put(ctx, testRates, r); err != nil {
			t.Fatalf("put: %v", err)
		}
	}

	var all []rateRow
	if err := s.Scan(ctx, testRates, nil, &all); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 rows, got %d", len(all))
	}

	var d1 []rateRow
	if err := s.Scan(ctx, testRates, Filter{"day": "D1"}, &d1); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(d1) != 2 || d1[0].ParticipantID != "p" || d1[1].ParticipantID != "q" {
		t.Errorf("unexpected filtered rows: %+v", d1)
	}
}

func TestMemoryStore_Update(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if err := s.Put(ctx, testUsers, map[string]any{"userId": "a", "name": "Ada", "vpiName": "Old"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := s.Update(ctx, testUsers, Key{Partition: "a"}, map[string]any{"vbu": "New", "aiMaturityLevel": 2}, "vpiName"); err != nil {
		t.Fatalf("update: %v", err)
	}

	var got map[string]any
	if err := s.Get(ctx, testUsers, Key{Partition: "a"}, &got); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got["vbu"] != "New" || got["name"] != "Ada" {
		t.Errorf("unexpected record: %v", got)
	}
	if _, ok := got["vpiName"]; ok {
		t.Error("expected vpiName to be removed")
	}

	var typed userRow
	if err := s.Get(ctx, testUsers, Key{Partition: "a"}, &typed); err != nil {
		t.Fatalf("get: %v", err)
	}
	if typed.Level == nil || *typed.Level != 2 {
		t.Errorf("expected level 2, got %v", typed.Level)
	}

	// Update creates absent records.
	if err := s.Update(ctx, testUsers, Key{Partition: "b"}, map[string]any{"name": "Bo"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := s.Get(ctx, testUsers, Key{Partition: "b"}, &typed); err != nil {
		t.Fatalf("get: %v", err)
	}
	if typed.UserID != "b" || typed.Name != "Bo" {
		t.Errorf("unexpected upserted record: %+v", typed)
	}
}

func TestMemoryStore_BatchPut(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	items := make([]any, 0, MaxBatchSize+1)
	for i := 0; i <= MaxBatchSize; i++ {
		items = append(items, userRow{UserID: fmt.Sprintf("u%02d", i), Name: "x"})
	}
	if err := s.BatchPut(ctx, testUsers, items); !errors.Is(err, ErrBatchTooLarge) {
		t.Fatalf("expected ErrBatchTooLarge, got %v", err)
	}
	if s.Len(testUsers) != 0 {
		t.Fatal("rejected batch must not write")
	}
	if err := s.BatchPut(ctx, testUsers, items[:MaxBatchSize]); err != nil {
		t.Fatalf("batch: %v", err)
	}
	if n := s.Len(testUsers); n != MaxBatchSize {
		t.Errorf("expected %d records, got %d", MaxBatchSize, n)
	}
}

func TestMemoryStore_InvalidTarget(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	_ = s.Put(ctx, testUsers, userRow{UserID: "a"})

	var got userRow
	if err := s.Get(ctx, testUsers, Key{Partition: "a"}, got); !errors.Is(err, ErrInvalidTarget) {
		t.Errorf("expected ErrInvalidTarget, got %v", err)
	}
}

func TestMemoryStore_Concurrent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("D1#a%d", i)
			_ = s.Put(ctx, testRates, rateRow{ParticipantID: "p", DayAssessor: key, Day: "D1", Level: "action"})
			var rs []rateRow
			_ = s.Query(ctx, testRates, Query{Partition: "p"}, &rs)
		}(i)
	}
	wg.Wait()

	if n := s.Len(testRates); n != 20 {
		t.Errorf("expected 20 records, got %d", n)
	}
}
