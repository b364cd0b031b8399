package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okian/mindset-tracker/internal/domain/model"
	"github.com/okian/mindset-tracker/internal/domain/scale"
)

func testTables() Tables {
	return NewTables("users", "assessments", "audit", "notes", "vbus")
}

func TestRatings_SlotUpsert(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	tbl := testTables()
	r := NewRatings(store, tbl.Assessments)

	first := model.Rating{ParticipantID: "p", Day: "D1", AssessorID: "a", Level: scale.Talker, Timestamp: time.Now().UTC()}
	if err := r.Put(ctx, first); err != nil {
		t.Fatalf("put: %v", err)
	}
	second := first
	second.Level = scale.Driver
	if err := r.Put(ctx, second); err != nil {
		t.Fatalf("put: %v", err)
	}
	other := first
	other.AssessorID = "b"
	if err := r.Put(ctx, other); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, err := r.Get(ctx, "p", "D1", "a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Level != scale.Driver || got.DayAssessor != "D1#a" {
		t.Errorf("unexpected rating: %+v", got)
	}

	day, err := r.ListByParticipant(ctx, "p", "D1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(day) != 2 {
		t.Errorf("expected one rating per assessor, got %d", len(day))
	}

	if err := r.Delete(ctx, "p", "D1", "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := r.Get(ctx, "p", "D1", "a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRatings_ListByDay(t *testing.T) {
	ctx := context.Background()
	r := NewRatings(NewMemoryStore(), testTables().Assessments)

	for _, rt := range []model.Rating{
		{ParticipantID: "p", Day: "D1", AssessorID: "a", Level: scale.Action},
		{ParticipantID: "q", Day: "D1", AssessorID: "a", Level: scale.Talker},
		{ParticipantID: "p", Day: "D10", AssessorID: "a", Level: scale.Driver},
	} {
		if err := r.Put(ctx, rt); err != nil {
			t.Fatalf("put: %v", err)
		}
	}

	d1, err := r.ListByDay(ctx, "D1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(d1) != 2 {
		t.Errorf("expected 2 ratings on D1, got %d", len(d1))
	}

	// D1 must not match D10 by prefix.
	p1, err := r.ListByParticipant(ctx, "p", "D1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(p1) != 1 {
		t.Errorf("expected 1 rating for p on D1, got %d", len(p1))
	}
}

func TestAuditLog_Ordering(t *testing.T) {
	ctx := context.Background()
	log := NewAuditLog(NewMemoryStore(), testTables().AuditLog)
	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	entries := []model.AuditEntry{
		{ParticipantID: "p", Timestamp: base, Action: model.ActionCreate},
		{ParticipantID: "q", Timestamp: base.Add(time.Minute), Action: model.ActionCreate},
		{ParticipantID: "p", Timestamp: base.Add(2 * time.Minute), Action: model.ActionUpdate},
	}
	for i, e := range entries {
		e.EntryKey = model.EntryKey(e.Timestamp, string(rune('a'+i)))
		if err := log.Append(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	p, err := log.ListByParticipant(ctx, "p")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(p) != 2 || p[0].Action != model.ActionUpdate {
		t.Errorf("expected newest first, got %+v", p)
	}
	if p[0].PreviousLevel != nil {
		t.Errorf("expected null previous level, got %v", *p[0].PreviousLevel)
	}

	all, err := log.ListAll(ctx)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].Timestamp.After(all[i-1].Timestamp) {
			t.Errorf("entries out of order at %d", i)
		}
	}
}

func TestParticipants_Updates(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	tbl := testTables()
	ps := NewParticipants(store, tbl.Participants)

	if err := store.Put(ctx, tbl.Participants, map[string]any{"userId": "a", "name": "Ada", "vpiName": "Old"}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := ps.SetUnit(ctx, "a", "New"); err != nil {
		t.Fatalf("set unit: %v", err)
	}
	if err := ps.SetMaturity(ctx, "a", 3); err != nil {
		t.Fatalf("set maturity: %v", err)
	}

	p, err := ps.Get(ctx, "a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p.VBU != "New" || p.LegacyVBU != "" {
		t.Errorf("unexpected unit tags: %+v", p)
	}
	if p.AIMaturityLevel == nil || *p.AIMaturityLevel != 3 {
		t.Errorf("expected maturity 3, got %v", p.AIMaturityLevel)
	}

	if err := ps.PutBatch(ctx, []model.Participant{{ID: "c"}, {ID: "b"}}); err != nil {
		t.Fatalf("batch: %v", err)
	}
	list, err := ps.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 || list[0].ID != "a" || list[2].ID != "c" {
		t.Errorf("unexpected list: %+v", list)
	}
}

func TestOrgUnits_SortedByName(t *testing.T) {
	ctx := context.Background()
	units := NewOrgUnits(NewMemoryStore(), testTables().OrgUnits)

	for _, u := range []model.OrgUnit{{ID: "west", Name: "West"}, {ID: "east", Name: "east"}, {ID: "north", Name: "North"}} {
		if err := units.Put(ctx, u); err != nil {
			t.Fatalf("put: %v", err)
		}
	}
	list, err := units.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []string{"east", "North", "West"}
	for i, u := range list {
		if u.Name != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], u.Name)
		}
	}
}

func TestNotes_NewestFirst(t *testing.T) {
	ctx := context.Background()
	notes := NewNotes(NewMemoryStore(), testTables().Notes)
	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	for i, text := range []string{"first", "second"} {
		ts := base.Add(time.Duration(i) * time.Second)
		if err := notes.Add(ctx, model.Note{ParticipantID: "p", EntryKey: model.EntryKey(ts, "x"), Timestamp: ts, Text: text}); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	list, err := notes.List(ctx, "p")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].Text != "second" {
		t.Errorf("expected newest first, got %+v", list)
	}
}

func TestInstrument_PassesThrough(t *testing.T) {
	ctx := context.Background()
	store := Instrument(NewMemoryStore())

	if err := store.Put(ctx, testUsers, userRow{UserID: "a", Name: "Ada"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	var got userRow
	if err := store.Get(ctx, testUsers, Key{Partition: "a"}, &got); err != nil || got.Name != "Ada" {
		t.Fatalf("get: %v %+v", err, got)
	}
	if err := store.Get(ctx, testUsers, Key{Partition: "zz"}, &got); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound through wrapper, got %v", err)
	}
}
