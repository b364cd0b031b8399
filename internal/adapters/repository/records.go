package repository

import (
	"context"
	"sort"
	"strings"

	"github.com/okian/mindset-tracker/internal/domain/model"
)

// Participants stores the roster.
type Participants struct {
	store Store
	table Table
}

// NewParticipants creates a Participants repository.
func NewParticipants(s Store, t Table) *Participants {
	return &Participants{store: s, table: t}
}

// Get returns the participant with id, or ErrNotFound.
func (r *Participants) Get(ctx context.Context, id string) (model.Participant, error) {
	var p model.Participant
	err := r.store.Get(ctx, r.table, Key{Partition: id}, &p)
	return p, err
}

// List returns every participant ordered by id.
func (r *Participants) List(ctx context.Context) ([]model.Participant, error) {
	var ps []model.Participant
	if err := r.store.Scan(ctx, r.table, nil, &ps); err != nil {
		return nil, err
	}
	sort.Slice(ps, func(i, j int) bool { return ps[i].ID < ps[j].ID })
	return ps, nil
}

// Put writes p, replacing any participant with the same id.
func (r *Participants) Put(ctx context.Context, p model.Participant) error {
	return r.store.Put(ctx, r.table, p)
}

// PutBatch writes up to MaxBatchSize participants in one call.
func (r *Participants) PutBatch(ctx context.Context, ps []model.Participant) error {
	items := make([]any, 0, len(ps))
	for _, p := range ps {
		items = append(items, p)
	}
	return r.store.BatchPut(ctx, r.table, items)
}

// Delete removes the participant with id.
func (r *Participants) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, r.table, Key{Partition: id})
}

// SetMaturity writes the maturity level field only.
func (r *Participants) SetMaturity(ctx context.Context, id string, level int) error {
	return r.store.Update(ctx, r.table, Key{Partition: id}, map[string]any{"aiMaturityLevel": level})
}

// SetUnit retags a participant with unit and drops the legacy unit tag.
func (r *Participants) SetUnit(ctx context.Context, id, unit string) error {
	return r.store.Update(ctx, r.table, Key{Partition: id}, map[string]any{"vbu": unit}, "vpiName")
}

// Ratings stores assessor ratings, one record per (participant, day, assessor).
type Ratings struct {
	store Store
	table Table
}

// NewRatings creates a Ratings repository.
func NewRatings(s Store, t Table) *Ratings {
	return &Ratings{store: s, table: t}
}

// Get returns the rating in one slot, or ErrNotFound.
func (r *Ratings) Get(ctx context.Context, participantID, day, assessorID string) (model.Rating, error) {
	var rt model.Rating
	err := r.store.Get(ctx, r.table, Key{Partition: participantID, Sort: model.SlotKey(day, assessorID)}, &rt)
	return rt, err
}

// Put writes rt into its slot, replacing any earlier rating there.
func (r *Ratings) Put(ctx context.Context, rt model.Rating) error {
	rt.DayAssessor = model.SlotKey(rt.Day, rt.AssessorID)
	return r.store.Put(ctx, r.table, rt)
}

// Delete clears one slot.
func (r *Ratings) Delete(ctx context.Context, participantID, day, assessorID string) error {
	return r.store.Delete(ctx, r.table, Key{Partition: participantID, Sort: model.SlotKey(day, assessorID)})
}

// ListByParticipant returns a participant's ratings, restricted to day when
// day is non-empty.
func (r *Ratings) ListByParticipant(ctx context.Context, participantID, day string) ([]model.Rating, error) {
	q := Query{Partition: participantID}
	if day != "" {
		q.SortPrefix = model.DayPrefix(day)
	}
	var rs []model.Rating
	if err := r.store.Query(ctx, r.table, q, &rs); err != nil {
		return nil, err
	}
	return rs, nil
}

// ListByDay returns every rating given on day.
func (r *Ratings) ListByDay(ctx context.Context, day string) ([]model.Rating, error) {
	var rs []model.Rating
	if err := r.store.Scan(ctx, r.table, Filter{"day": day}, &rs); err != nil {
		return nil, err
	}
	return rs, nil
}

// AuditLog stores audit entries. It satisfies audit.Sink.
type AuditLog struct {
	store Store
	table Table
}

// NewAuditLog creates an AuditLog repository.
func NewAuditLog(s Store, t Table) *AuditLog {
	return &AuditLog{store: s, table: t}
}

// Append writes e. Entry keys are unique so nothing is overwritten.
func (r *AuditLog) Append(ctx context.Context, e model.AuditEntry) error {
	return r.store.Put(ctx, r.table, e)
}

// ListByParticipant returns a participant's entries newest first.
func (r *AuditLog) ListByParticipant(ctx context.Context, participantID string) ([]model.AuditEntry, error) {
	var es []model.AuditEntry
	if err := r.store.Query(ctx, r.table, Query{Partition: participantID, Descending: true}, &es); err != nil {
		return nil, err
	}
	return es, nil
}

// ListAll returns every entry newest first.
func (r *AuditLog) ListAll(ctx context.Context) ([]model.AuditEntry, error) {
	var es []model.AuditEntry
	if err := r.store.Scan(ctx, r.table, nil, &es); err != nil {
		return nil, err
	}
	sort.SliceStable(es, func(i, j int) bool {
		if !es[i].Timestamp.Equal(es[j].Timestamp) {
			return es[i].Timestamp.After(es[j].Timestamp)
		}
		return es[i].EntryKey > es[j].EntryKey
	})
	return es, nil
}

// Notes stores participant notes.
type Notes struct {
	store Store
	table Table
}

// NewNotes creates a Notes repository.
func NewNotes(s Store, t Table) *Notes {
	return &Notes{store: s, table: t}
}

// Add writes n.
func (r *Notes) Add(ctx context.Context, n model.Note) error {
	return r.store.Put(ctx, r.table, n)
}

// List returns a participant's notes newest first.
func (r *Notes) List(ctx context.Context, participantID string) ([]model.Note, error) {
	var ns []model.Note
	if err := r.store.Query(ctx, r.table, Query{Partition: participantID, Descending: true}, &ns); err != nil {
		return nil, err
	}
	return ns, nil
}

// OrgUnits stores org units.
type OrgUnits struct {
	store Store
	table Table
}

// NewOrgUnits creates an OrgUnits repository.
func NewOrgUnits(s Store, t Table) *OrgUnits {
	return &OrgUnits{store: s, table: t}
}

// Get returns the unit with id, or ErrNotFound.
func (r *OrgUnits) Get(ctx context.Context, id string) (model.OrgUnit, error) {
	var u model.OrgUnit
	err := r.store.Get(ctx, r.table, Key{Partition: id}, &u)
	return u, err
}

// List returns every unit sorted by name, case-insensitively.
func (r *OrgUnits) List(ctx context.Context) ([]model.OrgUnit, error) {
	var us []model.OrgUnit
	if err := r.store.Scan(ctx, r.table, nil, &us); err != nil {
		return nil, err
	}
	sort.SliceStable(us, func(i, j int) bool {
		return strings.ToLower(us[i].Name) < strings.ToLower(us[j].Name)
	})
	return us, nil
}

// Put writes u.
func (r *OrgUnits) Put(ctx context.Context, u model.OrgUnit) error {
	return r.store.Put(ctx, r.table, u)
}

// Delete removes the unit with id.
func (r *OrgUnits) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, r.table, Key{Partition: id})
}
