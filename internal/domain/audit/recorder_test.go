package audit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/okian/mindset-tracker/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

type memSink struct {
	mu      sync.Mutex
	entries []model.AuditEntry
	err     error
}

func (s *memSink) Append(_ context.Context, e model.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.entries = append(s.entries, e)
	return nil
}

func TestRecorder(t *testing.T) {
	Convey("Given a recorder with a fixed clock", t, func() {
		sink := &memSink{}
		now := time.Date(2024, 3, 4, 9, 30, 0, 0, time.UTC)
		r := NewRecorder(sink,
			WithClock(func() time.Time { return now }),
			WithIDGenerator(func() string { return "id1" }),
		)
		actor := model.Actor{ID: "a@x.io", Name: "Assessor A"}

		Convey("When a create is recorded", func() {
			e, err := r.Record(context.Background(), Change{
				ParticipantID: "p@x.io",
				Action:        model.ActionCreate,
				Actor:         actor,
				Day:           "D1",
				NewLevel:      model.LevelRef("talker"),
			})

			Convey("Then exactly one entry is appended", func() {
				So(err, ShouldBeNil)
				So(sink.entries, ShouldHaveLength, 1)
				So(sink.entries[0], ShouldResemble, e)
			})

			Convey("Then it carries the change", func() {
				So(e.Action, ShouldEqual, model.ActionCreate)
				So(e.PreviousLevel, ShouldBeNil)
				So(*e.NewLevel, ShouldEqual, "talker")
				So(e.ActorID, ShouldEqual, "a@x.io")
				So(e.ActorName, ShouldEqual, "Assessor A")
				So(e.Timestamp, ShouldEqual, now)
				So(e.EntryKey, ShouldEqual, "2024-03-04T09:30:00.000000000Z#id1")
			})
		})

		Convey("When the sink fails", func() {
			sink.err = errors.New("boom")
			_, err := r.Record(context.Background(), Change{ParticipantID: "p@x.io", Action: model.ActionDelete})

			Convey("Then the failure propagates", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, sink.err), ShouldBeTrue)
				So(sink.entries, ShouldBeEmpty)
			})
		})

		Convey("When no participant is named", func() {
			_, err := r.Record(context.Background(), Change{Action: model.ActionCreate})
			So(err, ShouldEqual, ErrMissingParticipant)
		})
	})

	Convey("Given the default id generator", t, func() {
		sink := &memSink{}
		r := NewRecorder(sink)

		Convey("Then entries in the same instant get distinct keys", func() {
			a, _ := r.Record(context.Background(), Change{ParticipantID: "p", Action: model.ActionUpdate})
			b, _ := r.Record(context.Background(), Change{ParticipantID: "p", Action: model.ActionUpdate})
			So(a.EntryKey, ShouldNotEqual, b.EntryKey)
		})
	})
}
