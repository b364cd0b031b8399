// Package service implements the assessment workflows behind the HTTP API:
// audited rating upserts and the consensus reads built on them.
package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/okian/mindset-tracker/internal/adapters/repository"
	"github.com/okian/mindset-tracker/internal/domain/audit"
	"github.com/okian/mindset-tracker/internal/domain/consensus"
	"github.com/okian/mindset-tracker/pkg/logger"
)

// Defaults applied by New.
const (
	defaultBatchSize     = repository.MaxBatchSize
	defaultRenameWorkers = 4
)

// Service implements the API dependencies for the assessment system.
// It holds no mutable state between calls; the record store is the only
// shared resource.
type Service struct {
	participants *repository.Participants
	ratings      *repository.Ratings
	auditLog     *repository.AuditLog
	notes        *repository.Notes
	units        *repository.OrgUnits

	recorder  *audit.Recorder
	engine    *consensus.Engine
	sanitizer *bluemonday.Policy

	// Configuration
	batchSize     int
	renameWorkers int

	now    func() time.Time
	newID  func() string
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithBatchSize sets the bulk import batch size (1..25).
func WithBatchSize(n int) Option {
	return func(s *Service) {
		if n > 0 && n <= repository.MaxBatchSize {
			s.batchSize = n
		}
	}
}

// WithRenameWorkers sets the concurrency of the org unit rename fan-out.
func WithRenameWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.renameWorkers = n
		}
	}
}

// WithClock sets the time source for records and audit entries.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator sets the source of unique sort-key suffixes.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// WithEngine replaces the consensus engine.
func WithEngine(e *consensus.Engine) Option {
	return func(s *Service) {
		if e != nil {
			s.engine = e
		}
	}
}

// New constructs a Service over store using the given table layout.
func New(store repository.Store, tables repository.Tables, opts ...Option) *Service {
	s := &Service{
		participants:  repository.NewParticipants(store, tables.Participants),
		ratings:       repository.NewRatings(store, tables.Assessments),
		auditLog:      repository.NewAuditLog(store, tables.AuditLog),
		notes:         repository.NewNotes(store, tables.Notes),
		units:         repository.NewOrgUnits(store, tables.OrgUnits),
		engine:        consensus.NewEngine(),
		sanitizer:     bluemonday.StrictPolicy(),
		batchSize:     defaultBatchSize,
		renameWorkers: defaultRenameWorkers,
		now:           time.Now,
		newID:         uuid.NewString,
		logger:        logger.NewNop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.recorder = audit.NewRecorder(s.auditLog,
		audit.WithClock(s.now),
		audit.WithIDGenerator(s.newID),
		audit.WithLogger(s.logger.Named("audit")),
	)
	return s
}
