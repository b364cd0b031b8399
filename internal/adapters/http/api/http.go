// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/okian/mindset-tracker/internal/adapters/http/swagger"
	"github.com/okian/mindset-tracker/internal/domain/model"
	"github.com/okian/mindset-tracker/pkg/logger"
)

// maxBodyBytes bounds every request body; bulk imports are the largest.
const maxBodyBytes = 4 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	ParticipantsDependencies
	AssessmentsDependencies
	ConsensusDependencies
	AuditDependencies
	NotesDependencies
	OrgUnitsDependencies
}

// Server wires HTTP routes for the assessment API.
type Server struct {
	healthHandler       *HealthHandler
	participantsHandler *ParticipantsHandler
	assessmentsHandler  *AssessmentsHandler
	consensusHandler    *ConsensusHandler
	auditHandler        *AuditHandler
	notesHandler        *NotesHandler
	unitsHandler        *OrgUnitsHandler

	actors       CurrentActor
	requireActor bool
	allowOrigin  string
	log          logger.Logger
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithAllowOrigin sets the Access-Control-Allow-Origin value.
func WithAllowOrigin(origin string) ServerOption {
	return func(s *Server) {
		if origin != "" {
			s.allowOrigin = origin
		}
	}
}

// WithActorResolver replaces the default bearer-token actor resolver.
func WithActorResolver(c CurrentActor) ServerOption {
	return func(s *Server) {
		if c != nil {
			s.actors = c
		}
	}
}

// WithRequireActor rejects writes from callers without an identity.
func WithRequireActor(require bool) ServerOption {
	return func(s *Server) { s.requireActor = require }
}

// WithLogger sets the request logger.
func WithLogger(l logger.Logger) ServerOption {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...ServerOption) *Server {
	s := &Server{
		healthHandler:       NewHealthHandler(),
		participantsHandler: NewParticipantsHandler(deps),
		assessmentsHandler:  NewAssessmentsHandler(deps),
		consensusHandler:    NewConsensusHandler(deps),
		auditHandler:        NewAuditHandler(deps),
		notesHandler:        NewNotesHandler(deps),
		unitsHandler:        NewOrgUnitsHandler(deps),
		actors:              NewClaimsResolver(),
		allowOrigin:         "*",
		log:                 logger.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.participantsHandler.log = s.log
	s.assessmentsHandler.log = s.log
	s.consensusHandler.log = s.log
	s.auditHandler.log = s.log
	s.notesHandler.log = s.log
	s.unitsHandler.log = s.log
	return s
}

// Routes returns the router serving every API endpoint.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(CORS(s.allowOrigin))
	r.Use(ActorMiddleware(s.actors, s.requireActor))

	r.Get("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	r.Get("/metrics", MetricsMiddleware(s.healthHandler.HandleMetrics, "metrics"))
	swagger.Register(r)

	r.Route("/participants", func(r chi.Router) {
		r.Get("/", MetricsMiddleware(s.participantsHandler.HandleList, "participants"))
		r.Post("/", MetricsMiddleware(s.participantsHandler.HandleAdd, "participants"))
		r.Post("/ai-level", MetricsMiddleware(s.participantsHandler.HandleMaturity, "participants_ai_level"))
		r.Post("/import", MetricsMiddleware(s.participantsHandler.HandleImport, "participants_import"))
		r.Delete("/{id}", MetricsMiddleware(s.participantsHandler.HandleDelete, "participants"))
	})

	r.Route("/assessments", func(r chi.Router) {
		r.Get("/", MetricsMiddleware(s.assessmentsHandler.HandleList, "assessments"))
		r.Post("/", MetricsMiddleware(s.assessmentsHandler.HandleSubmit, "assessments"))
		r.Delete("/", MetricsMiddleware(s.assessmentsHandler.HandleRemove, "assessments"))
	})

	r.Get("/consensus", MetricsMiddleware(s.consensusHandler.HandleBoard, "consensus"))
	r.Get("/consensus/{participantId}", MetricsMiddleware(s.consensusHandler.HandleParticipant, "consensus_participant"))

	r.Get("/audit-log", MetricsMiddleware(s.auditHandler.HandleList, "audit_log"))

	r.Post("/notes", MetricsMiddleware(s.notesHandler.HandleAdd, "notes"))
	r.Get("/notes/{participantId}", MetricsMiddleware(s.notesHandler.HandleList, "notes"))

	r.Route("/vbus", func(r chi.Router) {
		r.Get("/", MetricsMiddleware(s.unitsHandler.HandleList, "vbus"))
		r.Post("/", MetricsMiddleware(s.unitsHandler.HandleAdd, "vbus"))
		r.Put("/{vbuId}", MetricsMiddleware(s.unitsHandler.HandleRename, "vbus"))
		r.Delete("/{vbuId}", MetricsMiddleware(s.unitsHandler.HandleDelete, "vbus"))
	})

	return r
}

type successResponse struct {
	Success bool `json:"success"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError renders err and logs anything the caller cannot fix.
func writeError(ctx context.Context, w http.ResponseWriter, log logger.Logger, err error) {
	status, code, msg := classify(err)
	if status >= http.StatusInternalServerError && log != nil {
		log.Error(ctx, "request failed", logger.String("code", code), logger.Error(err))
	}
	writeJSON(w, status, errorResponse{Error: msg, Code: code})
}

// decodeBody reads a JSON request body into v.
func decodeBody(r *http.Request, w http.ResponseWriter, op string, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return WrapKind(op, ErrBadRequest, err)
	}
	return nil
}

// actor returns the caller stored by ActorMiddleware.
// pathParam returns a URL parameter with percent-encoding removed. chi
// matches against the raw path when the request carried escapes.
func pathParam(r *http.Request, op, name string) (string, error) {
	v := chi.URLParam(r, name)
	if r.URL.RawPath == "" {
		return v, nil
	}
	dec, err := url.PathUnescape(v)
	if err != nil {
		return "", WrapKind(op, ErrBadRequest, err)
	}
	return dec, nil
}

func actor(r *http.Request) model.Actor {
	if a, ok := model.ActorFromContext(r.Context()); ok {
		return a
	}
	return model.Actor{ID: model.UnknownActorID, Name: model.UnknownActorName}
}
