package api

import (
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/okian/mindset-tracker/internal/domain/model"
)

// CurrentActor resolves the caller behind a request. ok is false when the
// request carries no usable identity.
type CurrentActor interface {
	Resolve(r *http.Request) (a model.Actor, ok bool)
}

// ClaimsResolver turns the bearer token's claims into the acting assessor.
//
// Signature checks belong to the gateway in front of the service; the
// resolver only reads the payload it was handed.
type ClaimsResolver struct {
	idClaims   []string
	nameClaims []string
}

// ClaimsOption configures a ClaimsResolver.
type ClaimsOption func(*ClaimsResolver)

// WithIDClaims sets the claims tried, in order, for the actor id.
func WithIDClaims(claims ...string) ClaimsOption {
	return func(c *ClaimsResolver) {
		if len(claims) > 0 {
			c.idClaims = claims
		}
	}
}

// WithNameClaims sets the claims tried, in order, for the display name.
func WithNameClaims(claims ...string) ClaimsOption {
	return func(c *ClaimsResolver) {
		if len(claims) > 0 {
			c.nameClaims = claims
		}
	}
}

// NewClaimsResolver returns a resolver reading email, then
// cognito:username for the id, and name, then email for the display name.
func NewClaimsResolver(opts ...ClaimsOption) *ClaimsResolver {
	c := &ClaimsResolver{
		idClaims:   []string{"email", "cognito:username"},
		nameClaims: []string{"name", "email"},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Resolve returns the actor named by the request's bearer token. ok is
// false when no token payload could be read; the actor then carries the
// unknown fallbacks.
func (c *ClaimsResolver) Resolve(r *http.Request) (model.Actor, bool) {
	a := model.Actor{ID: model.UnknownActorID, Name: model.UnknownActorName}
	payload, ok := tokenPayload(r.Header.Get("Authorization"))
	if !ok {
		return a, false
	}
	if v := firstClaim(payload, c.idClaims); v != "" {
		a.ID = v
	}
	if v := firstClaim(payload, c.nameClaims); v != "" {
		a.Name = v
	}
	return a, true
}

// ActorMiddleware stores the resolved actor in the request context. With
// require set, writes from callers without an identity are rejected.
func ActorMiddleware(res CurrentActor, require bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			a, ok := res.Resolve(r)
			if !ok && require && isWrite(r.Method) {
				writeError(r.Context(), w, nil, NewKind("api.actor", ErrUnauthorized))
				return
			}
			next.ServeHTTP(w, r.WithContext(model.WithActor(r.Context(), a)))
		})
	}
}

func isWrite(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}

func tokenPayload(header string) ([]byte, bool) {
	token, found := strings.CutPrefix(strings.TrimSpace(header), "Bearer ")
	if !found {
		return nil, false
	}
	parts := strings.Split(strings.TrimSpace(token), ".")
	if len(parts) != 3 {
		return nil, false
	}
	payload, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(parts[1], "="))
	if err != nil || !gjson.ValidBytes(payload) {
		return nil, false
	}
	return payload, true
}

func firstClaim(payload []byte, claims []string) string {
	for _, name := range claims {
		if v := strings.TrimSpace(gjson.GetBytes(payload, escapeClaim(name)).String()); v != "" {
			return v
		}
	}
	return ""
}

// escapeClaim quotes gjson path metacharacters in a claim name.
func escapeClaim(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch r {
		case '.', '*', '?', '|', '#', '@', '!', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
