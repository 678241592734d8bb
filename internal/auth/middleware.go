package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/beardtrust/user-service/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// Principal is the resolved identity attached to a request after its token
// has been verified. It lives for the duration of that request only.
type Principal struct {
	UserID string
	Role   string
}

type contextKey string

const principalKey = contextKey("principal")

// RoleResolver resolves the current role of a token's subject. The role is
// read live on every request, so a role change takes effect on the very next
// request rather than at token expiry.
type RoleResolver interface {
	GetUserByID(id string) (models.User, error)
}

// Authorizer verifies bearer tokens and attaches a Principal to the request
// context. Missing, malformed, or invalid tokens leave the request anonymous;
// route guards decide whether anonymous access is acceptable.
type Authorizer struct {
	tokens       *TokenManager
	users        RoleResolver
	headerName   string
	headerPrefix string
}

// NewAuthorizer creates a new Authorizer.
func NewAuthorizer(tokens *TokenManager, users RoleResolver, headerName, headerPrefix string) *Authorizer {
	return &Authorizer{
		tokens:       tokens,
		users:        users,
		headerName:   headerName,
		headerPrefix: headerPrefix,
	}
}

// Middleware inspects the configured token header on every request and, when
// the token verifies, resolves the bearer and populates the request context.
func (a *Authorizer) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(a.headerName)
		if header == "" || !strings.HasPrefix(header, a.headerPrefix+" ") {
			next.ServeHTTP(w, r)
			return
		}

		tokenStr := strings.TrimPrefix(header, a.headerPrefix+" ")
		userID, err := a.tokens.Validate(tokenStr)
		if err != nil {
			log.Warn().Err(err).Msg("Rejected bearer token, continuing as anonymous")
			next.ServeHTTP(w, r)
			return
		}

		user, err := a.users.GetUserByID(userID)
		if err != nil {
			log.Warn().Str("user_id", userID).Msg("Token subject not found, continuing as anonymous")
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), principalKey, Principal{UserID: user.ID, Role: user.Role})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// PrincipalFrom extracts the authenticated principal from a request context.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}

// RequireRole returns a guard that only lets through requests whose principal
// holds the given role.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFrom(r.Context())
			if !ok {
				http.Error(w, "Missing auth token", http.StatusUnauthorized)
				return
			}
			if p.Role != role {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSelfOrAdmin lets through admins and requests whose principal matches
// the {id} URL parameter.
func RequireSelfOrAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := PrincipalFrom(r.Context())
		if !ok {
			http.Error(w, "Missing auth token", http.StatusUnauthorized)
			return
		}
		if p.Role != models.RoleAdmin && p.UserID != chi.URLParam(r, "id") {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
