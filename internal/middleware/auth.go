package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/meditrack/meditrack-backend/internal/auth"
	"github.com/meditrack/meditrack-backend/internal/models"
	"github.com/meditrack/meditrack-backend/internal/repository"
	"github.com/rs/zerolog/log"
)

type contextKey string

const principalKey contextKey = "principal"

// UserDirectory resolves a verified subject id to a directory record.
// The stored role is authoritative; role claims inside tokens are never
// consulted.
type UserDirectory interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// Auth is the authentication gate. It verifies the bearer token, resolves
// the directory record and attaches a Principal to the request context.
type Auth struct {
	verifier auth.Verifier
	users    UserDirectory
}

// NewAuth creates the auth gate middleware
func NewAuth(verifier auth.Verifier, users UserDirectory) *Auth {
	return &Auth{verifier: verifier, users: users}
}

// RequireUser admits only callers with a valid token and an existing
// directory record.
func (a *Auth) RequireUser(next http.Handler) http.Handler {
	return a.authenticate(next, false)
}

// RequireToken admits any caller with a valid token, including ones with
// no directory record yet. Only the account-creation route uses it; the
// attached Principal then carries an empty role.
func (a *Auth) RequireToken(next http.Handler) http.Handler {
	return a.authenticate(next, true)
}

func (a *Auth) authenticate(next http.Handler, allowUnregistered bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			authError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		identity, err := a.verifier.Verify(r.Context(), token)
		if err != nil {
			if errors.Is(err, auth.ErrVerifierUnavailable) {
				log.Error().Err(err).Msg("Identity verifier unavailable")
				authError(w, http.StatusServiceUnavailable, "identity verifier unavailable")
				return
			}
			authError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		principal := &auth.Principal{ID: identity.Subject, Email: identity.Email}

		user, err := a.users.GetByID(r.Context(), identity.Subject)
		switch {
		case err == nil:
			principal.Role = user.Role
		case errors.Is(err, repository.ErrNotFound):
			// No directory record. Only the account-creation path may
			// proceed; nothing is ever provisioned implicitly here.
			if !allowUnregistered {
				authError(w, http.StatusNotFound, "user not found in database")
				return
			}
		default:
			log.Error().Err(err).Str("subject", identity.Subject).Msg("Failed to resolve user")
			authError(w, http.StatusInternalServerError, "internal server error")
			return
		}

		ctx := context.WithValue(r.Context(), principalKey, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetPrincipal extracts the authenticated principal from context
func GetPrincipal(ctx context.Context) (*auth.Principal, bool) {
	principal, ok := ctx.Value(principalKey).(*auth.Principal)
	return principal, ok
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	return token, token != ""
}

func authError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
