package auth

import (
	"context"
	"errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/meditrack/meditrack-backend/internal/models"
)

// ErrInvalidToken is returned for missing, malformed, expired or
// badly-signed tokens. Handlers translate it into HTTP 401.
var ErrInvalidToken = errors.New("invalid token")

// ErrVerifierUnavailable is returned when the verifier cannot produce a
// verdict in time. Handlers translate it into HTTP 503 rather than 401 so
// callers can distinguish an outage from a bad credential.
var ErrVerifierUnavailable = errors.New("identity verifier unavailable")

// Identity is the output of token verification: the stable subject
// identifier the verifier assigns to the principal, plus the email claim.
// Role is deliberately absent; the user directory is authoritative for
// role, not the token.
type Identity struct {
	Subject string `json:"subject"`
	Email   string `json:"email"`
}

// Verifier turns an opaque bearer token into a verified Identity
type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// Principal is the authenticated-identity context attached to a request
// after the auth gate has resolved the directory record. Role is empty
// only on the account-creation path, where an unregistered caller is
// allowed through to self-provision.
type Principal struct {
	ID    string
	Email string
	Role  models.Role
}

// Registered reports whether the principal has a directory record
func (p *Principal) Registered() bool {
	return p.Role != ""
}

// JWTVerifier verifies HS256-signed bearer tokens
type JWTVerifier struct {
	secret []byte
}

// NewJWTVerifier creates a verifier with the given shared secret
func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

// Verify parses and validates the token and extracts the subject and
// email claims. Any role claim embedded in the token is ignored.
func (v *JWTVerifier) Verify(ctx context.Context, token string) (*Identity, error) {
	if err := ctx.Err(); err != nil {
		return nil, ErrVerifierUnavailable
	}

	tok, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return v.secret, nil
	})
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, ErrInvalidToken
	}
	email, _ := claims["email"].(string)

	return &Identity{Subject: sub, Email: email}, nil
}
