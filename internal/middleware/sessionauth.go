// Package middleware provides HTTP middlewares for session authentication,
// anti-forgery checking, and request logging.
package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/nstepanov/passvault/internal/models"
)

type ctxKey string

const (
	userKey    ctxKey = "user"
	sessionKey ctxKey = "session"
)

// SessionCookie is the name of the cookie carrying the session token.
const SessionCookie = "session_token"

// CSRFCookie is the name of the client-readable cookie carrying the
// anti-forgery token. State-changing requests must echo it in the
// X-CSRF-Token header.
const CSRFCookie = "X-CSRF-Token"

// CSRFHeader is the request header checked against the session's
// anti-forgery token.
const CSRFHeader = "X-CSRF-Token"

// Identifier resolves a session token to its user and session.
type Identifier interface {
	Identify(ctx context.Context, token string) (*models.User, *models.Session, error)
}

// unauthorized writes the standard failure envelope with a 401.
func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(models.Response{Success: false, Message: message})
}

// SessionAuth enforces cookie-session authentication.
//
// It reads the session cookie, resolves it through the Identifier, and on
// success stores the user and session in the request context for downstream
// handlers. Requests without a valid session are rejected with 401.
func SessionAuth(ident Identifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, err := r.Cookie(SessionCookie)
			if err != nil || c.Value == "" {
				unauthorized(w, "missing session")
				return
			}

			user, sess, err := ident.Identify(r.Context(), c.Value)
			if err != nil {
				unauthorized(w, "invalid or expired session")
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			ctx = context.WithValue(ctx, sessionKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext extracts the authenticated user set by SessionAuth.
// Returns nil if not found.
func UserFromContext(ctx context.Context) *models.User {
	if u, ok := ctx.Value(userKey).(*models.User); ok {
		return u
	}
	return nil
}

// SessionFromContext extracts the session set by SessionAuth.
// Returns nil if not found.
func SessionFromContext(ctx context.Context) *models.Session {
	if s, ok := ctx.Value(sessionKey).(*models.Session); ok {
		return s
	}
	return nil
}
