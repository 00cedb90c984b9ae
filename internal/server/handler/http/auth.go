// Package http provides the JSON HTTP handlers of the vault API:
// registration, login, identity check, logout, and stored-account CRUD.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nstepanov/passvault/internal/middleware"
	"github.com/nstepanov/passvault/internal/models"
	"github.com/nstepanov/passvault/internal/service"
)

// AuthService defines the interface for authentication operations required
// by the HTTP handlers.
type AuthService interface {
	// Register creates a user and issues a session.
	Register(ctx context.Context, username, email, password string) (*models.User, *models.Session, error)
	// Login verifies credentials and issues a session.
	Login(ctx context.Context, email, password string) (*models.User, *models.Session, error)
	// Logout destroys the session for the given token.
	Logout(ctx context.Context, token string) error
}

// AuthHandler handles HTTP requests for registration, login, identity check,
// and logout.
type AuthHandler struct {
	// AuthService performs the underlying authentication operations.
	AuthService AuthService
}

// writeJSON writes v as a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// fail writes the standard failure envelope.
func fail(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, models.Response{Success: false, Message: message})
}

// setAuthCookies attaches the session cookie (HttpOnly) and the
// client-readable anti-forgery cookie to the response.
func setAuthCookies(w http.ResponseWriter, sess *models.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	// Readable by the client so it can echo the token on mutations.
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.CSRFCookie,
		Value:    sess.CSRFToken,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearAuthCookies expires both auth cookies.
func clearAuthCookies(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: middleware.SessionCookie, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	http.SetCookie(w, &http.Cookie{Name: middleware.CSRFCookie, Value: "", Path: "/", MaxAge: -1})
}

// Register handles user registration. It expects a JSON body with username,
// email, and password, all non-empty. On success it issues session and
// anti-forgery cookies and returns the username.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil ||
		req.Username == "" || req.Email == "" || req.Password == "" {
		fail(w, http.StatusBadRequest, "invalid request")
		return
	}

	user, sess, err := h.AuthService.Register(r.Context(), req.Username, req.Email, req.Password)
	if errors.Is(err, service.ErrEmailExists) {
		fail(w, http.StatusBadRequest, "Email exists")
		return
	}
	if err != nil {
		fail(w, http.StatusInternalServerError, "internal error")
		return
	}

	setAuthCookies(w, sess)
	writeJSON(w, http.StatusOK, models.AuthResponse{
		Response: models.Response{Success: true},
		Username: user.Username,
	})
}

// Login handles credential login. Lockout and invalid-credential failures map
// to 403 and 401 respectively, with a user-facing message in the envelope.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
		fail(w, http.StatusBadRequest, "invalid request")
		return
	}

	user, sess, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if errors.Is(err, service.ErrLocked) {
		fail(w, http.StatusForbidden, "Too many failed attempts, try again later")
		return
	}
	if errors.Is(err, service.ErrInvalidCredentials) {
		fail(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		fail(w, http.StatusInternalServerError, "internal error")
		return
	}

	setAuthCookies(w, sess)
	writeJSON(w, http.StatusOK, models.AuthResponse{
		Response: models.Response{Success: true},
		Username: user.Username,
	})
}

// Me reports the identity bound to the current session. It runs behind
// SessionAuth, so the user is always present in the context.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		fail(w, http.StatusUnauthorized, "missing session")
		return
	}
	writeJSON(w, http.StatusOK, models.MeResponse{
		Response: models.Response{Success: true},
		Username: user.Username,
	})
}

// Logout destroys the current session and expires both auth cookies. The
// response is a success envelope even when the session was already gone.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromContext(r.Context())
	if sess != nil {
		if err := h.AuthService.Logout(r.Context(), sess.Token); err != nil {
			fail(w, http.StatusInternalServerError, "internal error")
			return
		}
	}
	clearAuthCookies(w)
	writeJSON(w, http.StatusOK, models.Response{Success: true})
}
