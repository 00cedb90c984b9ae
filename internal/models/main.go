// Package models defines the domain types and wire shapes shared by the
// vault server and the dashboard client.
package models

import "time"

// Account is the metadata for a stored credential entry. The plaintext
// secret is never part of the listed record; it is fetched on demand.
type Account struct {
	// ID is the server-assigned opaque identifier, immutable for the
	// lifetime of the record.
	ID string `json:"id"`
	// Name is the user-facing display name of the entry.
	Name string `json:"name"`
}

// Identity is the authenticated user bound to the current session.
type Identity struct {
	// Username is the display name resolved by the identity check.
	Username string `json:"username"`
}

// User is an application user with credentials, as stored server-side.
type User struct {
	// ID is the unique identifier for the user.
	ID string
	// Username is the display name chosen at registration.
	Username string
	// Email is the login identifier, unique per user.
	Email string
	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash []byte
}

// Session is a server-side login session.
type Session struct {
	// Token is the opaque session token issued as a cookie.
	Token string
	// CSRFToken is the anti-forgery token paired with the session.
	CSRFToken string
	// UserID identifies the session owner.
	UserID string
	// ExpiresAt is the absolute expiry of the session.
	ExpiresAt time.Time
}

// Response is the common envelope every API endpoint answers with.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ListResponse is the envelope for the account list endpoint.
type ListResponse struct {
	Response
	Accounts []Account `json:"accounts"`
}

// ShowResponse is the envelope for the secret reveal endpoint.
type ShowResponse struct {
	Response
	Password string `json:"password"`
}

// MeResponse is the envelope for the identity check endpoint.
type MeResponse struct {
	Response
	Username string `json:"username"`
}

// AccountRequest is the body of the create and update endpoints.
type AccountRequest struct {
	AccountName     string `json:"account_name"`
	AccountPassword string `json:"account_password"`
}

// RegisterRequest is the body of the registration endpoint.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the body of the login endpoint.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is the envelope for register and login.
type AuthResponse struct {
	Response
	Username string `json:"username,omitempty"`
}
