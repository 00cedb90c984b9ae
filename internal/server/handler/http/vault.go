package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nstepanov/passvault/internal/middleware"
	"github.com/nstepanov/passvault/internal/models"
	"github.com/nstepanov/passvault/internal/service"
)

// VaultService defines the interface for stored-account operations required
// by the HTTP handlers.
type VaultService interface {
	// List returns the metadata of all accounts owned by the user.
	List(ctx context.Context, userID string) ([]models.Account, error)
	// Show returns the plaintext secret of one account.
	Show(ctx context.Context, userID, id string) (string, error)
	// Add stores a new account and returns its assigned id.
	Add(ctx context.Context, userID, name, password string) (string, error)
	// Edit replaces name and secret of an existing account.
	Edit(ctx context.Context, userID, id, name, password string) error
	// Delete removes an account.
	Delete(ctx context.Context, userID, id string) error
}

// VaultHandler handles HTTP requests for stored-account CRUD. All routes run
// behind SessionAuth, so the user is always present in the context.
type VaultHandler struct {
	// VaultService performs the underlying storage operations.
	VaultService VaultService
}

// List handles GET /api/password/list, returning account metadata only.
func (h *VaultHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	accounts, err := h.VaultService.List(r.Context(), user.ID)
	if err != nil {
		fail(w, http.StatusInternalServerError, "Failed to load accounts")
		return
	}
	if accounts == nil {
		accounts = []models.Account{}
	}
	writeJSON(w, http.StatusOK, models.ListResponse{
		Response: models.Response{Success: true},
		Accounts: accounts,
	})
}

// Show handles GET /api/password/show/{id}, revealing one plaintext secret.
func (h *VaultHandler) Show(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	id := chi.URLParam(r, "id")

	password, err := h.VaultService.Show(r.Context(), user.ID, id)
	if errors.Is(err, service.ErrAccountNotFound) {
		fail(w, http.StatusNotFound, "Account not found")
		return
	}
	if err != nil {
		fail(w, http.StatusInternalServerError, "Could not retrieve password")
		return
	}
	writeJSON(w, http.StatusOK, models.ShowResponse{
		Response: models.Response{Success: true},
		Password: password,
	})
}

// Add handles POST /api/password/add.
func (h *VaultHandler) Add(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())

	var req models.AccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil ||
		req.AccountName == "" || req.AccountPassword == "" {
		fail(w, http.StatusBadRequest, "Both fields required")
		return
	}

	if _, err := h.VaultService.Add(r.Context(), user.ID, req.AccountName, req.AccountPassword); err != nil {
		fail(w, http.StatusInternalServerError, "Save failed")
		return
	}
	writeJSON(w, http.StatusOK, models.Response{Success: true, Message: "Saved"})
}

// Edit handles PUT /api/password/edit/{id}.
func (h *VaultHandler) Edit(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var req models.AccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil ||
		req.AccountName == "" || req.AccountPassword == "" {
		fail(w, http.StatusBadRequest, "Both fields required")
		return
	}

	err := h.VaultService.Edit(r.Context(), user.ID, id, req.AccountName, req.AccountPassword)
	if errors.Is(err, service.ErrAccountNotFound) {
		fail(w, http.StatusNotFound, "Account not found")
		return
	}
	if err != nil {
		fail(w, http.StatusInternalServerError, "Update failed")
		return
	}
	writeJSON(w, http.StatusOK, models.Response{Success: true, Message: "Updated"})
}

// Delete handles DELETE /api/password/delete/{id}. Deleting an unknown id
// still answers success, matching the endpoint's contract.
func (h *VaultHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.VaultService.Delete(r.Context(), user.ID, id); err != nil {
		fail(w, http.StatusInternalServerError, "Delete failed")
		return
	}
	writeJSON(w, http.StatusOK, models.Response{Success: true, Message: "Deleted"})
}
