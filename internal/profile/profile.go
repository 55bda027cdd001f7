package profile

import (
	"encoding/json"
	"net/http"
	"net/mail"
	"strings"

	"Gaspipe/internal/auth"
	"Gaspipe/internal/log"
	"Gaspipe/internal/repo"

	"github.com/ansel1/merry"
)

type ProfileHandler struct {
	Repo repo.ProfileRepository
}

type UpdateProfileRequest struct {
	Email   string `json:"email"`
	Company string `json:"company"`
}

func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok || userID == 0 {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	prof, err := h.Repo.GetProfileByID(r.Context(), userID)
	if err != nil {
		http.Error(w, "Profile not found", merry.HTTPCode(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(prof)
}

// UpdateProfile replaces the contact details shown on generated reports.
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserID(r.Context())
	if !ok || userID == 0 {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if _, err := mail.ParseAddress(req.Email); err != nil {
		http.Error(w, "Invalid email", http.StatusBadRequest)
		return
	}

	if err := h.Repo.UpdateProfile(r.Context(), userID, req.Email, strings.TrimSpace(req.Company)); err != nil {
		log.Warnw("profile update failed", "user", userID, "error", err)
		http.Error(w, "DB error", merry.HTTPCode(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
