package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/answerhub/answerhub/internal/auth"
	"github.com/answerhub/answerhub/internal/qna"
	"github.com/answerhub/answerhub/pkg/models"
)

type UsersHandler struct {
	svc *qna.Service
}

func NewUsersHandler(svc *qna.Service) *UsersHandler {
	return &UsersHandler{svc: svc}
}

func (h *UsersHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	profile, err := h.svc.GetUser(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, profile, http.StatusOK)
}

func (h *UsersHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.svc.ListUsers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, profiles, http.StatusOK)
}

type userUpdateRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Bio      *string `json:"bio"`
}

// UpdateUser merges the supplied profile fields; a supplied password is
// re-hashed before it reaches the store.
func (h *UsersHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req userUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, errorResponse{Error: "invalid request"}, http.StatusBadRequest)
		return
	}

	patch := models.UserPatch{
		Username: req.Username,
		Email:    req.Email,
		Bio:      req.Bio,
	}
	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			writeError(w, err)
			return
		}
		patch.PasswordHash = &hash
	}

	profile, err := h.svc.UpdateUser(r.Context(), mux.Vars(r)["id"], patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, profile, http.StatusOK)
}

// IncreaseReputation grants the target user +1 reputation on behalf of the
// user in the path; a second grant by the same user conflicts.
func (h *UsersHandler) IncreaseReputation(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	profile, err := h.svc.IncreaseReputation(r.Context(), vars["id"], vars["targetId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, profile, http.StatusOK)
}

// DeleteUser cascade-deletes the user's questions and answers before
// removing the user document, so nothing is left with a dangling authorId.
func (h *UsersHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := h.svc.DeleteUser(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]string{"detail": "User deleted successfully", "id": id}, http.StatusOK)
}
