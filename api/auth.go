package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/answerhub/answerhub/internal/auth"
	"github.com/answerhub/answerhub/internal/qna"
	"github.com/answerhub/answerhub/internal/validate"
	"github.com/answerhub/answerhub/pkg/models"
	"github.com/answerhub/answerhub/pkg/repository"
)

type AuthHandler struct {
	users  repository.UserRepo
	tokens *auth.Manager
}

// NewAuthHandler creates a new AuthHandler with required dependencies.
func NewAuthHandler(users repository.UserRepo, tokens *auth.Manager) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	ID          string `json:"id"`
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Register creates a new user with an empty profile and zero reputation.
// Duplicate emails are rejected with a conflict.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, errorResponse{Error: "invalid request"}, http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	if err := validate.Payload(ctx, "register", body); err != nil {
		writeError(w, err)
		return
	}

	var req registerRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSON(w, errorResponse{Error: "invalid request"}, http.StatusBadRequest)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Questions:    []string{},
		Answers:      []string{},
		Voters:       []string{},
	}
	if _, err := h.users.CreateUser(ctx, user); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, qna.UserProfileView(user), http.StatusCreated)
}

// Login verifies credentials by username and issues a bearer token carrying
// the user id.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, errorResponse{Error: "invalid request"}, http.StatusBadRequest)
		return
	}
	if req.Username == "" || req.Password == "" {
		writeJSON(w, errorResponse{Error: "missing credentials"}, http.StatusBadRequest)
		return
	}

	user, err := h.users.GetUserByUsername(r.Context(), req.Username)
	if err != nil || user == nil {
		writeJSON(w, errorResponse{Error: "invalid credentials"}, http.StatusUnauthorized)
		return
	}
	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		writeJSON(w, errorResponse{Error: "invalid credentials"}, http.StatusUnauthorized)
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, loginResponse{ID: user.ID, AccessToken: token, TokenType: "bearer"}, http.StatusOK)
}

// Logout revokes the presented token until its natural expiry. Without a
// revocation store the token simply ages out client-side.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	tokenString := bearerToken(r)
	if tokenString == "" {
		writeJSON(w, errorResponse{Error: "missing Authorization header"}, http.StatusUnauthorized)
		return
	}

	if err := h.tokens.Revoke(r.Context(), tokenString); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, `{"message":"signed out"}`)
}
