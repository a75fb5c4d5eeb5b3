package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/answerhub/answerhub/internal/qna"
	"github.com/answerhub/answerhub/internal/validate"
	"github.com/answerhub/answerhub/pkg/models"
)

type AnswersHandler struct {
	svc *qna.Service
}

func NewAnswersHandler(svc *qna.Service) *AnswersHandler {
	return &AnswersHandler{svc: svc}
}

type answerCreateRequest struct {
	Content    string `json:"content"`
	QuestionID string `json:"questionId"`
	AuthorID   string `json:"authorId"`
}

func (h *AnswersHandler) CreateAnswer(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, errorResponse{Error: "invalid request"}, http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	if err := validate.Payload(ctx, "answer_create", body); err != nil {
		writeError(w, err)
		return
	}

	var req answerCreateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSON(w, errorResponse{Error: "invalid request"}, http.StatusBadRequest)
		return
	}

	a, err := h.svc.CreateAnswer(ctx, req.Content, req.QuestionID, req.AuthorID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, a, http.StatusCreated)
}

func (h *AnswersHandler) ListAnswers(w http.ResponseWriter, r *http.Request) {
	answers, err := h.svc.ListAnswers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, answers, http.StatusOK)
}

func (h *AnswersHandler) GetAnswer(w http.ResponseWriter, r *http.Request) {
	a, err := h.svc.GetAnswer(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, a, http.StatusOK)
}

func (h *AnswersHandler) ListAnswersByQuestion(w http.ResponseWriter, r *http.Request) {
	answers, err := h.svc.ListAnswersByQuestion(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, answers, http.StatusOK)
}

type answerUpdateRequest struct {
	Content      *string `json:"content"`
	IsBestAnswer *bool   `json:"isBestAnswer"`
	QuestionID   *string `json:"questionId"`
	AuthorID     *string `json:"authorId"`
}

func (h *AnswersHandler) UpdateAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, errorResponse{Error: "invalid request"}, http.StatusBadRequest)
		return
	}

	a, err := h.svc.UpdateAnswer(r.Context(), mux.Vars(r)["id"], models.AnswerPatch{
		Body:         req.Content,
		IsBestAnswer: req.IsBestAnswer,
		QuestionID:   req.QuestionID,
		AuthorID:     req.AuthorID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, a, http.StatusOK)
}

func (h *AnswersHandler) DeleteAnswer(w http.ResponseWriter, r *http.Request) {
	id, err := h.svc.DeleteAnswer(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]string{"detail": "Answer deleted successfully", "id": id}, http.StatusOK)
}

// UpvoteAnswer records an upvote by the user in the path; voting twice
// conflicts and the count moves by exactly 1 in total.
func (h *AnswersHandler) UpvoteAnswer(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	a, err := h.svc.UpvoteAnswer(r.Context(), vars["userId"], vars["answerId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, a, http.StatusOK)
}

// RevokeUpvoteAnswer withdraws a previously recorded upvote.
func (h *AnswersHandler) RevokeUpvoteAnswer(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	a, err := h.svc.RevokeUpvoteAnswer(r.Context(), vars["userId"], vars["answerId"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, a, http.StatusOK)
}
