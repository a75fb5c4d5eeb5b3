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

type QuestionsHandler struct {
	svc *qna.Service
}

func NewQuestionsHandler(svc *qna.Service) *QuestionsHandler {
	return &QuestionsHandler{svc: svc}
}

type questionCreateRequest struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Tags     []string `json:"tags"`
	AuthorID string   `json:"authorId"`
}

func (h *QuestionsHandler) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, errorResponse{Error: "invalid request"}, http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	if err := validate.Payload(ctx, "question_create", body); err != nil {
		writeError(w, err)
		return
	}

	var req questionCreateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSON(w, errorResponse{Error: "invalid request"}, http.StatusBadRequest)
		return
	}

	q, err := h.svc.CreateQuestion(ctx, req.Title, req.Content, req.Tags, req.AuthorID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, q, http.StatusCreated)
}

// ListQuestions returns every question with its author's display name
// attached, in store-defined order.
func (h *QuestionsHandler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	rows, err := h.svc.ListQuestions(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, rows, http.StatusOK)
}

func (h *QuestionsHandler) GetQuestion(w http.ResponseWriter, r *http.Request) {
	q, err := h.svc.GetQuestion(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, q, http.StatusOK)
}

func (h *QuestionsHandler) ListQuestionsByUser(w http.ResponseWriter, r *http.Request) {
	qs, err := h.svc.ListQuestionsByUser(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, qs, http.StatusOK)
}

// GetQuestionDetail returns the joined view: question, author name and every
// answer with its author's display name.
func (h *QuestionsHandler) GetQuestionDetail(w http.ResponseWriter, r *http.Request) {
	detail, err := h.svc.QuestionDetail(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, detail, http.StatusOK)
}

type questionUpdateRequest struct {
	Title    *string   `json:"title"`
	Content  *string   `json:"content"`
	Tags     *[]string `json:"tags"`
	AuthorID *string   `json:"authorId"`
}

func (h *QuestionsHandler) UpdateQuestion(w http.ResponseWriter, r *http.Request) {
	var req questionUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, errorResponse{Error: "invalid request"}, http.StatusBadRequest)
		return
	}

	q, err := h.svc.UpdateQuestion(r.Context(), mux.Vars(r)["id"], models.QuestionPatch{
		Title:    req.Title,
		Body:     req.Content,
		Tags:     req.Tags,
		AuthorID: req.AuthorID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, q, http.StatusOK)
}

func (h *QuestionsHandler) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	id, err := h.svc.DeleteQuestion(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, map[string]string{"detail": "Question deleted successfully", "id": id}, http.StatusOK)
}
