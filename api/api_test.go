package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"github.com/answerhub/answerhub/api"
	"github.com/answerhub/answerhub/internal/auth"
	"github.com/answerhub/answerhub/pkg/repository/mock"
)

func newTestEnv(t *testing.T) (*mux.Router, *mock.Store) {
	t.Helper()
	store := mock.NewStore()
	tokens := auth.NewManager("testsecret", time.Hour, nil)
	return api.SetupRoutes("test", "now", store, tokens), store
}

func newTestRouter(t *testing.T) *mux.Router {
	t.Helper()
	router, _ := newTestEnv(t)
	return router
}

func doRequest(t *testing.T, router *mux.Router, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Buffer
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewBuffer(b)
	} else {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

// registerUser registers a user through the API and returns the minted id.
func registerUser(t *testing.T, router *mux.Router, username string) string {
	t.Helper()
	rec := doRequest(t, router, http.MethodPost, "/user/register", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "pw-" + username,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d: %s", username, rec.Code, rec.Body.String())
	}
	var profile struct {
		ID string `json:"id"`
	}
	decode(t, rec, &profile)
	if profile.ID == "" {
		t.Fatalf("register %s: missing id in response", username)
	}
	return profile.ID
}

func TestRegister(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/user/register", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "secret",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var profile map[string]any
	decode(t, rec, &profile)
	if profile["username"] != "alice" || profile["email"] != "alice@example.com" {
		t.Fatalf("unexpected profile: %v", profile)
	}
	if _, leaked := profile["passwordHash"]; leaked {
		t.Fatalf("password hash leaked into response")
	}
	if profile["reputation"] != float64(0) {
		t.Fatalf("fresh user should have zero reputation: %v", profile["reputation"])
	}

	// same email again conflicts
	rec = doRequest(t, router, http.MethodPost, "/user/register", map[string]string{
		"username": "alice2",
		"email":    "alice@example.com",
		"password": "secret",
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate email, got %d", rec.Code)
	}
}

func TestRegister_InvalidPayload(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name    string
		payload map[string]string
	}{
		{name: "missing password", payload: map[string]string{"username": "alice", "email": "a@b.co"}},
		{name: "bad email", payload: map[string]string{"username": "alice", "email": "nope", "password": "pw"}},
		{name: "empty username", payload: map[string]string{"username": "", "email": "a@b.co", "password": "pw"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, router, http.MethodPost, "/user/register", tt.payload)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestLoginAndLogout(t *testing.T) {
	router := newTestRouter(t)
	registerUser(t, router, "alice")

	// wrong password
	rec := doRequest(t, router, http.MethodPost, "/user/login", map[string]string{
		"username": "alice", "password": "wrong",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong password, got %d", rec.Code)
	}

	// unknown user
	rec = doRequest(t, router, http.MethodPost, "/user/login", map[string]string{
		"username": "nobody", "password": "pw",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unknown user, got %d", rec.Code)
	}

	rec = doRequest(t, router, http.MethodPost, "/user/login", map[string]string{
		"username": "alice", "password": "pw-alice",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var login struct {
		ID          string `json:"id"`
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	decode(t, rec, &login)
	if login.AccessToken == "" || login.TokenType != "bearer" {
		t.Fatalf("unexpected login response: %+v", login)
	}

	// logout with the issued token
	req := httptest.NewRequest(http.MethodPost, "/user/logout", nil)
	req.Header.Set("Authorization", "Bearer "+login.AccessToken)
	logoutRec := httptest.NewRecorder()
	router.ServeHTTP(logoutRec, req)
	if logoutRec.Code != http.StatusOK {
		t.Fatalf("expected 200 for logout, got %d: %s", logoutRec.Code, logoutRec.Body.String())
	}

	// logout without a token is rejected by the middleware
	req = httptest.NewRequest(http.MethodPost, "/user/logout", nil)
	logoutRec = httptest.NewRecorder()
	router.ServeHTTP(logoutRec, req)
	if logoutRec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for logout without token, got %d", logoutRec.Code)
	}
}

func TestGetUser_MalformedID(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/user/not-a-uuid", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed id, got %d", rec.Code)
	}
}

func TestIncreaseReputationEndpoint(t *testing.T) {
	router := newTestRouter(t)
	aliceID := registerUser(t, router, "alice")
	bobID := registerUser(t, router, "bob")

	path := fmt.Sprintf("/user/%s/reputation/%s", bobID, aliceID)
	rec := doRequest(t, router, http.MethodPut, path, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var profile struct {
		Reputation int64 `json:"reputation"`
	}
	decode(t, rec, &profile)
	if profile.Reputation != 1 {
		t.Fatalf("expected reputation 1, got %d", profile.Reputation)
	}

	// same granter again conflicts
	rec = doRequest(t, router, http.MethodPut, path, nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 on repeat grant, got %d", rec.Code)
	}
}

func TestQuestionAnswerLifecycle(t *testing.T) {
	router := newTestRouter(t)
	aliceID := registerUser(t, router, "alice")
	bobID := registerUser(t, router, "bob")

	// alice posts a question
	rec := doRequest(t, router, http.MethodPost, "/question/questions", map[string]any{
		"title":    "How do I write tables?",
		"content":  "Table-driven tests, specifically.",
		"tags":     []string{"go", "testing"},
		"authorId": aliceID,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create question: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var question struct {
		ID       string `json:"id"`
		AuthorID string `json:"authorId"`
	}
	decode(t, rec, &question)
	if question.ID == "" || question.AuthorID != aliceID {
		t.Fatalf("unexpected question: %+v", question)
	}

	// the listing carries the author's display name
	rec = doRequest(t, router, http.MethodGet, "/question/questions", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list questions: expected 200, got %d", rec.Code)
	}
	var listed []struct {
		ID         string `json:"id"`
		AuthorName string `json:"authorName"`
	}
	decode(t, rec, &listed)
	if len(listed) != 1 || listed[0].AuthorName != "alice" {
		t.Fatalf("unexpected question list: %+v", listed)
	}

	// bob answers
	rec = doRequest(t, router, http.MethodPost, "/answer/answers", map[string]any{
		"content":    "Use a slice of cases and t.Run.",
		"questionId": question.ID,
		"authorId":   bobID,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create answer: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var answer struct {
		ID string `json:"id"`
	}
	decode(t, rec, &answer)

	// the joined detail view resolves both display names
	rec = doRequest(t, router, http.MethodGet, "/question/questions/details/"+question.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("question detail: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var detail struct {
		AuthorName string `json:"authorName"`
		Answers    []struct {
			ID         string `json:"id"`
			AuthorName string `json:"authorName"`
		} `json:"answers"`
	}
	decode(t, rec, &detail)
	if detail.AuthorName != "alice" || len(detail.Answers) != 1 || detail.Answers[0].AuthorName != "bob" {
		t.Fatalf("unexpected detail: %+v", detail)
	}

	// alice upvotes bob's answer, once
	upvotePath := fmt.Sprintf("/answer/%s/upvote/answer/%s", aliceID, answer.ID)
	rec = doRequest(t, router, http.MethodPut, upvotePath, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("upvote: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var voted struct {
		Upvotes int64 `json:"upvotes"`
	}
	decode(t, rec, &voted)
	if voted.Upvotes != 1 {
		t.Fatalf("expected 1 upvote, got %d", voted.Upvotes)
	}

	rec = doRequest(t, router, http.MethodPut, upvotePath, nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 on second upvote, got %d", rec.Code)
	}

	// and takes it back
	revokePath := fmt.Sprintf("/answer/%s/revoke/answer/%s", aliceID, answer.ID)
	rec = doRequest(t, router, http.MethodPut, revokePath, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("revoke: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	decode(t, rec, &voted)
	if voted.Upvotes != 0 {
		t.Fatalf("expected 0 upvotes after revoke, got %d", voted.Upvotes)
	}

	rec = doRequest(t, router, http.MethodPut, revokePath, nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 on revoke without vote, got %d", rec.Code)
	}

	// swapping the answer's author is rejected
	rec = doRequest(t, router, http.MethodPut, "/answer/answers/"+answer.ID, map[string]any{
		"authorId": aliceID,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for immutable field, got %d: %s", rec.Code, rec.Body.String())
	}

	// deleting the question takes the answer with it
	rec = doRequest(t, router, http.MethodDelete, "/question/questions/"+question.ID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete question: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, router, http.MethodGet, "/answer/answers/"+answer.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for cascaded answer, got %d", rec.Code)
	}

	// bob's profile no longer references the deleted answer
	rec = doRequest(t, router, http.MethodGet, "/user/"+bobID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get user: expected 200, got %d", rec.Code)
	}
	var bobProfile struct {
		Answers []struct {
			AnswerID string `json:"answerId"`
		} `json:"answers"`
	}
	decode(t, rec, &bobProfile)
	if len(bobProfile.Answers) != 0 {
		t.Fatalf("expected empty answers set, got %+v", bobProfile.Answers)
	}
}

func TestCreateQuestion_UnknownAuthor(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/question/questions", map[string]any{
		"title":    "T",
		"content":  "C",
		"tags":     []string{"go"},
		"authorId": "00000000-0000-0000-0000-000000000000",
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown author, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestDeleteUserEndpoint(t *testing.T) {
	router := newTestRouter(t)
	aliceID := registerUser(t, router, "alice")

	rec := doRequest(t, router, http.MethodPost, "/question/questions", map[string]any{
		"title":    "T",
		"content":  "C",
		"tags":     []string{},
		"authorId": aliceID,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create question: expected 201, got %d", rec.Code)
	}
	var question struct {
		ID string `json:"id"`
	}
	decode(t, rec, &question)

	rec = doRequest(t, router, http.MethodDelete, "/user/"+aliceID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete user: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var deleted map[string]string
	decode(t, rec, &deleted)
	if deleted["id"] != aliceID {
		t.Fatalf("unexpected delete response: %v", deleted)
	}

	rec = doRequest(t, router, http.MethodGet, "/user/"+aliceID, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for deleted user, got %d", rec.Code)
	}
	rec = doRequest(t, router, http.MethodGet, "/question/questions/"+question.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for cascaded question, got %d", rec.Code)
	}
}
