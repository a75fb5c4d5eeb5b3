package api_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/answerhub/answerhub/api"
	"github.com/answerhub/answerhub/internal/auth"
)

func TestAuthMiddleware(t *testing.T) {
	tokens := auth.NewManager("testsecret", time.Hour, nil)
	token, err := tokens.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	var gotUserID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = r.Context().Value(api.CtxUserID).(string)
		w.WriteHeader(http.StatusOK)
	})
	handler := api.AuthMiddleware(tokens)(next)

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
		wantUserID string
	}{
		{name: "valid token", authHeader: "Bearer " + token, wantStatus: http.StatusOK, wantUserID: "user-123"},
		{name: "missing header", authHeader: "", wantStatus: http.StatusUnauthorized},
		{name: "garbage token", authHeader: "Bearer nope", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotUserID = ""
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
			if tt.wantUserID != "" && gotUserID != tt.wantUserID {
				t.Fatalf("expected user id %q in context, got %q", tt.wantUserID, gotUserID)
			}
		})
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	panics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	handler := api.RecoveryMiddleware(panics)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 after panic, got %d", rec.Code)
	}
}
