package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fintrack/internal/shared/auth"
)

func TestAuth(t *testing.T) {
	jwt := auth.NewJWT("test-secret", time.Hour)
	validToken, err := jwt.Generate("admin")
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}
	foreignToken, err := auth.NewJWT("other-secret", time.Hour).Generate("admin")
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}

	tests := []struct {
		name           string
		header         string
		expectedStatus int
		expectedUser   bool
	}{
		{"Valid Token", "Bearer " + validToken, http.StatusOK, true},
		{"Lowercase scheme", "bearer " + validToken, http.StatusOK, true},
		{"No Token", "", http.StatusUnauthorized, false},
		{"Wrong scheme", "Basic " + validToken, http.StatusUnauthorized, false},
		{"Invalid Token", "Bearer invalid", http.StatusUnauthorized, false},
		{"Token from another secret", "Bearer " + foreignToken, http.StatusUnauthorized, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				subject, ok := r.Context().Value(SubjectKey).(string)
				if !ok && tt.expectedUser {
					t.Error("Expected subject in context, got none")
				}
				if ok && subject != "admin" {
					t.Errorf("Expected subject admin, got %q", subject)
				}
				w.WriteHeader(http.StatusOK)
			})

			handler := Auth(jwt)(nextHandler)

			req := httptest.NewRequest(http.MethodGet, "/api/accounts", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, tt.expectedStatus)
			}
			if rr.Code == http.StatusUnauthorized && rr.Header().Get("Content-Type") != "application/json" {
				t.Errorf("Content-Type = %q, want application/json", rr.Header().Get("Content-Type"))
			}
		})
	}
}
