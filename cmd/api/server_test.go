package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRedirectHandler(t *testing.T) {
	tests := []struct {
		name         string
		host         string
		forwarded    string
		allowedHosts []string
		wantStatus   int
		wantLocation string
	}{
		{"no allow list", "example.com", "", nil, http.StatusMovedPermanently, "https://example.com/api/items?x=1"},
		{"port stripped", "example.com:80", "", []string{"example.com"}, http.StatusMovedPermanently, "https://example.com/api/items?x=1"},
		{"forwarded host wins", "internal:8080", "app.example.com", []string{"app.example.com"}, http.StatusMovedPermanently, "https://app.example.com/api/items?x=1"},
		{"ipv6 keeps brackets", "[::1]:80", "", nil, http.StatusMovedPermanently, "https://[::1]/api/items?x=1"},
		{"host not allowed", "evil.com", "", []string{"example.com"}, http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/items?x=1", nil)
			req.Host = tt.host
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-Host", tt.forwarded)
			}
			rec := httptest.NewRecorder()

			redirectHandler(tt.allowedHosts).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if got := rec.Header().Get("Location"); got != tt.wantLocation {
				t.Errorf("Location = %q, want %q", got, tt.wantLocation)
			}
		})
	}
}
