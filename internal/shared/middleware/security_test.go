package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHostnameOf(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"api.fintrack.local", "api.fintrack.local"},
		{"api.fintrack.local:8443", "api.fintrack.local"},
		{"  API.Fintrack.Local:8443 ", "api.fintrack.local"},
		{"[::1]:8080", "::1"},
		{"[::1]", "::1"},
		{"::1", "::1"},
		{"[2001:db8::7334]:443", "2001:db8::7334"},
		{"2001:DB8::7334", "2001:db8::7334"},
		{"[fe80::1%eth0]:8080", "fe80::1%eth0"},
		{"127.0.0.1:80", "127.0.0.1"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := hostnameOf(tt.in); got != tt.want {
				t.Errorf("hostnameOf(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestIsHostAllowed(t *testing.T) {
	tests := []struct {
		name         string
		host         string
		allowedHosts []string
		want         bool
	}{
		{"no allow-list accepts anything", "anything.test", nil, true},
		{"entry with port, request without", "api.fintrack.local", []string{"api.fintrack.local:8443"}, true},
		{"entry without port, request with", "api.fintrack.local:8443", []string{"api.fintrack.local"}, true},
		{"ports are not compared", "api.fintrack.local:9000", []string{"api.fintrack.local:8443"}, true},
		{"bracketed request, bare entry", "[::1]:8080", []string{"::1"}, true},
		{"bare request, bracketed entry with port", "::1", []string{"[::1]:8443"}, true},
		{"bracketed entry without port", "[::1]:8080", []string{"[::1]"}, true},
		{"IPv6 case folded", "[2001:DB8::1]:443", []string{"2001:db8::1"}, true},
		{"mixed list matches later entry", "127.0.0.1:8080", []string{"api.fintrack.local", "  127.0.0.1 "}, true},
		{"different IPv6 address", "[::2]:8080", []string{"[::1]:8080"}, false},
		{"subdomain is not the parent", "evil.api.fintrack.local", []string{"api.fintrack.local"}, false},
		{"suffix trick rejected", "api.fintrack.local.evil.test", []string{"api.fintrack.local"}, false},
		{"empty host rejected with list", "", []string{"api.fintrack.local"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsHostAllowed(tt.host, tt.allowedHosts); got != tt.want {
				t.Errorf("IsHostAllowed(%q, %v) = %v, want %v", tt.host, tt.allowedHosts, got, tt.want)
			}
		})
	}
}

func TestOriginHost(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://app.fintrack.local:3000", "app.fintrack.local:3000"},
		{"https://app.fintrack.local/dashboard", "app.fintrack.local"},
		{"  http://localhost:5173  ", "localhost:5173"},
		{"http://[::1]:5173", "[::1]:5173"},
		{"app.fintrack.local", "app.fintrack.local"},
		{"[::1]:5173", "[::1]:5173"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := originHost(tt.in); got != tt.want {
				t.Errorf("originHost(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestIsOriginAllowed_FullOriginEntries(t *testing.T) {
	entries := []string{"https://app.fintrack.local:3000", "http://[::1]:5173"}
	hosts := make([]string, 0, len(entries))
	for _, e := range entries {
		hosts = append(hosts, originHost(e))
	}

	tests := []struct {
		origin string
		want   bool
	}{
		{"https://app.fintrack.local:3000", true},
		{"https://app.fintrack.local", true},
		{"http://[::1]:5173", true},
		{"http://[::1]:9999", true},
		{"https://other.fintrack.local:3000", false},
		{"app.fintrack.local", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			if got := isOriginAllowed(tt.origin, hosts); got != tt.want {
				t.Errorf("isOriginAllowed(%q) = %v, want %v", tt.origin, got, tt.want)
			}
		})
	}
}

func TestHSTS(t *testing.T) {
	called := false
	handler := HSTS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/accounts", nil))

	if !called {
		t.Fatal("HSTS() did not call the next handler")
	}
	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusTeapot)
	}
	if got := rec.Header().Get("Strict-Transport-Security"); got != "max-age=31536000; includeSubDomains" {
		t.Errorf("Strict-Transport-Security = %q", got)
	}
}
