package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestJWT_GenerateAndValidate(t *testing.T) {
	j := NewJWT("my-secret-key", time.Hour)

	token, err := j.Generate("admin")
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}
	if token == "" {
		t.Fatal("Generate() returned empty token")
	}

	claims, err := j.Validate(token)
	if err != nil {
		t.Fatalf("Validate() failed: %v", err)
	}
	if claims.Subject != "admin" {
		t.Errorf("Validate() got Subject %q, want admin", claims.Subject)
	}
	if claims.ExpiresAt == nil {
		t.Error("Validate() expected an expiry")
	}
}

func TestJWT_Rejects(t *testing.T) {
	j := NewJWT("my-secret-key", time.Hour)
	token, err := j.Generate("admin")
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}
	parts := strings.Split(token, ".")

	otherKey, err := NewJWT("another-secret", time.Hour).Generate("admin")
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"tampered signature", parts[0] + "." + parts[1] + ".invalid-signature"},
		{"invalid format", "invalid.token"},
		{"empty", ""},
		{"signed with another secret", otherKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := j.Validate(tt.token)
			if !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Validate() error = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestJWT_ExpiredToken(t *testing.T) {
	j := NewJWT("my-secret-key", time.Hour)
	j.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := j.Generate("admin")
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}

	_, err = NewJWT("my-secret-key", time.Hour).Validate(token)
	if !errors.Is(err, ErrTokenExpired) {
		t.Errorf("Validate() error = %v, want ErrTokenExpired", err)
	}
}

func TestJWT_NoExpiry(t *testing.T) {
	j := NewJWT("my-secret-key", 0)

	token, err := j.Generate("cron")
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}
	claims, err := j.Validate(token)
	if err != nil {
		t.Fatalf("Validate() failed: %v", err)
	}
	if claims.ExpiresAt != nil {
		t.Errorf("ExpiresAt = %v, want none", claims.ExpiresAt)
	}
}
