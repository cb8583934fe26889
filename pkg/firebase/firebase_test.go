package firebase

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"firebase.google.com/go/v4/auth"
)

func TestInitFirebase_NotConfigured(t *testing.T) {
	if _, err := InitFirebase(context.Background(), ""); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
	missing := filepath.Join(t.TempDir(), "nope.json")
	if _, err := InitFirebase(context.Background(), missing); err == nil {
		t.Error("expected error for missing credentials file")
	}
}

func TestEmailFromToken(t *testing.T) {
	tests := []struct {
		name      string
		token     *auth.Token
		wantEmail string
		wantOK    bool
	}{
		{"nil token", nil, "", false},
		{"no email", &auth.Token{Claims: map[string]interface{}{}}, "", false},
		{"unverified", &auth.Token{Claims: map[string]interface{}{"email": "a@b.com"}}, "a@b.com", false},
		{"verified", &auth.Token{Claims: map[string]interface{}{"email": "a@b.com", "email_verified": true}}, "a@b.com", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			email, ok := EmailFromToken(tc.token)
			if email != tc.wantEmail || ok != tc.wantOK {
				t.Errorf("expected (%q, %v), got (%q, %v)", tc.wantEmail, tc.wantOK, email, ok)
			}
		})
	}
}
