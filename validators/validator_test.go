package validators

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/warbler-app/backend/internal/models"
)

func TestValidate(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name    string
		req     interface{}
		wantErr bool
	}{
		{"message ok", &models.CreateMessageRequest{Text: "hello"}, false},
		{"message empty", &models.CreateMessageRequest{Text: ""}, true},
		{"message too long", &models.CreateMessageRequest{Text: strings.Repeat("a", 141)}, true},
		{"signup ok", &models.SignupRequest{Username: "u", Email: "u@test.com", Password: "secret1"}, false},
		{"signup bad email", &models.SignupRequest{Username: "u", Email: "nope", Password: "secret1"}, true},
		{"signup short password", &models.SignupRequest{Username: "u", Email: "u@test.com", Password: "123"}, true},
		{"profile needs password", &models.UpdateProfileRequest{Bio: "hi"}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Validate(tc.req)
			if (err != nil) != tc.wantErr {
				t.Fatalf("expected error=%v, got %v", tc.wantErr, err)
			}
			if err == nil {
				return
			}
			var he *echo.HTTPError
			if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
				t.Errorf("expected 400 HTTPError, got %v", err)
			}
		})
	}
}
