package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"firebase.google.com/go/v4/auth"
	"github.com/warbler-app/backend/internal/middleware"
	"github.com/warbler-app/backend/internal/router"
	"github.com/warbler-app/backend/internal/testutil"
)

func TestSignup(t *testing.T) {
	app := newTestApp(t)
	testutil.CreateUser(t, app.store, "taken")

	tests := []struct {
		name     string
		form     url.Values
		wantCode int
	}{
		{"success", url.Values{"username": {"newbie"}, "email": {"newbie@test.com"}, "password": {"secret123"}}, http.StatusFound},
		{"duplicate username", url.Values{"username": {"taken"}, "email": {"x@test.com"}, "password": {"secret123"}}, http.StatusConflict},
		{"duplicate email", url.Values{"username": {"fresh"}, "email": {"taken@test.com"}, "password": {"secret123"}}, http.StatusConflict},
		{"missing password", url.Values{"username": {"nopass"}, "email": {"nopass@test.com"}}, http.StatusBadRequest},
		{"bad email", url.Values{"username": {"bad"}, "email": {"not-an-email"}, "password": {"secret123"}}, http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := app.do(http.MethodPost, "/signup", tc.form, 0)
			if rec.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d: %s", tc.wantCode, rec.Code, rec.Body.String())
			}
			if tc.wantCode != http.StatusFound {
				return
			}
			assertRedirect(t, rec, "/")
			if len(rec.Result().Cookies()) == 0 {
				t.Error("expected a session cookie after signup")
			}

			u, err := app.store.Users.GetUserByUsername(context.Background(), "newbie")
			if err != nil {
				t.Fatal(err)
			}
			if u.Password == "secret123" || !strings.HasPrefix(u.Password, "$2a$") {
				t.Errorf("expected stored bcrypt hash, got %q", u.Password)
			}
		})
	}

	users, _ := app.store.Users.SearchUsers(context.Background(), "")
	if len(users) != 2 {
		t.Errorf("expected 2 users after the table, got %d", len(users))
	}
}

func TestLogin(t *testing.T) {
	app := newTestApp(t)
	user := testutil.CreateUser(t, app.store, "testuser")

	tests := []struct {
		name     string
		username string
		password string
		wantCode int
	}{
		{"valid", "testuser", testutil.Password, http.StatusFound},
		{"wrong password", "testuser", "nope", http.StatusUnauthorized},
		{"unknown user", "ghost", testutil.Password, http.StatusUnauthorized},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := app.do(http.MethodPost, "/login", url.Values{"username": {tc.username}, "password": {tc.password}}, 0)
			if rec.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d", tc.wantCode, rec.Code)
			}
			if tc.wantCode == http.StatusUnauthorized {
				if !strings.Contains(rec.Body.String(), "Invalid credentials.") {
					t.Errorf("expected Invalid credentials., got %s", rec.Body.String())
				}
				return
			}

			assertRedirect(t, rec, "/")
			cookies := rec.Result().Cookies()
			if len(cookies) == 0 {
				t.Fatal("expected session cookie")
			}
			req, _ := http.NewRequest(http.MethodGet, "/", nil)
			req.AddCookie(cookies[0])
			sess, err := app.sessions.Get(req, middleware.SessionName)
			if err != nil {
				t.Fatal(err)
			}
			if sess.Values[middleware.CurrUserKey] != user.ID {
				t.Errorf("expected curr_user %d, got %v", user.ID, sess.Values[middleware.CurrUserKey])
			}
		})
	}
}

func TestLogout(t *testing.T) {
	app := newTestApp(t)
	user := testutil.CreateUser(t, app.store, "testuser")

	rec := app.do(http.MethodGet, "/logout", nil, user.ID)
	assertRedirect(t, rec, "/login")

	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected session cookie rewrite")
	}
	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	sess, _ := app.sessions.Get(req, middleware.SessionName)
	if _, ok := sess.Values[middleware.CurrUserKey]; ok {
		t.Error("expected curr_user cleared")
	}
}

func TestToken_AuthenticatesBearerRequests(t *testing.T) {
	app := newTestApp(t)
	user := testutil.CreateUser(t, app.store, "testuser")
	msg := testutil.CreateMessage(t, app.store, user.ID, "bearer visible")

	rec := app.doJSON(http.MethodPost, "/api/token", map[string]string{"username": "testuser", "password": testutil.Password}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body.Token == "" {
		t.Fatalf("expected token, got %s", rec.Body.String())
	}

	header := http.Header{"Authorization": {"Bearer " + body.Token}}
	rec = app.doJSON(http.MethodGet, fmt.Sprintf("/messages/%d", msg.ID), nil, header)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "bearer visible") {
		t.Errorf("expected bearer request to see the message, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = app.doJSON(http.MethodPost, "/api/token", map[string]string{"username": "testuser", "password": "wrong"}, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestFirebaseLogin(t *testing.T) {
	verifier := &mockVerifier{
		VerifyIDTokenFunc: func(ctx context.Context, idToken string) (*auth.Token, error) {
			switch idToken {
			case "known":
				return &auth.Token{UID: "uid-1", Claims: map[string]interface{}{"email": "testuser@test.com", "email_verified": true}}, nil
			case "stranger":
				return &auth.Token{UID: "uid-2", Claims: map[string]interface{}{"email": "nobody@test.com", "email_verified": true}}, nil
			case "unverified":
				return &auth.Token{UID: "uid-3", Claims: map[string]interface{}{"email": "testuser@test.com"}}, nil
			}
			return nil, errors.New("bad token")
		},
	}
	app := newTestApp(t, func(d *router.Deps) { d.Firebase = verifier })
	user := testutil.CreateUser(t, app.store, "testuser")

	tests := []struct {
		token    string
		wantCode int
	}{
		{"known", http.StatusOK},
		{"stranger", http.StatusUnauthorized},
		{"unverified", http.StatusUnauthorized},
		{"forged", http.StatusUnauthorized},
	}
	for _, tc := range tests {
		t.Run(tc.token, func(t *testing.T) {
			rec := app.doJSON(http.MethodPost, "/auth/firebase", map[string]string{"idToken": tc.token}, nil)
			if rec.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d: %s", tc.wantCode, rec.Code, rec.Body.String())
			}
			if tc.wantCode != http.StatusOK {
				return
			}
			if !strings.Contains(rec.Body.String(), fmt.Sprintf(`"id":%d`, user.ID)) {
				t.Errorf("expected user %d in body, got %s", user.ID, rec.Body.String())
			}
			if len(rec.Result().Cookies()) == 0 {
				t.Error("expected session cookie")
			}
		})
	}
}

func TestFirebaseLogin_NotConfigured(t *testing.T) {
	app := newTestApp(t)
	rec := app.doJSON(http.MethodPost, "/auth/firebase", map[string]string{"idToken": "x"}, nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", rec.Code)
	}
}
