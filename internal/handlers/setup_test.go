package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"firebase.google.com/go/v4/auth"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/warbler-app/backend/internal/models"
	"github.com/warbler-app/backend/internal/repositories"
	"github.com/warbler-app/backend/internal/router"
	"github.com/warbler-app/backend/internal/testutil"
)

// mockActivityRepo records activities in memory.
type mockActivityRepo struct {
	mu                   sync.Mutex
	recorded             []models.Activity
	RecordFunc           func(ctx context.Context, a *models.Activity) error
	ListForRecipientFunc func(ctx context.Context, recipientID uint, limit int64) ([]models.Activity, error)
}

func (m *mockActivityRepo) Record(ctx context.Context, a *models.Activity) error {
	if m.RecordFunc != nil {
		return m.RecordFunc(ctx, a)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recorded = append(m.recorded, *a)
	return nil
}

func (m *mockActivityRepo) ListForRecipient(ctx context.Context, recipientID uint, limit int64) ([]models.Activity, error) {
	if m.ListForRecipientFunc != nil {
		return m.ListForRecipientFunc(ctx, recipientID, limit)
	}
	return []models.Activity{}, nil
}

func (m *mockActivityRepo) all() []models.Activity {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Activity(nil), m.recorded...)
}

type mockVerifier struct {
	VerifyIDTokenFunc func(ctx context.Context, idToken string) (*auth.Token, error)
}

func (m *mockVerifier) VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error) {
	return m.VerifyIDTokenFunc(ctx, idToken)
}

type testApp struct {
	t          *testing.T
	e          *echo.Echo
	store      *repositories.Store
	sessions   *sessions.CookieStore
	activities *mockActivityRepo
	registry   *prometheus.Registry
}

func newTestApp(t *testing.T, opts ...func(*router.Deps)) *testApp {
	t.Helper()

	db := testutil.NewDB(t)
	app := &testApp{
		t:          t,
		e:          echo.New(),
		store:      repositories.NewStore(db),
		sessions:   testutil.NewSessionStore(),
		activities: &mockActivityRepo{},
		registry:   prometheus.NewRegistry(),
	}

	deps := router.Deps{
		DB:         db,
		Activities: app.activities,
		Sessions:   app.sessions,
		JWTSecret:  testutil.JWTSecret,
		Registry:   app.registry,
	}
	for _, opt := range opts {
		opt(&deps)
	}
	router.SetupRoutes(app.e, deps)
	return app
}

// do sends a request as userID (0 for anonymous). A non-nil form is sent
// urlencoded.
func (a *testApp) do(method, path string, form url.Values, userID uint) *httptest.ResponseRecorder {
	a.t.Helper()

	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if userID != 0 {
		req.AddCookie(testutil.SessionCookie(a.t, a.sessions, userID))
	}

	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) doJSON(method, path string, body interface{}, header http.Header) *httptest.ResponseRecorder {
	a.t.Helper()

	raw, err := json.Marshal(body)
	if err != nil {
		a.t.Fatal(err)
	}
	req := httptest.NewRequest(method, path, strings.NewReader(string(raw)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Success bool            `json:"success"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return env
}

func assertUnauthorized(t *testing.T, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	env := decode(t, rec)
	if env.Success || !strings.Contains(env.Error, "Access unauthorized") {
		t.Errorf("expected Access unauthorized body, got %s", rec.Body.String())
	}
}

func assertRedirect(t *testing.T, rec *httptest.ResponseRecorder, location string) {
	t.Helper()
	if rec.Code != http.StatusFound {
		t.Fatalf("expected status 302, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get(echo.HeaderLocation); got != location {
		t.Errorf("expected redirect to %s, got %s", location, got)
	}
}
