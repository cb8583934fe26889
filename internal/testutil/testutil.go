// Package testutil provides a throwaway SQLite-backed store and session helpers
// for package tests.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gorilla/sessions"
	"github.com/warbler-app/backend/internal/middleware"
	"github.com/warbler-app/backend/internal/models"
	"github.com/warbler-app/backend/internal/repositories"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	SessionSecret = "test-session-secret"
	JWTSecret     = "test-jwt-secret"
	Password      = "password"
)

func init() {
	models.PasswordCost = bcrypt.MinCost
}

// NewDB opens a migrated SQLite database in a temp dir with foreign keys enforced.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "warbler-test.db") + "?_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repositories.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// NewStore is NewDB wrapped in a repositories.Store.
func NewStore(t *testing.T) *repositories.Store {
	t.Helper()
	return repositories.NewStore(NewDB(t))
}

// CreateUser signs up and commits a user whose password is Password.
func CreateUser(t *testing.T, store *repositories.Store, username string) *models.User {
	t.Helper()

	u, err := models.Signup(username, username+"@test.com", Password, "")
	if err != nil {
		t.Fatalf("signup %s: %v", username, err)
	}
	if err := store.Users.CreateUser(t.Context(), u); err != nil {
		t.Fatalf("create %s: %v", username, err)
	}
	return u
}

// CreateMessage commits a message owned by userID.
func CreateMessage(t *testing.T, store *repositories.Store, userID uint, text string) *models.Message {
	t.Helper()

	m := &models.Message{Text: text, UserID: userID}
	if err := store.Messages.CreateMessage(t.Context(), m); err != nil {
		t.Fatalf("create message: %v", err)
	}
	return m
}

// NewSessionStore returns the app's cookie store without the HTTPS-only flag,
// so plain httptest servers receive the cookie.
func NewSessionStore() *sessions.CookieStore {
	return middleware.NewSessionStore(SessionSecret, false)
}

// SessionCookie returns a session cookie naming userID as the current user.
func SessionCookie(t *testing.T, store sessions.Store, userID uint) *http.Cookie {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	sess, err := store.Get(req, middleware.SessionName)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	sess.Values[middleware.CurrUserKey] = userID
	if err := sess.Save(req, rec); err != nil {
		t.Fatalf("save session: %v", err)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("no session cookie written")
	}
	return cookies[0]
}
