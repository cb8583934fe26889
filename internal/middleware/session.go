package middleware

import (
	"errors"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/warbler-app/backend/internal/models"
	"github.com/warbler-app/backend/internal/repositories"
	"gorm.io/gorm"
)

const (
	// SessionName is the cookie the session store writes.
	SessionName = "warbler_session"
	// CurrUserKey holds the logged-in user's id inside the session.
	CurrUserKey = "curr_user"

	currentUserContextKey = "currentUser"
)

// SessionMaxAge is how long a login session cookie lives.
const SessionMaxAge = 16 * 60 * 60

// NewSessionStore returns the cookie store that carries CurrUserKey. secure
// marks the cookie HTTPS-only.
func NewSessionStore(secret string, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   SessionMaxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// CurrentUser resolves the optional logged-in user for every request, first
// from the session cookie and then from an Authorization: Bearer token.
// Requests without a resolvable user continue as anonymous.
func CurrentUser(store sessions.Store, users repositories.UserRepository, jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, err := loadUser(c, users, sessionUserID(c, store))
			if err == nil && user == nil {
				user, err = loadUser(c, users, bearerUserID(c, jwtSecret))
			}
			if err != nil {
				logrus.WithError(err).Error("Failed to load current user")
				return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load current user")
			}

			if user != nil {
				c.Set(currentUserContextKey, user)
			}
			return next(c)
		}
	}
}

// loadUser returns nil for a zero id or an id naming no user.
func loadUser(c echo.Context, users repositories.UserRepository, id uint) (*models.User, error) {
	if id == 0 {
		return nil, nil
	}
	user, err := users.GetUserByID(c.Request().Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		logrus.WithField("user_id", id).Debug("Credentials name unknown user")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// UserFromContext returns the user resolved by CurrentUser, or nil when anonymous.
func UserFromContext(c echo.Context) *models.User {
	user, _ := c.Get(currentUserContextKey).(*models.User)
	return user
}

// Login stores userID in the session and writes the cookie.
func Login(c echo.Context, store sessions.Store, userID uint) error {
	sess, _ := store.Get(c.Request(), SessionName)
	sess.Values[CurrUserKey] = userID
	return sess.Save(c.Request(), c.Response())
}

// Logout removes the current user from the session.
func Logout(c echo.Context, store sessions.Store) error {
	sess, _ := store.Get(c.Request(), SessionName)
	delete(sess.Values, CurrUserKey)
	return sess.Save(c.Request(), c.Response())
}

func sessionUserID(c echo.Context, store sessions.Store) uint {
	sess, err := store.Get(c.Request(), SessionName)
	if err != nil {
		return 0
	}
	id, _ := sess.Values[CurrUserKey].(uint)
	return id
}
