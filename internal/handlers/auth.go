package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/warbler-app/backend/internal/metrics"
	"github.com/warbler-app/backend/internal/middleware"
	"github.com/warbler-app/backend/internal/models"
	"github.com/warbler-app/backend/internal/repositories"
	"github.com/warbler-app/backend/pkg/firebase"
	"gorm.io/gorm"
)

// InvalidCredentialsMessage is returned for any failed login, whichever half was wrong.
const InvalidCredentialsMessage = "Invalid credentials."

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	store     *repositories.Store
	sessions  sessions.Store
	metrics   *metrics.Metrics
	jwtSecret string
	firebase  firebase.TokenVerifier // nil when Firebase is not configured
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(store *repositories.Store, sessionStore sessions.Store, m *metrics.Metrics, jwtSecret string, verifier firebase.TokenVerifier) *AuthHandler {
	return &AuthHandler{
		store:     store,
		sessions:  sessionStore,
		metrics:   m,
		jwtSecret: jwtSecret,
		firebase:  verifier,
	}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(e *echo.Echo) {
	e.POST("/signup", h.Signup)
	e.POST("/login", h.Login)
	e.GET("/logout", h.Logout)
	e.POST("/api/token", h.Token)
	e.POST("/auth/firebase", h.FirebaseLogin)
}

// Signup creates an account, logs it in and redirects home.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req models.SignupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := models.Signup(req.Username, req.Email, req.Password, req.ImageURL)
	if err != nil {
		if errors.Is(err, models.ErrPasswordRequired) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to hash password")
	}

	if err := h.store.Users.CreateUser(c.Request().Context(), user); err != nil {
		var ie *repositories.IntegrityError
		if errors.As(err, &ie) {
			if ie.Violation == repositories.ViolationUnique {
				return echo.NewHTTPError(http.StatusConflict, "Username or email already taken")
			}
			return echo.NewHTTPError(http.StatusBadRequest, "Username and email are required")
		}
		logrus.WithError(err).WithField("username", req.Username).Error("Failed to create user")
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create user")
	}

	h.metrics.Signups.Inc()
	logrus.WithFields(logrus.Fields{"user_id": user.ID, "username": user.Username}).Info("User signed up")
	return h.startSession(c, user)
}

// Login checks credentials and starts a session.
func (h *AuthHandler) Login(c echo.Context) error {
	user, err := h.authenticate(c)
	if err != nil {
		return err
	}
	return h.startSession(c, user)
}

// Logout clears the session and redirects to the login page.
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := middleware.Logout(c, h.sessions); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to clear session")
	}
	return c.Redirect(http.StatusFound, "/login")
}

// Token exchanges credentials for a Bearer API token.
func (h *AuthHandler) Token(c echo.Context) error {
	user, err := h.authenticate(c)
	if err != nil {
		return err
	}

	token, err := middleware.IssueToken(user, h.jwtSecret)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to generate token")
	}
	return c.JSON(http.StatusOK, echo.Map{"token": token})
}

// FirebaseLoginRequest defines the request body for Firebase login
type FirebaseLoginRequest struct {
	IDToken string `json:"idToken" form:"idToken" validate:"required"`
}

// FirebaseLogin verifies a Firebase ID token and logs in the account whose
// email matches its verified email claim. Accounts are never created here.
func (h *AuthHandler) FirebaseLogin(c echo.Context) error {
	if h.firebase == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Firebase sign-in is not configured")
	}

	var req FirebaseLoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	token, err := h.firebase.VerifyIDToken(ctx, req.IDToken)
	if err != nil {
		logrus.WithError(err).Debug("Rejected Firebase ID token")
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Firebase ID token")
	}
	email, ok := firebase.EmailFromToken(token)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Firebase account has no verified email")
	}

	user, err := h.store.Users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusUnauthorized, "No account matches this Firebase identity")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "Database error")
	}

	if err := middleware.Login(c, h.sessions, user.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to start session")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": user})
}

// authenticate binds a LoginRequest and resolves it to a user, answering 401
// for an unknown username and a wrong password alike.
func (h *AuthHandler) authenticate(c echo.Context) (*models.User, error) {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return nil, err
	}

	user, err := h.store.Users.Authenticate(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "Database error")
	}
	if user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, InvalidCredentialsMessage)
	}
	return user, nil
}

func (h *AuthHandler) startSession(c echo.Context, user *models.User) error {
	if err := middleware.Login(c, h.sessions, user.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to start session")
	}
	return c.Redirect(http.StatusFound, "/")
}
