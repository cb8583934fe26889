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
)

// profileMessageLimit caps the messages returned with a profile.
const profileMessageLimit = 100

var errInvalidPassword = echo.NewHTTPError(http.StatusUnauthorized, "Invalid password.")

// UserHandler handles HTTP requests related to users
type UserHandler struct {
	store    *repositories.Store
	sessions sessions.Store
	metrics  *metrics.Metrics
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(store *repositories.Store, sessionStore sessions.Store, m *metrics.Metrics) *UserHandler {
	return &UserHandler{store: store, sessions: sessionStore, metrics: m}
}

// RegisterUserRoutes registers user profile-related routes
func (h *UserHandler) RegisterUserRoutes(g *echo.Group) {
	g.GET("", h.ListUsers)
	g.GET("/:id", h.ShowUser)
	g.GET("/:id/likes", h.ShowLikes)
	g.POST("/profile", h.UpdateProfile)
	g.POST("/delete", h.DeleteAccount)
}

// ListUsers lists users whose username contains ?q=
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.store.Users.SearchUsers(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": users})
}

// ShowUser returns a profile with the user's newest messages and counts.
func (h *UserHandler) ShowUser(c echo.Context) error {
	user, err := lookupUser(c, h.store.Users)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	messages, err := h.store.Messages.GetMessagesByUserID(ctx, user.ID, profileMessageLimit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	messageCount, err := h.store.Messages.CountByUserID(ctx, user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	followingCount, err := h.store.Follows.GetFollowingCount(ctx, user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	followersCount, err := h.store.Follows.GetFollowersCount(ctx, user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	likedIDs, err := h.store.Likes.GetLikedMessageIDs(ctx, user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	counts := echo.Map{
		"messages":  messageCount,
		"following": followingCount,
		"followers": followersCount,
		"likes":     len(likedIDs),
	}

	data := echo.Map{"user": user, "messages": messages, "counts": counts}
	if me := middleware.UserFromContext(c); me != nil && me.ID != user.ID {
		following, err := h.store.Follows.IsFollowing(ctx, me.ID, user.ID)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		data["is_following"] = following
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": data})
}

// ShowLikes lists the messages :id has liked
func (h *UserHandler) ShowLikes(c echo.Context) error {
	if middleware.UserFromContext(c) == nil {
		return accessUnauthorized(c, h.metrics, "likes")
	}

	user, err := lookupUser(c, h.store.Users)
	if err != nil {
		return err
	}

	messages, err := h.store.Likes.GetLikedMessages(c.Request().Context(), user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"user": user, "messages": messages}})
}

// UpdateProfile edits the current user's profile after re-checking their password.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	me := middleware.UserFromContext(c)
	if me == nil {
		return accessUnauthorized(c, h.metrics, "profile")
	}

	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	err := h.store.Transaction(ctx, func(tx *repositories.Store) error {
		user, err := tx.Users.Authenticate(ctx, me.Username, req.Password)
		if err != nil {
			return err
		}
		if user == nil {
			return errInvalidPassword
		}

		applyProfile(user, &req)
		return tx.Users.UpdateUser(ctx, user)
	})
	switch {
	case err == nil:
	case errors.Is(err, errInvalidPassword):
		return err
	case repositories.IsViolation(err, repositories.ViolationUnique):
		return echo.NewHTTPError(http.StatusConflict, "Username or email already taken")
	default:
		logrus.WithError(err).WithField("user_id", me.ID).Error("Failed to update profile")
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update profile")
	}

	return c.Redirect(http.StatusFound, userPath(me.ID))
}

// applyProfile copies the non-empty fields of req onto user.
func applyProfile(user *models.User, req *models.UpdateProfileRequest) {
	if req.Username != "" {
		user.Username = req.Username
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	if req.ImageURL != "" {
		user.ImageURL = req.ImageURL
	}
	if req.HeaderImageURL != "" {
		user.HeaderImageURL = req.HeaderImageURL
	}
	if req.Bio != "" {
		user.Bio = req.Bio
	}
	if req.Location != "" {
		user.Location = req.Location
	}
}

// DeleteAccount deletes the current user, their messages and edges, then logs out.
func (h *UserHandler) DeleteAccount(c echo.Context) error {
	me := middleware.UserFromContext(c)
	if me == nil {
		return accessUnauthorized(c, h.metrics, "delete_user")
	}

	if err := h.store.Users.DeleteUser(c.Request().Context(), me.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := middleware.Logout(c, h.sessions); err != nil {
		logrus.WithError(err).Warn("Failed to clear session after account deletion")
	}

	logrus.WithField("user_id", me.ID).Info("Account deleted")
	return c.Redirect(http.StatusFound, "/signup")
}
