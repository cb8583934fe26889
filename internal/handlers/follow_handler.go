package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/warbler-app/backend/internal/metrics"
	"github.com/warbler-app/backend/internal/middleware"
	"github.com/warbler-app/backend/internal/models"
	"github.com/warbler-app/backend/internal/repositories"
	"gorm.io/gorm"
)

// FollowHandler handles follow/unfollow HTTP requests
type FollowHandler struct {
	store      *repositories.Store
	activities repositories.ActivityRepository
	metrics    *metrics.Metrics
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(store *repositories.Store, activities repositories.ActivityRepository, m *metrics.Metrics) *FollowHandler {
	return &FollowHandler{store: store, activities: activities, metrics: m}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.GET("/:id/following", h.ShowFollowing)
	g.GET("/:id/followers", h.ShowFollowers)
	g.POST("/follow/:id", h.FollowUser)
	g.POST("/stop-following/:id", h.UnfollowUser)
}

// ShowFollowing lists the users that :id follows
func (h *FollowHandler) ShowFollowing(c echo.Context) error {
	if middleware.UserFromContext(c) == nil {
		return accessUnauthorized(c, h.metrics, "following")
	}
	return h.listUsers(c, h.store.Follows.GetFollowing)
}

// ShowFollowers lists the users following :id
func (h *FollowHandler) ShowFollowers(c echo.Context) error {
	if middleware.UserFromContext(c) == nil {
		return accessUnauthorized(c, h.metrics, "followers")
	}
	return h.listUsers(c, h.store.Follows.GetFollowers)
}

func (h *FollowHandler) listUsers(c echo.Context, list func(ctx context.Context, userID uint) ([]models.User, error)) error {
	ctx := c.Request().Context()
	target, err := lookupUser(c, h.store.Users)
	if err != nil {
		return err
	}

	users, err := list(ctx, target.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"user": target, "users": users}})
}

// FollowUser makes the current user follow :id
func (h *FollowHandler) FollowUser(c echo.Context) error {
	user := middleware.UserFromContext(c)
	if user == nil {
		return accessUnauthorized(c, h.metrics, "follow")
	}

	target, err := lookupUser(c, h.store.Users)
	if err != nil {
		return err
	}
	if target.ID == user.ID {
		return echo.NewHTTPError(http.StatusBadRequest, "Cannot follow yourself")
	}

	ctx := c.Request().Context()
	var created bool
	err = h.store.Transaction(ctx, func(tx *repositories.Store) error {
		isFollowing, err := tx.Follows.IsFollowing(ctx, user.ID, target.ID)
		if err != nil || isFollowing {
			return err
		}
		created = true
		return tx.Follows.CreateFollow(ctx, user.ID, target.ID)
	})
	if err != nil && !repositories.IsViolation(err, repositories.ViolationUnique) {
		logrus.WithError(err).WithFields(logrus.Fields{"follower_id": user.ID, "followed_id": target.ID}).Error("Failed to follow user")
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to follow user")
	}

	if created && err == nil {
		h.metrics.Follows.Inc()
		recordActivity(ctx, h.activities, &models.Activity{
			Type:        models.ActivityFollow,
			ActorID:     user.ID,
			RecipientID: target.ID,
		})
	}

	return c.Redirect(http.StatusFound, userPath(user.ID)+"/following")
}

// UnfollowUser removes the current user's follow edge to :id. Removing an
// edge that does not exist is a no-op.
func (h *FollowHandler) UnfollowUser(c echo.Context) error {
	user := middleware.UserFromContext(c)
	if user == nil {
		return accessUnauthorized(c, h.metrics, "stop_following")
	}

	target, err := lookupUser(c, h.store.Users)
	if err != nil {
		return err
	}

	err = h.store.Follows.DeleteFollow(c.Request().Context(), user.ID, target.ID)
	switch {
	case err == nil:
		h.metrics.Unfollows.Inc()
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.Redirect(http.StatusFound, userPath(user.ID)+"/following")
}
