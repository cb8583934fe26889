package handlers

import (
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

// LikeHandler handles HTTP requests related to likes
type LikeHandler struct {
	store      *repositories.Store
	activities repositories.ActivityRepository
	metrics    *metrics.Metrics
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(store *repositories.Store, activities repositories.ActivityRepository, m *metrics.Metrics) *LikeHandler {
	return &LikeHandler{store: store, activities: activities, metrics: m}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/add_like/:id", h.ToggleLike)
}

// ToggleLike likes a message, or unlikes it if the current user already did.
// Users cannot like their own messages.
func (h *LikeHandler) ToggleLike(c echo.Context) error {
	user := middleware.UserFromContext(c)
	if user == nil {
		return accessUnauthorized(c, h.metrics, "add_like")
	}

	id, ok := parseID(c, "id")
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "Message not found")
	}

	ctx := c.Request().Context()
	message, err := h.store.Messages.GetMessageByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Message not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if message.UserID == user.ID {
		return echo.NewHTTPError(http.StatusForbidden, "You cannot like your own message")
	}

	var liked bool
	err = h.store.Transaction(ctx, func(tx *repositories.Store) error {
		hasLiked, err := tx.Likes.HasUserLiked(ctx, user.ID, message.ID)
		if err != nil {
			return err
		}
		if hasLiked {
			return tx.Likes.DeleteLike(ctx, user.ID, message.ID)
		}
		liked = true
		return tx.Likes.CreateLike(ctx, user.ID, message.ID)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || repositories.IsViolation(err, repositories.ViolationUnique) {
			// lost a race with a concurrent toggle
			return echo.NewHTTPError(http.StatusConflict, "Like changed concurrently, try again")
		}
		logrus.WithError(err).WithFields(logrus.Fields{"user_id": user.ID, "message_id": message.ID}).Error("Failed to toggle like")
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to toggle like")
	}

	if liked {
		h.metrics.Likes.Inc()
		recordActivity(ctx, h.activities, &models.Activity{
			Type:        models.ActivityLike,
			ActorID:     user.ID,
			RecipientID: message.UserID,
			MessageID:   message.ID,
		})
	} else {
		h.metrics.Unlikes.Inc()
	}

	return c.Redirect(http.StatusFound, "/")
}
