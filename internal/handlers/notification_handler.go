package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/warbler-app/backend/internal/metrics"
	"github.com/warbler-app/backend/internal/middleware"
	"github.com/warbler-app/backend/internal/repositories"
)

const (
	defaultNotificationLimit = 50
	maxNotificationLimit     = 200
)

// NotificationHandler serves the follow/like activity addressed to the current user
type NotificationHandler struct {
	activities repositories.ActivityRepository
	metrics    *metrics.Metrics
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(activities repositories.ActivityRepository, m *metrics.Metrics) *NotificationHandler {
	return &NotificationHandler{activities: activities, metrics: m}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(e *echo.Echo) {
	e.GET("/notifications", h.GetNotifications)
}

// GetNotifications returns the newest activity for the current user; ?limit= caps it.
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	user := middleware.UserFromContext(c)
	if user == nil {
		return accessUnauthorized(c, h.metrics, "notifications")
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit < 1 {
		limit = defaultNotificationLimit
	}
	if limit > maxNotificationLimit {
		limit = maxNotificationLimit
	}

	activities, err := h.activities.ListForRecipient(c.Request().Context(), user.ID, int64(limit))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": activities})
}
