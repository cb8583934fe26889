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

// MessageHandler handles creating, showing and deleting messages
type MessageHandler struct {
	store   *repositories.Store
	metrics *metrics.Metrics
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(store *repositories.Store, m *metrics.Metrics) *MessageHandler {
	return &MessageHandler{store: store, metrics: m}
}

// RegisterMessageRoutes registers message-related routes
func (h *MessageHandler) RegisterMessageRoutes(g *echo.Group) {
	g.POST("/new", h.CreateMessage)
	g.GET("/:id", h.ShowMessage)
	g.POST("/:id/delete", h.DeleteMessage)
}

// CreateMessage posts a message as the current user and redirects to their profile.
func (h *MessageHandler) CreateMessage(c echo.Context) error {
	user := middleware.UserFromContext(c)
	if user == nil {
		return accessUnauthorized(c, h.metrics, "new_message")
	}

	var req models.CreateMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	message := &models.Message{Text: req.Text, UserID: user.ID}
	if err := h.store.Messages.CreateMessage(c.Request().Context(), message); err != nil {
		if repositories.IsViolation(err, repositories.ViolationRequired) {
			return echo.NewHTTPError(http.StatusBadRequest, "Message text is required")
		}
		logrus.WithError(err).WithField("user_id", user.ID).Error("Failed to create message")
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create message")
	}

	h.metrics.MessagesCreated.Inc()
	logrus.WithFields(logrus.Fields{"user_id": user.ID, "message_id": message.ID}).Info("Message created")
	return c.Redirect(http.StatusFound, userPath(user.ID))
}

// ShowMessage returns a single message. Read access still requires a login.
func (h *MessageHandler) ShowMessage(c echo.Context) error {
	if middleware.UserFromContext(c) == nil {
		return accessUnauthorized(c, h.metrics, "show_message")
	}

	id, ok := parseID(c, "id")
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "Message not found")
	}

	message, err := h.store.Messages.GetMessageByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Message not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": message})
}

// DeleteMessage removes a message owned by the current user. Anonymous and
// non-owner requests get the same unauthorized answer and the message stays.
func (h *MessageHandler) DeleteMessage(c echo.Context) error {
	user := middleware.UserFromContext(c)
	if user == nil {
		return accessUnauthorized(c, h.metrics, "delete_message")
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
	if message.UserID != user.ID {
		return accessUnauthorized(c, h.metrics, "delete_message")
	}

	deleted, err := h.store.Messages.DeleteOwnedMessage(ctx, id, user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !deleted {
		// removed concurrently
		return echo.NewHTTPError(http.StatusNotFound, "Message not found")
	}

	h.metrics.MessagesDeleted.Inc()
	return c.Redirect(http.StatusFound, userPath(user.ID))
}
