package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/warbler-app/backend/internal/middleware"
	"github.com/warbler-app/backend/internal/repositories"
)

// timelineLimit is how many messages the home timeline shows.
const timelineLimit = 100

// FeedHandler serves the home timeline
type FeedHandler struct {
	store *repositories.Store
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(store *repositories.Store) *FeedHandler {
	return &FeedHandler{store: store}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(e *echo.Echo) {
	e.GET("/", h.Home)
}

// Home returns the newest messages by the current user and everyone they
// follow, plus the ids of messages they liked. Anonymous visitors get the
// landing payload instead.
func (h *FeedHandler) Home(c echo.Context) error {
	user := middleware.UserFromContext(c)
	if user == nil {
		return c.JSON(http.StatusOK, echo.Map{
			"success": true,
			"data": echo.Map{
				"landing": true,
				"message": "What's happening? Sign up or log in to join the conversation.",
			},
		})
	}

	ctx := c.Request().Context()
	authorIDs, err := h.store.Follows.GetFollowingIDs(ctx, user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	authorIDs = append(authorIDs, user.ID)

	messages, err := h.store.Messages.GetTimeline(ctx, authorIDs, timelineLimit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	likedIDs, err := h.store.Likes.GetLikedMessageIDs(ctx, user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data": echo.Map{
			"user":     user,
			"messages": messages,
			"likes":    likedIDs,
		},
	})
}
