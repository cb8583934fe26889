package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/warbler-app/backend/internal/metrics"
	"github.com/warbler-app/backend/internal/models"
	"github.com/warbler-app/backend/internal/repositories"
	"gorm.io/gorm"
)

// UnauthorizedMessage is the body error of every rejected authorization check.
const UnauthorizedMessage = "Access unauthorized."

// accessUnauthorized answers an anonymous or non-owner request. It is a normal
// 200 response, told apart from success only by its body.
func accessUnauthorized(c echo.Context, m *metrics.Metrics, route string) error {
	m.Unauthorized.WithLabelValues(route).Inc()
	logrus.WithFields(logrus.Fields{
		"route": route,
		"path":  c.Request().URL.Path,
	}).Info("Access unauthorized")
	return c.JSON(http.StatusOK, echo.Map{"success": false, "error": UnauthorizedMessage})
}

// parseID reads a positive numeric path parameter.
func parseID(c echo.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func userPath(id uint) string {
	return fmt.Sprintf("/users/%d", id)
}

// recordActivity stores a feed entry; failures are logged, never returned.
func recordActivity(ctx context.Context, repo repositories.ActivityRepository, activity *models.Activity) {
	if err := repo.Record(ctx, activity); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"type":         activity.Type,
			"actor_id":     activity.ActorID,
			"recipient_id": activity.RecipientID,
		}).Warn("Failed to record activity")
	}
}

// lookupUser loads the user named by the :id path parameter, answering 404 when absent.
func lookupUser(c echo.Context, users repositories.UserRepository) (*models.User, error) {
	id, ok := parseID(c, "id")
	if !ok {
		return nil, echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	user, err := users.GetUserByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return user, nil
}
