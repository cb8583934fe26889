package router

import (
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/warbler-app/backend/internal/handlers"
	"github.com/warbler-app/backend/internal/metrics"
	"github.com/warbler-app/backend/internal/middleware"
	"github.com/warbler-app/backend/internal/repositories"
	"github.com/warbler-app/backend/pkg/firebase"
	"github.com/warbler-app/backend/validators"
	"gorm.io/gorm"
)

// Deps are the collaborators SetupRoutes injects into handlers.
type Deps struct {
	DB         *gorm.DB
	Activities repositories.ActivityRepository // defaults to a no-op feed
	Sessions   sessions.Store
	JWTSecret  string
	Firebase   firebase.TokenVerifier // optional
	Registry   *prometheus.Registry
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, deps Deps) {
	if deps.Activities == nil {
		deps.Activities = repositories.NopActivityRepository{}
	}
	if deps.Registry == nil {
		deps.Registry = prometheus.NewRegistry()
	}

	e.Validator = validators.NewValidator()

	store := repositories.NewStore(deps.DB)
	m := metrics.New(deps.Registry)

	// Resolve the optional current user for every route
	e.Use(middleware.CurrentUser(deps.Sessions, store.Users, deps.JWTSecret))

	e.GET("/health", handlers.HealthCheck(deps.DB))
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})))
	e.GET("/login", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"form": "login"}})
	})
	e.GET("/signup", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"success": true, "data": echo.Map{"form": "signup"}})
	})

	authHandler := handlers.NewAuthHandler(store, deps.Sessions, m, deps.JWTSecret, deps.Firebase)
	authHandler.RegisterAuthRoutes(e)
	logrus.Debug("Auth routes configured.")

	feedHandler := handlers.NewFeedHandler(store)
	feedHandler.RegisterFeedRoutes(e)

	messageHandler := handlers.NewMessageHandler(store, m)
	messageHandler.RegisterMessageRoutes(e.Group("/messages"))
	logrus.Debug("Message routes configured.")

	users := e.Group("/users")
	userHandler := handlers.NewUserHandler(store, deps.Sessions, m)
	userHandler.RegisterUserRoutes(users)

	followHandler := handlers.NewFollowHandler(store, deps.Activities, m)
	followHandler.RegisterFollowRoutes(users)

	likeHandler := handlers.NewLikeHandler(store, deps.Activities, m)
	likeHandler.RegisterLikeRoutes(users)
	logrus.Debug("User, follow and like routes configured.")

	notificationHandler := handlers.NewNotificationHandler(deps.Activities, m)
	notificationHandler.RegisterNotificationRoutes(e)

	logrus.Info("All routes configured.")
}
