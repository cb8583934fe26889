package config

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

func SetupMiddleware(e *echo.Echo) {
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := logrus.Fields{
				"method":    v.Method,
				"uri":       v.URI,
				"status":    v.Status,
				"latency":   v.Latency,
				"remote_ip": v.RemoteIP,
			}
			if v.Error != nil {
				logrus.WithFields(fields).WithError(v.Error).Warn("request failed")
				return nil
			}
			logrus.WithFields(fields).Info("request")
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
}
