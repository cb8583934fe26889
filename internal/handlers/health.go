package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// HealthCheck reports whether the relational store answers a ping.
func HealthCheck(db *gorm.DB) echo.HandlerFunc {
	return func(e echo.Context) error {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(e.Request().Context())
		}
		if err != nil {
			return e.JSON(http.StatusServiceUnavailable, map[string]string{
				"status":  "unhealthy",
				"service": "warbler",
			})
		}
		return e.JSON(http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": "warbler",
		})
	}
}
