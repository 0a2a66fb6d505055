package models

import (
	"time"

	"github.com/Aesmazing/Boko-Hacks-2025/server/env"
	"github.com/Aesmazing/Boko-Hacks-2025/server/logger"
	custommiddleware "github.com/Aesmazing/Boko-Hacks-2025/server/middleware"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// SetupRoutes configures and starts the HTTP server
func (m *Models) SetupRoutes() {
	e := echo.New()
	e.HideBanner = true

	e.Use(custommiddleware.RequestLoggerWithSkipper(func(c echo.Context) bool {
		return c.Request().URL.Path == "/health"
	}))
	e.Use(custommiddleware.RecoverWithLogger())
	e.Use(middleware.CORS())

	// Rate limit middleware for auth endpoints
	authRateLimit := custommiddleware.RateLimitByIP(m.bredisClient, 10, time.Minute)

	validateFn := func(token string) (interface{}, error) {
		return m.jwtService.ValidateToken(token)
	}
	// The upload pipeline does its own auth accounting, so its route
	// only attaches claims; the read endpoints reject outright.
	attachClaims := custommiddleware.AttachClaims(validateFn)
	requireClaims := custommiddleware.RequireClaims(validateFn)

	e.GET("/health", m.authHandler.HealthCheck)
	e.POST("/register", m.authHandler.Register, authRateLimit)
	e.POST("/login", m.authHandler.Login, authRateLimit)

	filesGroup := e.Group("/apps/files")
	{
		filesGroup.POST("/upload", m.filesHandler.Upload, attachClaims)
		filesGroup.GET("/metrics", m.filesHandler.Metrics)
		filesGroup.GET("/list", m.filesHandler.ListUserFiles, requireClaims)
		filesGroup.GET("/:id", m.filesHandler.GetFileByID, requireClaims)
		filesGroup.POST("/revoke", m.authHandler.RevokeToken, requireClaims)
	}

	serverAddr := ":" + env.E.GetServerPort()
	logger.Infof("Server starting on %s...", serverAddr)
	logger.Info("Available endpoints:")
	logger.Info("  POST /register            - Register a new user")
	logger.Info("  POST /login               - Login and get JWT token")
	logger.Info("  POST /apps/files/upload   - Upload a file (requires auth, max 8MB)")
	logger.Info("  GET  /apps/files/metrics  - Upload outcome counters")
	logger.Info("  GET  /apps/files/list     - List own files (requires auth)")
	logger.Info("  GET  /apps/files/:id      - Get one file record (requires auth)")
	logger.Info("  POST /apps/files/revoke   - Revoke tokens (requires auth)")
	logger.Info("  GET  /health              - Health check")

	go func() {
		if err := e.Start(serverAddr); err != nil {
			logger.Errorf("Server stopped: %v", err)
		}
	}()
}
