package server

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"pulse/internal/apperrors"
	"pulse/internal/auth"
	"pulse/internal/config"
	"pulse/internal/middleware"
	"pulse/internal/migrations"
	"pulse/internal/status"
	"pulse/internal/users"
)

// RegisterRoutes builds the gin router with every API route
func (s *Server) RegisterRoutes() http.Handler {
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging())
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"), ","),
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Content-Type"},
		AllowCredentials: true,
	}))

	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		apperrors.Respond(c, apperrors.NewMethodNotAllowedError())
	})
	r.NoRoute(func(c *gin.Context) {
		apperrors.Respond(c, apperrors.NewNotFoundError(
			"The requested resource was not found.",
			"Check the endpoint path and try again.",
		))
	})

	r.GET("/health", s.healthHandler)

	statusHandler := status.NewHandler(s.db)
	migrationsHandler := migrations.NewHandler(s.migrator)
	usersHandler := users.NewHandler(s.users)
	authHandler := auth.NewHandler(s.validator, s.sessions, s.users)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/status", statusHandler.Show)

		v1.GET("/migrations", migrationsHandler.List)
		v1.POST("/migrations", migrationsHandler.Run)

		v1.POST("/users", usersHandler.Create)
		v1.GET("/users/:username", usersHandler.Show)
		v1.PATCH("/users/:username", usersHandler.Patch)

		v1.POST("/sessions", authHandler.Login)
		v1.DELETE("/sessions", authHandler.Logout)

		v1.GET("/user", middleware.RequireSession(s.sessions), authHandler.CurrentUser)
	}

	return r
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"database": s.db.Health(c.Request.Context()),
	})
}
