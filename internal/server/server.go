// Package server wires every feature together and configures the HTTP
// server.
package server

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"pulse/internal/auth"
	"pulse/internal/database"
	"pulse/internal/migrations"
	"pulse/internal/session"
	"pulse/internal/users"
)

// Server holds the dependencies shared by the HTTP handlers
type Server struct {
	port int

	db        database.Service
	sessions  session.Manager
	users     users.Service
	validator auth.Service
	migrator  *migrations.Migrator
}

// Config holds server configuration
type Config struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// LoadConfigFromEnv loads server configuration from environment variables
func LoadConfigFromEnv() *Config {
	port, _ := strconv.Atoi(getEnv("PORT", "8080"))

	return &Config{
		Port:         port,
		ReadTimeout:  getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second),
		WriteTimeout: getEnvDuration("SERVER_WRITE_TIMEOUT", 60*time.Second),
		IdleTimeout:  getEnvDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
	}
}

// New builds the application server around an established database
// connection.
func New(db database.Service) *Server {
	cfg := LoadConfigFromEnv()

	userRegistry := users.NewService(db)

	return &Server{
		port:      cfg.Port,
		db:        db,
		sessions:  session.NewManager(session.NewStore(db)),
		users:     userRegistry,
		validator: auth.NewService(userRegistry),
		migrator:  migrations.NewMigrator(db),
	}
}

// HTTPServer wraps the router in a configured http.Server
func (s *Server) HTTPServer() *http.Server {
	cfg := LoadConfigFromEnv()

	return &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.RegisterRoutes(),
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
}

// Migrator exposes the schema migrator for boot-time migration runs
func (s *Server) Migrator() *migrations.Migrator {
	return s.migrator
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
