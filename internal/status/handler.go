// Package status exposes the service status endpoint with live
// database diagnostics.
package status

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"pulse/internal/apperrors"
	"pulse/internal/database"
)

// DatabaseStatus reports live PostgreSQL diagnostics
type DatabaseStatus struct {
	Version           string `json:"version"`
	MaxConnections    int    `json:"max_connections"`
	OpenedConnections int    `json:"opened_connections"`
}

// Response is the status endpoint payload
type Response struct {
	UpdatedAt    time.Time `json:"updated_at"`
	Dependencies struct {
		Database DatabaseStatus `json:"database"`
	} `json:"dependencies"`
}

// Handler serves GET /api/v1/status
type Handler struct {
	db database.Service
}

// NewHandler creates a new status handler
func NewHandler(db database.Service) *Handler {
	return &Handler{db: db}
}

// Show handles GET /api/v1/status
func (h *Handler) Show(c *gin.Context) {
	dbStatus, err := h.collectDatabaseStatus(c.Request.Context())
	if err != nil {
		apperrors.Respond(c, apperrors.NewServiceError(err, "Failed to query database status."))
		return
	}

	var resp Response
	resp.UpdatedAt = time.Now().UTC()
	resp.Dependencies.Database = *dbStatus

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) collectDatabaseStatus(ctx context.Context) (*DatabaseStatus, error) {
	var status DatabaseStatus

	err := h.db.QueryRow(ctx, "SELECT current_setting('server_version')").Scan(&status.Version)
	if err != nil {
		return nil, fmt.Errorf("failed to read server version: %w", err)
	}

	var maxConns string
	err = h.db.QueryRow(ctx, "SELECT current_setting('max_connections')").Scan(&maxConns)
	if err != nil {
		return nil, fmt.Errorf("failed to read max_connections: %w", err)
	}
	status.MaxConnections, err = strconv.Atoi(maxConns)
	if err != nil {
		return nil, fmt.Errorf("failed to parse max_connections: %w", err)
	}

	err = h.db.QueryRow(ctx,
		"SELECT count(*)::int FROM pg_stat_activity WHERE datname = current_database()",
	).Scan(&status.OpenedConnections)
	if err != nil {
		return nil, fmt.Errorf("failed to count opened connections: %w", err)
	}

	return &status, nil
}
