package migrations

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pulse/internal/apperrors"
)

// Handler exposes the migrator over HTTP
type Handler struct {
	migrator *Migrator
}

// NewHandler creates a new migrations handler
func NewHandler(migrator *Migrator) *Handler {
	return &Handler{migrator: migrator}
}

// List handles GET /api/v1/migrations. It is a dry run: the pending
// migrations are reported but not applied.
func (h *Handler) List(c *gin.Context) {
	pending, err := h.migrator.Pending(c.Request.Context())
	if err != nil {
		apperrors.Respond(c, apperrors.NewServiceError(err, "Failed to list pending migrations."))
		return
	}

	c.JSON(http.StatusOK, pending)
}

// Run handles POST /api/v1/migrations. Responds 201 when at least one
// migration was applied, 200 when there was nothing to do.
func (h *Handler) Run(c *gin.Context) {
	applied, err := h.migrator.Apply(c.Request.Context())
	if err != nil {
		apperrors.Respond(c, apperrors.NewServiceError(err, "Failed to run pending migrations."))
		return
	}

	status := http.StatusOK
	if len(applied) > 0 {
		status = http.StatusCreated
	}
	c.JSON(status, applied)
}
