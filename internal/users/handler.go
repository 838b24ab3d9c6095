package users

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pulse/internal/apperrors"
)

// Handler exposes the user registry over HTTP
type Handler struct {
	users Service
}

// NewHandler creates a new users handler
func NewHandler(users Service) *Handler {
	return &Handler{users: users}
}

// Create handles POST /api/v1/users
func (h *Handler) Create(c *gin.Context) {
	var input NewUser
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.Respond(c, apperrors.NewValidationError(
			"Invalid data in the request body.",
			"Check the fields sent and try again.",
		))
		return
	}

	user, err := h.users.Create(c.Request.Context(), input)
	if err != nil {
		apperrors.Respond(c, translateRegistryError(err))
		return
	}

	c.JSON(http.StatusCreated, user)
}

// Show handles GET /api/v1/users/:username
func (h *Handler) Show(c *gin.Context) {
	user, err := h.users.FindOneByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		apperrors.Respond(c, translateRegistryError(err))
		return
	}

	c.JSON(http.StatusOK, user)
}

// Patch handles PATCH /api/v1/users/:username
func (h *Handler) Patch(c *gin.Context) {
	var patch UserPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		apperrors.Respond(c, apperrors.NewValidationError(
			"Invalid data in the request body.",
			"Check the fields sent and try again.",
		))
		return
	}

	user, err := h.users.Update(c.Request.Context(), c.Param("username"), patch)
	if err != nil {
		apperrors.Respond(c, translateRegistryError(err))
		return
	}

	c.JSON(http.StatusOK, user)
}

// translateRegistryError maps registry sentinels onto the public error
// taxonomy. Unknown errors fall through to Respond's internal-error path.
func translateRegistryError(err error) error {
	switch {
	case errors.Is(err, ErrUsernameTaken):
		return apperrors.NewValidationError(
			"The username informed is already being used.",
			"Use another username to perform this operation.",
		)
	case errors.Is(err, ErrEmailTaken):
		return apperrors.NewValidationError(
			"The email informed is already being used.",
			"Use another email to perform this operation.",
		)
	case errors.Is(err, ErrUserNotFound):
		return apperrors.NewNotFoundError(
			"The username informed was not found in the system.",
			"Check if the username is typed correctly.",
		)
	default:
		return err
	}
}
