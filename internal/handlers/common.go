// internal/handlers/common.go
package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/phantomos/phantomos-backend/internal/utils"
)

// requirePublisher resolves the tenant scope set by the auth middleware.
// Returns uuid.Nil and writes the response when the scope is missing.
func requirePublisher(c *gin.Context) (uuid.UUID, bool) {
	raw, ok := utils.GetPublisherIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		utils.UnauthorizedResponse(c, "")
		return uuid.Nil, false
	}
	return id, true
}

func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.BadRequestResponse(c, "invalid "+name, nil)
		return uuid.Nil, false
	}
	return id, true
}

// respondServiceError maps service error messages onto HTTP statuses. The
// services return sentinel-style messages ("x not found", "invalid
// credentials") instead of typed errors, matching how the handlers consume
// them.
func respondServiceError(c *gin.Context, err error, notFoundKey string) {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "not found"):
		utils.NotFoundResponse(c, notFoundKey)
	case strings.Contains(msg, "invalid credentials"),
		strings.Contains(msg, "invalid refresh token"):
		utils.UnauthorizedResponse(c, msg)
	case strings.Contains(msg, "disabled"):
		utils.ForbiddenResponse(c, msg)
	case strings.Contains(msg, "already"), strings.Contains(msg, "taken"),
		strings.Contains(msg, "still has"), strings.Contains(msg, "still linked"),
		strings.Contains(msg, "cannot be"):
		utils.ConflictResponse(c, msg)
	case strings.Contains(msg, "invalid"), strings.Contains(msg, "missing"),
		strings.Contains(msg, "unparseable"), strings.Contains(msg, "does not accept"),
		strings.Contains(msg, "not purchasable"):
		utils.BadRequestResponse(c, msg, nil)
	default:
		utils.InternalErrorResponse(c, "")
	}
}
