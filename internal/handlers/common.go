// internal/handlers/common.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/grantguru/grantguru-backend/internal/services"
	"github.com/grantguru/grantguru-backend/internal/utils"
)

// handleServiceError maps service sentinels onto the wire taxonomy.
// resource names what the 404 is about ("Application", "Task", ...).
func handleServiceError(c *gin.Context, err error, resource string) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.NotFoundResponse(c, resource)
	case errors.Is(err, services.ErrAlreadyApplied),
		errors.Is(err, services.ErrAlreadySubmitted),
		errors.Is(err, services.ErrEmailTaken):
		utils.ConflictResponse(c, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.UnauthorizedResponse(c, err.Error())
	case services.IsValidationError(err):
		utils.BadRequestResponse(c, err.Error())
	default:
		logrus.WithError(err).Error("Unhandled service error")
		utils.InternalErrorResponse(c, "")
	}
}

// requireUserID pulls the authenticated user id out of the context.
// The auth middleware guarantees it exists on protected routes.
func requireUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := utils.GetUserIDFromContext(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return uuid.Nil, false
	}
	return userID, true
}

// parseIDParam parses a path parameter as a UUID, answering 404 on
// malformed ids so probing with garbage looks the same as a miss.
func parseIDParam(c *gin.Context, name, resource string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.NotFoundResponse(c, resource)
		return uuid.Nil, false
	}
	return id, true
}
