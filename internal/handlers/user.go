// internal/handlers/user.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/grantguru/grantguru-backend/internal/services"
	"github.com/grantguru/grantguru-backend/internal/utils"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// PUT /api/user/personal-info
func (h *UserHandler) UpdatePersonalInfo(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req services.UpdatePersonalInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	user, err := h.userService.UpdatePersonalInfo(userID, &req)
	if err != nil {
		handleServiceError(c, err, "User")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Personal information updated successfully",
		"user":    user,
	})
}

// PUT /api/user/email
func (h *UserHandler) UpdateEmail(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req services.UpdateEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	user, err := h.userService.UpdateEmail(userID, &req)
	if err != nil {
		handleServiceError(c, err, "User")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Email updated successfully",
		"user":    user,
	})
}

// PUT /api/user/password
func (h *UserHandler) UpdatePassword(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req services.UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	if err := h.userService.UpdatePassword(userID, &req); err != nil {
		handleServiceError(c, err, "User")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Password updated successfully",
	})
}
