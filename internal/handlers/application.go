// internal/handlers/application.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/grantguru/grantguru-backend/internal/services"
	"github.com/grantguru/grantguru-backend/internal/utils"
)

type ApplicationHandler struct {
	applicationService *services.ApplicationService
}

func NewApplicationHandler(applicationService *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{
		applicationService: applicationService,
	}
}

// GET /api/user/applications
func (h *ApplicationHandler) ListApplications(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	applications, err := h.applicationService.ListApplications(userID)
	if err != nil {
		handleServiceError(c, err, "Application")
		return
	}

	c.JSON(http.StatusOK, gin.H{"applications": applications})
}

// POST /api/user/applications
func (h *ApplicationHandler) CreateApplication(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req services.CreateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	application, err := h.applicationService.CreateApplication(userID, &req)
	if err != nil {
		handleServiceError(c, err, "Grant")
		return
	}

	c.JSON(http.StatusCreated, application)
}

// GET /api/user/applications/:id
func (h *ApplicationHandler) GetApplication(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	applicationID, ok := parseIDParam(c, "id", "Application")
	if !ok {
		return
	}

	application, err := h.applicationService.GetApplication(userID, applicationID)
	if err != nil {
		handleServiceError(c, err, "Application")
		return
	}

	c.JSON(http.StatusOK, application)
}

// PUT /api/user/applications/:id
func (h *ApplicationHandler) UpdateApplication(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	applicationID, ok := parseIDParam(c, "id", "Application")
	if !ok {
		return
	}

	var req services.UpdateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	application, err := h.applicationService.UpdateApplication(userID, applicationID, &req)
	if err != nil {
		handleServiceError(c, err, "Application")
		return
	}

	c.JSON(http.StatusOK, application)
}

// POST /api/user/applications/:id/submit
func (h *ApplicationHandler) SubmitApplication(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	applicationID, ok := parseIDParam(c, "id", "Application")
	if !ok {
		return
	}

	var req services.SubmitApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	application, err := h.applicationService.SubmitApplication(userID, applicationID, &req)
	if err != nil {
		handleServiceError(c, err, "Application")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Application submitted successfully",
		"application": application,
	})
}

// DELETE /api/user/applications/:id
func (h *ApplicationHandler) DeleteApplication(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	applicationID, ok := parseIDParam(c, "id", "Application")
	if !ok {
		return
	}

	if err := h.applicationService.DeleteApplication(userID, applicationID); err != nil {
		handleServiceError(c, err, "Application")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Application deleted successfully",
	})
}
