// internal/handlers/task.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/grantguru/grantguru-backend/internal/services"
	"github.com/grantguru/grantguru-backend/internal/utils"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// GET /api/user/applications/:id/tasks
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	applicationID, ok := parseIDParam(c, "id", "Application")
	if !ok {
		return
	}

	tasks, err := h.taskService.ListTasks(userID, applicationID)
	if err != nil {
		handleServiceError(c, err, "Application")
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// POST /api/user/applications/:id/tasks
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	applicationID, ok := parseIDParam(c, "id", "Application")
	if !ok {
		return
	}

	var req services.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	task, err := h.taskService.CreateTask(userID, applicationID, &req)
	if err != nil {
		handleServiceError(c, err, "Application")
		return
	}

	c.JSON(http.StatusCreated, task)
}

// PUT /api/user/applications/:id/tasks/:taskId
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	applicationID, ok := parseIDParam(c, "id", "Application")
	if !ok {
		return
	}
	taskID, ok := parseIDParam(c, "taskId", "Task")
	if !ok {
		return
	}

	var req services.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	task, err := h.taskService.UpdateTask(userID, applicationID, taskID, &req)
	if err != nil {
		handleServiceError(c, err, "Task")
		return
	}

	c.JSON(http.StatusOK, task)
}

// DELETE /api/user/applications/:id/tasks/:taskId
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	applicationID, ok := parseIDParam(c, "id", "Application")
	if !ok {
		return
	}
	taskID, ok := parseIDParam(c, "taskId", "Task")
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(userID, applicationID, taskID); err != nil {
		handleServiceError(c, err, "Task")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
	})
}
