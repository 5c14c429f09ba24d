// internal/services/task_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/grantguru/grantguru-backend/internal/models"
	"github.com/grantguru/grantguru-backend/internal/utils"
)

// TaskService manages the internal milestones attached to an application.
// Deadlines are bounded above by the parent grant's closing date;
// the server is the final authority on that bound even though the client
// also caps its date picker.
type TaskService struct {
	db *gorm.DB
}

type CreateTaskRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description,omitempty"`
	Deadline    string `json:"deadline" validate:"required,date"`
}

type UpdateTaskRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,max=255"`
	Description *string `json:"description,omitempty"`
	Deadline    *string `json:"deadline,omitempty" validate:"omitempty,date"`
	Completed   *bool   `json:"completed,omitempty"`
}

func NewTaskService(db *gorm.DB) *TaskService {
	return &TaskService{db: db}
}

func (s *TaskService) ownedApplication(userID, applicationID uuid.UUID) (*models.Application, error) {
	var application models.Application
	err := s.db.Where("id = ? AND user_id = ?", applicationID, userID).
		Preload("Grant").
		First(&application).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &application, nil
}

// ListTasks returns the application's tasks in insertion order. An empty
// list is an ordinary result, not an error.
func (s *TaskService) ListTasks(userID, applicationID uuid.UUID) ([]models.Task, error) {
	if _, err := s.ownedApplication(userID, applicationID); err != nil {
		return nil, err
	}

	var tasks []models.Task
	err := s.db.Where("application_id = ?", applicationID).
		Order("created_at ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tasks: %w", err)
	}
	return tasks, nil
}

func (s *TaskService) CreateTask(userID, applicationID uuid.UUID, req *CreateTaskRequest) (*models.Task, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	application, err := s.ownedApplication(userID, applicationID)
	if err != nil {
		return nil, err
	}

	deadline, err := models.ParseDate(req.Deadline)
	if err != nil {
		return nil, NewValidationError(err.Error())
	}

	if err := s.checkDeadline(&application.Grant, deadline); err != nil {
		return nil, err
	}

	task := &models.Task{
		ApplicationID: applicationID,
		Name:          req.Name,
		Description:   req.Description,
		Deadline:      deadline,
	}

	if err := s.db.Create(task).Error; err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

func (s *TaskService) UpdateTask(userID, applicationID, taskID uuid.UUID, req *UpdateTaskRequest) (*models.Task, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	application, err := s.ownedApplication(userID, applicationID)
	if err != nil {
		return nil, err
	}

	var task models.Task
	if err := s.db.Where("id = ? AND application_id = ?", taskID, applicationID).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, NewValidationError("name is required")
		}
		task.Name = *req.Name
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Deadline != nil {
		deadline, err := models.ParseDate(*req.Deadline)
		if err != nil {
			return nil, NewValidationError(err.Error())
		}
		if err := s.checkDeadline(&application.Grant, deadline); err != nil {
			return nil, err
		}
		task.Deadline = deadline
	}
	if req.Completed != nil {
		task.Completed = *req.Completed
	}

	if err := s.db.Save(&task).Error; err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return &task, nil
}

func (s *TaskService) DeleteTask(userID, applicationID, taskID uuid.UUID) error {
	if _, err := s.ownedApplication(userID, applicationID); err != nil {
		return err
	}

	result := s.db.Unscoped().Where("id = ? AND application_id = ?", taskID, applicationID).Delete(&models.Task{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *TaskService) checkDeadline(grant *models.Grant, deadline models.Date) error {
	if !grant.TaskDeadlineAllowed(deadline) {
		return NewValidationError(fmt.Sprintf(
			"Task deadline cannot exceed grant deadline: %s", grant.DateClosed.String()))
	}
	return nil
}
