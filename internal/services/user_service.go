// internal/services/user_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/grantguru/grantguru-backend/internal/models"
	"github.com/grantguru/grantguru-backend/internal/utils"
)

type UserService struct {
	db *gorm.DB
}

type UpdatePersonalInfoRequest struct {
	FirstName   *string `json:"fName,omitempty" validate:"omitempty,max=100"`
	MiddleName  *string `json:"mName,omitempty" validate:"omitempty,max=100"`
	LastName    *string `json:"lName,omitempty" validate:"omitempty,max=100"`
	Institution *string `json:"institution,omitempty" validate:"omitempty,max=255"`
}

type UpdateEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

func (s *UserService) getUser(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &user, nil
}

func (s *UserService) UpdatePersonalInfo(userID uuid.UUID, req *UpdatePersonalInfoRequest) (*models.User, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if req.FirstName == nil && req.MiddleName == nil && req.LastName == nil && req.Institution == nil {
		return nil, NewValidationError("No valid fields to update")
	}

	user, err := s.getUser(userID)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.MiddleName != nil {
		user.MiddleName = *req.MiddleName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.Institution != nil {
		user.Institution = *req.Institution
	}

	if err := s.db.Save(user).Error; err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

func (s *UserService) UpdateEmail(userID uuid.UUID, req *UpdateEmailRequest) (*models.User, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var existing models.User
	if err := s.db.Where("email = ? AND id != ?", req.Email, userID).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	}

	user, err := s.getUser(userID)
	if err != nil {
		return nil, err
	}

	user.Email = req.Email
	if err := s.db.Save(user).Error; err != nil {
		return nil, fmt.Errorf("failed to update email: %w", err)
	}

	return user, nil
}

func (s *UserService) UpdatePassword(userID uuid.UUID, req *UpdatePasswordRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	user, err := s.getUser(userID)
	if err != nil {
		return err
	}

	if err := user.CheckPassword(req.CurrentPassword); err != nil {
		return ErrInvalidCredentials
	}

	if err := user.SetPassword(req.NewPassword); err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.db.Save(user).Error; err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return nil
}
