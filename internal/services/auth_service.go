// internal/services/auth_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/grantguru/grantguru-backend/internal/config"
	"github.com/grantguru/grantguru-backend/internal/models"
	"github.com/grantguru/grantguru-backend/internal/utils"
)

type AuthService struct {
	db  *gorm.DB
	cfg *config.Config
}

type SignupRequest struct {
	FirstName       string `json:"firstName" validate:"required,max=100"`
	MiddleName      string `json:"middleName,omitempty" validate:"max=100"`
	LastName        string `json:"lastName" validate:"required,max=100"`
	Email           string `json:"email" validate:"required,email"`
	InstitutionName string `json:"institutionName" validate:"required,max=255"`
	Password        string `json:"password" validate:"required,min=8"`
}

type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type SigninResponse struct {
	AccessToken string       `json:"access_token"`
	UserID      string       `json:"user_id"`
	User        *models.User `json:"user"`
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{
		db:  db,
		cfg: cfg,
	}
}

func (s *AuthService) Signup(req *SignupRequest) (*models.User, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var existing models.User
	if err := s.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	}

	user := &models.User{
		Email:       req.Email,
		FirstName:   req.FirstName,
		MiddleName:  req.MiddleName,
		LastName:    req.LastName,
		Institution: req.InstitutionName,
	}

	if err := user.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

func (s *AuthService) Signin(req *SigninRequest) (*SigninResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var user models.User
	if err := s.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if err := user.CheckPassword(req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := s.db.Save(&user).Error; err != nil {
		// A failed last-login stamp does not fail the signin.
		logrus.WithError(err).WithField("user_id", user.ID).Warn("Failed to record last login")
	}

	accessToken, err := utils.GenerateAccessToken(user.ID, user.Email, s.cfg.JWT.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &SigninResponse{
		AccessToken: accessToken,
		UserID:      user.ID.String(),
		User:        &user,
	}, nil
}

func (s *AuthService) GetUserByID(userID string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &user, nil
}
