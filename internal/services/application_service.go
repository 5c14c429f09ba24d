// internal/services/application_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/grantguru/grantguru-backend/internal/models"
	"github.com/grantguru/grantguru-backend/internal/utils"
)

// ApplicationService owns the application lifecycle. The submission
// state machine lives here: applications are created as editable drafts
// ("started"), move to "submitted" exactly once, and never move back.
type ApplicationService struct {
	db        *gorm.DB
	documents *DocumentService
}

// CreateApplicationRequest carries the apply payload. The client sends
// submission_status and status too, but creation is authoritative: every
// application starts as a pending draft regardless of the payload.
type CreateApplicationRequest struct {
	GrantID        string `json:"grant_id" validate:"required,uuid4"`
	ApplicantName  string `json:"applicant_name,omitempty" validate:"omitempty,max=255"`
	ApplicantEmail string `json:"applicant_email,omitempty" validate:"omitempty,email"`
	Notes          string `json:"notes,omitempty"`
}

// UpdateApplicationRequest is a draft save. submission_status is accepted
// on the wire because the frontend pins it to "started" on every draft
// save, but the service never applies a lifecycle change through it.
type UpdateApplicationRequest struct {
	Status           *models.ReviewStatus     `json:"status,omitempty"`
	SubmissionStatus *models.SubmissionStatus `json:"submission_status,omitempty"`
	ApplicantName    *string                  `json:"applicant_name,omitempty"`
	ApplicantEmail   *string                  `json:"applicant_email,omitempty"`
	Notes            *string                  `json:"notes,omitempty"`
}

type SubmitApplicationRequest struct {
	ApplicantName  string `json:"applicant_name" validate:"required,max=255"`
	ApplicantEmail string `json:"applicant_email" validate:"required,email"`
}

func NewApplicationService(db *gorm.DB, documents *DocumentService) *ApplicationService {
	return &ApplicationService{db: db, documents: documents}
}

func (s *ApplicationService) ListApplications(userID uuid.UUID) ([]models.Application, error) {
	var applications []models.Application
	err := s.db.Where("user_id = ?", userID).
		Preload("Grant").
		Order("created_at DESC").
		Find(&applications).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch applications: %w", err)
	}
	return applications, nil
}

// CreateApplication starts a draft against a grant. A user holds at most
// one application per grant; a duplicate is a conflict, not an upsert.
func (s *ApplicationService) CreateApplication(userID uuid.UUID, req *CreateApplicationRequest) (*models.Application, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	grantID, err := uuid.Parse(req.GrantID)
	if err != nil {
		return nil, NewValidationError("Invalid grant id")
	}

	var grant models.Grant
	if err := s.db.First(&grant, "id = ?", grantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	var existing models.Application
	if err := s.db.Where("user_id = ? AND grant_id = ?", userID, grantID).First(&existing).Error; err == nil {
		return nil, ErrAlreadyApplied
	}

	application := &models.Application{
		UserID:           userID,
		GrantID:          grantID,
		Status:           models.ReviewPending,
		SubmissionStatus: models.SubmissionStarted,
		ApplicationDate:  models.Date{Time: time.Now().UTC()},
		ApplicantName:    req.ApplicantName,
		ApplicantEmail:   req.ApplicantEmail,
		Notes:            req.Notes,
	}

	if err := s.db.Create(application).Error; err != nil {
		// The unique index is the authority under concurrent creates.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyApplied
		}
		return nil, fmt.Errorf("failed to create application: %w", err)
	}

	application.Grant = grant
	return application, nil
}

// GetApplication returns the application when, and only when, the caller
// owns it. A foreign application reads as not found rather than
// forbidden, so ids cannot be probed.
func (s *ApplicationService) GetApplication(userID, applicationID uuid.UUID) (*models.Application, error) {
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

// UpdateApplication is the draft-save path. While the application is
// started, status, notes and applicant fields may change; once it is
// submitted the update degrades to status-only and every other field in
// the request is ignored. submission_status can never regress here, and
// a "submitted" value in the payload is refused; finalizing goes
// through SubmitApplication.
func (s *ApplicationService) UpdateApplication(userID, applicationID uuid.UUID, req *UpdateApplicationRequest) (*models.Application, error) {
	application, err := s.GetApplication(userID, applicationID)
	if err != nil {
		return nil, err
	}

	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, NewValidationError("Unknown application status")
		}
		application.Status = *req.Status
	}

	if req.SubmissionStatus != nil {
		if !req.SubmissionStatus.Valid() {
			return nil, NewValidationError("Unknown submission status")
		}
		if *req.SubmissionStatus == models.SubmissionSubmitted {
			return nil, NewValidationError("Applications are submitted through the submit action")
		}
		// The only value left is the pinned "started": a no-op for drafts,
		// and ignored entirely once submitted.
	}

	if application.Editable() {
		if req.ApplicantName != nil {
			application.ApplicantName = *req.ApplicantName
		}
		if req.ApplicantEmail != nil {
			application.ApplicantEmail = *req.ApplicantEmail
		}
		if req.Notes != nil {
			application.Notes = *req.Notes
		}
	}

	if err := s.db.Save(application).Error; err != nil {
		return nil, fmt.Errorf("failed to update application: %w", err)
	}

	return application, nil
}

// SubmitApplication performs the one-way started -> submitted transition.
// Validation happens before any mutation; a second submit is a conflict
// regardless of what the client shows or hides.
func (s *ApplicationService) SubmitApplication(userID, applicationID uuid.UUID, req *SubmitApplicationRequest) (*models.Application, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var application *models.Application
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var app models.Application
		if err := tx.Where("id = ? AND user_id = ?", applicationID, userID).First(&app).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		if !app.SubmissionStatus.CanTransitionTo(models.SubmissionSubmitted) {
			return ErrAlreadySubmitted
		}

		app.SubmissionStatus = models.SubmissionSubmitted
		app.ApplicantName = req.ApplicantName
		app.ApplicantEmail = req.ApplicantEmail
		app.ApplicationDate = models.Date{Time: time.Now().UTC()}

		if err := tx.Save(&app).Error; err != nil {
			return fmt.Errorf("failed to submit application: %w", err)
		}

		application = &app
		return nil
	})
	if err != nil {
		return nil, err
	}

	return application, nil
}

// UpdateReviewStatus changes only the review outcome, in any submission
// state.
func (s *ApplicationService) UpdateReviewStatus(userID, applicationID uuid.UUID, status models.ReviewStatus) (*models.Application, error) {
	if !status.Valid() {
		return nil, NewValidationError("Unknown application status")
	}

	application, err := s.GetApplication(userID, applicationID)
	if err != nil {
		return nil, err
	}

	application.Status = status
	if err := s.db.Save(application).Error; err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}

	return application, nil
}

// DeleteApplication removes the application with its tasks and its
// documents, rows and blobs both.
func (s *ApplicationService) DeleteApplication(userID, applicationID uuid.UUID) error {
	application, err := s.GetApplication(userID, applicationID)
	if err != nil {
		return err
	}

	if err := s.documents.DeleteAllDocuments(userID, application.ID); err != nil {
		return err
	}

	// Hard delete: the row must release the (user, grant) unique slot so
	// the user can apply to the grant again later.
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("application_id = ?", application.ID).Delete(&models.Task{}).Error; err != nil {
			return fmt.Errorf("failed to delete tasks: %w", err)
		}
		if err := tx.Unscoped().Delete(application).Error; err != nil {
			return fmt.Errorf("failed to delete application: %w", err)
		}
		return nil
	})
}
