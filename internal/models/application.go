// internal/models/application.go
package models

import (
	"github.com/google/uuid"
)

// Application is a user's record of intent or submission against one
// grant. A user can hold at most one application per grant, enforced by
// the composite unique index.
type Application struct {
	BaseModel
	UserID           uuid.UUID        `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_applications_user_grant"`
	GrantID          uuid.UUID        `json:"grant_id" gorm:"type:uuid;not null;uniqueIndex:idx_applications_user_grant"`
	Status           ReviewStatus     `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	SubmissionStatus SubmissionStatus `json:"submission_status" gorm:"type:varchar(20);default:'started';index"`
	ApplicationDate  Date             `json:"application_date" gorm:"type:date"`
	ApplicantName    string           `json:"applicant_name,omitempty" gorm:"size:255"`
	ApplicantEmail   string           `json:"applicant_email,omitempty" gorm:"size:255"`
	Notes            string           `json:"notes,omitempty" gorm:"type:text"`

	// Relationships
	Grant     Grant      `json:"grant,omitempty" gorm:"foreignKey:GrantID"`
	Documents []Document `json:"documents,omitempty" gorm:"foreignKey:ApplicationID;constraint:OnDelete:CASCADE"`
	Tasks     []Task     `json:"tasks,omitempty" gorm:"foreignKey:ApplicationID;constraint:OnDelete:CASCADE"`
}

// Editable reports whether the draft fields (submission fields, documents,
// tasks in the UI sense) may still change. Once submitted, only the
// review status remains mutable.
func (a *Application) Editable() bool {
	return a.SubmissionStatus == SubmissionStarted
}

func (a *Application) OwnedBy(userID uuid.UUID) bool {
	return a.UserID == userID
}
