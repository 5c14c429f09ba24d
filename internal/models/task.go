// internal/models/task.go
package models

import (
	"github.com/google/uuid"
)

// Task is a user-defined internal milestone attached to an application.
// Tasks are listed in insertion order; the deadline may not pass the
// parent grant's closing date.
type Task struct {
	BaseModel
	ApplicationID uuid.UUID `json:"application_id" gorm:"type:uuid;not null;index"`
	Name          string    `json:"name" gorm:"size:255;not null"`
	Description   string    `json:"description,omitempty" gorm:"type:text"`
	Deadline      Date      `json:"deadline" gorm:"type:date;not null"`
	Completed     bool      `json:"completed" gorm:"default:false"`
}
