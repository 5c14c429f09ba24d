// internal/models/document.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Document is one uploaded file attached to an application. Re-uploading
// into the same category appends a new row; there is no versioning or
// overwrite.
type Document struct {
	BaseModel
	ApplicationID uuid.UUID `json:"application_id" gorm:"type:uuid;not null;index"`
	DocumentName  string    `json:"document_name" gorm:"size:500;not null"`
	DocumentType  string    `json:"document_type" gorm:"size:100;not null;index"`
	DocumentSize  int64     `json:"document_size" gorm:"not null"`
	UploadDate    time.Time `json:"upload_date"`
	// StorageKey locates the blob in the storage backend. Never exposed;
	// downloads go through the document id.
	StorageKey string `json:"-" gorm:"size:1000;not null"`
}
