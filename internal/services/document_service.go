// internal/services/document_service.go
package services

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/grantguru/grantguru-backend/internal/models"
)

// DocumentService manages the files attached to an application. Each
// upload request carries files for a single document category; the
// client commits one request per category slot, and per-file failures
// inside a request are reported without rolling back the files that made
// it (best-effort, non-atomic).
type DocumentService struct {
	db            *gorm.DB
	store         BlobStore
	maxUploadSize int64
}

// UploadFailure describes one file that did not make it, keyed by name so
// the client can report the failing slot precisely.
type UploadFailure struct {
	Filename string `json:"filename"`
	Reason   string `json:"reason"`
}

func NewDocumentService(db *gorm.DB, store BlobStore, maxUploadSize int64) *DocumentService {
	return &DocumentService{
		db:            db,
		store:         store,
		maxUploadSize: maxUploadSize,
	}
}

func (s *DocumentService) ownedApplication(userID, applicationID uuid.UUID) (*models.Application, error) {
	var application models.Application
	err := s.db.Where("id = ? AND user_id = ?", applicationID, userID).First(&application).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &application, nil
}

func (s *DocumentService) ListDocuments(userID, applicationID uuid.UUID) ([]models.Document, error) {
	if _, err := s.ownedApplication(userID, applicationID); err != nil {
		return nil, err
	}

	var documents []models.Document
	err := s.db.Where("application_id = ?", applicationID).
		Order("upload_date DESC").
		Find(&documents).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch documents: %w", err)
	}
	return documents, nil
}

// UploadDocuments stores every file in the request under the given
// category. Re-uploading a name that already exists appends a new row;
// there is no overwrite. Returns the created rows and the per-file
// failures; err is non-nil only for request-level problems (bad
// category, unknown application).
func (s *DocumentService) UploadDocuments(userID, applicationID uuid.UUID, category string, files []*multipart.FileHeader) ([]models.Document, []UploadFailure, error) {
	if !models.ValidDocumentCategory(category) {
		return nil, nil, NewValidationError("Unknown document category: " + category)
	}
	if len(files) == 0 {
		return nil, nil, NewValidationError("No files uploaded")
	}

	if _, err := s.ownedApplication(userID, applicationID); err != nil {
		return nil, nil, err
	}

	var uploaded []models.Document
	var failures []UploadFailure

	for _, header := range files {
		doc, err := s.storeOne(applicationID, category, header)
		if err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"application_id": applicationID,
				"category":       category,
				"filename":       header.Filename,
			}).Error("Document upload failed")
			failures = append(failures, UploadFailure{
				Filename: header.Filename,
				Reason:   err.Error(),
			})
			continue
		}
		uploaded = append(uploaded, *doc)
	}

	return uploaded, failures, nil
}

func (s *DocumentService) storeOne(applicationID uuid.UUID, category string, header *multipart.FileHeader) (*models.Document, error) {
	if s.maxUploadSize > 0 && header.Size > s.maxUploadSize {
		return nil, fmt.Errorf("file exceeds maximum size of %d bytes", s.maxUploadSize)
	}

	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer file.Close()

	key := GenerateKey(applicationID, header.Filename)
	size, err := s.store.Put(key, file)
	if err != nil {
		return nil, err
	}

	document := &models.Document{
		ApplicationID: applicationID,
		DocumentName:  header.Filename,
		DocumentType:  category,
		DocumentSize:  size,
		UploadDate:    time.Now().UTC(),
		StorageKey:    key,
	}

	if err := s.db.Create(document).Error; err != nil {
		// Don't leave an orphaned blob behind the failed row.
		if delErr := s.store.Delete(key); delErr != nil {
			logrus.WithError(delErr).WithField("key", key).Warn("Failed to clean up blob after insert failure")
		}
		return nil, fmt.Errorf("failed to record document: %w", err)
	}

	return document, nil
}

// DownloadDocument returns the document row and a stream of its content.
// The caller owns closing the stream.
func (s *DocumentService) DownloadDocument(userID, applicationID, documentID uuid.UUID) (*models.Document, io.ReadCloser, error) {
	document, err := s.getDocument(userID, applicationID, documentID)
	if err != nil {
		return nil, nil, err
	}

	stream, err := s.store.Get(document.StorageKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open document content: %w", err)
	}

	return document, stream, nil
}

// DeleteDocument removes exactly the addressed document: its row and its
// blob. Other documents, including same-named ones in the same category,
// are untouched.
func (s *DocumentService) DeleteDocument(userID, applicationID, documentID uuid.UUID) error {
	document, err := s.getDocument(userID, applicationID, documentID)
	if err != nil {
		return err
	}

	if err := s.db.Unscoped().Delete(document).Error; err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	if err := s.store.Delete(document.StorageKey); err != nil {
		// The row is gone; a stranded blob is a cleanup concern, not a
		// failed delete.
		logrus.WithError(err).WithField("key", document.StorageKey).Warn("Failed to delete document blob")
	}

	return nil
}

// DeleteAllDocuments removes every blob and row for an application, used
// when the application itself is deleted.
func (s *DocumentService) DeleteAllDocuments(userID, applicationID uuid.UUID) error {
	documents, err := s.ListDocuments(userID, applicationID)
	if err != nil {
		return err
	}

	for i := range documents {
		if err := s.store.Delete(documents[i].StorageKey); err != nil {
			logrus.WithError(err).WithField("key", documents[i].StorageKey).Warn("Failed to delete document blob")
		}
	}

	if err := s.db.Unscoped().Where("application_id = ?", applicationID).Delete(&models.Document{}).Error; err != nil {
		return fmt.Errorf("failed to delete documents: %w", err)
	}

	return nil
}

func (s *DocumentService) getDocument(userID, applicationID, documentID uuid.UUID) (*models.Document, error) {
	if _, err := s.ownedApplication(userID, applicationID); err != nil {
		return nil, err
	}

	var document models.Document
	err := s.db.Where("id = ? AND application_id = ?", documentID, applicationID).First(&document).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &document, nil
}
