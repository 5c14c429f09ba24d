// internal/services/backup_service.go
package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/grantguru/grantguru-backend/internal/models"
)

// BackupService snapshots a user's applications, tasks and document
// metadata into JSON files and restores them. Document content stays in
// blob storage; only the metadata travels, as in the original tooling.
type BackupService struct {
	db  *gorm.DB
	dir string
}

type BackupMetadata struct {
	Timestamp        time.Time `json:"timestamp"`
	UserID           string    `json:"user_id"`
	ApplicationCount int       `json:"application_count"`
	TotalTasks       int       `json:"total_tasks"`
	TotalDocuments   int       `json:"total_documents"`
}

type ApplicationBackup struct {
	Application models.Application `json:"application"`
	Tasks       []models.Task      `json:"tasks"`
	Documents   []models.Document  `json:"documents"`
}

type Backup struct {
	Metadata     BackupMetadata      `json:"backup_metadata"`
	Applications []ApplicationBackup `json:"applications"`
}

type BackupFileInfo struct {
	Filename         string    `json:"filename"`
	Size             int64     `json:"size"`
	Created          time.Time `json:"created"`
	Timestamp        time.Time `json:"timestamp"`
	UserID           string    `json:"user_id"`
	ApplicationCount int       `json:"application_count"`
}

func NewBackupService(db *gorm.DB, dir string) (*BackupService, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create backup dir: %w", err)
	}
	return &BackupService{db: db, dir: dir}, nil
}

// CreateBackup snapshots the user's applications and writes the snapshot
// to disk, returning the metadata and filename.
func (s *BackupService) CreateBackup(userID uuid.UUID) (*Backup, string, error) {
	var applications []models.Application
	err := s.db.Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&applications).Error
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch applications: %w", err)
	}

	backup := &Backup{
		Metadata: BackupMetadata{
			Timestamp: time.Now().UTC(),
			UserID:    userID.String(),
		},
	}

	for i := range applications {
		entry := ApplicationBackup{Application: applications[i]}

		if err := s.db.Where("application_id = ?", applications[i].ID).
			Order("created_at ASC").Find(&entry.Tasks).Error; err != nil {
			return nil, "", fmt.Errorf("failed to fetch tasks: %w", err)
		}
		if err := s.db.Where("application_id = ?", applications[i].ID).
			Order("upload_date DESC").Find(&entry.Documents).Error; err != nil {
			return nil, "", fmt.Errorf("failed to fetch documents: %w", err)
		}

		backup.Metadata.TotalTasks += len(entry.Tasks)
		backup.Metadata.TotalDocuments += len(entry.Documents)
		backup.Applications = append(backup.Applications, entry)
	}
	backup.Metadata.ApplicationCount = len(backup.Applications)

	filename := fmt.Sprintf("backup_%s_%s.json", userID, backup.Metadata.Timestamp.Format("20060102_150405"))
	data, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode backup: %w", err)
	}

	if err := os.WriteFile(filepath.Join(s.dir, filename), data, 0o644); err != nil {
		return nil, "", fmt.Errorf("failed to write backup file: %w", err)
	}

	return backup, filename, nil
}

// ListBackups returns the user's backup files, newest first.
func (s *BackupService) ListBackups(userID uuid.UUID) ([]BackupFileInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup dir: %w", err)
	}

	prefix := "backup_" + userID.String() + "_"
	var backups []BackupFileInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}

		backup, err := s.LoadBackup(userID, entry.Name())
		if err != nil {
			logrus.WithError(err).WithField("filename", entry.Name()).Warn("Skipping unreadable backup file")
			continue
		}

		backups = append(backups, BackupFileInfo{
			Filename:         entry.Name(),
			Size:             info.Size(),
			Created:          info.ModTime(),
			Timestamp:        backup.Metadata.Timestamp,
			UserID:           backup.Metadata.UserID,
			ApplicationCount: backup.Metadata.ApplicationCount,
		})
	}

	for i := 0; i < len(backups); i++ {
		for j := i + 1; j < len(backups); j++ {
			if backups[j].Timestamp.After(backups[i].Timestamp) {
				backups[i], backups[j] = backups[j], backups[i]
			}
		}
	}

	return backups, nil
}

// LoadBackup reads and decodes one backup file belonging to the user.
func (s *BackupService) LoadBackup(userID uuid.UUID, filename string) (*Backup, error) {
	path, err := s.backupPath(userID, filename)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read backup file: %w", err)
	}

	var backup Backup
	if err := json.Unmarshal(data, &backup); err != nil {
		return nil, fmt.Errorf("failed to decode backup file: %w", err)
	}

	if backup.Metadata.UserID != userID.String() {
		return nil, ErrNotFound
	}

	return &backup, nil
}

// RestoreBackup recreates applications and tasks missing from the
// database. Applications are matched by grant: an existing (user, grant)
// application is never overwritten, so a restore after partial loss is
// additive. Document rows are metadata-only and are restored only when
// the application itself is recreated.
func (s *BackupService) RestoreBackup(userID uuid.UUID, filename string) (restored int, skipped int, err error) {
	backup, err := s.LoadBackup(userID, filename)
	if err != nil {
		return 0, 0, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		for _, entry := range backup.Applications {
			var existing models.Application
			findErr := tx.Where("user_id = ? AND grant_id = ?", userID, entry.Application.GrantID).
				First(&existing).Error
			if findErr == nil {
				skipped++
				continue
			}
			if !errors.Is(findErr, gorm.ErrRecordNotFound) {
				return fmt.Errorf("database error: %w", findErr)
			}

			app := entry.Application
			app.UserID = userID
			if createErr := tx.Create(&app).Error; createErr != nil {
				return fmt.Errorf("failed to restore application: %w", createErr)
			}

			for _, task := range entry.Tasks {
				task.ApplicationID = app.ID
				if createErr := tx.Create(&task).Error; createErr != nil {
					return fmt.Errorf("failed to restore task: %w", createErr)
				}
			}

			for _, doc := range entry.Documents {
				doc.ApplicationID = app.ID
				if createErr := tx.Create(&doc).Error; createErr != nil {
					return fmt.Errorf("failed to restore document metadata: %w", createErr)
				}
			}

			restored++
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}

	return restored, skipped, nil
}

// DeleteBackup removes one backup file belonging to the user.
func (s *BackupService) DeleteBackup(userID uuid.UUID, filename string) error {
	// Verifies ownership via the file's own metadata before deleting.
	if _, err := s.LoadBackup(userID, filename); err != nil {
		return err
	}

	path, err := s.backupPath(userID, filename)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete backup file: %w", err)
	}
	return nil
}

// BackupFilePath returns the on-disk path for streaming a download.
func (s *BackupService) BackupFilePath(userID uuid.UUID, filename string) (string, error) {
	if _, err := s.LoadBackup(userID, filename); err != nil {
		return "", err
	}
	return s.backupPath(userID, filename)
}

func (s *BackupService) backupPath(userID uuid.UUID, filename string) (string, error) {
	if filepath.Base(filename) != filename || filename == "." {
		return "", NewValidationError("Invalid backup filename")
	}
	if !strings.HasPrefix(filename, "backup_"+userID.String()+"_") {
		return "", ErrNotFound
	}
	return filepath.Join(s.dir, filename), nil
}
