// internal/handlers/backup.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/grantguru/grantguru-backend/internal/services"
)

type BackupHandler struct {
	backupService *services.BackupService
}

func NewBackupHandler(backupService *services.BackupService) *BackupHandler {
	return &BackupHandler{
		backupService: backupService,
	}
}

// POST /api/user/applications/backup
func (h *BackupHandler) CreateBackup(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	backup, filename, err := h.backupService.CreateBackup(userID)
	if err != nil {
		handleServiceError(c, err, "Backup")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":         "Backup created successfully",
		"filename":        filename,
		"backup_metadata": backup.Metadata,
	})
}

// GET /api/user/applications/backup
func (h *BackupHandler) ListBackups(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	backups, err := h.backupService.ListBackups(userID)
	if err != nil {
		handleServiceError(c, err, "Backup")
		return
	}

	c.JSON(http.StatusOK, gin.H{"backups": backups})
}

// GET /api/user/applications/backup/:filename/download
func (h *BackupHandler) DownloadBackup(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	filename := c.Param("filename")
	path, err := h.backupService.BackupFilePath(userID, filename)
	if err != nil {
		handleServiceError(c, err, "Backup")
		return
	}

	c.FileAttachment(path, filename)
}

// POST /api/user/applications/backup/:filename/restore
func (h *BackupHandler) RestoreBackup(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	restored, skipped, err := h.backupService.RestoreBackup(userID, c.Param("filename"))
	if err != nil {
		handleServiceError(c, err, "Backup")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Backup restored successfully",
		"restored": restored,
		"skipped":  skipped,
	})
}

// DELETE /api/user/applications/backup/:filename
func (h *BackupHandler) DeleteBackup(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := h.backupService.DeleteBackup(userID, c.Param("filename")); err != nil {
		handleServiceError(c, err, "Backup")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Backup deleted successfully",
	})
}
