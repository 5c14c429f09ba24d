// internal/handlers/document.go
package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/grantguru/grantguru-backend/internal/services"
	"github.com/grantguru/grantguru-backend/internal/utils"
)

type DocumentHandler struct {
	documentService *services.DocumentService
}

func NewDocumentHandler(documentService *services.DocumentService) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
	}
}

// GET /api/user/applications/:id/documents
func (h *DocumentHandler) ListDocuments(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	applicationID, ok := parseIDParam(c, "id", "Application")
	if !ok {
		return
	}

	documents, err := h.documentService.ListDocuments(userID, applicationID)
	if err != nil {
		handleServiceError(c, err, "Application")
		return
	}

	c.JSON(http.StatusOK, gin.H{"documents": documents})
}

// POST /api/user/applications/:id/documents
//
// Multipart form: one or more "files" parts plus a "document_type"
// field naming the checklist slot. Files are stored best effort; a bad
// file fails alone and is reported in "failed".
func (h *DocumentHandler) UploadDocuments(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	applicationID, ok := parseIDParam(c, "id", "Application")
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		utils.BadRequestResponse(c, "Invalid multipart form")
		return
	}

	category := c.PostForm("document_type")
	files := form.File["files"]

	uploaded, failed, err := h.documentService.UploadDocuments(userID, applicationID, category, files)
	if err != nil {
		handleServiceError(c, err, "Application")
		return
	}

	status := http.StatusCreated
	if len(uploaded) == 0 {
		// Every file failed.
		status = http.StatusBadRequest
	}

	c.JSON(status, gin.H{
		"uploaded": uploaded,
		"failed":   failed,
	})
}

// GET /api/user/applications/:id/documents/:docId/download
func (h *DocumentHandler) DownloadDocument(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	applicationID, ok := parseIDParam(c, "id", "Application")
	if !ok {
		return
	}
	documentID, ok := parseIDParam(c, "docId", "Document")
	if !ok {
		return
	}

	document, reader, err := h.documentService.DownloadDocument(userID, applicationID, documentID)
	if err != nil {
		handleServiceError(c, err, "Document")
		return
	}
	defer func() {
		if closeErr := reader.Close(); closeErr != nil {
			logrus.WithError(closeErr).Warn("Failed to close document stream")
		}
	}()

	headers := map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", document.DocumentName),
	}
	c.DataFromReader(http.StatusOK, document.DocumentSize, "application/octet-stream", reader, headers)
}

// DELETE /api/user/applications/:id/documents/:docId
func (h *DocumentHandler) DeleteDocument(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	applicationID, ok := parseIDParam(c, "id", "Application")
	if !ok {
		return
	}
	documentID, ok := parseIDParam(c, "docId", "Document")
	if !ok {
		return
	}

	if err := h.documentService.DeleteDocument(userID, applicationID, documentID); err != nil {
		handleServiceError(c, err, "Document")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Document deleted successfully",
	})
}
