// internal/middleware/logging.go
package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/grantguru/grantguru-backend/internal/models"
)

// RequestLogger logs every request with structured fields.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logrus.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).Milliseconds(),
			"ip":       c.ClientIP(),
		}).Info("Request processed")
	}
}

// AuditLog records mutating requests as audit rows, written asynchronously
// so a slow insert never delays the response.
func AuditLog(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == "GET" || c.Request.URL.Path == "/health" {
			c.Next()
			return
		}

		var requestBody []byte
		if c.Request.Body != nil {
			requestBody, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(requestBody))
		}

		c.Next()

		var userUUID *uuid.UUID
		if raw, ok := c.Get("user_id"); ok {
			if s, ok := raw.(string); ok {
				if parsed, err := uuid.Parse(s); err == nil {
					userUUID = &parsed
				}
			}
		}

		var requestData map[string]interface{}
		if len(requestBody) > 0 && strings.Contains(c.ContentType(), "application/json") {
			json.Unmarshal(requestBody, &requestData)
		}
		// Never persist credentials
		delete(requestData, "password")
		delete(requestData, "current_password")
		delete(requestData, "new_password")

		entry := &models.AuditLog{
			UserID:       userUUID,
			Action:       c.Request.Method + " " + c.Request.URL.Path,
			ResourceType: extractResourceType(c.Request.URL.Path),
			IPAddress:    c.ClientIP(),
			UserAgent:    c.Request.UserAgent(),
			RequestBody:  models.JSONB(requestData),
		}

		if resourceID := extractResourceID(c.Request.URL.Path); resourceID != nil {
			entry.ResourceID = resourceID
		}

		go func() {
			if err := db.Create(entry).Error; err != nil {
				logrus.WithError(err).Error("Failed to write audit log")
			}
		}()
	}
}

func extractResourceType(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) >= 2 && parts[0] == "api" {
		return parts[1]
	}
	if len(parts) >= 1 {
		return parts[0]
	}
	return "unknown"
}

func extractResourceID(path string) *uuid.UUID {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	// The last UUID segment identifies the most specific resource.
	for i := len(parts) - 1; i >= 0; i-- {
		if parsed, err := uuid.Parse(parts[i]); err == nil {
			return &parsed
		}
	}
	return nil
}
