// internal/services/testing_test.go
package services

import (
	"bytes"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/grantguru/grantguru-backend/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Grant{},
		&models.Application{},
		&models.Document{},
		&models.Task{},
		&models.AuditLog{},
	))

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	user := &models.User{
		Email:       email,
		FirstName:   "Ada",
		LastName:    "Lovelace",
		Institution: "Analytical Engine Institute",
	}
	require.NoError(t, user.SetPassword("correct-horse-battery"))
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestGrant(t *testing.T, db *gorm.DB, title string, dateClosed *models.Date) *models.Grant {
	t.Helper()

	grant := &models.Grant{
		GrantTitle:        title,
		OpportunityNumber: "OPP-001",
		Provider:          "National Science Foundation",
		ResearchField:     "Computer Science",
		Description:       "Funding for foundational research.",
		ProgramFunding:    500000,
		PostedDate:        models.NewDate(2025, time.January, 15),
		DateClosed:        dateClosed,
		LastUpdated:       models.NewDate(2025, time.June, 1),
	}
	require.NoError(t, db.Create(grant).Error)
	return grant
}

// newTestApplicationService builds an ApplicationService backed by a
// throwaway in-memory blob store, for suites that only need applications
// as fixtures.
func newTestApplicationService(db *gorm.DB) *ApplicationService {
	return NewApplicationService(db, NewDocumentService(db, newMemStore(), 1<<20))
}

// memStore is an in-memory BlobStore. failNextPuts makes the next N Put
// calls fail, for exercising per-file failure isolation.
type memStore struct {
	mu           sync.Mutex
	blobs        map[string][]byte
	failNextPuts int
}

func newMemStore() *memStore {
	return &memStore{blobs: make(map[string][]byte)}
}

func (m *memStore) Put(key string, r io.Reader) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failNextPuts > 0 {
		m.failNextPuts--
		return 0, errors.New("storage backend unavailable")
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	m.blobs[key] = data
	return int64(len(data)), nil
}

func (m *memStore) Get(key string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, ok := m.blobs[key]
	if !ok {
		return nil, errors.New("blob not found")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memStore) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.blobs, key)
	return nil
}

func (m *memStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.blobs)
}

type uploadFile struct {
	name    string
	content string
}

// buildFileHeaders assembles multipart file headers the way gin hands
// them to the handler.
func buildFileHeaders(t *testing.T, files []uploadFile) []*multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for _, f := range files {
		part, err := writer.CreateFormFile("files", f.name)
		require.NoError(t, err)
		_, err = part.Write([]byte(f.content))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req, err := http.NewRequest(http.MethodPost, "/", &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))

	return req.MultipartForm.File["files"]
}
