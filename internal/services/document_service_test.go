// internal/services/document_service_test.go
package services

import (
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/grantguru/grantguru-backend/internal/models"
)

type DocumentServiceTestSuite struct {
	suite.Suite
	db    *gorm.DB
	store *memStore
	svc   *DocumentService
	user  *models.User
	app   *models.Application
}

func (suite *DocumentServiceTestSuite) SetupTest() {
	suite.db = setupTestDB(suite.T())
	suite.store = newMemStore()
	suite.svc = NewDocumentService(suite.db, suite.store, 1<<20)
	suite.user = createTestUser(suite.T(), suite.db, "ada@example.com")

	closed := models.NewDate(2025, time.December, 31)
	grant := createTestGrant(suite.T(), suite.db, "Quantum Computing Initiative", &closed)

	var err error
	suite.app, err = NewApplicationService(suite.db, suite.svc).CreateApplication(suite.user.ID, &CreateApplicationRequest{
		GrantID: grant.ID.String(),
	})
	suite.Require().NoError(err)
}

func (suite *DocumentServiceTestSuite) TestUploadTagsCategory() {
	headers := buildFileHeaders(suite.T(), []uploadFile{
		{name: "proposal.pdf", content: "proposal body"},
		{name: "appendix.pdf", content: "appendix body"},
	})

	uploaded, failed, err := suite.svc.UploadDocuments(suite.user.ID, suite.app.ID, "Proposal", headers)
	suite.NoError(err)
	suite.Empty(failed)
	suite.Require().Len(uploaded, 2)

	for _, doc := range uploaded {
		suite.Equal("Proposal", doc.DocumentType)
		suite.Equal(suite.app.ID, doc.ApplicationID)
		suite.NotEmpty(doc.StorageKey)
	}
	suite.Equal("proposal.pdf", uploaded[0].DocumentName)
	suite.Equal(int64(len("proposal body")), uploaded[0].DocumentSize)
	suite.Equal(2, suite.store.count())
}

func (suite *DocumentServiceTestSuite) TestUploadUnknownCategory() {
	headers := buildFileHeaders(suite.T(), []uploadFile{{name: "notes.txt", content: "x"}})

	_, _, err := suite.svc.UploadDocuments(suite.user.ID, suite.app.ID, "Transcript", headers)
	suite.True(IsValidationError(err))
	suite.Zero(suite.store.count())
}

func (suite *DocumentServiceTestSuite) TestUploadNoFiles() {
	_, _, err := suite.svc.UploadDocuments(suite.user.ID, suite.app.ID, "Proposal", nil)
	suite.True(IsValidationError(err))
}

func (suite *DocumentServiceTestSuite) TestUploadFailureIsIsolated() {
	headers := buildFileHeaders(suite.T(), []uploadFile{
		{name: "budget.xlsx", content: "budget body"},
		{name: "justification.pdf", content: "justification body"},
	})

	// First Put fails, second succeeds.
	suite.store.failNextPuts = 1

	uploaded, failed, err := suite.svc.UploadDocuments(suite.user.ID, suite.app.ID, "Budget", headers)
	suite.NoError(err)
	suite.Require().Len(uploaded, 1)
	suite.Require().Len(failed, 1)
	suite.Equal("budget.xlsx", failed[0].Filename)
	suite.Equal("justification.pdf", uploaded[0].DocumentName)

	// The surviving file is queryable; the failed one left no row.
	documents, listErr := suite.svc.ListDocuments(suite.user.ID, suite.app.ID)
	suite.NoError(listErr)
	suite.Len(documents, 1)
}

func (suite *DocumentServiceTestSuite) TestUploadRejectsOversizedFile() {
	svc := NewDocumentService(suite.db, suite.store, 4)
	headers := buildFileHeaders(suite.T(), []uploadFile{{name: "big.pdf", content: "larger than four bytes"}})

	uploaded, failed, err := svc.UploadDocuments(suite.user.ID, suite.app.ID, "Proposal", headers)
	suite.NoError(err)
	suite.Empty(uploaded)
	suite.Require().Len(failed, 1)
	suite.Contains(failed[0].Reason, "maximum size")
}

func (suite *DocumentServiceTestSuite) TestDownloadRoundTrip() {
	headers := buildFileHeaders(suite.T(), []uploadFile{{name: "cv.pdf", content: "curriculum vitae"}})
	uploaded, _, err := suite.svc.UploadDocuments(suite.user.ID, suite.app.ID, "CV/Resume", headers)
	suite.Require().Len(uploaded, 1)
	suite.Require().NoError(err)

	doc, stream, err := suite.svc.DownloadDocument(suite.user.ID, suite.app.ID, uploaded[0].ID)
	suite.Require().NoError(err)
	defer stream.Close()

	content, err := io.ReadAll(stream)
	suite.NoError(err)
	suite.Equal("curriculum vitae", string(content))
	suite.Equal("cv.pdf", doc.DocumentName)
}

func (suite *DocumentServiceTestSuite) TestDeleteRemovesOnlyTarget() {
	headers := buildFileHeaders(suite.T(), []uploadFile{
		{name: "letter.pdf", content: "cover letter v1"},
		{name: "letter.pdf", content: "cover letter v2"},
	})
	uploaded, _, err := suite.svc.UploadDocuments(suite.user.ID, suite.app.ID, "Cover Letter", headers)
	suite.Require().NoError(err)
	suite.Require().Len(uploaded, 2)

	suite.NoError(suite.svc.DeleteDocument(suite.user.ID, suite.app.ID, uploaded[0].ID))

	remaining, err := suite.svc.ListDocuments(suite.user.ID, suite.app.ID)
	suite.NoError(err)
	suite.Require().Len(remaining, 1)
	suite.Equal(uploaded[1].ID, remaining[0].ID)
	suite.Equal(1, suite.store.count())
}

func (suite *DocumentServiceTestSuite) TestDocumentOwnershipScoped() {
	headers := buildFileHeaders(suite.T(), []uploadFile{{name: "proposal.pdf", content: "x"}})
	uploaded, _, err := suite.svc.UploadDocuments(suite.user.ID, suite.app.ID, "Proposal", headers)
	suite.Require().NoError(err)

	other := createTestUser(suite.T(), suite.db, "grace@example.com")
	_, _, err = suite.svc.DownloadDocument(other.ID, suite.app.ID, uploaded[0].ID)
	suite.ErrorIs(err, ErrNotFound)

	err = suite.svc.DeleteDocument(other.ID, suite.app.ID, uploaded[0].ID)
	suite.ErrorIs(err, ErrNotFound)
}

func TestDocumentServiceSuite(t *testing.T) {
	suite.Run(t, new(DocumentServiceTestSuite))
}
