// internal/services/application_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/grantguru/grantguru-backend/internal/models"
)

type ApplicationServiceTestSuite struct {
	suite.Suite
	db    *gorm.DB
	store *memStore
	svc   *ApplicationService
	user  *models.User
	grant *models.Grant
}

func (suite *ApplicationServiceTestSuite) SetupTest() {
	suite.db = setupTestDB(suite.T())
	suite.store = newMemStore()
	suite.svc = NewApplicationService(suite.db, NewDocumentService(suite.db, suite.store, 1<<20))
	suite.user = createTestUser(suite.T(), suite.db, "ada@example.com")

	closed := models.NewDate(2025, time.December, 31)
	suite.grant = createTestGrant(suite.T(), suite.db, "Quantum Computing Initiative", &closed)
}

func (suite *ApplicationServiceTestSuite) createDraft() *models.Application {
	app, err := suite.svc.CreateApplication(suite.user.ID, &CreateApplicationRequest{
		GrantID: suite.grant.ID.String(),
	})
	suite.Require().NoError(err)
	return app
}

func (suite *ApplicationServiceTestSuite) TestCreateApplication() {
	app := suite.createDraft()

	suite.Equal(models.SubmissionStarted, app.SubmissionStatus)
	suite.Equal(models.ReviewPending, app.Status)
	suite.Equal(suite.grant.ID, app.GrantID)
	suite.Equal(suite.grant.GrantTitle, app.Grant.GrantTitle)
	suite.False(app.ApplicationDate.IsZero())
}

func (suite *ApplicationServiceTestSuite) TestCreateApplicationUnknownGrant() {
	_, err := suite.svc.CreateApplication(suite.user.ID, &CreateApplicationRequest{
		GrantID: uuid.New().String(),
	})
	suite.ErrorIs(err, ErrNotFound)
}

func (suite *ApplicationServiceTestSuite) TestCreateApplicationDuplicate() {
	suite.createDraft()

	_, err := suite.svc.CreateApplication(suite.user.ID, &CreateApplicationRequest{
		GrantID: suite.grant.ID.String(),
	})
	suite.ErrorIs(err, ErrAlreadyApplied)

	// A different user applying to the same grant is fine.
	other := createTestUser(suite.T(), suite.db, "grace@example.com")
	_, err = suite.svc.CreateApplication(other.ID, &CreateApplicationRequest{
		GrantID: suite.grant.ID.String(),
	})
	suite.NoError(err)
}

func (suite *ApplicationServiceTestSuite) TestGetApplicationOwnership() {
	app := suite.createDraft()

	got, err := suite.svc.GetApplication(suite.user.ID, app.ID)
	suite.NoError(err)
	suite.Equal(app.ID, got.ID)

	// A foreign application reads as not found.
	other := createTestUser(suite.T(), suite.db, "grace@example.com")
	_, err = suite.svc.GetApplication(other.ID, app.ID)
	suite.ErrorIs(err, ErrNotFound)
}

func (suite *ApplicationServiceTestSuite) TestUpdateDraft() {
	app := suite.createDraft()

	name := "Ada Lovelace"
	email := "ada@example.com"
	notes := "Draft in progress"
	updated, err := suite.svc.UpdateApplication(suite.user.ID, app.ID, &UpdateApplicationRequest{
		ApplicantName:  &name,
		ApplicantEmail: &email,
		Notes:          &notes,
	})
	suite.NoError(err)
	suite.Equal(name, updated.ApplicantName)
	suite.Equal(email, updated.ApplicantEmail)
	suite.Equal(notes, updated.Notes)
	suite.Equal(models.SubmissionStarted, updated.SubmissionStatus)
}

func (suite *ApplicationServiceTestSuite) TestUpdatePinnedStartedIsNoOp() {
	app := suite.createDraft()

	started := models.SubmissionStarted
	notes := "still editing"
	updated, err := suite.svc.UpdateApplication(suite.user.ID, app.ID, &UpdateApplicationRequest{
		SubmissionStatus: &started,
		Notes:            &notes,
	})
	suite.NoError(err)
	suite.Equal(models.SubmissionStarted, updated.SubmissionStatus)
	suite.Equal(notes, updated.Notes)
}

func (suite *ApplicationServiceTestSuite) TestUpdateRefusesSubmittedValue() {
	app := suite.createDraft()

	submitted := models.SubmissionSubmitted
	_, err := suite.svc.UpdateApplication(suite.user.ID, app.ID, &UpdateApplicationRequest{
		SubmissionStatus: &submitted,
	})
	suite.True(IsValidationError(err))

	// The draft is untouched.
	got, err := suite.svc.GetApplication(suite.user.ID, app.ID)
	suite.NoError(err)
	suite.Equal(models.SubmissionStarted, got.SubmissionStatus)
}

func (suite *ApplicationServiceTestSuite) TestSubmitApplication() {
	app := suite.createDraft()

	submitted, err := suite.svc.SubmitApplication(suite.user.ID, app.ID, &SubmitApplicationRequest{
		ApplicantName:  "Ada Lovelace",
		ApplicantEmail: "ada@example.com",
	})
	suite.NoError(err)
	suite.Equal(models.SubmissionSubmitted, submitted.SubmissionStatus)
	suite.Equal("Ada Lovelace", submitted.ApplicantName)
}

func (suite *ApplicationServiceTestSuite) TestSubmitTwiceConflicts() {
	app := suite.createDraft()

	req := &SubmitApplicationRequest{
		ApplicantName:  "Ada Lovelace",
		ApplicantEmail: "ada@example.com",
	}
	_, err := suite.svc.SubmitApplication(suite.user.ID, app.ID, req)
	suite.Require().NoError(err)

	_, err = suite.svc.SubmitApplication(suite.user.ID, app.ID, req)
	suite.ErrorIs(err, ErrAlreadySubmitted)
}

func (suite *ApplicationServiceTestSuite) TestSubmitValidatesBeforeMutating() {
	app := suite.createDraft()

	_, err := suite.svc.SubmitApplication(suite.user.ID, app.ID, &SubmitApplicationRequest{
		ApplicantName:  "Ada Lovelace",
		ApplicantEmail: "not-an-email",
	})
	suite.Error(err)

	got, err := suite.svc.GetApplication(suite.user.ID, app.ID)
	suite.NoError(err)
	suite.Equal(models.SubmissionStarted, got.SubmissionStatus)
}

func (suite *ApplicationServiceTestSuite) TestUpdateAfterSubmitIsStatusOnly() {
	app := suite.createDraft()

	_, err := suite.svc.SubmitApplication(suite.user.ID, app.ID, &SubmitApplicationRequest{
		ApplicantName:  "Ada Lovelace",
		ApplicantEmail: "ada@example.com",
	})
	suite.Require().NoError(err)

	approved := models.ReviewApproved
	newName := "Someone Else"
	updated, err := suite.svc.UpdateApplication(suite.user.ID, app.ID, &UpdateApplicationRequest{
		Status:        &approved,
		ApplicantName: &newName,
	})
	suite.NoError(err)
	suite.Equal(models.ReviewApproved, updated.Status)
	// Applicant fields are frozen once submitted.
	suite.Equal("Ada Lovelace", updated.ApplicantName)
	suite.Equal(models.SubmissionSubmitted, updated.SubmissionStatus)
}

func (suite *ApplicationServiceTestSuite) TestDeleteApplicationCascades() {
	app := suite.createDraft()

	task := &models.Task{
		ApplicationID: app.ID,
		Name:          "Draft budget",
		Deadline:      models.NewDate(2025, time.November, 1),
	}
	suite.Require().NoError(suite.db.Create(task).Error)

	headers := buildFileHeaders(suite.T(), []uploadFile{{name: "budget.pdf", content: "line items"}})
	uploaded, failures, err := suite.svc.documents.UploadDocuments(suite.user.ID, app.ID, "Budget", headers)
	suite.Require().NoError(err)
	suite.Require().Empty(failures)
	suite.Require().Len(uploaded, 1)
	suite.Require().Equal(1, suite.store.count())

	suite.NoError(suite.svc.DeleteApplication(suite.user.ID, app.ID))

	_, err = suite.svc.GetApplication(suite.user.ID, app.ID)
	suite.ErrorIs(err, ErrNotFound)

	var taskCount, docCount int64
	suite.db.Model(&models.Task{}).Where("application_id = ?", app.ID).Count(&taskCount)
	suite.db.Model(&models.Document{}).Where("application_id = ?", app.ID).Count(&docCount)
	suite.Zero(taskCount)
	suite.Zero(docCount)
	suite.Zero(suite.store.count())
}

func (suite *ApplicationServiceTestSuite) TestUpdateReviewStatus() {
	app := suite.createDraft()

	updated, err := suite.svc.UpdateReviewStatus(suite.user.ID, app.ID, models.ReviewInReview)
	suite.NoError(err)
	suite.Equal(models.ReviewInReview, updated.Status)

	_, err = suite.svc.UpdateReviewStatus(suite.user.ID, app.ID, models.ReviewStatus("bogus"))
	suite.True(IsValidationError(err))
}

func TestApplicationServiceSuite(t *testing.T) {
	suite.Run(t, new(ApplicationServiceTestSuite))
}
