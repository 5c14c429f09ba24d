// internal/services/backup_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/grantguru/grantguru-backend/internal/models"
)

type BackupServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	svc     *BackupService
	appSvc  *ApplicationService
	taskSvc *TaskService
	user    *models.User
	grant   *models.Grant
}

func (suite *BackupServiceTestSuite) SetupTest() {
	suite.db = setupTestDB(suite.T())

	var err error
	suite.svc, err = NewBackupService(suite.db, suite.T().TempDir())
	suite.Require().NoError(err)

	suite.appSvc = newTestApplicationService(suite.db)
	suite.taskSvc = NewTaskService(suite.db)
	suite.user = createTestUser(suite.T(), suite.db, "ada@example.com")

	closed := models.NewDate(2025, time.December, 31)
	suite.grant = createTestGrant(suite.T(), suite.db, "Quantum Computing Initiative", &closed)
}

func (suite *BackupServiceTestSuite) seedApplication() *models.Application {
	app, err := suite.appSvc.CreateApplication(suite.user.ID, &CreateApplicationRequest{
		GrantID: suite.grant.ID.String(),
		Notes:   "snapshot me",
	})
	suite.Require().NoError(err)

	_, err = suite.taskSvc.CreateTask(suite.user.ID, app.ID, &CreateTaskRequest{
		Name:     "Draft proposal",
		Deadline: "2025-12-20",
	})
	suite.Require().NoError(err)

	return app
}

func (suite *BackupServiceTestSuite) TestCreateBackupCounts() {
	suite.seedApplication()

	backup, filename, err := suite.svc.CreateBackup(suite.user.ID)
	suite.Require().NoError(err)
	suite.NotEmpty(filename)
	suite.Equal(1, backup.Metadata.ApplicationCount)
	suite.Equal(1, backup.Metadata.TotalTasks)
	suite.Equal(0, backup.Metadata.TotalDocuments)
	suite.Equal(suite.user.ID.String(), backup.Metadata.UserID)
}

func (suite *BackupServiceTestSuite) TestListBackupsScopedToUser() {
	suite.seedApplication()

	_, _, err := suite.svc.CreateBackup(suite.user.ID)
	suite.Require().NoError(err)

	other := createTestUser(suite.T(), suite.db, "grace@example.com")
	_, _, err = suite.svc.CreateBackup(other.ID)
	suite.Require().NoError(err)

	backups, err := suite.svc.ListBackups(suite.user.ID)
	suite.NoError(err)
	suite.Require().Len(backups, 1)
	suite.Equal(suite.user.ID.String(), backups[0].UserID)
	suite.Equal(1, backups[0].ApplicationCount)
}

func (suite *BackupServiceTestSuite) TestRestoreRecreatesMissingApplications() {
	app := suite.seedApplication()

	_, filename, err := suite.svc.CreateBackup(suite.user.ID)
	suite.Require().NoError(err)

	suite.Require().NoError(suite.appSvc.DeleteApplication(suite.user.ID, app.ID))

	restored, skipped, err := suite.svc.RestoreBackup(suite.user.ID, filename)
	suite.NoError(err)
	suite.Equal(1, restored)
	suite.Equal(0, skipped)

	apps, err := suite.appSvc.ListApplications(suite.user.ID)
	suite.NoError(err)
	suite.Require().Len(apps, 1)
	suite.Equal(suite.grant.ID, apps[0].GrantID)
	suite.Equal("snapshot me", apps[0].Notes)

	tasks, err := suite.taskSvc.ListTasks(suite.user.ID, apps[0].ID)
	suite.NoError(err)
	suite.Require().Len(tasks, 1)
	suite.Equal("Draft proposal", tasks[0].Name)
}

func (suite *BackupServiceTestSuite) TestRestoreSkipsExistingApplications() {
	suite.seedApplication()

	_, filename, err := suite.svc.CreateBackup(suite.user.ID)
	suite.Require().NoError(err)

	restored, skipped, err := suite.svc.RestoreBackup(suite.user.ID, filename)
	suite.NoError(err)
	suite.Equal(0, restored)
	suite.Equal(1, skipped)
}

func (suite *BackupServiceTestSuite) TestBackupOwnership() {
	suite.seedApplication()

	_, filename, err := suite.svc.CreateBackup(suite.user.ID)
	suite.Require().NoError(err)

	other := createTestUser(suite.T(), suite.db, "grace@example.com")

	_, err = suite.svc.LoadBackup(other.ID, filename)
	suite.ErrorIs(err, ErrNotFound)

	err = suite.svc.DeleteBackup(other.ID, filename)
	suite.ErrorIs(err, ErrNotFound)

	// The owner can still delete it.
	suite.NoError(suite.svc.DeleteBackup(suite.user.ID, filename))
	_, err = suite.svc.LoadBackup(suite.user.ID, filename)
	suite.ErrorIs(err, ErrNotFound)
}

func (suite *BackupServiceTestSuite) TestBackupPathRejectsTraversal() {
	_, err := suite.svc.LoadBackup(suite.user.ID, "../etc/passwd")
	suite.Error(err)
}

func TestBackupServiceSuite(t *testing.T) {
	suite.Run(t, new(BackupServiceTestSuite))
}
