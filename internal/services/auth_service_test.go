// internal/services/auth_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/grantguru/grantguru-backend/internal/config"
	"github.com/grantguru/grantguru-backend/internal/utils"
)

type AuthServiceTestSuite struct {
	suite.Suite
	db  *gorm.DB
	svc *AuthService
}

func (suite *AuthServiceTestSuite) SetupTest() {
	suite.db = setupTestDB(suite.T())

	cfg := &config.Config{
		JWT: config.JWTConfig{
			SecretKey:      "test-secret",
			AccessTokenTTL: 1,
		},
	}
	utils.SetJWTSecret(cfg.JWT.SecretKey)
	suite.svc = NewAuthService(suite.db, cfg)
}

func (suite *AuthServiceTestSuite) signup(email string) {
	_, err := suite.svc.Signup(&SignupRequest{
		FirstName:       "Ada",
		LastName:        "Lovelace",
		Email:           email,
		InstitutionName: "Analytical Engine Institute",
		Password:        "correct-horse-battery",
	})
	suite.Require().NoError(err)
}

func (suite *AuthServiceTestSuite) TestSignup() {
	user, err := suite.svc.Signup(&SignupRequest{
		FirstName:       "Ada",
		MiddleName:      "King",
		LastName:        "Lovelace",
		Email:           "ada@example.com",
		InstitutionName: "Analytical Engine Institute",
		Password:        "correct-horse-battery",
	})
	suite.Require().NoError(err)
	suite.NotEmpty(user.ID)
	suite.NotEmpty(user.PasswordHash)
	suite.NotEqual("correct-horse-battery", user.PasswordHash)
}

func (suite *AuthServiceTestSuite) TestSignupDuplicateEmail() {
	suite.signup("ada@example.com")

	_, err := suite.svc.Signup(&SignupRequest{
		FirstName:       "Other",
		LastName:        "Person",
		Email:           "ada@example.com",
		InstitutionName: "Somewhere Else",
		Password:        "another-password",
	})
	suite.ErrorIs(err, ErrEmailTaken)
}

func (suite *AuthServiceTestSuite) TestSignupShortPassword() {
	_, err := suite.svc.Signup(&SignupRequest{
		FirstName:       "Ada",
		LastName:        "Lovelace",
		Email:           "ada@example.com",
		InstitutionName: "Analytical Engine Institute",
		Password:        "short",
	})
	suite.Error(err)
}

func (suite *AuthServiceTestSuite) TestSignin() {
	suite.signup("ada@example.com")

	resp, err := suite.svc.Signin(&SigninRequest{
		Email:    "ada@example.com",
		Password: "correct-horse-battery",
	})
	suite.Require().NoError(err)
	suite.NotEmpty(resp.AccessToken)
	suite.NotEmpty(resp.UserID)
	suite.NotNil(resp.User.LastLoginAt)

	claims, err := utils.ValidateAccessToken(resp.AccessToken)
	suite.NoError(err)
	suite.Equal(resp.UserID, claims.UserID)
	suite.Equal("ada@example.com", claims.Email)
}

func (suite *AuthServiceTestSuite) TestSigninWrongPassword() {
	suite.signup("ada@example.com")

	_, err := suite.svc.Signin(&SigninRequest{
		Email:    "ada@example.com",
		Password: "wrong-password",
	})
	suite.ErrorIs(err, ErrInvalidCredentials)
}

func (suite *AuthServiceTestSuite) TestSigninUnknownEmail() {
	_, err := suite.svc.Signin(&SigninRequest{
		Email:    "nobody@example.com",
		Password: "whatever-password",
	})
	suite.ErrorIs(err, ErrInvalidCredentials)
}

func TestAuthServiceSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}
