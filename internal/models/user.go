// internal/models/user.go
package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

type User struct {
	BaseModel
	Email        string `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string `json:"-" gorm:"size:255;not null"`
	FirstName    string `json:"first_name" gorm:"size:100;not null"`
	MiddleName   string `json:"middle_name,omitempty" gorm:"size:100"`
	LastName     string `json:"last_name" gorm:"size:100;not null"`
	Institution  string `json:"institution" gorm:"size:255;not null"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`

	// Relationships
	Applications []Application `json:"applications,omitempty" gorm:"foreignKey:UserID"`
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}
