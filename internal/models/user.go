// internal/models/user.go
package models

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// User belongs to at most one Publisher. PublisherID is nullable because the
// invitation flow pre-creates users before they accept.
type User struct {
	BaseModel
	PublisherID     *uuid.UUID `json:"publisher_id" gorm:"type:uuid;index"`
	Email           string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash    string     `json:"-" gorm:"size:255;not null"`
	Name            string     `json:"name" gorm:"size:255"`
	Role            UserRole   `json:"role" gorm:"type:varchar(20);default:'member'"`
	Status          UserStatus `json:"status" gorm:"type:varchar(20);default:'active'"`
	EmailVerifiedAt *time.Time `json:"email_verified_at"`
	LastLoginAt     *time.Time `json:"last_login_at"`
	InviteTokenHash string     `json:"-" gorm:"size:64"`

	// Relationships
	Publisher *Publisher `json:"publisher,omitempty" gorm:"foreignKey:PublisherID"`
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
