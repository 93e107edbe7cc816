package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// DefaultDisplayName is substituted for users who never set a name.
const DefaultDisplayName = "未设置昵称"

type User struct {
	ID           string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Name         *string   `gorm:"type:varchar(100)" json:"name,omitempty"`
	PasswordHash *string   `gorm:"type:varchar(255)" json:"-"`
	Role         string    `gorm:"type:varchar(16);not null;default:user" json:"role"`
	AvatarURL    *string   `gorm:"type:varchar(255)" json:"avatar_url,omitempty"`
	Bio          *string   `gorm:"type:text" json:"bio,omitempty"`
	Skills       string    `gorm:"type:text" json:"-"`    // JSON-encoded string list
	Interests    string    `gorm:"type:text" json:"-"`    // JSON-encoded string list
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}

// DisplayName returns the user's name or the platform default for unset names.
func (u *User) DisplayName() string {
	if u.Name == nil || *u.Name == "" {
		return DefaultDisplayName
	}
	return *u.Name
}
