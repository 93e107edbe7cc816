package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Project struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID    string    `gorm:"type:varchar(36);not null;index" json:"user_id"`
	IdeaID    *string   `gorm:"type:varchar(36);uniqueIndex" json:"idea_id,omitempty"`
	Name      string    `gorm:"type:varchar(200);not null" json:"name"`
	Stage     string    `gorm:"type:varchar(32)" json:"stage"`
	Progress  int       `gorm:"not null;default:0" json:"progress"`
	RiskLevel string    `gorm:"type:varchar(16)" json:"risk_level"`
	Canvas    string    `gorm:"type:text" json:"-"`   // JSON-encoded business canvas
	Analysis  string    `gorm:"type:text" json:"-"`   // JSON-encoded analysis result
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}
