package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	GroupRoleOwner  = "owner"
	GroupRoleMember = "member"
)

// IdeaGroup is the discussion space created for a public idea.
type IdeaGroup struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	IdeaID    string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"idea_id"`
	Name      string    `gorm:"type:varchar(200);not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func (g *IdeaGroup) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.New().String()
	}
	return nil
}

// IdeaGroupMember carries the per-member read watermark used for unread counts.
// LastReadAt only ever advances.
type IdeaGroupMember struct {
	ID         string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	GroupID    string    `gorm:"type:varchar(36);not null;index:idx_group_user,unique" json:"group_id"`
	UserID     string    `gorm:"type:varchar(36);not null;index:idx_group_user,unique" json:"user_id"`
	Role       string    `gorm:"type:varchar(16);not null;default:member" json:"role"`
	LastReadAt time.Time `json:"last_read_at"`
	CreatedAt  time.Time `json:"created_at"`
}

func (m *IdeaGroupMember) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

type IdeaGroupMessage struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	GroupID   string    `gorm:"type:varchar(36);not null;index" json:"group_id"`
	SenderID  string    `gorm:"type:varchar(36);not null;index" json:"sender_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Sender User `gorm:"foreignKey:SenderID" json:"-"`
}

func (m *IdeaGroupMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}
