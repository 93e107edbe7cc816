package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserLike is a directed interest edge. An ignored like never surfaces as an
// invitation again but keeps the row for audit.
type UserLike struct {
	ID         string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	FromUserID string    `gorm:"type:varchar(36);not null;index:idx_like_pair,unique" json:"from_user_id"`
	ToUserID   string    `gorm:"type:varchar(36);not null;index:idx_like_pair,unique" json:"to_user_id"`
	Ignored    bool      `gorm:"not null;default:false" json:"ignored"`
	CreatedAt  time.Time `json:"created_at"`

	// Relations
	FromUser User `gorm:"foreignKey:FromUserID" json:"-"`
}

func (l *UserLike) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return nil
}

// UserMatch is the undirected edge materialized when both directions like each
// other. The pair is stored ordered so one row represents the pair.
type UserMatch struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	User1ID   string    `gorm:"type:varchar(36);not null;index:idx_match_pair,unique" json:"user1_id"`
	User2ID   string    `gorm:"type:varchar(36);not null;index:idx_match_pair,unique" json:"user2_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (m *UserMatch) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

// MatchPair orders two user IDs into the canonical (user1, user2) storage order.
func MatchPair(a, b string) (string, string) {
	if a < b {
		return a, b
	}
	return b, a
}

// Counterpart returns the other side of the match for the given user.
func (m *UserMatch) Counterpart(userID string) string {
	if m.User1ID == userID {
		return m.User2ID
	}
	return m.User1ID
}
