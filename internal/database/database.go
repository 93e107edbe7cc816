package database

import (
	"ideahub/server/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func Initialize(dbPath string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Auto-migrate models
	if err := db.AutoMigrate(
		&models.User{},
		&models.Idea{},
		&models.Project{},
		&models.IdeaGroup{},
		&models.IdeaGroupMember{},
		&models.IdeaGroupMessage{},
		&models.UserLike{},
		&models.UserMatch{},
		&models.VerificationToken{},
		&models.TrendCache{},
		&models.PushSubscription{},
		&models.Setting{},
	); err != nil {
		return nil, err
	}

	return db, nil
}

// OwnedBy injects the caller-id ownership predicate into a resource query.
// Every list/detail/update of user-owned rows must go through this scope so
// cross-tenant access is prevented by the query itself, never by a post-hoc
// filter in handler code.
func OwnedBy(userID string) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Where("user_id = ?", userID)
	}
}
