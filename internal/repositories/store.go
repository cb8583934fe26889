package repositories

import (
	"context"
	"fmt"

	"github.com/warbler-app/backend/internal/models"
	"gorm.io/gorm"
)

// Store bundles the relational repositories over one gorm handle so a handler
// can run several of them inside a single transaction.
type Store struct {
	db       *gorm.DB
	Users    UserRepository
	Messages MessageRepository
	Follows  FollowRepository
	Likes    LikeRepository
}

// NewStore creates a Store whose repositories share db
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:       db,
		Users:    NewPostgresUserRepository(db),
		Messages: NewPostgresMessageRepository(db),
		Follows:  NewPostgresFollowRepository(db),
		Likes:    NewPostgresLikeRepository(db),
	}
}

// Transaction runs fn with repositories bound to one database transaction.
// It commits when fn returns nil and rolls back otherwise.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// AutoMigrate creates or updates the Warbler schema.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Message{},
		&models.Follow{},
		&models.Like{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
