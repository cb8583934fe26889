package repositories

import (
	"context"

	"github.com/warbler-app/backend/internal/models"
	"gorm.io/gorm"
)

// MessageRepository defines the interface for message data operations
type MessageRepository interface {
	CreateMessage(ctx context.Context, message *models.Message) error
	GetMessageByID(ctx context.Context, id uint) (*models.Message, error)
	GetMessagesByUserID(ctx context.Context, userID uint, limit int) ([]models.Message, error)
	GetTimeline(ctx context.Context, userIDs []uint, limit int) ([]models.Message, error)
	CountByUserID(ctx context.Context, userID uint) (int64, error)
	DeleteOwnedMessage(ctx context.Context, id, ownerID uint) (bool, error)
}

// PostgresMessageRepository implements MessageRepository with gorm
type PostgresMessageRepository struct {
	db *gorm.DB
}

// NewPostgresMessageRepository creates a new PostgresMessageRepository
func NewPostgresMessageRepository(db *gorm.DB) *PostgresMessageRepository {
	return &PostgresMessageRepository{db: db}
}

// CreateMessage inserts a message. An unknown owner is a ViolationReference.
func (r *PostgresMessageRepository) CreateMessage(ctx context.Context, message *models.Message) error {
	return classify(r.db.WithContext(ctx).Omit("User").Create(message).Error)
}

// GetMessageByID loads a message with its author.
func (r *PostgresMessageRepository) GetMessageByID(ctx context.Context, id uint) (*models.Message, error) {
	var message models.Message
	if err := r.db.WithContext(ctx).Preload("User").First(&message, id).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

// GetMessagesByUserID returns a user's messages, newest first.
func (r *PostgresMessageRepository) GetMessagesByUserID(ctx context.Context, userID uint, limit int) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp DESC, id DESC").
		Limit(limit).
		Find(&messages).Error
	return messages, err
}

// GetTimeline returns the newest messages written by any of userIDs.
func (r *PostgresMessageRepository) GetTimeline(ctx context.Context, userIDs []uint, limit int) ([]models.Message, error) {
	var messages []models.Message
	if len(userIDs) == 0 {
		return messages, nil
	}
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id IN ?", userIDs).
		Order("timestamp DESC, id DESC").
		Limit(limit).
		Find(&messages).Error
	return messages, err
}

func (r *PostgresMessageRepository) CountByUserID(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Message{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// DeleteOwnedMessage deletes the message only if ownerID wrote it. It reports
// whether a row was removed.
func (r *PostgresMessageRepository) DeleteOwnedMessage(ctx context.Context, id, ownerID uint) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, ownerID).Delete(&models.Message{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
