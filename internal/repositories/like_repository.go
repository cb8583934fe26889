package repositories

import (
	"context"

	"github.com/warbler-app/backend/internal/models"
	"gorm.io/gorm"
)

// LikeRepository defines the interface for like data operations
type LikeRepository interface {
	CreateLike(ctx context.Context, userID, messageID uint) error
	DeleteLike(ctx context.Context, userID, messageID uint) error
	HasUserLiked(ctx context.Context, userID, messageID uint) (bool, error)
	GetLikesByUserID(ctx context.Context, userID uint) ([]models.Like, error)
	GetLikedMessageIDs(ctx context.Context, userID uint) ([]uint, error)
	GetLikedMessages(ctx context.Context, userID uint) ([]models.Message, error)
}

// PostgresLikeRepository implements LikeRepository with gorm
type PostgresLikeRepository struct {
	db *gorm.DB
}

// NewPostgresLikeRepository creates a new PostgresLikeRepository
func NewPostgresLikeRepository(db *gorm.DB) *PostgresLikeRepository {
	return &PostgresLikeRepository{db: db}
}

// CreateLike adds the (user, message) edge. A second like of the same message
// is a ViolationUnique; an unknown user or message is a ViolationReference.
func (r *PostgresLikeRepository) CreateLike(ctx context.Context, userID, messageID uint) error {
	like := &models.Like{UserID: userID, MessageID: messageID}
	return classify(r.db.WithContext(ctx).Create(like).Error)
}

func (r *PostgresLikeRepository) DeleteLike(ctx context.Context, userID, messageID uint) error {
	res := r.db.WithContext(ctx).Where("user_id = ? AND message_id = ?", userID, messageID).Delete(&models.Like{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *PostgresLikeRepository) HasUserLiked(ctx context.Context, userID, messageID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Like{}).Where("user_id = ? AND message_id = ?", userID, messageID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresLikeRepository) GetLikesByUserID(ctx context.Context, userID uint) ([]models.Like, error) {
	var likes []models.Like
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&likes).Error; err != nil {
		return nil, err
	}
	return likes, nil
}

func (r *PostgresLikeRepository) GetLikedMessageIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Like{}).Where("user_id = ?", userID).Pluck("message_id", &ids).Error
	return ids, err
}

// GetLikedMessages returns the messages userID likes, newest first, with authors.
func (r *PostgresLikeRepository) GetLikedMessages(ctx context.Context, userID uint) ([]models.Message, error) {
	var messages []models.Message
	db := r.db.WithContext(ctx)
	err := db.Preload("User").
		Where("id IN (?)", db.Model(&models.Like{}).Select("message_id").Where("user_id = ?", userID)).
		Order("timestamp DESC, id DESC").
		Find(&messages).Error
	return messages, err
}
