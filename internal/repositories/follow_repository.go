package repositories

import (
	"context"

	"github.com/warbler-app/backend/internal/models"
	"gorm.io/gorm"
)

// FollowRepository defines the interface for follow data operations.
// Both directions are read from the single follows table.
type FollowRepository interface {
	CreateFollow(ctx context.Context, followerID, followedID uint) error
	DeleteFollow(ctx context.Context, followerID, followedID uint) error
	IsFollowing(ctx context.Context, userID, otherID uint) (bool, error)
	IsFollowedBy(ctx context.Context, userID, otherID uint) (bool, error)
	GetFollowers(ctx context.Context, userID uint) ([]models.User, error)
	GetFollowing(ctx context.Context, userID uint) ([]models.User, error)
	GetFollowersCount(ctx context.Context, userID uint) (int64, error)
	GetFollowingCount(ctx context.Context, userID uint) (int64, error)
	GetFollowingIDs(ctx context.Context, userID uint) ([]uint, error)
}

// PostgresFollowRepository implements FollowRepository with gorm
type PostgresFollowRepository struct {
	db *gorm.DB
}

// NewPostgresFollowRepository creates a new PostgresFollowRepository
func NewPostgresFollowRepository(db *gorm.DB) *PostgresFollowRepository {
	return &PostgresFollowRepository{db: db}
}

func (r *PostgresFollowRepository) CreateFollow(ctx context.Context, followerID, followedID uint) error {
	follow := &models.Follow{FollowerID: followerID, FollowedID: followedID}
	return classify(r.db.WithContext(ctx).Create(follow).Error)
}

func (r *PostgresFollowRepository) DeleteFollow(ctx context.Context, followerID, followedID uint) error {
	res := r.db.WithContext(ctx).
		Where("user_following_id = ? AND user_being_followed_id = ?", followerID, followedID).
		Delete(&models.Follow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// IsFollowing reports whether userID follows otherID.
func (r *PostgresFollowRepository) IsFollowing(ctx context.Context, userID, otherID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("user_following_id = ? AND user_being_followed_id = ?", userID, otherID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// IsFollowedBy reports whether otherID follows userID.
func (r *PostgresFollowRepository) IsFollowedBy(ctx context.Context, userID, otherID uint) (bool, error) {
	return r.IsFollowing(ctx, otherID, userID)
}

func (r *PostgresFollowRepository) GetFollowers(ctx context.Context, userID uint) ([]models.User, error) {
	var users []models.User
	db := r.db.WithContext(ctx)
	err := db.Where("id IN (?)",
		db.Model(&models.Follow{}).Select("user_following_id").Where("user_being_followed_id = ?", userID),
	).Order("id").Find(&users).Error
	return users, err
}

func (r *PostgresFollowRepository) GetFollowing(ctx context.Context, userID uint) ([]models.User, error) {
	var users []models.User
	db := r.db.WithContext(ctx)
	err := db.Where("id IN (?)",
		db.Model(&models.Follow{}).Select("user_being_followed_id").Where("user_following_id = ?", userID),
	).Order("id").Find(&users).Error
	return users, err
}

func (r *PostgresFollowRepository) GetFollowersCount(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).Where("user_being_followed_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *PostgresFollowRepository) GetFollowingCount(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).Where("user_following_id = ?", userID).Count(&count).Error
	return count, err
}

func (r *PostgresFollowRepository) GetFollowingIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Follow{}).Where("user_following_id = ?", userID).Pluck("user_being_followed_id", &ids).Error
	return ids, err
}
