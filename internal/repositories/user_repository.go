package repositories

import (
	"context"
	"errors"
	"strings"

	"github.com/warbler-app/backend/internal/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	SearchUsers(ctx context.Context, query string) ([]models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id uint) error
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
}

// PostgresUserRepository implements UserRepository on top of gorm. The name
// reflects the production dialect; it runs unchanged on SQLite.
type PostgresUserRepository struct {
	db *gorm.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// CreateUser commits a user built by models.Signup. A taken or empty
// username/email comes back as *IntegrityError.
func (r *PostgresUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	return classify(r.db.WithContext(ctx).Create(user).Error)
}

func (r *PostgresUserRepository) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *PostgresUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *PostgresUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// SearchUsers matches usernames containing query, case-insensitively. An empty
// query lists everyone.
func (r *PostgresUserRepository) SearchUsers(ctx context.Context, query string) ([]models.User, error) {
	var users []models.User
	tx := r.db.WithContext(ctx).Order("username")
	if query != "" {
		tx = tx.Where(`LOWER(username) LIKE LOWER(?) ESCAPE '\'`, "%"+likeEscaper.Replace(query)+"%")
	}
	if err := tx.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *PostgresUserRepository) UpdateUser(ctx context.Context, user *models.User) error {
	return classify(r.db.WithContext(ctx).Save(user).Error)
}

// DeleteUser removes the user; messages, follows and likes go with it via ON DELETE CASCADE.
func (r *PostgresUserRepository) DeleteUser(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.User{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Authenticate returns the user only when the username exists and the password
// verifies. Both failure modes yield (nil, nil); errors are reserved for the store.
func (r *PostgresUserRepository) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := r.GetUserByUsername(ctx, username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !user.CheckPassword(password) {
		return nil, nil
	}
	return user, nil
}
