package models

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultImageURL       = "/static/images/default-pic.png"
	DefaultHeaderImageURL = "/static/images/warbler-hero.jpg"
)

// ErrPasswordRequired is returned by Signup before any hashing or storage happens.
var ErrPasswordRequired = errors.New("password must not be empty")

// PasswordCost is the bcrypt cost used by Signup. Overridden from config (and lowered in tests).
var PasswordCost = bcrypt.DefaultCost

// User is a Warbler account. Messages, follows and likes reference it by ID.
type User struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Email          string    `json:"email" gorm:"not null;uniqueIndex;check:chk_users_email,email <> ''"`
	Username       string    `json:"username" gorm:"not null;uniqueIndex;check:chk_users_username,username <> ''"`
	ImageURL       string    `json:"image_url"`
	HeaderImageURL string    `json:"header_image_url"`
	Bio            string    `json:"bio"`
	Location       string    `json:"location"`
	Password       string    `json:"-" gorm:"not null"` // bcrypt hash, never plaintext
	CreatedAt      time.Time `json:"created_at"`
}

// Signup builds a new, unsaved user with a hashed password. The caller commits it
// through the user repository; uniqueness and required fields are enforced there.
func Signup(username, email, password, imageURL string) (*User, error) {
	if password == "" {
		return nil, ErrPasswordRequired
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return nil, err
	}

	if imageURL == "" {
		imageURL = DefaultImageURL
	}

	return &User{
		Username:       username,
		Email:          email,
		Password:       string(hashed),
		ImageURL:       imageURL,
		HeaderImageURL: DefaultHeaderImageURL,
	}, nil
}

// CheckPassword reports whether password matches the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}

type SignupRequest struct {
	Username string `json:"username" form:"username" validate:"required,max=30"`
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required,min=6"`
	ImageURL string `json:"image_url" form:"image_url" validate:"omitempty,url"`
}

type LoginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// UpdateProfileRequest carries the editable profile fields; Password re-confirms identity.
type UpdateProfileRequest struct {
	Username       string `json:"username,omitempty" form:"username" validate:"omitempty,max=30"`
	Email          string `json:"email,omitempty" form:"email" validate:"omitempty,email"`
	ImageURL       string `json:"image_url,omitempty" form:"image_url" validate:"omitempty,url"`
	HeaderImageURL string `json:"header_image_url,omitempty" form:"header_image_url" validate:"omitempty,url"`
	Bio            string `json:"bio,omitempty" form:"bio" validate:"omitempty,max=280"`
	Location       string `json:"location,omitempty" form:"location" validate:"omitempty,max=100"`
	Password       string `json:"password" form:"password" validate:"required"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}
