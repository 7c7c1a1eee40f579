package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// MaxBioLength is the longest bio a profile may carry, in characters.
const MaxBioLength = 300

type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Email     string    `json:"email" gorm:"size:255;not null;uniqueIndex"` // Stored trimmed and lower-cased
	Name      string    `json:"name" gorm:"size:100;not null;index"`
	Password  string    `json:"-" gorm:"not null"` // Hash only, never serialized
	Bio       string    `json:"bio" gorm:"size:300"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserCompact is the public subset of a user embedded in other payloads
type UserCompact struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func (u *User) ToCompact() UserCompact {
	return UserCompact{ID: u.ID, Name: u.Name}
}

type CreateLocalUserRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateUserRequest struct {
	Name string  `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Bio  *string `json:"bio,omitempty"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
