package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID                    int64      `json:"id" db:"id" example:"1"`
	Name                  string     `json:"name" db:"name" example:"Amine Jemal"`
	Identifier            string     `json:"identifier" db:"identifier" example:"amine.jemal"` // Unique login handle
	PasswordHash          string     `json:"-" db:"password_hash"`
	Role                  Role       `json:"role" db:"role" example:"student"`
	RefreshTokenHash      *string    `json:"-" db:"refresh_token_hash"`       // SHA-256 digest of the current refresh token (nullable)
	RefreshTokenExpiresAt *time.Time `json:"-" db:"refresh_token_expires_at"` // Expiry of the current refresh token (nullable)
	CreatedAt             time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt             time.Time  `json:"updatedAt" db:"updated_at"`
}
