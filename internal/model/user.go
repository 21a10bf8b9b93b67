package model

import (
	"errors"
	"time"
)

// DefaultBio is assigned to every new account.
const DefaultBio = "Just vibing on Pixora."

// Username and display name limits
const (
	MinUsernameLength    = 3
	MinDisplayNameLength = 2
)

// User represents a user in the system
type User struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"` // "-" hides from JSON output
	DisplayName  string    `db:"display_name" json:"displayName"`
	Bio          string    `db:"bio" json:"bio"`
	AvatarURL    *string   `db:"avatar_url" json:"avatarUrl"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// UserSummary is the author block embedded in post and comment views.
type UserSummary struct {
	ID          int64   `db:"id" json:"id"`
	Username    string  `db:"username" json:"username"`
	DisplayName string  `db:"display_name" json:"displayName"`
	AvatarURL   *string `db:"avatar_url" json:"avatarUrl"`
}

// Summary returns the public author block for u.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		AvatarURL:   u.AvatarURL,
	}
}

// UserStats backs the stats block of GET /me.
type UserStats struct {
	Posts      int `json:"posts"`
	LikesGiven int `json:"likesGiven"`
}

// MeResponse is the body of GET /me.
type MeResponse struct {
	*User
	Stats UserStats `json:"stats"`
}

// RegisterRequest represents the data needed to register a new user
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest represents the data needed to log in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// UpdateProfileRequest carries the optional fields of PUT /me. Nil means "leave unchanged".
type UpdateProfileRequest struct {
	DisplayName *string `json:"displayName"`
	Bio         *string `json:"bio"`
	AvatarURL   *string `json:"avatarUrl"`
}

var (
	// ErrUserNotFound is returned when a user cannot be found
	ErrUserNotFound = errors.New("user not found")

	// ErrUsernameExists is returned when attempting to create a user with a taken username
	ErrUsernameExists = errors.New("username already exists")

	// ErrInvalidCredentials is returned when login credentials are incorrect
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrUsernameTooShort    = errors.New("username must be at least 3 characters")
	ErrPasswordRequired    = errors.New("password is required")
	ErrDisplayNameTooShort = errors.New("display name too short")
)
