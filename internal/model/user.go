package model

import (
	"fmt"
	"time"
)

// User represents an authentication user. DisplayName is the public label
// stamped on published snapshots and comments.
type User struct {
	ID           string     `json:"id"`
	Username     string     `json:"username"`
	DisplayName  string     `json:"display_name,omitempty"`
	PasswordHash string     `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 8

// ValidatePassword checks password policy.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	return nil
}

// AuthorLabel returns the name shown on public content for this user:
// the display name if set, otherwise the username.
func (u *User) AuthorLabel() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}
