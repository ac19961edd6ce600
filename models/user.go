package models

import (
	"fmt"
	"time"
)

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// User is a Telegram-authenticated account. Users own the predictions and
// scorecards they submit.
type User struct {
	ID         int       `json:"id"`
	TelegramID int64     `json:"telegram_id"`
	Username   *string   `json:"username,omitempty"`
	FirstName  string    `json:"first_name"`
	LastName   *string   `json:"last_name,omitempty"`
	PhotoURL   *string   `json:"photo_url,omitempty"`
	AuthDate   time.Time `json:"auth_date"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// DisplayName prefers the @username, falling back to first/last name.
func (u *User) DisplayName() string {
	if u.Username != nil && *u.Username != "" {
		return "@" + *u.Username
	}
	if u.LastName != nil && *u.LastName != "" {
		return fmt.Sprintf("%s %s", u.FirstName, *u.LastName)
	}
	return u.FirstName
}
