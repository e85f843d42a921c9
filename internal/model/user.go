package model

import "time"

// User is a buyer registered on first contact with the bot.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	FirstName string    `json:"first_name"`
	CreatedAt time.Time `json:"created_at"`
}

// DisplayName returns a label for admin-facing views.
func (u *User) DisplayName() string {
	if u == nil || u.Username == "" {
		return "N/A"
	}
	return u.Username
}
