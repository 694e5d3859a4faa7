package domain

import "time"

// User represents a person who can author and perform tasks.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username,omitempty"`
	Name         string    `json:"name"`
	Avatar       *string   `json:"ava"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Profile is the editable part of a user.
type Profile struct {
	Name   string  `json:"name"`
	Avatar *string `json:"ava"`
}

func (u *User) Profile() Profile {
	if u == nil {
		return Profile{}
	}
	return Profile{Name: u.Name, Avatar: u.Avatar}
}
