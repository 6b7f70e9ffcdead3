// Package models contains the server-side domain types shared by the
// repositories, services and the HTTP layer.
package models

import "time"

// User is the stored account record. PasswordHash never leaves the server:
// it is excluded from JSON and every outward representation goes through
// Public.
type User struct {
	ID           string
	Email        string
	PasswordHash string `json:"-"`
	Name         string
	IsActive     bool
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PublicUser is the client-facing view of a User.
type PublicUser struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	IsActive    bool       `json:"isActive"`
	LastLoginAt *time.Time `json:"lastLogin"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Public projects u to its client-facing view.
func (u *User) Public() *PublicUser {
	p := &PublicUser{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	if u.LastLoginAt != nil {
		t := *u.LastLoginAt
		p.LastLoginAt = &t
	}
	return p
}
