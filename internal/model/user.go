// Package model contains the row structs and response shapes shared across
// repositories and HTTP handlers.
package model

import "time"

// User is an administrative account. The password hash never leaves the
// server thanks to the "-" tag.
type User struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	IsActive       bool      `json:"is_active"`
	IsSuperuser    bool      `json:"is_superuser"`
	CreatedAt      time.Time `json:"created_at"`
}
