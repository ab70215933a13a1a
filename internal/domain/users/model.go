package users

import "time"

// User es una cuenta de acceso (admin o peluquera).
type User struct {
	ID           string
	Username     string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
