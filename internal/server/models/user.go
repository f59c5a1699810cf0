package models

import "time"

// User is an account record. Email is stored lowercase-normalized and is
// the sole identity key across the system.
type User struct {
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
