// Package model defines the data structures shared across layers.
package model

import "time"

// User is a registered account.
//
// Email is stored lowercase — normalization happens in the service layer
// before any lookup or insert, so "A@x.com" and "a@x.com" refer to the same
// account. The database enforces uniqueness on the normalized value.
//
// PasswordHash carries the bcrypt digest, never the plaintext. The json:"-"
// tag keeps it out of every API response.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
