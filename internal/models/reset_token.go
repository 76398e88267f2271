package models

import "time"

// PasswordResetToken is the persisted half of a reset secret. Only the bcrypt
// hash of the secret is stored; the plaintext travels once, inside the emailed
// reset link.
type PasswordResetToken struct {
	ID        string
	UserID    string
	TokenHash string
	CreatedAt time.Time
}
