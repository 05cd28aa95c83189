package model

import "time"

// User represents an account record as stored in the `users` table.
// Cart lines and purchases live in their own tables keyed by the user
// ID; handlers assemble the full account view from the three.
//
// Fields:
//  ID           – primary key identifier of the account.
//  Name         – display name given at registration.
//  Email        – unique email address (stored lower-cased).
//  PasswordHash – bcrypt hashed password.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64    // users.id
	Name         string    // users.name
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}
