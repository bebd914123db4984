package model

import "time"

const (
	EntityName = "user"

	// HashKey is the hash holding every user record, keyed by username.
	HashKey = "users"
)

// User is the stored account record. Password holds the bcrypt hash, never the
// plaintext.
type User struct {
	Username  string    `json:"username"`
	Password  string    `json:"password"`
	CreatedAt time.Time `json:"createdAt"`
}
