package model

import "time"

// User is a stored credential: a username and its bcrypt hash
// The plaintext password never leaves the credentials service
type User struct {
	Username     string    `json:"username"`
	PasswordHash []byte    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}
