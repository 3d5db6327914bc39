package model

import "errors"

// Common errors returned by storage backends
var (
	// User errors
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")
)
