package service

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("session not found")
	ErrForbidden          = errors.New("forbidden")
	ErrNotJoinable        = errors.New("session is not joinable (full, completed, or host cannot join)")
	ErrAlreadyCompleted   = errors.New("session is already completed")
	ErrEmailInUse         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)
