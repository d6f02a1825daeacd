package user

import "errors"

var (
	ErrNotFound        = errors.New("user not found")
	ErrDuplicate       = errors.New("user already exists")
	ErrInvalidEmail    = errors.New("invalid email")
	ErrInvalidUsername = errors.New("username must be at least 3 characters")
	ErrInvalidPassword = errors.New("password must be at least 6 characters")
)
