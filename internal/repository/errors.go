// Package repository holds the queries behind every endpoint. Functions that
// read or write owned records take the caller's user ID explicitly so a query
// can't forget to scope itself.
package repository

import "errors"

var (
	ErrEmailEmpty         = errors.New("user must have an email address")
	ErrEmailTaken         = errors.New("user with this email already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserInactive       = errors.New("user inactive or deleted")
	ErrInvalidCredentials = errors.New("unable to authenticate with provided credentials")
	ErrRecipeNotFound     = errors.New("recipe not found")
	ErrTokenNotFound      = errors.New("token not found")
)
