package domain

import (
	"errors"
	"time"
)

var (
	ErrUnauthorizedEmail = errors.New("unauthorized email")
	ErrTokenInvalid      = errors.New("invalid token")
	ErrTokenExpired      = errors.New("token expired")
)

// MagicToken is what the token store keeps per issued link. The raw token
// value itself is the lookup key and is never persisted anywhere else.
type MagicToken struct {
	Email     string
	ExpiresAt time.Time
}
