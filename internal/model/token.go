package model

import (
	"time"

	"github.com/google/uuid"
)

// TokenIssuer builds and verifies signed access tokens for the JSON API.
type TokenIssuer interface {
	Issue(user User, roles []string) (string, error)
	Verify(token string) (Claims, error)
}

// Claims is the identity carried by a verified access token.
type Claims struct {
	UserID    uuid.UUID
	Email     string
	UserName  string
	Roles     []string
	ExpiresAt time.Time
}
