package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SessionStore persists browser sessions for the cookie channel.
type SessionStore interface {
	Create(ctx context.Context, session Session) error
	Get(ctx context.Context, id string) (Session, error)
	Delete(ctx context.Context, id string) error
}

// Session is a server-side login session referenced by an opaque cookie value.
type Session struct {
	ID        string
	UserID    uuid.UUID
	Email     string
	UserName  string
	Roles     []string
	ExpiresAt time.Time
}
