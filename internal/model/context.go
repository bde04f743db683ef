package model

import (
	"context"
	"slices"

	"github.com/google/uuid"
)

// AuthChannel identifies how a principal was authenticated.
type AuthChannel string

const (
	ChannelCookie AuthChannel = "cookie"
	ChannelToken  AuthChannel = "token"
)

// Principal is the authenticated actor of a request.
type Principal struct {
	UserID   uuid.UUID
	Email    string
	UserName string
	Roles    []string
	Channel  AuthChannel
}

// ActorID returns the principal's user ID, or nil for a nil principal.
func (p *Principal) ActorID() *uuid.UUID {
	if p == nil || p.UserID == uuid.Nil {
		return nil
	}
	id := p.UserID
	return &id
}

// RoleNames returns the principal's roles, or nil for a nil principal.
func (p *Principal) RoleNames() []string {
	if p == nil {
		return nil
	}
	return p.Roles
}

// IsAdmin reports whether the principal holds the admin role.
func (p *Principal) IsAdmin() bool {
	return p != nil && slices.Contains(p.Roles, RoleAdmin)
}

// ContextManager stores and retrieves the request principal.
type ContextManager interface {
	SetPrincipalToContext(ctx context.Context, principal Principal) context.Context
	GetPrincipalFromContext(ctx context.Context) (Principal, bool)
}
