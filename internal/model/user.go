package model

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role names known to the application.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// UserStore defines persistence operations for users and their roles.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	Create(ctx context.Context, user User) (User, error)
	AddRole(ctx context.Context, userID uuid.UUID, role string) error
	GetRoles(ctx context.Context, userID uuid.UUID) ([]string, error)
}

// User represents a registered account.
type User struct {
	ID           uuid.UUID
	Email        string
	UserName     string
	FirstName    string
	LastName     string
	PasswordHash []byte
	Roles        []string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullName returns first and last name joined by a space.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// HasRole reports whether the user holds role.
func (u User) HasRole(role string) bool {
	return slices.Contains(u.Roles, role)
}
