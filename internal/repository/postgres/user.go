package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/dtroode/obituary-server/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var _ model.UserStore = (*UserRepository)(nil)

type UserRepository struct {
	db *Connection
}

func NewUserRepository(db *Connection) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

// GetByEmail looks the user up case-insensitively.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	var user model.User
	query := `SELECT id, email, user_name, first_name, last_name, password_hash, created_at, updated_at
			  FROM users WHERE lower(email) = lower($1)`

	err := r.db.QueryRow(ctx, query, email).Scan(
		&user.ID, &user.Email, &user.UserName, &user.FirstName, &user.LastName,
		&user.PasswordHash, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	user.Roles, err = r.GetRoles(ctx, user.ID)
	if err != nil {
		return model.User{}, err
	}

	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	var user model.User
	query := `SELECT id, email, user_name, first_name, last_name, password_hash, created_at, updated_at
			  FROM users WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&user.ID, &user.Email, &user.UserName, &user.FirstName, &user.LastName,
		&user.PasswordHash, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	user.Roles, err = r.GetRoles(ctx, user.ID)
	if err != nil {
		return model.User{}, err
	}

	return user, nil
}

// Create inserts the user and its roles in one transaction.
func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := `INSERT INTO users (id, email, user_name, first_name, last_name, password_hash, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  RETURNING id, email, user_name, first_name, last_name, password_hash, created_at, updated_at`

	var saved model.User
	err = tx.QueryRow(ctx, query,
		user.ID, user.Email, user.UserName, user.FirstName, user.LastName,
		user.PasswordHash, user.CreatedAt, user.UpdatedAt,
	).Scan(
		&saved.ID, &saved.Email, &saved.UserName, &saved.FirstName, &saved.LastName,
		&saved.PasswordHash, &saved.CreatedAt, &saved.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.User{}, model.ErrAlreadyExists
		}
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	for _, role := range user.Roles {
		if _, err := tx.Exec(ctx, insertUserRoleQuery, saved.ID, role); err != nil {
			return model.User{}, fmt.Errorf("failed to assign role %s: %w", role, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return model.User{}, fmt.Errorf("failed to commit user: %w", err)
	}

	saved.Roles = append([]string(nil), user.Roles...)
	return saved, nil
}

const insertUserRoleQuery = `INSERT INTO user_roles (user_id, role) VALUES ($1, $2) ON CONFLICT DO NOTHING`

// AddRole grants role to the user. Granting a role twice is a no-op.
func (r *UserRepository) AddRole(ctx context.Context, userID uuid.UUID, role string) error {
	if _, err := r.db.Exec(ctx, insertUserRoleQuery, userID, role); err != nil {
		return fmt.Errorf("failed to add role: %w", err)
	}
	return nil
}

func (r *UserRepository) GetRoles(ctx context.Context, userID uuid.UUID) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT role FROM user_roles WHERE user_id = $1 ORDER BY role`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get roles: %w", err)
	}

	roles, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan roles: %w", err)
	}

	return roles, nil
}
