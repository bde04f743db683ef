package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/dtroode/obituary-server/internal/logger"
	"github.com/dtroode/obituary-server/internal/model"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// SeedAccount describes a bootstrap account.
type SeedAccount struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      string
}

// Seeder creates bootstrap accounts once at startup.
type Seeder struct {
	userStore model.UserStore
	accounts  []SeedAccount
	hashCost  int
	logger    *logger.Logger
}

func NewSeeder(userStore model.UserStore, accounts []SeedAccount, logger *logger.Logger) *Seeder {
	return &Seeder{
		userStore: userStore,
		accounts:  accounts,
		hashCost:  bcrypt.DefaultCost,
		logger:    logger,
	}
}

// Seed creates every missing account and grants missing roles. Running it again is a no-op.
func (s *Seeder) Seed(ctx context.Context) error {
	for _, account := range s.accounts {
		if err := s.ensure(ctx, account); err != nil {
			return fmt.Errorf("failed to seed %s: %w", account.Email, err)
		}
	}
	return nil
}

func (s *Seeder) ensure(ctx context.Context, account SeedAccount) error {
	user, err := s.userStore.GetByEmail(ctx, account.Email)
	if err == nil {
		if slices.Contains(user.Roles, account.Role) {
			s.logger.Debug("Seeder: account already present", "email", account.Email)
			return nil
		}
		s.logger.Info("Seeder: granting missing role", "email", account.Email, "role", account.Role)
		return s.userStore.AddRole(ctx, user.ID, account.Role)
	}
	if !errors.Is(err, model.ErrNotFound) {
		return err
	}

	hash, err := hashPassword(account.Password, s.hashCost)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	_, err = s.userStore.Create(ctx, model.User{
		ID:           uuid.New(),
		Email:        account.Email,
		UserName:     account.Email,
		FirstName:    account.FirstName,
		LastName:     account.LastName,
		PasswordHash: hash,
		Roles:        []string{account.Role},
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if errors.Is(err, model.ErrAlreadyExists) {
		return nil
	}
	if err != nil {
		return err
	}

	s.logger.Info("Seeder: account created", "email", account.Email, "role", account.Role)
	return nil
}
