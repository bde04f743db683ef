package service

import (
	"context"
	"errors"
	"testing"

	"github.com/dtroode/obituary-server/internal/mocks"
	"github.com/dtroode/obituary-server/internal/model"
	"github.com/dtroode/obituary-server/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var seedAccounts = []SeedAccount{
	{Email: "aa@aa.aa", Password: testPassword, FirstName: "Admin", LastName: "User", Role: model.RoleAdmin},
	{Email: "uu@uu.uu", Password: testPassword, FirstName: "Regular", LastName: "User", Role: model.RoleUser},
}

func newTestSeeder(t *testing.T) (*Seeder, *mocks.UserStore) {
	t.Helper()

	userStore := mocks.NewUserStore(t)
	s := NewSeeder(userStore, seedAccounts, testutil.MakeNoopLogger())
	s.hashCost = bcrypt.MinCost
	return s, userStore
}

func TestSeeder_Seed_Creates(t *testing.T) {
	t.Parallel()

	s, userStore := newTestSeeder(t)

	userStore.On("GetByEmail", mock.Anything, mock.Anything).Return(model.User{}, model.ErrNotFound).Twice()
	userStore.On("Create", mock.Anything, mock.MatchedBy(func(u model.User) bool {
		return u.Email == "aa@aa.aa" && u.HasRole(model.RoleAdmin) &&
			bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(testPassword)) == nil
	})).Return(model.User{}, nil).Once()
	userStore.On("Create", mock.Anything, mock.MatchedBy(func(u model.User) bool {
		return u.Email == "uu@uu.uu" && u.HasRole(model.RoleUser) && !u.HasRole(model.RoleAdmin)
	})).Return(model.User{}, nil).Once()

	require.NoError(t, s.Seed(context.Background()))
}

func TestSeeder_Seed_Idempotent(t *testing.T) {
	t.Parallel()

	s, userStore := newTestSeeder(t)

	userStore.On("GetByEmail", mock.Anything, "aa@aa.aa").
		Return(model.User{ID: uuid.New(), Email: "aa@aa.aa", Roles: []string{model.RoleUser, model.RoleAdmin}}, nil)
	userStore.On("GetByEmail", mock.Anything, "uu@uu.uu").
		Return(model.User{ID: uuid.New(), Email: "uu@uu.uu", Roles: []string{model.RoleUser}}, nil)

	require.NoError(t, s.Seed(context.Background()))
	userStore.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSeeder_Seed_GrantsMissingRole(t *testing.T) {
	t.Parallel()

	s, userStore := newTestSeeder(t)
	adminID := uuid.New()

	userStore.On("GetByEmail", mock.Anything, "aa@aa.aa").
		Return(model.User{ID: adminID, Email: "aa@aa.aa", Roles: []string{model.RoleUser}}, nil)
	userStore.On("AddRole", mock.Anything, adminID, model.RoleAdmin).Return(nil)
	userStore.On("GetByEmail", mock.Anything, "uu@uu.uu").
		Return(model.User{ID: uuid.New(), Email: "uu@uu.uu", Roles: []string{model.RoleUser}}, nil)

	require.NoError(t, s.Seed(context.Background()))
}

func TestSeeder_Seed_ConcurrentCreateTolerated(t *testing.T) {
	t.Parallel()

	s, userStore := newTestSeeder(t)

	userStore.On("GetByEmail", mock.Anything, mock.Anything).Return(model.User{}, model.ErrNotFound)
	userStore.On("Create", mock.Anything, mock.Anything).Return(model.User{}, model.ErrAlreadyExists)

	assert.NoError(t, s.Seed(context.Background()))
}

func TestSeeder_Seed_StoreFailure(t *testing.T) {
	t.Parallel()

	s, userStore := newTestSeeder(t)
	userStore.On("GetByEmail", mock.Anything, "aa@aa.aa").Return(model.User{}, errors.New("db down"))

	err := s.Seed(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "aa@aa.aa")
}
