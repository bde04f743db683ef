package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dtroode/obituary-server/internal/mocks"
	"github.com/dtroode/obituary-server/internal/model"
	"github.com/dtroode/obituary-server/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testPassword = "P@$$w0rd"

func newTestAuth(t *testing.T) (*Auth, *mocks.UserStore, *mocks.SessionStore, *mocks.TokenIssuer) {
	t.Helper()

	userStore := mocks.NewUserStore(t)
	sessionStore := mocks.NewSessionStore(t)
	tokenIssuer := mocks.NewTokenIssuer(t)

	a := NewAuth(userStore, sessionStore, tokenIssuer, time.Hour, testutil.MakeNoopLogger())
	a.hashCost = bcrypt.MinCost
	a.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }

	return a, userStore, sessionStore, tokenIssuer
}

func existingUser(t *testing.T, roles ...string) model.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	return model.User{
		ID:           uuid.New(),
		Email:        "uu@uu.uu",
		UserName:     "uu@uu.uu",
		FirstName:    "Regular",
		LastName:     "User",
		PasswordHash: hash,
		Roles:        roles,
	}
}

func TestAuth_Register(t *testing.T) {
	t.Parallel()

	a, userStore, _, tokenIssuer := newTestAuth(t)
	ctx := context.Background()

	userStore.On("GetByEmail", mock.Anything, "new@user.com").Return(model.User{}, model.ErrNotFound)
	userStore.On("Create", mock.Anything, mock.MatchedBy(func(u model.User) bool {
		return u.Email == "new@user.com" &&
			u.UserName == "new@user.com" &&
			u.FirstName == "New" &&
			len(u.Roles) == 1 && u.Roles[0] == model.RoleUser &&
			bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(testPassword)) == nil
	})).Return(func(_ context.Context, u model.User) model.User { return u }, nil)
	tokenIssuer.On("Issue", mock.Anything, []string{model.RoleUser}).Return("signed-token", nil)

	res, err := a.Register(ctx, model.RegisterParams{
		Email:     " new@user.com ",
		Password:  testPassword,
		FirstName: "New",
		LastName:  "User",
	})
	require.NoError(t, err)
	assert.Equal(t, "signed-token", res.Token)
	assert.Equal(t, "new@user.com", res.User.Email)
	assert.NotEqual(t, uuid.Nil, res.User.ID)
}

func TestAuth_Register_Duplicate(t *testing.T) {
	t.Parallel()

	a, userStore, _, _ := newTestAuth(t)
	userStore.On("GetByEmail", mock.Anything, "uu@uu.uu").Return(existingUser(t, model.RoleUser), nil)

	_, err := a.Register(context.Background(), model.RegisterParams{
		Email: "uu@uu.uu", Password: testPassword, FirstName: "A", LastName: "B",
	})
	assert.ErrorIs(t, err, model.ErrAlreadyExists)
}

func TestAuth_Register_RaceOnCreate(t *testing.T) {
	t.Parallel()

	a, userStore, _, _ := newTestAuth(t)
	userStore.On("GetByEmail", mock.Anything, "uu@uu.uu").Return(model.User{}, model.ErrNotFound)
	userStore.On("Create", mock.Anything, mock.Anything).Return(model.User{}, model.ErrAlreadyExists)

	_, err := a.Register(context.Background(), model.RegisterParams{
		Email: "uu@uu.uu", Password: testPassword, FirstName: "A", LastName: "B",
	})
	assert.ErrorIs(t, err, model.ErrAlreadyExists)
}

func TestAuth_Register_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		params model.RegisterParams
		field  string
	}{
		{
			name:   "bad email",
			params: model.RegisterParams{Email: "nope", Password: testPassword, FirstName: "A", LastName: "B"},
			field:  "email",
		},
		{
			name:   "short password",
			params: model.RegisterParams{Email: "a@b.cd", Password: "P@1a", FirstName: "A", LastName: "B"},
			field:  "password",
		},
		{
			name:   "weak password",
			params: model.RegisterParams{Email: "a@b.cd", Password: "password123", FirstName: "A", LastName: "B"},
			field:  "password",
		},
		{
			name:   "missing last name",
			params: model.RegisterParams{Email: "a@b.cd", Password: testPassword, FirstName: "A"},
			field:  "lastName",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			a, _, _, _ := newTestAuth(t)

			_, err := a.Register(context.Background(), tt.params)
			var verr *model.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.field)
		})
	}
}

func TestAuth_Login(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		password string
		found    bool
		wantErr  error
	}{
		{name: "success", password: testPassword, found: true},
		{name: "wrong password", password: "Wr0ng!pass", found: true, wantErr: model.ErrInvalidCredentials},
		{name: "unknown email", password: testPassword, found: false, wantErr: model.ErrInvalidCredentials},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			a, userStore, _, tokenIssuer := newTestAuth(t)
			user := existingUser(t, model.RoleUser)

			if tt.found {
				userStore.On("GetByEmail", mock.Anything, user.Email).Return(user, nil)
			} else {
				userStore.On("GetByEmail", mock.Anything, user.Email).Return(model.User{}, model.ErrNotFound)
			}
			if tt.wantErr == nil {
				tokenIssuer.On("Issue", user, user.Roles).Return("tok", nil)
			}

			res, err := a.Login(context.Background(), user.Email, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "tok", res.Token)
			assert.Equal(t, user.ID, res.User.ID)
		})
	}
}

func TestAuth_Login_StoreFailure(t *testing.T) {
	t.Parallel()

	a, userStore, _, _ := newTestAuth(t)
	userStore.On("GetByEmail", mock.Anything, "uu@uu.uu").Return(model.User{}, errors.New("connection refused"))

	_, err := a.Login(context.Background(), "uu@uu.uu", testPassword)
	require.Error(t, err)
	assert.NotErrorIs(t, err, model.ErrInvalidCredentials)
}

func TestAuth_StartSession(t *testing.T) {
	t.Parallel()

	a, userStore, sessionStore, _ := newTestAuth(t)
	user := existingUser(t, model.RoleUser, model.RoleAdmin)

	userStore.On("GetByEmail", mock.Anything, user.Email).Return(user, nil)
	sessionStore.On("Create", mock.Anything, mock.MatchedBy(func(s model.Session) bool {
		return s.ID != "" &&
			s.UserID == user.ID &&
			s.ExpiresAt.Equal(time.Date(2024, 5, 1, 13, 0, 0, 0, time.UTC))
	})).Return(nil)

	session, err := a.StartSession(context.Background(), user.Email, testPassword)
	require.NoError(t, err)
	assert.Equal(t, user.ID, session.UserID)
	assert.Equal(t, []string{model.RoleUser, model.RoleAdmin}, session.Roles)
}

func TestAuth_StartSession_BadPassword(t *testing.T) {
	t.Parallel()

	a, userStore, _, _ := newTestAuth(t)
	user := existingUser(t, model.RoleUser)
	userStore.On("GetByEmail", mock.Anything, user.Email).Return(user, nil)

	_, err := a.StartSession(context.Background(), user.Email, "nope")
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
}

func TestAuth_OpenSession_StoreFailure(t *testing.T) {
	t.Parallel()

	a, _, sessionStore, _ := newTestAuth(t)
	sessionStore.On("Create", mock.Anything, mock.Anything).Return(errors.New("redis down"))

	_, err := a.OpenSession(context.Background(), existingUser(t, model.RoleUser))
	require.Error(t, err)
}

func TestAuth_EndSession(t *testing.T) {
	t.Parallel()

	a, _, sessionStore, _ := newTestAuth(t)
	sessionStore.On("Delete", mock.Anything, "sid").Return(nil)

	require.NoError(t, a.EndSession(context.Background(), "sid"))
}

func TestAuth_ResolveSession(t *testing.T) {
	t.Parallel()

	a, _, sessionStore, _ := newTestAuth(t)
	userID := uuid.New()

	sessionStore.On("Get", mock.Anything, "good").Return(model.Session{
		ID: "good", UserID: userID, Email: "uu@uu.uu", UserName: "uu@uu.uu", Roles: []string{model.RoleUser},
	}, nil)
	sessionStore.On("Get", mock.Anything, "gone").Return(model.Session{}, model.ErrNotFound)
	sessionStore.On("Get", mock.Anything, "broken").Return(model.Session{}, errors.New("redis down"))

	p, err := a.ResolveSession(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, userID, p.UserID)
	assert.Equal(t, model.ChannelCookie, p.Channel)

	_, err = a.ResolveSession(context.Background(), "gone")
	assert.ErrorIs(t, err, model.ErrUnauthenticated)

	_, err = a.ResolveSession(context.Background(), "broken")
	require.Error(t, err)
	assert.NotErrorIs(t, err, model.ErrUnauthenticated)
	assert.Contains(t, err.Error(), "redis down")
}

func TestAuth_ResolveToken(t *testing.T) {
	t.Parallel()

	a, _, _, tokenIssuer := newTestAuth(t)
	userID := uuid.New()

	tokenIssuer.On("Verify", "good").Return(model.Claims{UserID: userID, Email: "aa@aa.aa", Roles: []string{model.RoleAdmin}}, nil)
	tokenIssuer.On("Verify", "bad").Return(model.Claims{}, model.ErrInvalidToken)

	p, err := a.ResolveToken(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, userID, p.UserID)
	assert.Equal(t, model.ChannelToken, p.Channel)
	assert.True(t, p.IsAdmin())

	_, err = a.ResolveToken(context.Background(), "bad")
	assert.ErrorIs(t, err, model.ErrUnauthenticated)
	assert.ErrorIs(t, err, model.ErrInvalidToken)
}

func TestAuth_Me(t *testing.T) {
	t.Parallel()

	a, userStore, _, _ := newTestAuth(t)
	user := existingUser(t, model.RoleUser)

	userStore.On("GetByID", mock.Anything, user.ID).Return(user, nil)
	userStore.On("GetByID", mock.Anything, mock.Anything).Return(model.User{}, model.ErrNotFound)

	got, err := a.Me(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, got.Email)

	_, err = a.Me(context.Background(), uuid.New())
	assert.ErrorIs(t, err, model.ErrNotFound)
}
