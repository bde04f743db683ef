package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dtroode/obituary-server/internal/logger"
	"github.com/dtroode/obituary-server/internal/model"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Auth struct {
	userStore    model.UserStore
	sessionStore model.SessionStore
	tokenIssuer  model.TokenIssuer
	sessionTTL   time.Duration
	hashCost     int
	logger       *logger.Logger
	now          func() time.Time
}

func NewAuth(
	userStore model.UserStore,
	sessionStore model.SessionStore,
	tokenIssuer model.TokenIssuer,
	sessionTTL time.Duration,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		userStore:    userStore,
		sessionStore: sessionStore,
		tokenIssuer:  tokenIssuer,
		sessionTTL:   sessionTTL,
		hashCost:     bcrypt.DefaultCost,
		logger:       logger,
		now:          time.Now,
	}
}

// Register creates an account with the default user role and issues an access token for it.
func (a *Auth) Register(ctx context.Context, params model.RegisterParams) (model.AuthResult, error) {
	params.Email = strings.TrimSpace(params.Email)
	params.FirstName = strings.TrimSpace(params.FirstName)
	params.LastName = strings.TrimSpace(params.LastName)

	a.logger.Debug("Auth service: registering user", "email", params.Email)

	if err := validateRegistration(params); err != nil {
		return model.AuthResult{}, err
	}

	_, err := a.userStore.GetByEmail(ctx, params.Email)
	if err == nil {
		a.logger.Info("Auth service: user already exists", "email", params.Email)
		return model.AuthResult{}, model.ErrAlreadyExists
	}
	if !errors.Is(err, model.ErrNotFound) {
		return model.AuthResult{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	hash, err := hashPassword(params.Password, a.hashCost)
	if err != nil {
		return model.AuthResult{}, err
	}

	now := a.now().UTC()
	user, err := a.userStore.Create(ctx, model.User{
		ID:           uuid.New(),
		Email:        params.Email,
		UserName:     params.Email,
		FirstName:    params.FirstName,
		LastName:     params.LastName,
		PasswordHash: hash,
		Roles:        []string{model.RoleUser},
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if errors.Is(err, model.ErrAlreadyExists) {
			return model.AuthResult{}, err
		}
		a.logger.Error("Auth service: failed to create user", "email", params.Email, "error", err)
		return model.AuthResult{}, fmt.Errorf("failed to create user: %w", err)
	}

	a.logger.Info("Auth service: user registered", "user_id", user.ID)

	return a.issue(user)
}

// Login checks credentials and issues an access token.
func (a *Auth) Login(ctx context.Context, email, password string) (model.AuthResult, error) {
	user, err := a.authenticate(ctx, email, password)
	if err != nil {
		return model.AuthResult{}, err
	}

	return a.issue(user)
}

// Me returns the user with its current roles.
func (a *Auth) Me(ctx context.Context, userID uuid.UUID) (model.User, error) {
	user, err := a.userStore.GetByID(ctx, userID)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, nil
}

// StartSession checks credentials and opens a cookie session.
func (a *Auth) StartSession(ctx context.Context, email, password string) (model.Session, error) {
	user, err := a.authenticate(ctx, email, password)
	if err != nil {
		return model.Session{}, err
	}

	return a.OpenSession(ctx, user)
}

// OpenSession opens a cookie session for an already authenticated user.
func (a *Auth) OpenSession(ctx context.Context, user model.User) (model.Session, error) {
	session := model.Session{
		ID:        rand.Text(),
		UserID:    user.ID,
		Email:     user.Email,
		UserName:  user.UserName,
		Roles:     user.Roles,
		ExpiresAt: a.now().Add(a.sessionTTL),
	}

	if err := a.sessionStore.Create(ctx, session); err != nil {
		a.logger.Error("Auth service: failed to create session", "user_id", user.ID, "error", err)
		return model.Session{}, fmt.Errorf("failed to create session: %w", err)
	}

	a.logger.Debug("Auth service: session started", "user_id", user.ID)
	return session, nil
}

func (a *Auth) EndSession(ctx context.Context, sessionID string) error {
	if err := a.sessionStore.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// ResolveSession maps a session cookie value to a principal. Unknown and expired sessions
// yield model.ErrUnauthenticated; session store failures are returned as they are.
func (a *Auth) ResolveSession(ctx context.Context, sessionID string) (model.Principal, error) {
	session, err := a.sessionStore.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Principal{}, model.ErrUnauthenticated
		}
		return model.Principal{}, fmt.Errorf("failed to load session: %w", err)
	}

	return model.Principal{
		UserID:   session.UserID,
		Email:    session.Email,
		UserName: session.UserName,
		Roles:    session.Roles,
		Channel:  model.ChannelCookie,
	}, nil
}

// ResolveToken maps a bearer token to a principal.
func (a *Auth) ResolveToken(_ context.Context, token string) (model.Principal, error) {
	claims, err := a.tokenIssuer.Verify(token)
	if err != nil {
		return model.Principal{}, fmt.Errorf("%w: %w", model.ErrUnauthenticated, err)
	}

	return model.Principal{
		UserID:   claims.UserID,
		Email:    claims.Email,
		UserName: claims.UserName,
		Roles:    claims.Roles,
		Channel:  model.ChannelToken,
	}, nil
}

// authenticate returns model.ErrInvalidCredentials for unknown emails and wrong passwords alike.
func (a *Auth) authenticate(ctx context.Context, email, password string) (model.User, error) {
	email = strings.TrimSpace(email)

	user, err := a.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			a.logger.Info("Auth service: login for unknown email", "email", email)
			return model.User{}, model.ErrInvalidCredentials
		}
		return model.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	ok, err := checkPassword(user.PasswordHash, password)
	if err != nil {
		a.logger.Error("Auth service: failed to check password", "user_id", user.ID, "error", err)
		return model.User{}, model.ErrInvalidCredentials
	}
	if !ok {
		a.logger.Info("Auth service: wrong password", "user_id", user.ID)
		return model.User{}, model.ErrInvalidCredentials
	}

	return user, nil
}

func (a *Auth) issue(user model.User) (model.AuthResult, error) {
	token, err := a.tokenIssuer.Issue(user, user.Roles)
	if err != nil {
		return model.AuthResult{}, fmt.Errorf("failed to issue token: %w", err)
	}

	return model.AuthResult{Token: token, User: user}, nil
}
