package mocks

import (
	"context"

	"github.com/dtroode/obituary-server/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// AuthService is a mock type for the handler.AuthService type.
type AuthService struct {
	mock.Mock
}

func (_m *AuthService) Register(ctx context.Context, params model.RegisterParams) (model.AuthResult, error) {
	ret := _m.Called(ctx, params)
	return ret.Get(0).(model.AuthResult), ret.Error(1)
}

func (_m *AuthService) Login(ctx context.Context, email, password string) (model.AuthResult, error) {
	ret := _m.Called(ctx, email, password)
	return ret.Get(0).(model.AuthResult), ret.Error(1)
}

func (_m *AuthService) Me(ctx context.Context, userID uuid.UUID) (model.User, error) {
	ret := _m.Called(ctx, userID)
	return ret.Get(0).(model.User), ret.Error(1)
}

func (_m *AuthService) StartSession(ctx context.Context, email, password string) (model.Session, error) {
	ret := _m.Called(ctx, email, password)
	return ret.Get(0).(model.Session), ret.Error(1)
}

func (_m *AuthService) OpenSession(ctx context.Context, user model.User) (model.Session, error) {
	ret := _m.Called(ctx, user)
	return ret.Get(0).(model.Session), ret.Error(1)
}

func (_m *AuthService) EndSession(ctx context.Context, sessionID string) error {
	ret := _m.Called(ctx, sessionID)
	return ret.Error(0)
}

// NewAuthService creates a new instance of AuthService. It also registers a testing interface on the mock
// and a cleanup function to assert the mocks expectations.
func NewAuthService(t testingT) *AuthService {
	m := &AuthService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// ObituaryService is a mock type for the handler.ObituaryService type.
type ObituaryService struct {
	mock.Mock
}

func (_m *ObituaryService) List(ctx context.Context, filter model.ObituaryFilter) (model.ObituaryPage, error) {
	ret := _m.Called(ctx, filter)
	return ret.Get(0).(model.ObituaryPage), ret.Error(1)
}

func (_m *ObituaryService) Get(ctx context.Context, id uuid.UUID) (model.Obituary, error) {
	ret := _m.Called(ctx, id)
	return ret.Get(0).(model.Obituary), ret.Error(1)
}

func (_m *ObituaryService) GetForModification(ctx context.Context, actor *model.Principal, id uuid.UUID) (model.Obituary, error) {
	ret := _m.Called(ctx, actor, id)
	return ret.Get(0).(model.Obituary), ret.Error(1)
}

func (_m *ObituaryService) Create(ctx context.Context, actor *model.Principal, input model.ObituaryInput, photo *model.Upload) (model.Obituary, error) {
	ret := _m.Called(ctx, actor, input, photo)
	return ret.Get(0).(model.Obituary), ret.Error(1)
}

func (_m *ObituaryService) Update(ctx context.Context, actor *model.Principal, id uuid.UUID, input model.ObituaryInput, photo *model.Upload) (model.Obituary, error) {
	ret := _m.Called(ctx, actor, id, input, photo)
	return ret.Get(0).(model.Obituary), ret.Error(1)
}

func (_m *ObituaryService) Delete(ctx context.Context, actor *model.Principal, id uuid.UUID) error {
	ret := _m.Called(ctx, actor, id)
	return ret.Error(0)
}

// NewObituaryService creates a new instance of ObituaryService. It also registers a testing interface on the mock
// and a cleanup function to assert the mocks expectations.
func NewObituaryService(t testingT) *ObituaryService {
	m := &ObituaryService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
