package mocks

import (
	"context"

	"github.com/dtroode/obituary-server/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// UserStore is a mock type for the model.UserStore type.
type UserStore struct {
	mock.Mock
}

func (_m *UserStore) GetByEmail(ctx context.Context, email string) (model.User, error) {
	ret := _m.Called(ctx, email)
	return ret.Get(0).(model.User), ret.Error(1)
}

func (_m *UserStore) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	ret := _m.Called(ctx, id)
	return ret.Get(0).(model.User), ret.Error(1)
}

func (_m *UserStore) Create(ctx context.Context, user model.User) (model.User, error) {
	ret := _m.Called(ctx, user)
	if rf, ok := ret.Get(0).(func(context.Context, model.User) model.User); ok {
		return rf(ctx, user), ret.Error(1)
	}
	return ret.Get(0).(model.User), ret.Error(1)
}

func (_m *UserStore) AddRole(ctx context.Context, userID uuid.UUID, role string) error {
	ret := _m.Called(ctx, userID, role)
	return ret.Error(0)
}

func (_m *UserStore) GetRoles(ctx context.Context, userID uuid.UUID) ([]string, error) {
	ret := _m.Called(ctx, userID)
	roles, _ := ret.Get(0).([]string)
	return roles, ret.Error(1)
}

// NewUserStore creates a new instance of UserStore. It also registers a testing interface on the mock
// and a cleanup function to assert the mocks expectations.
func NewUserStore(t testingT) *UserStore {
	m := &UserStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// ObituaryStore is a mock type for the model.ObituaryStore type.
type ObituaryStore struct {
	mock.Mock
}

func (_m *ObituaryStore) Create(ctx context.Context, obituary model.Obituary) (model.Obituary, error) {
	ret := _m.Called(ctx, obituary)
	if rf, ok := ret.Get(0).(func(context.Context, model.Obituary) model.Obituary); ok {
		return rf(ctx, obituary), ret.Error(1)
	}
	return ret.Get(0).(model.Obituary), ret.Error(1)
}

func (_m *ObituaryStore) GetByID(ctx context.Context, id uuid.UUID) (model.Obituary, error) {
	ret := _m.Called(ctx, id)
	return ret.Get(0).(model.Obituary), ret.Error(1)
}

func (_m *ObituaryStore) Update(ctx context.Context, obituary model.Obituary) (model.Obituary, error) {
	ret := _m.Called(ctx, obituary)
	if rf, ok := ret.Get(0).(func(context.Context, model.Obituary) model.Obituary); ok {
		return rf(ctx, obituary), ret.Error(1)
	}
	return ret.Get(0).(model.Obituary), ret.Error(1)
}

func (_m *ObituaryStore) Delete(ctx context.Context, id uuid.UUID) error {
	ret := _m.Called(ctx, id)
	return ret.Error(0)
}

func (_m *ObituaryStore) List(ctx context.Context, filter model.ObituaryFilter) ([]model.Obituary, int, error) {
	ret := _m.Called(ctx, filter)
	items, _ := ret.Get(0).([]model.Obituary)
	return items, ret.Int(1), ret.Error(2)
}

// NewObituaryStore creates a new instance of ObituaryStore. It also registers a testing interface on the mock
// and a cleanup function to assert the mocks expectations.
func NewObituaryStore(t testingT) *ObituaryStore {
	m := &ObituaryStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// SessionStore is a mock type for the model.SessionStore type.
type SessionStore struct {
	mock.Mock
}

func (_m *SessionStore) Create(ctx context.Context, session model.Session) error {
	ret := _m.Called(ctx, session)
	return ret.Error(0)
}

func (_m *SessionStore) Get(ctx context.Context, id string) (model.Session, error) {
	ret := _m.Called(ctx, id)
	return ret.Get(0).(model.Session), ret.Error(1)
}

func (_m *SessionStore) Delete(ctx context.Context, id string) error {
	ret := _m.Called(ctx, id)
	return ret.Error(0)
}

// NewSessionStore creates a new instance of SessionStore. It also registers a testing interface on the mock
// and a cleanup function to assert the mocks expectations.
func NewSessionStore(t testingT) *SessionStore {
	m := &SessionStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// AttachmentStore is a mock type for the model.AttachmentStore type.
type AttachmentStore struct {
	mock.Mock
}

func (_m *AttachmentStore) Store(ctx context.Context, upload model.Upload) (model.Locator, error) {
	ret := _m.Called(ctx, upload)
	return ret.Get(0).(model.Locator), ret.Error(1)
}

func (_m *AttachmentStore) Delete(ctx context.Context, locator model.Locator) {
	_m.Called(ctx, locator)
}

// NewAttachmentStore creates a new instance of AttachmentStore. It also registers a testing interface on the mock
// and a cleanup function to assert the mocks expectations.
func NewAttachmentStore(t testingT) *AttachmentStore {
	m := &AttachmentStore{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
