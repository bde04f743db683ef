package mocks

import (
	"context"

	"github.com/dtroode/obituary-server/internal/model"
	"github.com/stretchr/testify/mock"
)

// TokenIssuer is a mock type for the model.TokenIssuer type.
type TokenIssuer struct {
	mock.Mock
}

func (_m *TokenIssuer) Issue(user model.User, roles []string) (string, error) {
	ret := _m.Called(user, roles)
	return ret.String(0), ret.Error(1)
}

func (_m *TokenIssuer) Verify(token string) (model.Claims, error) {
	ret := _m.Called(token)
	return ret.Get(0).(model.Claims), ret.Error(1)
}

// NewTokenIssuer creates a new instance of TokenIssuer. It also registers a testing interface on the mock
// and a cleanup function to assert the mocks expectations.
func NewTokenIssuer(t testingT) *TokenIssuer {
	m := &TokenIssuer{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// ContextManager is a mock type for the model.ContextManager type.
type ContextManager struct {
	mock.Mock
}

func (_m *ContextManager) SetPrincipalToContext(ctx context.Context, principal model.Principal) context.Context {
	ret := _m.Called(ctx, principal)
	return ret.Get(0).(context.Context)
}

func (_m *ContextManager) GetPrincipalFromContext(ctx context.Context) (model.Principal, bool) {
	ret := _m.Called(ctx)
	return ret.Get(0).(model.Principal), ret.Bool(1)
}

// NewContextManager creates a new instance of ContextManager. It also registers a testing interface on the mock
// and a cleanup function to assert the mocks expectations.
func NewContextManager(t testingT) *ContextManager {
	m := &ContextManager{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// IdentityResolver is a mock type for the middleware.IdentityResolver type.
type IdentityResolver struct {
	mock.Mock
}

func (_m *IdentityResolver) ResolveSession(ctx context.Context, sessionID string) (model.Principal, error) {
	ret := _m.Called(ctx, sessionID)
	return ret.Get(0).(model.Principal), ret.Error(1)
}

func (_m *IdentityResolver) ResolveToken(ctx context.Context, token string) (model.Principal, error) {
	ret := _m.Called(ctx, token)
	return ret.Get(0).(model.Principal), ret.Error(1)
}

// NewIdentityResolver creates a new instance of IdentityResolver. It also registers a testing interface on the mock
// and a cleanup function to assert the mocks expectations.
func NewIdentityResolver(t testingT) *IdentityResolver {
	m := &IdentityResolver{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
