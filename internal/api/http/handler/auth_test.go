package handler

import (
	"net/http"
	"testing"

	httpcontext "github.com/dtroode/obituary-server/internal/api/http/context"
	"github.com/dtroode/obituary-server/internal/mocks"
	"github.com/dtroode/obituary-server/internal/model"
	"github.com/dtroode/obituary-server/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAuthHandler(t *testing.T) (*Auth, *mocks.AuthService) {
	t.Helper()

	svc := mocks.NewAuthService(t)
	return NewAuth(svc, httpcontext.NewManager(), testutil.MakeNoopLogger()), svc
}

func TestAuthHandler_Register(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
		wantBody   string
	}{
		{name: "success", wantStatus: http.StatusOK, wantBody: `"token":"signed"`},
		{name: "duplicate", serviceErr: model.ErrAlreadyExists, wantStatus: http.StatusConflict, wantBody: `"error"`},
		{
			name:       "weak password",
			serviceErr: model.NewValidationError("password", "the length must be between 8 and 100"),
			wantStatus: http.StatusBadRequest,
			wantBody:   `"password"`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h, svc := newAuthHandler(t)
			params := model.RegisterParams{Email: "new@user.com", Password: "P@$$w0rd", FirstName: "New", LastName: "User"}
			result := model.AuthResult{Token: "signed", User: model.User{ID: uuid.New(), Email: "new@user.com", Roles: []string{model.RoleUser}}}
			svc.On("Register", mock.Anything, params).Return(result, tt.serviceErr)

			body, ct := jsonBody(`{"email":"new@user.com","password":"P@$$w0rd","firstName":"New","lastName":"User"}`)
			c, rec := newTestContext(t, testRequest{method: http.MethodPost, target: "/api/auth/register", body: body, contentType: ct})

			require.NoError(t, h.Register(c))
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestAuthHandler_Login(t *testing.T) {
	t.Parallel()

	h, svc := newAuthHandler(t)
	user := model.User{ID: uuid.New(), Email: "uu@uu.uu", UserName: "uu@uu.uu", Roles: []string{model.RoleUser}}

	svc.On("Login", mock.Anything, "uu@uu.uu", "P@$$w0rd").Return(model.AuthResult{Token: "tok", User: user}, nil)
	svc.On("Login", mock.Anything, "uu@uu.uu", "wrong").Return(model.AuthResult{}, model.ErrInvalidCredentials)

	body, ct := jsonBody(`{"email":"uu@uu.uu","password":"P@$$w0rd"}`)
	c, rec := newTestContext(t, testRequest{method: http.MethodPost, target: "/api/auth/login", body: body, contentType: ct})
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"token":"tok"`)
	assert.Contains(t, rec.Body.String(), `"roles":["user"]`)

	body, ct = jsonBody(`{"email":"uu@uu.uu","password":"wrong"}`)
	c, rec = newTestContext(t, testRequest{method: http.MethodPost, target: "/api/auth/login", body: body, contentType: ct})
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandler_Login_MalformedBody(t *testing.T) {
	t.Parallel()

	h, _ := newAuthHandler(t)

	body, ct := jsonBody(`{"email":`)
	c, rec := newTestContext(t, testRequest{method: http.MethodPost, target: "/api/auth/login", body: body, contentType: ct})
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthHandler_Me(t *testing.T) {
	t.Parallel()

	h, svc := newAuthHandler(t)
	p := testPrincipal()
	svc.On("Me", mock.Anything, p.UserID).Return(model.User{ID: p.UserID, Email: "uu@uu.uu", Roles: []string{model.RoleUser}}, nil)

	c, rec := newTestContext(t, testRequest{method: http.MethodGet, target: "/api/auth/me", principal: p})
	require.NoError(t, h.Me(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"email":"uu@uu.uu"`)

	c, rec = newTestContext(t, testRequest{method: http.MethodGet, target: "/api/auth/me"})
	require.NoError(t, h.Me(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
