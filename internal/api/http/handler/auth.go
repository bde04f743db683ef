package handler

import (
	"context"
	"net/http"

	"github.com/dtroode/obituary-server/internal/logger"
	"github.com/dtroode/obituary-server/internal/model"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// AuthService defines registration, login and session operations.
type AuthService interface {
	Register(ctx context.Context, params model.RegisterParams) (model.AuthResult, error)
	Login(ctx context.Context, email, password string) (model.AuthResult, error)
	Me(ctx context.Context, userID uuid.UUID) (model.User, error)
	StartSession(ctx context.Context, email, password string) (model.Session, error)
	OpenSession(ctx context.Context, user model.User) (model.Session, error)
	EndSession(ctx context.Context, sessionID string) error
}

// Auth handles the JSON API for accounts and access tokens.
type Auth struct {
	authService    AuthService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, contextManager model.ContextManager, logger *logger.Logger) *Auth {
	return &Auth{
		authService:    authService,
		contextManager: contextManager,
		logger:         logger,
	}
}

func (h *Auth) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "body", "malformed request body")
	}

	h.logger.Debug("Auth handler: processing registration request", "email", req.Email)

	res, err := h.authService.Register(c.Request().Context(), model.RegisterParams{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		h.logger.Info("Auth handler: registration failed", "email", req.Email, "error", err.Error())
		return handleError(c, err)
	}

	return c.JSON(http.StatusOK, authResponse{Token: res.Token, User: newUserResponse(res.User)})
}

func (h *Auth) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "body", "malformed request body")
	}

	res, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Info("Auth handler: login failed", "email", req.Email, "error", err.Error())
		return handleError(c, err)
	}

	h.logger.Info("Auth handler: login completed", "user_id", res.User.ID)
	return c.JSON(http.StatusOK, authResponse{Token: res.Token, User: newUserResponse(res.User)})
}

// Me returns the account behind the bearer token.
func (h *Auth) Me(c echo.Context) error {
	principal, ok := h.contextManager.GetPrincipalFromContext(c.Request().Context())
	if !ok {
		return handleError(c, model.ErrUnauthenticated)
	}

	user, err := h.authService.Me(c.Request().Context(), principal.UserID)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(http.StatusOK, newUserResponse(user))
}
