package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dtroode/obituary-server/internal/model"
	"github.com/labstack/echo/v4"
)

const msgInvalidLogin = "Invalid login attempt."

type loginView struct {
	Email     string
	ReturnURL string
}

type registerView struct {
	Email     string
	FirstName string
	LastName  string
}

func (h *Site) LoginForm(c echo.Context) error {
	return h.render(c, http.StatusOK, "login", "Log in", nil, loginView{
		ReturnURL: safeReturnURL(c.QueryParam("returnUrl")),
	})
}

func (h *Site) Login(c echo.Context) error {
	email := c.FormValue("email")
	returnURL := safeReturnURL(c.FormValue("returnUrl"))

	session, err := h.authService.StartSession(c.Request().Context(), email, c.FormValue("password"))
	if err != nil {
		if errors.Is(err, model.ErrInvalidCredentials) {
			return h.render(c, http.StatusUnauthorized, "login", "Log in",
				map[string]string{"credentials": msgInvalidLogin},
				loginView{Email: email, ReturnURL: returnURL})
		}
		return h.renderError(c, err)
	}

	h.setSessionCookie(c, session)
	h.logger.Info("Site handler: user logged in", "user_id", session.UserID)

	if returnURL == "" {
		returnURL = listPath
	}
	return c.Redirect(http.StatusSeeOther, returnURL)
}

func (h *Site) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(h.cookie.Name); err == nil && cookie.Value != "" {
		if err := h.authService.EndSession(c.Request().Context(), cookie.Value); err != nil {
			h.logger.Warn("Site handler: failed to end session", "error", err.Error())
		}
	}

	c.SetCookie(&http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	return c.Redirect(http.StatusSeeOther, listPath)
}

func (h *Site) RegisterForm(c echo.Context) error {
	return h.render(c, http.StatusOK, "register", "Register", nil, registerView{})
}

// Register creates the account and logs the new user in.
func (h *Site) Register(c echo.Context) error {
	view := registerView{
		Email:     c.FormValue("email"),
		FirstName: c.FormValue("firstName"),
		LastName:  c.FormValue("lastName"),
	}
	password := c.FormValue("password")

	if password != c.FormValue("confirmPassword") {
		return h.render(c, http.StatusBadRequest, "register", "Register",
			map[string]string{"confirmPassword": "The password and confirmation password do not match."}, view)
	}

	res, err := h.authService.Register(c.Request().Context(), model.RegisterParams{
		Email:     view.Email,
		Password:  password,
		FirstName: view.FirstName,
		LastName:  view.LastName,
	})
	if err != nil {
		var verr *model.ValidationError
		switch {
		case errors.As(err, &verr):
			return h.render(c, http.StatusBadRequest, "register", "Register", verr.Fields, view)
		case errors.Is(err, model.ErrAlreadyExists):
			return h.render(c, http.StatusConflict, "register", "Register",
				map[string]string{"email": "Email '" + view.Email + "' is already taken."}, view)
		default:
			return h.renderError(c, err)
		}
	}

	session, err := h.authService.OpenSession(c.Request().Context(), res.User)
	if err != nil {
		return h.renderError(c, err)
	}
	h.setSessionCookie(c, session)

	return c.Redirect(http.StatusSeeOther, listPath)
}

func (h *Site) setSessionCookie(c echo.Context, session model.Session) {
	c.SetCookie(&http.Cookie{
		Name:     h.cookie.Name,
		Value:    session.ID,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// safeReturnURL keeps only same-site absolute paths.
func safeReturnURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") {
		return ""
	}
	return raw
}
