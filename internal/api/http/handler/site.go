package handler

import (
	"net/http"
	"time"

	"github.com/dtroode/obituary-server/internal/authz"
	"github.com/dtroode/obituary-server/internal/logger"
	"github.com/dtroode/obituary-server/internal/model"
	"github.com/labstack/echo/v4"
)

const (
	displayDateLayout = "January 2, 2006"
	csrfContextKey    = "csrf"
	loginPath         = "/account/login"
	listPath          = "/obituaries"
)

// SessionCookie configures the cookie that carries the session id.
type SessionCookie struct {
	Name   string
	Secure bool
}

// Site handles the server-rendered pages.
type Site struct {
	obituaryService ObituaryService
	authService     AuthService
	contextManager  model.ContextManager
	cookie          SessionCookie
	maxUploadBytes  int64
	logger          *logger.Logger
}

// NewSite creates a new Site handler.
func NewSite(
	obituaryService ObituaryService,
	authService AuthService,
	contextManager model.ContextManager,
	cookie SessionCookie,
	maxUploadBytes int64,
	logger *logger.Logger,
) *Site {
	return &Site{
		obituaryService: obituaryService,
		authService:     authService,
		contextManager:  contextManager,
		cookie:          cookie,
		maxUploadBytes:  maxUploadBytes,
		logger:          logger,
	}
}

// viewData is the root value of every page template.
type viewData struct {
	Title     string
	Principal *model.Principal
	CSRF      string
	Errors    map[string]string
	Data      any
}

type obituaryView struct {
	ID              string
	FullName        string
	DateOfBirth     string
	DateOfDeath     string
	Biography       string
	PhotoURL        string
	SubmittedByName string
	CanModify       bool
}

func newObituaryView(o model.Obituary, actor *model.Principal) obituaryView {
	return obituaryView{
		ID:              o.ID.String(),
		FullName:        o.FullName,
		DateOfBirth:     displayDate(o.DateOfBirth),
		DateOfDeath:     displayDate(o.DateOfDeath),
		Biography:       o.Biography,
		PhotoURL:        photoURL(o.Photo),
		SubmittedByName: o.SubmittedByName,
		CanModify:       authz.CanModifyObituary(actor, o),
	}
}

func displayDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(displayDateLayout)
}

type errorView struct {
	Message string
}

func (h *Site) render(c echo.Context, status int, page, title string, errs map[string]string, data any) error {
	csrf, _ := c.Get(csrfContextKey).(string)
	return c.Render(status, page, viewData{
		Title:     title,
		Principal: actorFrom(c, h.contextManager),
		CSRF:      csrf,
		Errors:    errs,
		Data:      data,
	})
}

// renderError renders the error page for a domain error.
func (h *Site) renderError(c echo.Context, err error) error {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("Site handler: request failed", "path", c.Path(), "error", err.Error())
	}
	return h.render(c, status, "error", http.StatusText(status), nil, errorView{Message: errorMessage(status)})
}

func errorMessage(status int) string {
	switch status {
	case http.StatusForbidden:
		return "You are not allowed to change this obituary."
	case http.StatusNotFound:
		return "The obituary you are looking for does not exist."
	case http.StatusUnauthorized:
		return "Please log in to continue."
	default:
		return "Something went wrong. Please try again later."
	}
}
