package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/dtroode/obituary-server/internal/logger"
	"github.com/dtroode/obituary-server/internal/model"
	"github.com/labstack/echo/v4"
)

// Access declares which credential a route requires.
type Access int

const (
	// Anonymous routes never reject a request.
	Anonymous Access = iota
	// CookieRequired routes accept only a valid session cookie.
	CookieRequired
	// TokenRequired routes accept only a valid bearer token.
	TokenRequired
)

func (a Access) String() string {
	switch a {
	case Anonymous:
		return "anonymous"
	case CookieRequired:
		return "cookie"
	case TokenRequired:
		return "token"
	default:
		return "unknown"
	}
}

// IdentityResolver maps credentials to principals.
type IdentityResolver interface {
	ResolveSession(ctx context.Context, sessionID string) (model.Principal, error)
	ResolveToken(ctx context.Context, token string) (model.Principal, error)
}

// DenyFunc writes the response for a request rejected by the gate.
type DenyFunc func(c echo.Context, err error) error

// GateConfig configures a Gate for one group of routes.
type GateConfig struct {
	// CookieName is the name of the session cookie.
	CookieName string
	// AttachCookieIdentity makes Anonymous routes attach the session identity when one is valid.
	AttachCookieIdentity bool
	// Deny answers rejected requests.
	Deny DenyFunc
}

// Gate resolves the request principal according to a route's declared access.
// There is no fallback between credentials: a cookie route never reads the
// Authorization header and a token route never reads cookies.
type Gate struct {
	resolver       IdentityResolver
	contextManager model.ContextManager
	config         GateConfig
	logger         *logger.Logger
}

// NewGate creates a new Gate.
func NewGate(resolver IdentityResolver, contextManager model.ContextManager, config GateConfig, logger *logger.Logger) *Gate {
	if config.Deny == nil {
		config.Deny = DenyJSON
	}
	return &Gate{
		resolver:       resolver,
		contextManager: contextManager,
		config:         config,
		logger:         logger,
	}
}

// Require returns a middleware enforcing access.
func (g *Gate) Require(access Access) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var (
				principal model.Principal
				err       error
			)

			switch access {
			case CookieRequired:
				principal, err = g.fromCookie(c)
			case TokenRequired:
				principal, err = g.fromBearer(c)
			case Anonymous:
				if g.config.AttachCookieIdentity {
					p, cookieErr := g.fromCookie(c)
					switch {
					case cookieErr == nil:
						g.attach(c, p)
					case !errors.Is(cookieErr, model.ErrUnauthenticated):
						return g.fail(c, access, cookieErr)
					}
				}
				return next(c)
			default:
				err = model.ErrUnauthenticated
			}

			if err != nil {
				if !errors.Is(err, model.ErrUnauthenticated) {
					return g.fail(c, access, err)
				}
				g.logger.Debug("Gate: request rejected",
					"path", c.Path(),
					"access", access.String(),
					"error", err)
				return g.config.Deny(c, err)
			}

			g.attach(c, principal)
			return next(c)
		}
	}
}

// fail reports a credential that could not be checked, such as an unreachable session store.
// The client gets a 500 rather than being treated as logged out.
func (g *Gate) fail(c echo.Context, access Access, err error) error {
	g.logger.Error("Gate: failed to resolve identity",
		"path", c.Path(),
		"access", access.String(),
		"error", err)
	return echo.NewHTTPError(http.StatusInternalServerError).SetInternal(err)
}

func (g *Gate) attach(c echo.Context, principal model.Principal) {
	ctx := g.contextManager.SetPrincipalToContext(c.Request().Context(), principal)
	c.SetRequest(c.Request().WithContext(ctx))
}

func (g *Gate) fromCookie(c echo.Context) (model.Principal, error) {
	cookie, err := c.Cookie(g.config.CookieName)
	if err != nil || cookie.Value == "" {
		return model.Principal{}, model.ErrUnauthenticated
	}

	return g.resolve(g.resolver.ResolveSession(c.Request().Context(), cookie.Value))
}

func (g *Gate) fromBearer(c echo.Context) (model.Principal, error) {
	token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
	if !ok {
		return model.Principal{}, model.ErrUnauthenticated
	}

	return g.resolve(g.resolver.ResolveToken(c.Request().Context(), token))
}

func (g *Gate) resolve(principal model.Principal, err error) (model.Principal, error) {
	if err != nil {
		if errors.Is(err, model.ErrInvalidToken) && !errors.Is(err, model.ErrUnauthenticated) {
			return model.Principal{}, errors.Join(model.ErrUnauthenticated, err)
		}
		return model.Principal{}, err
	}
	if principal.ActorID() == nil {
		return model.Principal{}, model.ErrUnauthenticated
	}
	return principal, nil
}

// bearerToken extracts the credential of an "Authorization: Bearer <token>" header.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// DenyJSON answers 401 with a generic JSON body.
func DenyJSON(c echo.Context, _ error) error {
	return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthenticated"})
}

// DenyRedirect sends GET requests to the login page with a return URL and answers 401 otherwise.
func DenyRedirect(loginPath string) DenyFunc {
	return func(c echo.Context, _ error) error {
		if c.Request().Method != http.MethodGet {
			return c.NoContent(http.StatusUnauthorized)
		}
		target := loginPath + "?returnUrl=" + url.QueryEscape(c.Request().URL.RequestURI())
		return c.Redirect(http.StatusFound, target)
	}
}
