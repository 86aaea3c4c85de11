package middleware

import (
	"errors"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/skz_roster/internal/identity"
	"github.com/Skotchmaster/skz_roster/internal/models"
	"github.com/Skotchmaster/skz_roster/pkg/logging"
	"github.com/Skotchmaster/skz_roster/pkg/tokens"
)

type Verifier interface {
	Verify(token string, kind tokens.Kind) (*tokens.Claims, error)
}

type Auth struct {
	Codec Verifier
}

func NewAuth(codec Verifier) *Auth {
	return &Auth{Codec: codec}
}

// AuthenticateToken accepts "Authorization: Bearer <token>" and attaches the
// caller's identity to the request context.
func (a *Auth) AuthenticateToken(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		l := logging.FromContext(ctx).With("mw", "auth.authenticate")

		raw, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "Access token required")
		}

		claims, err := a.Codec.Verify(raw, tokens.KindAccess)
		switch {
		case err == nil:
		case errors.Is(err, tokens.ErrExpired):
			l.Warn("auth_error", "status", 401, "reason", "token expired")
			return echo.NewHTTPError(http.StatusUnauthorized, "Token expired")
		case errors.Is(err, tokens.ErrInvalid):
			l.Warn("auth_error", "status", 403, "reason", "invalid token", "error", err)
			return echo.NewHTTPError(http.StatusForbidden, "Invalid token")
		default:
			l.Error("auth_error", "status", 500, "reason", "token verification failed", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "Token verification failed")
		}

		id := identity.Identity{ID: claims.ID, Username: claims.Username, Role: claims.Role}
		c.SetRequest(c.Request().WithContext(identity.IntoContext(ctx, id)))
		return next(c)
	}
}

func AuthorizeRoles(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := identity.FromContext(c.Request().Context())
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
			}
			if !slices.Contains(roles, id.Role) {
				return echo.NewHTTPError(http.StatusForbidden, "Access forbidden")
			}
			return next(c)
		}
	}
}

// AuthorizeOwnerOrAdmin lets admins through and otherwise requires the path
// parameter to equal the caller's id.
func AuthorizeOwnerOrAdmin(param string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := identity.FromContext(c.Request().Context())
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
			}
			target, err := strconv.ParseUint(c.Param(param), 10, 64)
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "Invalid ID parameter")
			}
			if id.Role != models.RoleAdmin && uint(target) != id.ID {
				return echo.NewHTTPError(http.StatusForbidden, "You can only access your own resources")
			}
			return next(c)
		}
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
