package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// AdminAuthorizer decides whether a presented credential belongs to an
// administrator.  The staff repository implements it by looking the
// credential up as an API key; keeping the check behind an interface
// means no handler ever compares secrets itself and the scheme can be
// swapped without touching routes.
type AdminAuthorizer interface {
	IsAuthorizedAdmin(ctx context.Context, credential string) (bool, error)
}

// AdminAuth returns an Echo middleware that gates administrative
// mutations.  The credential is read from the X-Admin-Key header, with
// the adminApiKey query parameter accepted for older clients.  An
// authorized request is marked with `is_staff` in the context so
// downstream handlers can widen their behaviour (e.g. cancelling any
// pilot's booking).
func AdminAuth(authz AdminAuthorizer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			credential := strings.TrimSpace(c.Request().Header.Get("X-Admin-Key"))
			if credential == "" {
				credential = strings.TrimSpace(c.QueryParam("adminApiKey"))
			}
			if credential == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing admin credential"})
			}
			ok, err := authz.IsAuthorizedAdmin(c.Request().Context(), credential)
			if err != nil {
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "authorization check failed"})
			}
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid admin credential"})
			}
			c.Set("is_staff", true)
			return next(c)
		}
	}
}
