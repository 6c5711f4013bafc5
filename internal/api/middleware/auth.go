package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Aaya-Elsharief/Agri-pal/internal/core/domain"
)

// PrincipalKey is the echo context key holding the authenticated domain.Principal.
const PrincipalKey = "principal"

const bearerPrefix = "Bearer "

// TokenVerifier decodes a raw identity token.
type TokenVerifier interface {
	Verify(raw string) (domain.Principal, error)
}

// Authorize resolves an Authorization header value to a principal.
//
// An empty header is domain.ErrUnauthorized. The "Bearer " prefix is stripped
// when present (case-sensitive); otherwise the whole value is treated as the
// token. Verifier errors are returned unchanged.
func Authorize(v TokenVerifier, header string) (domain.Principal, error) {
	if header == "" {
		return domain.Principal{}, domain.ErrUnauthorized
	}
	raw := strings.TrimPrefix(header, bearerPrefix)
	return v.Verify(raw)
}

// Auth validates the bearer token and injects the principal into context.
func Auth(v TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, err := Authorize(v, c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return err
			}
			c.Set(PrincipalKey, p)
			return next(c)
		}
	}
}
