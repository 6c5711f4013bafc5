package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Aaya-Elsharief/Agri-pal/internal/api/middleware"
	"github.com/Aaya-Elsharief/Agri-pal/internal/core/domain"
)

var (
	errInvalidJSON = echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON data")
	errNoData      = echo.NewHTTPError(http.StatusBadRequest, "No data provided")
)

// principalFrom returns the principal injected by the Auth middleware. A
// missing principal means the route was registered without the middleware.
func principalFrom(c echo.Context) (domain.Principal, error) {
	p, ok := c.Get(middleware.PrincipalKey).(domain.Principal)
	if !ok || p.UserID == "" {
		return domain.Principal{}, domain.ErrUnauthorized
	}
	return p, nil
}

// decodeBody reads a JSON object into dst regardless of Content-Type.
// An empty body, null or {} is errNoData; anything that does not decode
// into dst is errInvalidJSON.
func decodeBody(c echo.Context, dst any) error {
	return decodeObject(c, dst, false)
}

// decodePatch is decodeBody for partial updates, where {} is a valid
// patch that changes nothing.
func decodePatch(c echo.Context, dst any) error {
	return decodeObject(c, dst, true)
}

func decodeObject(c echo.Context, dst any, allowEmpty bool) error {
	raw, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return errInvalidJSON
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return errNoData
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return errInvalidJSON
	}
	if fields == nil || (len(fields) == 0 && !allowEmpty) {
		return errNoData
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return errInvalidJSON
	}
	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
