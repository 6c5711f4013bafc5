package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Aaya-Elsharief/Agri-pal/internal/core/domain"
	"github.com/Aaya-Elsharief/Agri-pal/internal/pkg/token"
)

func issue(t *testing.T, codec *token.Codec, id string, role domain.Role) string {
	t.Helper()
	raw, err := codec.Issue(id, role)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return raw
}

func TestAuthorize(t *testing.T) {
	codec := token.NewCodec("secret")
	valid := issue(t, codec, "u1", domain.RoleFarmer)

	past := time.Now().Add(-8 * 24 * time.Hour)
	expired := issue(t, token.NewCodec("secret", token.WithClock(func() time.Time { return past })), "u1", domain.RoleFarmer)

	tests := []struct {
		name    string
		header  string
		wantErr error
	}{
		{"bearer prefix", "Bearer " + valid, nil},
		{"raw token", valid, nil},
		{"empty", "", domain.ErrUnauthorized},
		{"lowercase prefix is not stripped", "bearer " + valid, domain.ErrTokenInvalid},
		{"garbage", "Bearer not-a-token", domain.ErrTokenInvalid},
		{"expired", "Bearer " + expired, domain.ErrTokenExpired},
		{"other secret", "Bearer " + issue(t, token.NewCodec("other"), "u1", domain.RoleFarmer), domain.ErrTokenInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Authorize(codec, tt.header)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && (p.UserID != "u1" || p.Role != domain.RoleFarmer) {
				t.Errorf("principal = %+v", p)
			}
		})
	}
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	codec := token.NewCodec("secret")
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+issue(t, codec, "trader-1", domain.RoleTrader))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth(codec)(func(c echo.Context) error {
		called = true
		p, ok := c.Get(PrincipalKey).(domain.Principal)
		if !ok {
			t.Fatalf("principal not set")
		}
		if p.UserID != "trader-1" || p.Role != domain.RoleTrader {
			t.Fatalf("principal = %+v", p)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	codec := token.NewCodec("secret")

	for _, header := range []string{"", "Bearer not-a-token"} {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		c := e.NewContext(req, httptest.NewRecorder())

		handler := Auth(codec)(func(c echo.Context) error {
			t.Fatalf("should not reach next")
			return nil
		})

		err := handler(c)
		if err == nil {
			t.Fatalf("header %q: expected error", header)
		}
		if c.Get(PrincipalKey) != nil {
			t.Errorf("header %q: principal set on failure", header)
		}
	}
}
