// Package token issues and verifies the HS256 identity tokens carried in the
// Authorization header.
//
// There is a single process-wide secret with no rotation and no revocation
// list: a token stays valid until it expires.
package token

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Aaya-Elsharief/Agri-pal/internal/core/domain"
)

// TTL is the fixed lifetime of every issued token.
const TTL = 7 * 24 * time.Hour

type claims struct {
	UserID string `json:"id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Codec signs and verifies identity tokens.
type Codec struct {
	secret []byte
	now    func() time.Time
}

// Option customises a Codec.
type Option func(*Codec)

// WithClock overrides the time source used for issuing and validating expiry.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) { c.now = now }
}

func NewCodec(secret string, opts ...Option) *Codec {
	c := &Codec{secret: []byte(secret), now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Issue returns a signed token for userID and role expiring now+TTL.
func (c *Codec) Issue(userID string, role domain.Role) (string, error) {
	now := c.now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		UserID: userID,
		Role:   string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TTL)),
		},
	})
	return t.SignedString(c.secret)
}

// Verify decodes raw and returns the principal it names.
// Errors are domain.ErrTokenExpired or domain.ErrTokenInvalid.
func (c *Codec) Verify(raw string) (domain.Principal, error) {
	var cl claims
	_, err := jwt.ParseWithClaims(raw, &cl, func(*jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return domain.Principal{}, domain.ErrTokenExpired
	case err != nil:
		return domain.Principal{}, domain.ErrTokenInvalid
	}

	role, err := domain.ParseRole(cl.Role)
	if err != nil || strings.TrimSpace(cl.UserID) == "" {
		return domain.Principal{}, domain.ErrTokenInvalid
	}
	return domain.Principal{UserID: cl.UserID, Role: role}, nil
}
