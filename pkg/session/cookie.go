package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/angelmondragon/storefront-cart/pkg/config"
)

var cookieSigningMethod = jwt.SigningMethodHS256

// ErrInvalidCookie marks a session cookie that is malformed, expired, or signed by someone else.
var ErrInvalidCookie = errors.New("invalid session cookie")

// CookieCodec signs session ids into cookie values so clients cannot pick their own session.
type CookieCodec struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewCookieCodec(cfg config.SessionConfig) (*CookieCodec, error) {
	if strings.TrimSpace(cfg.Secret) == "" {
		return nil, fmt.Errorf("session secret is required")
	}
	if strings.TrimSpace(cfg.Issuer) == "" {
		return nil, fmt.Errorf("session issuer is required")
	}
	if cfg.TTL <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	return &CookieCodec{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		ttl:    cfg.TTL,
		now:    time.Now,
	}, nil
}

// Encode returns the signed cookie value for sessionID.
func (c *CookieCodec) Encode(sessionID string) (string, error) {
	if strings.TrimSpace(sessionID) == "" {
		return "", fmt.Errorf("session id is required")
	}
	now := c.now()
	claims := jwt.RegisteredClaims{
		ID:        sessionID,
		Issuer:    c.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
	}
	signed, err := jwt.NewWithClaims(cookieSigningMethod, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("signing session cookie: %w", err)
	}
	return signed, nil
}

// Decode verifies the cookie value and returns the session id it carries.
func (c *CookieCodec) Decode(value string) (string, error) {
	if strings.TrimSpace(value) == "" {
		return "", ErrInvalidCookie
	}
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(
		value,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if token.Method != cookieSigningMethod {
				return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
			}
			return c.secret, nil
		},
		jwt.WithValidMethods([]string{cookieSigningMethod.Alg()}),
		jwt.WithIssuer(c.issuer),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || strings.TrimSpace(claims.ID) == "" {
		return "", ErrInvalidCookie
	}
	return claims.ID, nil
}

// MaxAge is the cookie lifetime in seconds.
func (c *CookieCodec) MaxAge() int {
	return int(c.ttl / time.Second)
}
