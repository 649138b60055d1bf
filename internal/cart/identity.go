package cart

import (
	"context"
	"strings"

	"github.com/google/uuid"

	pkgerrors "github.com/angelmondragon/storefront-cart/pkg/errors"
	"github.com/angelmondragon/storefront-cart/pkg/session"
)

// CartTokenSessionKey is the session key holding the cart correlation token.
const CartTokenSessionKey = "unique_cart_id"

// SessionIdentity reads the cart token from the browser session bound to the
// request context, minting and persisting one on first use.
type SessionIdentity struct {
	newToken func() string
}

// NewSessionIdentity returns an identity provider that mints uuid tokens.
func NewSessionIdentity() *SessionIdentity {
	return &SessionIdentity{newToken: uuid.NewString}
}

// WithTokenGenerator overrides the token generator.
func (i *SessionIdentity) WithTokenGenerator(fn func() string) *SessionIdentity {
	if fn == nil {
		return i
	}
	return &SessionIdentity{newToken: fn}
}

// CartToken returns the session's stable cart token.
func (i *SessionIdentity) CartToken(ctx context.Context) (string, error) {
	values, ok := session.FromContext(ctx)
	if !ok {
		return "", pkgerrors.New(pkgerrors.CodeInternal, "session not bound to request")
	}

	token, found, err := values.Get(ctx, CartTokenSessionKey)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read session cart token")
	}
	if found && strings.TrimSpace(token) != "" {
		return token, nil
	}

	token = i.newToken()
	if err := values.Set(ctx, CartTokenSessionKey, token); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store session cart token")
	}
	return token, nil
}
