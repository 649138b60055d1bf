package session

import "context"

type ctxKey struct{}

// Values is the request-scoped view of one browser session.
type Values struct {
	store *Store
	id    string
}

func (v *Values) ID() string {
	return v.id
}

func (v *Values) Get(ctx context.Context, key string) (string, bool, error) {
	return v.store.Get(ctx, v.id, key)
}

func (v *Values) Set(ctx context.Context, key, value string) error {
	return v.store.Set(ctx, v.id, key, value)
}

// WithValues attaches the session to the context for downstream services.
func WithValues(ctx context.Context, values *Values) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKey{}, values)
}

// FromContext returns the session bound by the session middleware, if any.
func FromContext(ctx context.Context) (*Values, bool) {
	if ctx == nil {
		return nil, false
	}
	values, ok := ctx.Value(ctxKey{}).(*Values)
	return values, ok && values != nil
}
