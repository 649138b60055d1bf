package middleware

import (
	"net/http"

	"github.com/angelmondragon/storefront-cart/api/responses"
	"github.com/angelmondragon/storefront-cart/pkg/config"
	pkgerrors "github.com/angelmondragon/storefront-cart/pkg/errors"
	"github.com/angelmondragon/storefront-cart/pkg/logger"
	"github.com/angelmondragon/storefront-cart/pkg/session"
)

// Session resolves the browser session from the signed cookie, issuing a new
// session when the cookie is missing or fails verification. The cookie is
// re-signed on every response so its expiry follows the store TTL.
func Session(store *session.Store, codec *session.CookieCodec, cfg config.SessionConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			sessionID := ""
			if cookie, err := r.Cookie(cfg.CookieName); err == nil {
				if sid, err := codec.Decode(cookie.Value); err == nil {
					sessionID = sid
				} else if logg != nil {
					logg.Warn(ctx, "session.cookie_rejected")
				}
			}

			issued := false
			if sessionID == "" {
				sid, err := session.NewSessionID()
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "issue session"))
					return
				}
				sessionID = sid
				issued = true
			}

			value, err := codec.Encode(sessionID)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "sign session cookie"))
				return
			}
			http.SetCookie(w, &http.Cookie{
				Name:     cfg.CookieName,
				Value:    value,
				Path:     "/",
				MaxAge:   codec.MaxAge(),
				HttpOnly: true,
				Secure:   cfg.SecureCookie,
				SameSite: http.SameSiteLaxMode,
			})

			if logg != nil {
				ctx = logg.WithSessionID(ctx, session.Fingerprint(sessionID))
				if issued {
					logg.Debug(ctx, "session.issued")
				}
			}
			ctx = session.WithValues(ctx, store.Values(sessionID))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
