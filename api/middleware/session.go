package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/luxe-commerce/storefront/api/responses"
	sessionstore "github.com/luxe-commerce/storefront/internal/session"
	pkgauth "github.com/luxe-commerce/storefront/pkg/auth"
	"github.com/luxe-commerce/storefront/pkg/config"
	pkgerrors "github.com/luxe-commerce/storefront/pkg/errors"
	"github.com/luxe-commerce/storefront/pkg/logger"
)

type ctxKeyIdentity struct{}

// IdentityFromContext returns the identity the session gate attached, or the
// anonymous variant when the request never passed the gate.
func IdentityFromContext(ctx context.Context) sessionstore.Identity {
	if identity, ok := ctx.Value(ctxKeyIdentity{}).(sessionstore.Identity); ok {
		return identity
	}
	return sessionstore.Anonymous()
}

// Session validates the bearer token and re-checks the persisted session
// flag. The token alone is not enough: logging out flips the flag and every
// outstanding token dies with it. This is presentation-layer gating, the HTTP
// analogue of a client-side route guard, not real security.
func Session(cfg config.JWTConfig, store *sessionstore.Store, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			claims, err := pkgauth.ParseSessionToken(cfg, token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			if store == nil || !store.IsAuthenticated() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session expired"))
				return
			}

			identity := sessionstore.User(claims.Email)
			if claims.Guest {
				identity = sessionstore.Guest()
			}

			ctx := context.WithValue(r.Context(), ctxKeyIdentity{}, identity)
			if logg != nil {
				label := identity.Email
				if label == "" {
					label = string(identity.Kind)
				}
				ctx = logg.WithIdentity(ctx, label)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
