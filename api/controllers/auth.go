package controllers

import (
	"net/http"
	"time"

	"github.com/luxe-commerce/storefront/api/middleware"
	"github.com/luxe-commerce/storefront/api/responses"
	"github.com/luxe-commerce/storefront/api/validators"
	"github.com/luxe-commerce/storefront/internal/session"
	pkgauth "github.com/luxe-commerce/storefront/pkg/auth"
	"github.com/luxe-commerce/storefront/pkg/config"
	pkgerrors "github.com/luxe-commerce/storefront/pkg/errors"
	"github.com/luxe-commerce/storefront/pkg/logger"
)

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type sessionResponse struct {
	Token string `json:"token"`
	Email string `json:"email,omitempty"`
	Guest bool   `json:"guest,omitempty"`
}

// AuthRegister creates the account, signs the session in and hands back a
// bearer token.
func AuthRegister(registry *session.Registry, store *session.Store, cfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload registerRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		email, err := registry.Register(r.Context(), payload.Email, payload.Name, payload.Password)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store.Login(r.Context(), session.User(email))
		token, err := pkgauth.MintSessionToken(cfg, time.Now(), email, false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint token"))
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, sessionResponse{Token: token, Email: email})
	}
}

// AuthLogin verifies credentials, signs the session in and hands back a
// bearer token.
func AuthLogin(registry *session.Registry, store *session.Store, cfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload loginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		email, err := registry.Authenticate(r.Context(), payload.Email, payload.Password)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store.Login(r.Context(), session.User(email))
		token, err := pkgauth.MintSessionToken(cfg, time.Now(), email, false)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint token"))
			return
		}

		responses.WriteSuccess(w, sessionResponse{Token: token, Email: email})
	}
}

// AuthGuest signs in without an account. Guest sessions carry full shopping
// rights; only the stored identity differs.
func AuthGuest(store *session.Store, cfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store.Login(r.Context(), session.Guest())
		token, err := pkgauth.MintSessionToken(cfg, time.Now(), "", true)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint token"))
			return
		}

		responses.WriteSuccess(w, sessionResponse{Token: token, Guest: true})
	}
}

// AuthLogout clears the session; every outstanding token dies with the
// persisted flag.
func AuthLogout(store *session.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store.Logout(r.Context())
		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}

type sessionInfoResponse struct {
	IsAuthenticated bool   `json:"isAuthenticated"`
	Kind            string `json:"kind"`
	Email           string `json:"email,omitempty"`
}

// AuthSession reports the gated caller's session as the store sees it.
func AuthSession(store *session.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := middleware.IdentityFromContext(r.Context())
		responses.WriteSuccess(w, sessionInfoResponse{
			IsAuthenticated: store.IsAuthenticated(),
			Kind:            string(identity.Kind),
			Email:           identity.Email,
		})
	}
}
