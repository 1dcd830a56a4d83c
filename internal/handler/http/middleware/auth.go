package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dayflow-hris/dayflow-backend/internal/domain/auth"
	"github.com/dayflow-hris/dayflow-backend/internal/handler/http/response"
	"github.com/dayflow-hris/dayflow-backend/internal/pkg/requestctx"
	"github.com/go-chi/jwtauth/v5"
)

const (
	DevUIDHeader    = "X-Firebase-UID"
	DevEmailHeader  = "X-Firebase-Email"
	defaultDevEmail = "test@dayflow.com"
)

// TokenVerifier turns a bearer token into a verified identity.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (auth.Identity, error)
}

// Authenticate requires a valid bearer token and attaches its identity to the request.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimSpace(jwtauth.TokenFromHeader(r))
			if token == "" {
				response.HandleError(w, auth.ErrMissingToken)
				return
			}

			identity, err := verifier.VerifyToken(r.Context(), token)
			if err != nil {
				if errors.Is(err, auth.ErrProviderUnavailable) {
					response.HandleError(w, err)
					return
				}
				slog.Debug("token verification failed", "error", err)
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			ctx := requestctx.WithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(hfn)
	}
}

// DevHeaderAuth trusts the identity headers sent by the client. Outside
// development every request is refused with ErrDevAuthNotPermitted.
func DevHeaderAuth(isDev bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !isDev {
				response.HandleError(w, auth.ErrDevAuthNotPermitted)
				return
			}
			uid := strings.TrimSpace(r.Header.Get(DevUIDHeader))
			if uid == "" {
				response.HandleError(w, auth.ErrMissingDevUID)
				return
			}
			email := strings.TrimSpace(r.Header.Get(DevEmailHeader))
			if email == "" {
				email = defaultDevEmail
			}

			ctx := requestctx.WithIdentity(r.Context(), auth.Identity{UID: uid, Email: email})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
