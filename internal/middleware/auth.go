package middleware

import (
	"context"
	"errors"
	"net/http"

	"agrimarket/internal/auth"
	"agrimarket/internal/logger"
	"agrimarket/internal/model"
	"agrimarket/internal/session"
	"agrimarket/internal/utils"

	"go.uber.org/zap"
)

// SessionUsers is the subset of session.Store the middleware reads.
type SessionUsers interface {
	User(ctx context.Context, sessionID string) (model.User, error)
}

// Session makes sure every request carries a session id. A valid cookie is
// reused; anything else gets a fresh anonymous session. When the session has
// a signed-in user, its id, name and role go into the request context.
func Session(issuer *auth.Issuer, users SessionUsers, secureCookie bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := logger.FromCtx(ctx)

			var sid string
			if tok := auth.ExtractAccessToken(r); tok != "" {
				claims, err := issuer.Parse(tok)
				if err != nil {
					log.Debug("discarding session token", zap.Error(err))
				} else {
					sid = claims.SessionID
				}
			}

			if sid == "" {
				sid = auth.NewSessionID()
				tok, err := issuer.Issue(sid, "", "")
				if err != nil {
					log.Error("issue session token failed", zap.Error(err))
					utils.WriteJSONError(w, "session unavailable", http.StatusInternalServerError)
					return
				}
				auth.SetCookie(w, tok, issuer.TTL(), secureCookie)
			}

			ctx = utils.WithSessionID(ctx, sid)

			u, err := users.User(ctx, sid)
			switch {
			case err == nil:
				ctx = utils.SetUserContext(ctx, u.ID, u.Name, string(u.Role))
				ctx = logger.WithUserID(ctx, u.ID)
			case errors.Is(err, session.ErrNoSession):
			default:
				log.Warn("session lookup failed", zap.String("session_id", sid), zap.Error(err))
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole lets the request through only when the signed-in user has the
// given role. Otherwise deny handles it.
func RequireRole(role model.Role, deny http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := utils.GetUserIDFromContext(r.Context()); !ok ||
				model.Role(utils.GetUserRoleFromContext(r.Context())) != role {
				deny(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// InternalOnly guards operator endpoints with the shared service secret.
func InternalOnly(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" || r.Header.Get("X-Service-Auth") != secret {
				utils.WriteJSONError(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r.WithContext(utils.WithInternalRequest(r.Context())))
		})
	}
}
