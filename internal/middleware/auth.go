package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/minesweeper-leaderboard/internal/config"
)

type CtxKey int

const (
	CtxPlayerClaims CtxKey = iota
)

func PlayerClaims(ctx context.Context) (*config.PlayerClaims, bool) {
	claims, ok := ctx.Value(CtxPlayerClaims).(*config.PlayerClaims)
	return claims, ok
}

func WithPlayerClaims(ctx context.Context, claims *config.PlayerClaims) context.Context {
	return context.WithValue(ctx, CtxPlayerClaims, claims)
}

// Auth attaches the player claims to the request context when the request
// carries a valid token. Requests with stale cookies get them cleared and
// proceed anonymously.
func Auth(log logrus.FieldLogger, jwt *config.JWT, cookies *config.Cookies) Middleware {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := cookies.Token(r)
			if errors.Is(err, config.ErrNoCredentials) {
				h.ServeHTTP(w, r)
				return
			}
			var claims *config.PlayerClaims
			if err == nil {
				claims, err = jwt.ParsePlayerClaims(token)
			}
			if err != nil {
				log.WithError(err).Debug("rejected credentials")
				if r.Header.Get("Authorization") == "" {
					cookies.Clear(w)
				}
				h.ServeHTTP(w, r)
				return
			}
			h.ServeHTTP(w, r.WithContext(WithPlayerClaims(r.Context(), claims)))
		})
	}
}

func RequireAuth(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := PlayerClaims(r.Context()); !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"authentication required"}`))
			return
		}
		h.ServeHTTP(w, r)
	})
}
