package auth

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"student-manager/internal/httputil"
)

type contextKey string

// usernameKey is the context key for the authenticated username.
const usernameKey contextKey = "username"

// Middleware validates the session token cookie and stores the username
// in the request context. Requests without a valid session never reach
// the guarded handlers.
func Middleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie("token")
			if err != nil {
				logger.Warn("no auth cookie found", "path", r.URL.Path)
				httputil.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			claims, err := ValidateAccessToken(cookie.Value)
			if err != nil {
				logger.Warn("invalid token", "error", err)
				httputil.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			ctx := context.WithValue(r.Context(), usernameKey, claims.Username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Username extracts the authenticated username from the context.
func Username(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(usernameKey).(string)
	return username, ok
}

// SetAuthCookie stores the session token in an HttpOnly cookie.
func SetAuthCookie(w http.ResponseWriter, token string) {
	env := os.Getenv("ENV")
	sameSite := http.SameSiteStrictMode
	if env == "" || env == "local" || env == "dev" {
		sameSite = http.SameSiteLaxMode
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		HttpOnly: true,
		Secure:   env == "prod",
		SameSite: sameSite,
		Path:     "/",
		MaxAge:   int(accessTokenTTL.Seconds()),
	})
}

// ClearAuthCookie removes the session cookie.
func ClearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    "",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
		MaxAge:   -1,
	})
}
