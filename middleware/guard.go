package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"

	goLogin "github.com/MrEthical07/goLogin"
)

type sessionContextKey struct{}

// SessionFromContext returns the session attached by [Guard] or [GinGuard].
func SessionFromContext(ctx context.Context) (*goLogin.SessionInfo, bool) {
	info, ok := ctx.Value(sessionContextKey{}).(*goLogin.SessionInfo)
	return info, ok && info != nil
}

func withSession(ctx context.Context, info *goLogin.SessionInfo) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, info)
}

// RequestContext returns r's context carrying the client IP and User-Agent so
// that audit events emitted by the engine record them.
func RequestContext(r *http.Request) context.Context {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	ctx := goLogin.WithClientIP(r.Context(), host)
	return goLogin.WithUserAgent(ctx, r.UserAgent())
}

// Guard rejects requests without a live session. Missing or malformed
// Authorization headers and unknown tokens get 401; a store failure gets 500.
func Guard(engine *goLogin.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			token, err := BearerToken(r.Header.Get("Authorization"))
			if err != nil {
				http.Error(w, err.Error(), http.StatusUnauthorized)
				return
			}

			ctx := RequestContext(r)
			info, found, err := engine.VerifySession(ctx, token)
			if err != nil {
				slog.WarnContext(ctx, "goLogin: session verification failed", "error", err)
				http.Error(w, "internal server error", http.StatusInternalServerError)
				return
			}
			if !found {
				http.Error(w, "session invalid or expired", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(withSession(ctx, info)))
		})
	}
}
