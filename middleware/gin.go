package middleware

import (
	"log/slog"
	"net/http"

	goLogin "github.com/MrEthical07/goLogin"
	"github.com/gin-gonic/gin"
)

const ginSessionKey = "goLogin.session"

// GinGuard is the gin counterpart of [Guard]. Rejections are written as
// {"success": false, "message": ..., "data": null}.
func GinGuard(engine *goLogin.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		if engine == nil {
			abort(c, http.StatusUnauthorized, "unauthorized")
			return
		}

		token, err := BearerToken(c.GetHeader("Authorization"))
		if err != nil {
			abort(c, http.StatusUnauthorized, err.Error())
			return
		}

		ctx := goLogin.WithClientIP(c.Request.Context(), c.ClientIP())
		ctx = goLogin.WithUserAgent(ctx, c.Request.UserAgent())

		info, found, err := engine.VerifySession(ctx, token)
		if err != nil {
			slog.WarnContext(ctx, "goLogin: session verification failed", "error", err)
			abort(c, http.StatusInternalServerError, "internal server error")
			return
		}
		if !found {
			abort(c, http.StatusUnauthorized, "session invalid or expired")
			return
		}

		c.Set(ginSessionKey, info)
		c.Request = c.Request.WithContext(withSession(ctx, info))
		c.Next()
	}
}

// GinSession returns the session attached by [GinGuard].
func GinSession(c *gin.Context) (*goLogin.SessionInfo, bool) {
	v, ok := c.Get(ginSessionKey)
	if !ok {
		return nil, false
	}
	info, ok := v.(*goLogin.SessionInfo)
	return info, ok && info != nil
}

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"message": message,
		"data":    nil,
	})
}
