package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	goLogin "github.com/MrEthical07/goLogin"
	"github.com/MrEthical07/goLogin/middleware"
	"github.com/gin-gonic/gin"
)

const (
	msgBodyRequired    = "request body is required"
	msgCredsRequired   = "username and password are required"
	msgSessionInvalid  = "session invalid or expired"
	msgInternalError   = "internal server error"
	msgSessionNotFound = "session not found or expired"
)

type handler struct {
	engine *goLogin.Engine
	logger *slog.Logger
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

func (h *handler) requestContext(c *gin.Context) context.Context {
	ctx := goLogin.WithClientIP(c.Request.Context(), c.ClientIP())
	return goLogin.WithUserAgent(ctx, c.Request.UserAgent())
}

func (h *handler) internalError(c *gin.Context, op string, err error) {
	h.logger.ErrorContext(c.Request.Context(), "goLogin: request failed", "op", op, "error", err)
	reply(c, http.StatusInternalServerError, msgInternalError, nil)
}

// bindCredentials decodes the body and trims the username. It writes the 400
// itself and reports false when the request cannot proceed.
func bindCredentials(c *gin.Context) (credentialsRequest, bool) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		reply(c, http.StatusBadRequest, msgBodyRequired, nil)
		return req, false
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Password == "" {
		reply(c, http.StatusBadRequest, msgCredsRequired, nil)
		return req, false
	}
	return req, true
}

func bearer(c *gin.Context) (string, bool) {
	token, err := middleware.BearerToken(c.GetHeader("Authorization"))
	if err != nil {
		reply(c, http.StatusUnauthorized, err.Error(), nil)
		return "", false
	}
	return token, true
}

func (h *handler) register(c *gin.Context) {
	req, ok := bindCredentials(c)
	if !ok {
		return
	}

	res, err := h.engine.Register(h.requestContext(c), req.Username, req.Password, req.Email)
	switch {
	case err == nil:
		reply(c, http.StatusCreated, "registration successful", registerData{
			UserID:   res.UserID,
			Username: res.Username,
		})
	case errors.Is(err, goLogin.ErrValidation), errors.Is(err, goLogin.ErrUsernameTaken):
		reply(c, http.StatusBadRequest, clientMessage(err), nil)
	default:
		h.internalError(c, "register", err)
	}
}

func (h *handler) login(c *gin.Context) {
	req, ok := bindCredentials(c)
	if !ok {
		return
	}

	out, err := h.engine.Login(h.requestContext(c), req.Username, req.Password)
	if errors.Is(err, goLogin.ErrInvalidInput) {
		reply(c, http.StatusBadRequest, msgCredsRequired, nil)
		return
	}
	if err != nil {
		h.internalError(c, "login", err)
		return
	}

	switch out.Kind {
	case goLogin.OutcomeSuccess:
		reply(c, http.StatusOK, out.Message, loginData{
			Token:     out.Token,
			ExpiresIn: int64(out.TTL / time.Second),
			UserID:    out.UserID,
			Username:  out.Username,
		})
	case goLogin.OutcomeLocked, goLogin.OutcomeNewlyLocked:
		reply(c, http.StatusUnauthorized, out.Message, lockedData{
			Locked:           true,
			RemainingSeconds: out.RemainingSeconds,
		})
	default:
		reply(c, http.StatusUnauthorized, out.Message, attemptsData{
			RemainingAttempts: out.RemainingAttempts,
		})
	}
}

func (h *handler) verify(c *gin.Context) {
	token, ok := bearer(c)
	if !ok {
		return
	}

	info, found, err := h.engine.VerifySession(h.requestContext(c), token)
	if err != nil {
		h.internalError(c, "verify", err)
		return
	}
	if !found {
		reply(c, http.StatusUnauthorized, msgSessionInvalid, nil)
		return
	}
	reply(c, http.StatusOK, "session valid", sessionData{UserID: info.UserID, Username: info.Username})
}

func (h *handler) logout(c *gin.Context) {
	token, ok := bearer(c)
	if !ok {
		return
	}

	removed, err := h.engine.Logout(h.requestContext(c), token)
	if err != nil {
		h.internalError(c, "logout", err)
		return
	}
	if !removed {
		reply(c, http.StatusBadRequest, msgSessionNotFound, nil)
		return
	}
	reply(c, http.StatusOK, "logout successful", nil)
}

func (h *handler) refresh(c *gin.Context) {
	token, ok := bearer(c)
	if !ok {
		return
	}

	ttl, found, err := h.engine.RefreshSession(h.requestContext(c), token)
	if err != nil {
		h.internalError(c, "refresh", err)
		return
	}
	if !found {
		reply(c, http.StatusUnauthorized, msgSessionInvalid, nil)
		return
	}
	reply(c, http.StatusOK, "session refreshed", refreshData{ExpiresIn: int64(ttl / time.Second)})
}

// userInfo runs behind GinGuard, so the session is already verified.
func (h *handler) userInfo(c *gin.Context) {
	info, ok := middleware.GinSession(c)
	if !ok {
		reply(c, http.StatusUnauthorized, msgSessionInvalid, nil)
		return
	}

	user, err := h.engine.GetUser(h.requestContext(c), info.UserID)
	if errors.Is(err, goLogin.ErrUserNotFound) {
		reply(c, http.StatusNotFound, "user not found", nil)
		return
	}
	if err != nil {
		h.internalError(c, "user info", err)
		return
	}

	data := userData{
		ID:        user.ID,
		Username:  user.Username,
		CreatedAt: user.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: user.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if user.Email != "" {
		email := user.Email
		data.Email = &email
	}
	reply(c, http.StatusOK, "ok", data)
}

func (h *handler) health(c *gin.Context) {
	rtt, err := h.engine.Ping(c.Request.Context())
	if err != nil {
		h.logger.WarnContext(c.Request.Context(), "goLogin: health check failed", "error", err)
		reply(c, http.StatusServiceUnavailable, "session store unavailable", healthData{Status: "unhealthy"})
		return
	}
	reply(c, http.StatusOK, "service healthy", healthData{
		Status:     "healthy",
		StoreRTTMs: rtt.Milliseconds(),
		AuditDrops: h.engine.AuditDropped(),
	})
}

// clientMessage strips the category prefix from validation errors so the
// client sees only the rule that failed.
func clientMessage(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, ": "); i >= 0 && errors.Is(err, goLogin.ErrValidation) {
		return msg[i+2:]
	}
	return msg
}
