package httpapi

import (
	"github.com/gin-gonic/gin"
)

// Response is the envelope of every API reply.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func reply(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Response{Success: status < 300, Message: message, Data: data})
}

type registerData struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

type loginData struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
}

type lockedData struct {
	Locked           bool `json:"locked"`
	RemainingSeconds int  `json:"remaining_seconds"`
}

type attemptsData struct {
	RemainingAttempts int `json:"remaining_attempts"`
}

type sessionData struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

type refreshData struct {
	ExpiresIn int64 `json:"expires_in"`
}

type userData struct {
	ID        string  `json:"id"`
	Username  string  `json:"username"`
	Email     *string `json:"email"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

type healthData struct {
	Status     string `json:"status"`
	StoreRTTMs int64  `json:"store_rtt_ms"`
	AuditDrops uint64 `json:"audit_dropped"`
}
