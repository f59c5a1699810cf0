package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"studylink/internal/logging"
	"studylink/internal/server/auth"
)

const (
	identityKey     = "identity"
	requestIDKey    = "requestID"
	requestIDHeader = "X-Request-Id"
)

// RequestID attaches a request id to every request, echoing the client's if
// it sent one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

// RequestLogger logs one line per request: method, path, status, latency,
// request id, and the authenticated identity when there is one.
func RequestLogger(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		args := []any{
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			"requestId", c.GetString(requestIDKey),
		}
		if identity := c.GetString(identityKey); identity != "" {
			args = append(args, "identity", identity)
		}

		ctx := c.Request.Context()
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			logger.Error(ctx, "http request", args...)
		case c.Writer.Status() >= http.StatusBadRequest:
			logger.Warn(ctx, "http request", args...)
		default:
			logger.Info(ctx, "http request", args...)
		}
	}
}

// Auth requires a valid bearer token and stores the verified identity in
// the context for handlers to read via Identity.
func Auth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: msgUnauthorized})
			return
		}

		identity, err := auth.GetIdentityFromToken(token, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: msgUnauthorized})
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// Identity returns the authenticated email set by Auth, or "" on public
// routes.
func Identity(c *gin.Context) string {
	return c.GetString(identityKey)
}
