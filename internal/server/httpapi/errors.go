package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"studylink/internal/common"
)

// All 401 responses carry the same body so an attacker cannot tell an
// unknown email from a wrong password or a bad token.
const msgUnauthorized = "invalid credentials"

const msgInternal = "internal server error"

// respondError maps sentinel errors to HTTP statuses. Anything unmatched is
// a 500 with an opaque body; the detail only goes to the log.
func (h *handlers) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrValidation):
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, common.ErrUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		c.JSON(http.StatusUnauthorized, errorResponse{Error: msgUnauthorized})
	case errors.Is(err, common.ErrForbidden):
		c.JSON(http.StatusForbidden, errorResponse{Error: "you do not own this file"})
	case errors.Is(err, common.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, common.ErrAlreadyExists):
		c.JSON(http.StatusConflict, errorResponse{Error: err.Error()})
	default:
		h.logger.Error(c.Request.Context(), "request failed",
			"method", c.Request.Method, "path", c.Request.URL.Path, "error", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: msgInternal})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, errorResponse{Error: msg})
}
