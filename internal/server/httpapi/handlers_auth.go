package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *handlers) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "a valid .edu email and a password are required")
		return
	}

	res, err := h.svc.Users.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, authResponse{Token: res.Token, Email: res.Email})
}

func (h *handlers) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "email and password are required")
		return
	}

	res, err := h.svc.Users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, authResponse{Token: res.Token, Email: res.Email})
}

func (h *handlers) changePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "currentPassword and newPassword are required")
		return
	}

	err := h.svc.Users.ChangePassword(c.Request.Context(), Identity(c), req.CurrentPassword, req.NewPassword)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (h *handlers) deleteAccount(c *gin.Context) {
	var req deleteAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "email and password are required")
		return
	}

	if err := h.svc.Users.DeleteAccount(c.Request.Context(), req.Email, req.Password); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusOK)
}
