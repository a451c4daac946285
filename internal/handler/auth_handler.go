package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/ecopoints/kiosk_api/internal/middleware"
	"github.com/ecopoints/kiosk_api/internal/service"
	"github.com/ecopoints/kiosk_api/internal/utils"
)

// AuthHandler handles the admin PIN login.
type AuthHandler struct {
	auth    *service.AdminAuthService
	limiter *middleware.PinRateLimiter
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(auth *service.AdminAuthService, limiter *middleware.PinRateLimiter) *AuthHandler {
	return &AuthHandler{auth: auth, limiter: limiter}
}

type loginRequest struct {
	Pin string `json:"pin" binding:"required"`
}

// Login verifies the shared PIN and issues a dashboard session token.
// Failed attempts are throttled per source IP.
func (h *AuthHandler) Login(c *gin.Context) {
	ip := c.ClientIP()
	if !h.limiter.Allow(ip) {
		utils.Error(c, 429, "TOO_MANY_ATTEMPTS", "Too many PIN attempts, try again later")
		return
	}

	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "PIN is required")
		return
	}

	token, err := h.auth.Login(req.Pin)
	if err != nil {
		if errors.Is(err, utils.ErrPinNotConfigured) {
			utils.Error(c, 500, "CONFIG_ERROR", "Server configuration error")
			return
		}
		utils.Error(c, 401, "INVALID_PIN", "Invalid PIN")
		return
	}

	h.limiter.Reset(ip)
	utils.Success(c, 200, "Login successful", gin.H{"token": token})
}
