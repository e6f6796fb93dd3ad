package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/mauth/internal/middleware"
	appErr "github.com/xxxsen/mauth/internal/pkg/errors"
	"github.com/xxxsen/mauth/internal/pkg/response"
	"github.com/xxxsen/mauth/internal/service"
)

// CookieConfig controls the session cookie attributes. In production the
// cookie is Secure with SameSite=None so the SPA can call cross-origin; in
// development it stays Lax over plain http.
type CookieConfig struct {
	Secure bool
	MaxAge time.Duration
}

type AuthHandler struct {
	auth   *service.AuthService
	cookie CookieConfig
}

func NewAuthHandler(auth *service.AuthService, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{auth: auth, cookie: cookie}
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	if h.cookie.Secure {
		c.SetSameSite(http.SameSiteNoneMode)
	} else {
		c.SetSameSite(http.SameSiteLaxMode)
	}
	c.SetCookie(middleware.SessionCookie, token, int(h.cookie.MaxAge.Seconds()), "/", "", h.cookie.Secure, true)
}

func (h *AuthHandler) clearSessionCookie(c *gin.Context) {
	if h.cookie.Secure {
		c.SetSameSite(http.SameSiteNoneMode)
	} else {
		c.SetSameSite(http.SameSiteLaxMode)
	}
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.cookie.Secure, true)
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, "Missing details")
		return
	}
	_, token, err := h.auth.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		handleError(c, err)
		return
	}
	h.setSessionCookie(c, token)
	response.Success(c, "")
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, "Email and password are required")
		return
	}
	if req.Email == "" || req.Password == "" {
		response.Error(c, "Email and password are required")
		return
	}
	_, token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		// login reports an unknown email distinctly from a bad password
		if appErr.IsNotFound(err) {
			response.Error(c, "Invalid email")
			return
		}
		handleError(c, err)
		return
	}
	h.setSessionCookie(c, token)
	response.Success(c, "")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.clearSessionCookie(c)
	response.Success(c, "Logged Out")
}

func (h *AuthHandler) SendVerifyOTP(c *gin.Context) {
	if err := h.auth.SendVerifyOTP(c.Request.Context(), getUserID(c)); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, "Verification OTP sent on email")
}

type verifyAccountRequest struct {
	UserID string `json:"userId"`
	OTP    string `json:"otp"`
}

func (h *AuthHandler) VerifyAccount(c *gin.Context) {
	var req verifyAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, "Missing details")
		return
	}
	if err := h.auth.VerifyEmail(c.Request.Context(), req.UserID, req.OTP); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, "Email verified successfully")
}

func (h *AuthHandler) IsAuthenticated(c *gin.Context) {
	response.Success(c, "")
}

type sendResetOTPRequest struct {
	Email string `json:"email"`
}

func (h *AuthHandler) SendResetOTP(c *gin.Context) {
	var req sendResetOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, "Email is required")
		return
	}
	if req.Email == "" {
		response.Error(c, "Email is required")
		return
	}
	if err := h.auth.SendResetOTP(c.Request.Context(), req.Email); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, "Reset OTP sent to your email")
}

type resetPasswordRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"newPassword"`
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, "Email, OTP, and new password are required")
		return
	}
	if req.Email == "" || req.OTP == "" || req.NewPassword == "" {
		response.Error(c, "Email, OTP, and new password are required")
		return
	}
	if err := h.auth.ResetPassword(c.Request.Context(), req.Email, req.OTP, req.NewPassword); err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, "Password has been reset successfully")
}
