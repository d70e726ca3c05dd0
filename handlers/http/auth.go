package httpHandler

import (
	"net/http"

	"devconnector/middleware"
	"devconnector/usecases"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	useCase      *usecases.AuthUseCase
	cookieMaxAge int
	secure       bool
}

// NewAuthHandler builds the auth endpoints. Session cookies live cookieDays
// days and are marked secure when secure is set.
func NewAuthHandler(useCase *usecases.AuthUseCase, cookieDays int, secure bool) *AuthHandler {
	return &AuthHandler{
		useCase:      useCase,
		cookieMaxAge: cookieDays * 24 * 60 * 60,
		secure:       secure,
	}
}

func (h *AuthHandler) sendTokenResponse(c *gin.Context, status int, session *usecases.Session) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, session.Token, h.cookieMaxAge, "/", "", h.secure, true)
	c.JSON(status, gin.H{
		"success": true,
		"token":   session.Token,
	})
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req usecases.RegisterInput
	if !bindJSON(c, &req) {
		return
	}
	session, err := h.useCase.Register(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.sendTokenResponse(c, http.StatusOK, session)
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req usecases.LoginInput
	if !bindJSON(c, &req) {
		return
	}
	session, err := h.useCase.Login(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.sendTokenResponse(c, http.StatusOK, session)
}

// Logout handles GET /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, "none", 10, "/", "", h.secure, true)
	deleted(c)
}

// Me handles GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.useCase.Me(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, http.StatusOK, user)
}

// UpdateDetails handles PUT /api/v1/auth/updatedetails
func (h *AuthHandler) UpdateDetails(c *gin.Context) {
	var req usecases.UpdateDetailsInput
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.useCase.UpdateDetails(c.Request.Context(), middleware.CurrentUserID(c), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, http.StatusOK, user)
}

// UpdatePassword handles PUT /api/v1/auth/updatepassword
func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	var req usecases.UpdatePasswordInput
	if !bindJSON(c, &req) {
		return
	}
	session, err := h.useCase.UpdatePassword(c.Request.Context(), middleware.CurrentUserID(c), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.sendTokenResponse(c, http.StatusOK, session)
}

// ForgotPassword handles POST /api/v1/auth/forgotpassword
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req usecases.ForgotPasswordInput
	if !bindJSON(c, &req) {
		return
	}

	resetURL := func(token string) string {
		return requestScheme(c) + "://" + c.Request.Host + "/api/v1/auth/resetpassword/" + token
	}
	if err := h.useCase.ForgotPassword(c.Request.Context(), req, resetURL); err != nil {
		_ = c.Error(err)
		return
	}
	ok(c, http.StatusOK, "Email sent")
}

// ResetPassword handles PUT /api/v1/auth/resetpassword/:resettoken
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req usecases.ResetPasswordInput
	if !bindJSON(c, &req) {
		return
	}
	session, err := h.useCase.ResetPassword(c.Request.Context(), c.Param("resettoken"), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.sendTokenResponse(c, http.StatusOK, session)
}

func requestScheme(c *gin.Context) string {
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		return proto
	}
	if c.Request.TLS != nil {
		return "https"
	}
	return "http"
}
