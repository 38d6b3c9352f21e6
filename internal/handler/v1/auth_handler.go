package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dmehra2102/prod-golang-projects/rvutrack/internal/service"
)

// sessionCookieName carries the access token for browser clients that prefer
// cookies over the Authorization header. Both are accepted by the auth
// middleware.
const sessionCookieName = "session"

type AuthHandler struct {
	svc *service.AuthService
	log *zap.Logger
}

func NewAuthHandler(svc *service.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, log: log}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}
	if !bindJSON(c, &req) {
		return
	}

	u, err := h.svc.Register(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, gin.H{
		"id":    u.ID,
		"email": u.Email,
		"name":  u.Name,
	})
}

// Login handles POST /auth/login. On success the access token is returned in
// the body and mirrored into the session cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !bindJSON(c, &req) {
		return
	}

	pair, err := h.svc.Login(c.Request.Context(), req.Email, req.Password, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.setSessionCookie(c, pair.AccessToken)
	respondOK(c, pair)
}

// Refresh handles POST /auth/refresh.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if !bindJSON(c, &req) {
		return
	}

	pair, err := h.svc.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.setSessionCookie(c, pair.AccessToken)
	respondOK(c, pair)
}

// Logout handles POST /auth/logout. Tokens are stateless; logout just clears
// the cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(sessionCookieName, "", -1, "/", "", true, true)
	respondOK(c, gin.H{"message": "logged out"})
}

// ChangePassword handles PUT /user/password.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if !bindJSON(c, &req) {
		return
	}

	if err := h.svc.ChangePassword(c.Request.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, gin.H{"message": "password updated"})
}

// DeleteAccount handles DELETE /user. It wipes the user's visits, procedures
// and favorites before removing the account itself.
func (h *AuthHandler) DeleteAccount(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	if err := h.svc.DeleteAccount(c.Request.Context(), userID, c.ClientIP()); err != nil {
		respondServiceError(c, err)
		return
	}

	c.SetCookie(sessionCookieName, "", -1, "/", "", true, true)
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	// HttpOnly + Secure; SameSite comes from gin's default (Lax)
	c.SetCookie(sessionCookieName, token, 0, "/", "", true, true)
}
