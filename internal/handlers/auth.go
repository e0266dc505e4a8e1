package handlers

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/paraverse/backend/internal/auth"
	"github.com/paraverse/backend/internal/logger"
	"github.com/paraverse/backend/internal/util"
	"go.uber.org/zap"
)

// Register creates a new account with email/password
// POST /api/v1/auth/register
func (h *Handlers) Register(c *gin.Context) {
	var req auth.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	resp, err := h.auth.Register(req)
	if err != nil {
		if errors.Is(err, auth.ErrUserExists) {
			util.RespondConflict(c, "user")
			return
		}
		logger.Log.Error("Registration failed", zap.Error(err))
		util.RespondInternalError(c, "Failed to create account")
		return
	}

	// Welcome mail is best effort
	if h.mailer != nil {
		go func(email, name string) {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := h.mailer.SendWelcomeEmail(ctx, email, name); err != nil {
				logger.Log.Warn("Failed to send welcome email", zap.Error(err))
			}
		}(resp.User.Email, resp.User.DisplayName)
	}

	c.JSON(http.StatusCreated, resp)
}

// Login authenticates with email/password
// POST /api/v1/auth/login
func (h *Handlers) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	resp, err := h.auth.Login(req)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) || errors.Is(err, auth.ErrInvalidCredentials) {
			util.RespondUnauthorized(c, "invalid email or password")
			return
		}
		logger.Log.Error("Login failed", zap.Error(err))
		util.RespondInternalError(c, "Failed to log in")
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GoogleLogin redirects to the Google OAuth consent screen
// GET /api/v1/auth/google
func (h *Handlers) GoogleLogin(c *gin.Context) {
	state := uuid.New().String()
	// State round-trips through a short-lived cookie
	c.SetCookie("oauth_state", state, 600, "/", "", false, true)
	c.Redirect(http.StatusTemporaryRedirect, h.auth.GetGoogleOAuthURL(state))
}

// GoogleCallback completes the OAuth flow and issues a JWT
// GET /api/v1/auth/google/callback
func (h *Handlers) GoogleCallback(c *gin.Context) {
	state, err := c.Cookie("oauth_state")
	if err != nil || state == "" || state != c.Query("state") {
		util.RespondBadRequest(c, "invalid oauth state")
		return
	}

	code := c.Query("code")
	if code == "" {
		util.RespondBadRequest(c, "missing authorization code")
		return
	}

	resp, err := h.auth.HandleGoogleCallback(c.Request.Context(), code)
	if err != nil {
		logger.Log.Error("Google OAuth callback failed", zap.Error(err))
		util.RespondInternalError(c, "Google sign-in failed")
		return
	}

	// The web app picks the token up from the fragment
	if frontend := os.Getenv("FRONTEND_URL"); frontend != "" {
		c.Redirect(http.StatusTemporaryRedirect, frontend+"/auth/callback#token="+resp.Token)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Me returns the authenticated user
// GET /api/v1/auth/me
func (h *Handlers) Me(c *gin.Context) {
	user, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, user)
}
