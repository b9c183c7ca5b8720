package api

import (
	"errors"
	"net/http"

	"snackshop/internal/auth"
	"snackshop/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const oauthStateCookie = "oauth_state"

func (h *Handler) setUserCookie(c *gin.Context, token string) {
	c.SetCookie(userCookie, token, int(h.sessions.TTL().Seconds()), "/", "", h.cookieSecure, true)
}

func (h *Handler) setAdminCookie(c *gin.Context, token string) {
	c.SetCookie(adminCookie, token, int(h.sessions.TTL().Seconds()), "/", "", h.cookieSecure, true)
}

type signupRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
}

func (h *Handler) signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email, password and name are required"})
		return
	}

	if err := auth.ValidateEmail(req.Email); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := auth.ValidatePassword(req.Password); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	existing, err := h.users.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		h.fail(c, err)
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
	}
	if err := h.users.CreateUser(c.Request.Context(), user); err != nil {
		h.fail(c, err)
		return
	}

	token, err := h.sessions.Create(c.Request.Context(), auth.ScopeUser, user.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.setUserCookie(c, token)

	c.JSON(http.StatusOK, user)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	user, err := h.users.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil {
		h.fail(c, err)
		return
	}
	if user == nil || user.PasswordHash == "" || !auth.CheckPassword(user.PasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	token, err := h.sessions.Create(c.Request.Context(), auth.ScopeUser, user.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.setUserCookie(c, token)

	c.JSON(http.StatusOK, user)
}

func (h *Handler) logout(c *gin.Context) {
	if token, err := c.Cookie(userCookie); err == nil && token != "" {
		_ = h.sessions.Revoke(c.Request.Context(), auth.ScopeUser, token)
	}
	c.SetCookie(userCookie, "", -1, "/", "", h.cookieSecure, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) authUser(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// Google sign-in

func (h *Handler) googleLogin(c *gin.Context) {
	if !h.google.Enabled() {
		c.JSON(http.StatusNotFound, gin.H{"error": "Google sign-in is not configured"})
		return
	}

	state := uuid.New().String()
	c.SetCookie(oauthStateCookie, state, 600, "/", "", h.cookieSecure, true)
	c.Redirect(http.StatusTemporaryRedirect, h.google.AuthCodeURL(state))
}

func (h *Handler) googleCallback(c *gin.Context) {
	if !h.google.Enabled() {
		c.JSON(http.StatusNotFound, gin.H{"error": "Google sign-in is not configured"})
		return
	}

	state, err := c.Cookie(oauthStateCookie)
	if err != nil || state == "" || state != c.Query("state") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid OAuth state"})
		return
	}
	c.SetCookie(oauthStateCookie, "", -1, "/", "", h.cookieSecure, true)

	profile, err := h.google.Exchange(c.Request.Context(), c.Query("code"))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Google sign-in failed"})
		return
	}

	user, err := h.resolveGoogleUser(c, profile)
	if err != nil {
		h.fail(c, err)
		return
	}

	token, err := h.sessions.Create(c.Request.Context(), auth.ScopeUser, user.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.setUserCookie(c, token)

	c.Redirect(http.StatusTemporaryRedirect, "/")
}

// resolveGoogleUser finds or creates the account for a Google profile:
// by Google ID first, then by email (linking the Google ID), then a
// fresh account with no password.
func (h *Handler) resolveGoogleUser(c *gin.Context, profile *auth.GoogleProfile) (*models.User, error) {
	ctx := c.Request.Context()

	user, err := h.users.GetUserByGoogleID(ctx, profile.ID)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	user, err = h.users.GetUserByEmail(ctx, profile.Email)
	if err != nil {
		return nil, err
	}
	if user != nil {
		if err := h.users.LinkGoogleID(ctx, user.ID, profile.ID); err != nil {
			return nil, err
		}
		return user, nil
	}

	googleID := profile.ID
	user = &models.User{
		Email:    profile.Email,
		Name:     profile.Name,
		GoogleID: &googleID,
	}
	if profile.Picture != "" {
		picture := profile.Picture
		user.Avatar = &picture
	}
	if err := h.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Admin auth

type adminLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) adminLogin(c *gin.Context) {
	var req adminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password are required"})
		return
	}

	admin, err := h.users.GetAdminByUsername(c.Request.Context(), req.Username)
	if err != nil {
		h.fail(c, err)
		return
	}
	if admin == nil || !auth.CheckPassword(admin.PasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := h.sessions.Create(c.Request.Context(), auth.ScopeAdmin, admin.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.setAdminCookie(c, token)

	c.JSON(http.StatusOK, gin.H{"id": admin.ID, "username": admin.Username})
}

func (h *Handler) adminLogout(c *gin.Context) {
	if token, err := c.Cookie(adminCookie); err == nil && token != "" {
		_ = h.sessions.Revoke(c.Request.Context(), auth.ScopeAdmin, token)
	}
	c.SetCookie(adminCookie, "", -1, "/", "", h.cookieSecure, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) adminMe(c *gin.Context) {
	admin := currentAdmin(c)
	c.JSON(http.StatusOK, gin.H{"id": admin.ID, "username": admin.Username})
}

// adminSetup bootstraps the first admin account. Once any admin exists
// the endpoint is closed.
func (h *Handler) adminSetup(c *gin.Context) {
	count, err := h.users.CountAdmins(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	if count > 0 {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin setup already completed"})
		return
	}

	var req adminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password are required"})
		return
	}
	if err := auth.ValidatePassword(req.Password); err != nil {
		if errors.Is(err, auth.ErrWeakPassword) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.fail(c, err)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}

	admin := &models.Admin{Username: req.Username, PasswordHash: hash}
	if err := h.users.CreateAdmin(c.Request.Context(), admin); err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Admin setup completed successfully",
		"adminId": admin.ID,
	})
}
