package api

import (
	"net/http"
	"strconv"
	"time"

	"snackshop/internal/auth"
	"snackshop/internal/models"
	"snackshop/internal/util"

	"github.com/gin-gonic/gin"
)

// Session cookie names. Customer and admin credentials are separate
// schemes with separate cookies.
const (
	userCookie  = "session"
	adminCookie = "admin_session"
)

// Context keys set by the session middlewares.
const (
	ctxUser  = "user"
	ctxAdmin = "admin"
)

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}

// loadUser resolves the customer session cookie when present and stashes
// the user in the context. It never aborts; guests pass through.
func (h *Handler) loadUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(userCookie)
		if err != nil || token == "" {
			c.Next()
			return
		}

		userID, err := h.sessions.Resolve(c.Request.Context(), auth.ScopeUser, token)
		if err != nil || userID == "" {
			c.Next()
			return
		}

		user, err := h.users.GetUserByID(c.Request.Context(), userID)
		if err == nil && user != nil {
			c.Set(ctxUser, user)
		}
		c.Next()
	}
}

// requireUser aborts with 401 unless loadUser attached a customer.
func requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := c.Get(ctxUser); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			return
		}
		c.Next()
	}
}

// requireAdmin resolves the admin session cookie and aborts with 401 on
// any failure.
func (h *Handler) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(adminCookie)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Admin authentication required",
			})
			return
		}

		adminID, err := h.sessions.Resolve(c.Request.Context(), auth.ScopeAdmin, token)
		if err != nil || adminID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Admin authentication required",
			})
			return
		}

		admin, err := h.users.GetAdminByID(c.Request.Context(), adminID)
		if err != nil || admin == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Admin authentication required",
			})
			return
		}

		c.Set(ctxAdmin, admin)
		c.Next()
	}
}

// currentUser returns the authenticated customer, or nil for guests.
func currentUser(c *gin.Context) *models.User {
	val, ok := c.Get(ctxUser)
	if !ok {
		return nil
	}
	user, _ := val.(*models.User)
	return user
}

// currentAdmin returns the authenticated admin set by requireAdmin.
func currentAdmin(c *gin.Context) *models.Admin {
	val, ok := c.Get(ctxAdmin)
	if !ok {
		return nil
	}
	admin, _ := val.(*models.Admin)
	return admin
}
