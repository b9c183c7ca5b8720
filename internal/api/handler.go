package api

import (
	"errors"
	"net/http"
	"time"

	"snackshop/internal/auth"
	"snackshop/internal/models"
	"snackshop/internal/service"
	"snackshop/internal/store"
	"snackshop/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	checkout     *service.CheckoutService
	orders       *service.OrderService
	coupons      *service.CouponService
	catalog      *service.CatalogService
	content      *service.ContentService
	users        *store.Store
	sessions     *auth.Sessions
	google       *auth.Google
	hub          *ws.Hub
	cookieSecure bool
}

// NewHandler creates a new HTTP handler
func NewHandler(
	checkout *service.CheckoutService,
	orders *service.OrderService,
	coupons *service.CouponService,
	catalog *service.CatalogService,
	content *service.ContentService,
	users *store.Store,
	sessions *auth.Sessions,
	google *auth.Google,
	hub *ws.Hub,
	cookieSecure bool,
) *Handler {
	return &Handler{
		checkout:     checkout,
		orders:       orders,
		coupons:      coupons,
		catalog:      catalog,
		content:      content,
		users:        users,
		sessions:     sessions,
		google:       google,
		hub:          hub,
		cookieSecure: cookieSecure,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())
	router.Use(h.loadUser())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/ws", func(c *gin.Context) {
		h.hub.HandleConnection(c.Writer, c.Request)
	})

	api := router.Group("/api")
	{
		api.GET("/products", h.listProducts)
		api.GET("/products/featured", h.featuredProducts)
		api.GET("/products/:id", h.getProduct)

		api.GET("/banners", h.activeBanners)
		api.GET("/announcements", h.activeAnnouncements)
		api.GET("/brand-content", h.brandContent)

		api.GET("/reviews/approved", h.approvedReviews)
		api.POST("/reviews", h.submitReview)

		api.POST("/subscribers", h.subscribe)

		api.POST("/coupons/validate", h.validateCoupon)
		api.POST("/coupons/apply", h.applyCoupon)

		api.POST("/auth/signup", h.signup)
		api.POST("/auth/login", h.login)
		api.POST("/auth/logout", h.logout)
		api.GET("/auth/user", h.authUser)

		// Guest checkout is permitted; a live session attaches the user.
		api.POST("/orders", h.placeOrder)
		api.GET("/orders", requireUser(), h.myOrders)
	}

	router.GET("/auth/google", h.googleLogin)
	router.GET("/auth/google/callback", h.googleCallback)

	h.setupAdminRoutes(router)
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// Catalog

func (h *Handler) listProducts(c *gin.Context) {
	products, err := h.catalog.ListProducts(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *Handler) featuredProducts(c *gin.Context) {
	products, err := h.catalog.FeaturedProducts(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *Handler) getProduct(c *gin.Context) {
	product, err := h.catalog.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// Content

func (h *Handler) activeBanners(c *gin.Context) {
	banners, err := h.content.ActiveBanners(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, banners)
}

func (h *Handler) activeAnnouncements(c *gin.Context) {
	items, err := h.content.ActiveAnnouncements(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) brandContent(c *gin.Context) {
	sections, err := h.content.BrandContent(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sections)
}

func (h *Handler) approvedReviews(c *gin.Context) {
	reviews, err := h.content.ApprovedReviews(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

type submitReviewRequest struct {
	CustomerName  string  `json:"customerName" binding:"required"`
	CustomerEmail *string `json:"customerEmail"`
	ProductID     *string `json:"productId"`
	Rating        int     `json:"rating" binding:"required,min=1,max=5"`
	ReviewText    *string `json:"reviewText"`
	Image         *string `json:"image"`
}

func (h *Handler) submitReview(c *gin.Context) {
	var req submitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review data"})
		return
	}

	review := &models.Review{
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		ProductID:     req.ProductID,
		Rating:        req.Rating,
		ReviewText:    req.ReviewText,
		Image:         req.Image,
	}
	if err := h.content.SubmitReview(c.Request.Context(), review); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, review)
}

type subscribeRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func (h *Handler) subscribe(c *gin.Context) {
	var req subscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subscriber data"})
		return
	}

	sub, err := h.content.Subscribe(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, service.ErrAlreadySubscribed) {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already subscribed"})
			return
		}
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

// Coupons

type validateCouponRequest struct {
	Code        string  `json:"code" binding:"required"`
	OrderAmount float64 `json:"orderAmount" binding:"required"`
}

func (h *Handler) validateCoupon(c *gin.Context) {
	var req validateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Code and order amount are required"})
		return
	}

	outcome, err := h.coupons.ValidateCode(c.Request.Context(), req.Code, req.OrderAmount)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, outcome)
}

type applyCouponRequest struct {
	Code string `json:"code" binding:"required"`
}

func (h *Handler) applyCoupon(c *gin.Context) {
	var req applyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Coupon code is required"})
		return
	}

	ok, err := h.coupons.Apply(c.Request.Context(), req.Code)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": ok})
}

// Checkout and orders

type placeOrderRequest struct {
	CustomerName    string            `json:"customerName" binding:"required"`
	CustomerEmail   string            `json:"customerEmail"`
	CustomerPhone   string            `json:"customerPhone" binding:"required"`
	ShippingAddress string            `json:"shippingAddress" binding:"required"`
	Items           []models.CartItem `json:"items" binding:"required"`
	CouponCode      string            `json:"couponCode"`
}

func (h *Handler) placeOrder(c *gin.Context) {
	var req placeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order data"})
		return
	}

	svcReq := &service.PlaceOrderRequest{
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		ShippingAddress: req.ShippingAddress,
		Items:           req.Items,
		CouponCode:      req.CouponCode,
	}

	// An authenticated session pins the order identity; the email always
	// comes from the account, not the form.
	if user := currentUser(c); user != nil {
		svcReq.UserID = &user.ID
		svcReq.CustomerEmail = user.Email
		if svcReq.CustomerName == "" {
			svcReq.CustomerName = user.Name
		}
	} else if svcReq.CustomerEmail == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Customer email is required"})
		return
	}

	order, err := h.checkout.PlaceOrder(c.Request.Context(), svcReq)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *Handler) myOrders(c *gin.Context) {
	user := currentUser(c)
	orders, err := h.orders.ListUserOrders(c.Request.Context(), user.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// fail maps service errors to HTTP responses.
func (h *Handler) fail(c *gin.Context, err error) {
	var rejection *service.RejectionError
	switch {
	case errors.Is(err, service.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &rejection):
		c.JSON(http.StatusBadRequest, gin.H{"error": rejection.Reason})
	case errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, models.ErrUnknownStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrCouponNotFound),
		errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
