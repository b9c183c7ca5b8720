package api

import (
	"net/http"
	"time"

	"snackshop/internal/models"

	"github.com/gin-gonic/gin"
)

func (h *Handler) setupAdminRoutes(router *gin.Engine) {
	router.POST("/api/admin/login", h.adminLogin)
	router.POST("/api/admin/logout", h.adminLogout)
	router.POST("/api/admin/setup", h.adminSetup)

	admin := router.Group("/api/admin", h.requireAdmin())
	{
		admin.GET("/me", h.adminMe)

		admin.POST("/products", h.createProduct)
		admin.PATCH("/products/:id", h.updateProduct)
		admin.DELETE("/products/:id", h.deleteProduct)

		admin.GET("/orders", h.listOrders)
		admin.GET("/orders/:id", h.getOrder)
		admin.PATCH("/orders/:id/status", h.updateOrderStatus)

		admin.GET("/reviews", h.listReviews)
		admin.PATCH("/reviews/:id/approve", h.approveReview)
		admin.DELETE("/reviews/:id", h.deleteReview)

		admin.GET("/banners", h.listBanners)
		admin.POST("/banners", h.createBanner)
		admin.PATCH("/banners/:id", h.updateBanner)
		admin.DELETE("/banners/:id", h.deleteBanner)
		admin.POST("/banners/reorder", h.reorderBanners)

		admin.GET("/announcements", h.listAnnouncements)
		admin.POST("/announcements", h.createAnnouncement)
		admin.PATCH("/announcements/:id", h.updateAnnouncement)
		admin.DELETE("/announcements/:id", h.deleteAnnouncement)

		admin.POST("/brand-content", h.upsertBrandContent)

		admin.GET("/subscribers", h.listSubscribers)
		admin.DELETE("/subscribers/:id", h.deleteSubscriber)

		admin.GET("/coupons", h.listCoupons)
		admin.GET("/coupons/:id", h.getCoupon)
		admin.POST("/coupons", h.createCoupon)
		admin.PATCH("/coupons/:id", h.updateCoupon)
		admin.DELETE("/coupons/:id", h.deleteCoupon)
	}
}

// Products

type productRequest struct {
	Name         string   `json:"name" binding:"required"`
	Description  string   `json:"description" binding:"required"`
	Price        float64  `json:"price" binding:"required,gt=0"`
	RegularPrice *float64 `json:"regularPrice"`
	Images       []string `json:"images" binding:"required"`
	Category     string   `json:"category" binding:"required"`
	Inventory    int      `json:"inventory"`
	IsFeatured   bool     `json:"isFeatured"`
}

func (r *productRequest) toModel() *models.Product {
	return &models.Product{
		Name:         r.Name,
		Description:  r.Description,
		Price:        models.Round2(r.Price),
		RegularPrice: r.RegularPrice,
		Images:       r.Images,
		Category:     r.Category,
		Inventory:    r.Inventory,
		IsFeatured:   r.IsFeatured,
	}
}

func (h *Handler) createProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product data"})
		return
	}

	product := req.toModel()
	if err := h.catalog.CreateProduct(c.Request.Context(), product); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *Handler) updateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product data"})
		return
	}

	product := req.toModel()
	product.ID = c.Param("id")
	if err := h.catalog.UpdateProduct(c.Request.Context(), product); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *Handler) deleteProduct(c *gin.Context) {
	if err := h.catalog.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Orders

func (h *Handler) listOrders(c *gin.Context) {
	orders, err := h.orders.ListOrders(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) getOrder(c *gin.Context) {
	order, err := h.orders.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *Handler) updateOrderStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status is required"})
		return
	}

	order, err := h.orders.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// Reviews

func (h *Handler) listReviews(c *gin.Context) {
	reviews, err := h.content.AllReviews(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

func (h *Handler) approveReview(c *gin.Context) {
	if err := h.content.ApproveReview(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) deleteReview(c *gin.Context) {
	if err := h.content.DeleteReview(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Banners

type bannerRequest struct {
	Image    string  `json:"image" binding:"required"`
	Title    *string `json:"title"`
	Subtitle *string `json:"subtitle"`
	Position int     `json:"order"`
	IsActive *bool   `json:"isActive"`
}

func (r *bannerRequest) toModel() *models.Banner {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return &models.Banner{
		Image:    r.Image,
		Title:    r.Title,
		Subtitle: r.Subtitle,
		Position: r.Position,
		IsActive: active,
	}
}

func (h *Handler) listBanners(c *gin.Context) {
	banners, err := h.content.AllBanners(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, banners)
}

func (h *Handler) createBanner(c *gin.Context) {
	var req bannerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid banner data"})
		return
	}

	banner := req.toModel()
	if err := h.content.CreateBanner(c.Request.Context(), banner); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, banner)
}

func (h *Handler) updateBanner(c *gin.Context) {
	var req bannerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid banner data"})
		return
	}

	banner := req.toModel()
	banner.ID = c.Param("id")
	if err := h.content.UpdateBanner(c.Request.Context(), banner); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, banner)
}

func (h *Handler) deleteBanner(c *gin.Context) {
	if err := h.content.DeleteBanner(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type reorderRequest struct {
	IDs []string `json:"ids" binding:"required,min=1"`
}

func (h *Handler) reorderBanners(c *gin.Context) {
	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Banner IDs are required"})
		return
	}

	if err := h.content.ReorderBanners(c.Request.Context(), req.IDs); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Announcements

type announcementRequest struct {
	Text            string `json:"text" binding:"required"`
	BackgroundColor string `json:"backgroundColor"`
	TextColor       string `json:"textColor"`
	IsActive        *bool  `json:"isActive"`
	Position        int    `json:"order"`
}

func (r *announcementRequest) toModel() *models.Announcement {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	background := r.BackgroundColor
	if background == "" {
		background = "#000000"
	}
	textColor := r.TextColor
	if textColor == "" {
		textColor = "#ffffff"
	}
	return &models.Announcement{
		Text:            r.Text,
		BackgroundColor: background,
		TextColor:       textColor,
		IsActive:        active,
		Position:        r.Position,
	}
}

func (h *Handler) listAnnouncements(c *gin.Context) {
	items, err := h.content.AllAnnouncements(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) createAnnouncement(c *gin.Context) {
	var req announcementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid announcement data"})
		return
	}

	item := req.toModel()
	if err := h.content.CreateAnnouncement(c.Request.Context(), item); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *Handler) updateAnnouncement(c *gin.Context) {
	var req announcementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid announcement data"})
		return
	}

	item := req.toModel()
	item.ID = c.Param("id")
	if err := h.content.UpdateAnnouncement(c.Request.Context(), item); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) deleteAnnouncement(c *gin.Context) {
	if err := h.content.DeleteAnnouncement(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Brand content

type brandContentRequest struct {
	Section string `json:"section" binding:"required"`
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
}

func (h *Handler) upsertBrandContent(c *gin.Context) {
	var req brandContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid brand content data"})
		return
	}

	bc := &models.BrandContent{
		Section: req.Section,
		Title:   req.Title,
		Content: req.Content,
	}
	if err := h.content.UpsertBrandContent(c.Request.Context(), bc); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, bc)
}

// Subscribers

func (h *Handler) listSubscribers(c *gin.Context) {
	subs, err := h.content.Subscribers(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, subs)
}

func (h *Handler) deleteSubscriber(c *gin.Context) {
	if err := h.content.DeleteSubscriber(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Coupons

type couponRequest struct {
	Code                  string     `json:"code" binding:"required"`
	Description           string     `json:"description"`
	DiscountType          string     `json:"discountType" binding:"required"`
	DiscountValue         float64    `json:"discountValue" binding:"required"`
	MinimumOrderAmount    float64    `json:"minimumOrderAmount"`
	MaximumDiscountAmount *float64   `json:"maximumDiscountAmount"`
	UsageLimit            *int       `json:"usageLimit"`
	IsActive              *bool      `json:"isActive"`
	ValidFrom             *time.Time `json:"validFrom"`
	ValidUntil            *time.Time `json:"validUntil"`
}

func (r *couponRequest) toModel() *models.Coupon {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	validFrom := time.Now()
	if r.ValidFrom != nil {
		validFrom = *r.ValidFrom
	}
	return &models.Coupon{
		Code:                  r.Code,
		Description:           r.Description,
		DiscountType:          r.DiscountType,
		DiscountValue:         r.DiscountValue,
		MinimumOrderAmount:    r.MinimumOrderAmount,
		MaximumDiscountAmount: r.MaximumDiscountAmount,
		UsageLimit:            r.UsageLimit,
		IsActive:              active,
		ValidFrom:             validFrom,
		ValidUntil:            r.ValidUntil,
	}
}

func (h *Handler) listCoupons(c *gin.Context) {
	coupons, err := h.coupons.ListCoupons(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, coupons)
}

func (h *Handler) getCoupon(c *gin.Context) {
	coupon, err := h.coupons.GetCoupon(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, coupon)
}

func (h *Handler) createCoupon(c *gin.Context) {
	var req couponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid coupon data"})
		return
	}

	coupon := req.toModel()
	if err := h.coupons.CreateCoupon(c.Request.Context(), coupon); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, coupon)
}

func (h *Handler) updateCoupon(c *gin.Context) {
	var req couponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid coupon data"})
		return
	}

	coupon := req.toModel()
	coupon.ID = c.Param("id")
	if err := h.coupons.UpdateCoupon(c.Request.Context(), coupon); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, coupon)
}

func (h *Handler) deleteCoupon(c *gin.Context) {
	if err := h.coupons.DeleteCoupon(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
