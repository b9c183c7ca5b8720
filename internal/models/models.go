package models

import (
	"math"
	"time"

	"github.com/lib/pq"
)

// User is a storefront customer account. PasswordHash is empty for
// accounts created through Google sign-in.
type User struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Name         string    `db:"name" json:"name"`
	GoogleID     *string   `db:"google_id" json:"-"`
	Avatar       *string   `db:"avatar" json:"avatar,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Admin is a back-office account, a credential scheme separate from User.
type Admin struct {
	ID           string `db:"id" json:"id"`
	Username     string `db:"username" json:"username"`
	PasswordHash string `db:"password_hash" json:"-"`
}

// Product is a catalog entry.
type Product struct {
	ID           string         `db:"id" json:"id"`
	Name         string         `db:"name" json:"name"`
	Description  string         `db:"description" json:"description"`
	Price        float64        `db:"price" json:"price"`
	RegularPrice *float64       `db:"regular_price" json:"regularPrice,omitempty"`
	Images       pq.StringArray `db:"images" json:"images"`
	Category     string         `db:"category" json:"category"`
	Inventory    int            `db:"inventory" json:"inventory"`
	IsFeatured   bool           `db:"is_featured" json:"isFeatured"`
}

// CartItem is one line of a cart, carrying the price and name as the
// customer saw them. Orders embed these as an immutable snapshot; later
// catalog changes never touch existing orders.
type CartItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image"`
}

// Order is created once at checkout. Status is the only field mutated
// afterward; orders are never deleted in-app.
type Order struct {
	ID              string      `db:"id" json:"id"`
	UserID          *string     `db:"user_id" json:"userId,omitempty"`
	CustomerName    string      `db:"customer_name" json:"customerName"`
	CustomerEmail   string      `db:"customer_email" json:"customerEmail"`
	CustomerPhone   string      `db:"customer_phone" json:"customerPhone"`
	ShippingAddress string      `db:"shipping_address" json:"shippingAddress"`
	Items           []CartItem  `db:"-" json:"items"`
	ItemsJSON       string      `db:"items" json:"-"`
	TotalAmount     float64     `db:"total_amount" json:"totalAmount"`
	CouponCode      *string     `db:"coupon_code" json:"couponCode,omitempty"`
	DiscountAmount  float64     `db:"discount_amount" json:"discountAmount"`
	Status          OrderStatus `db:"status" json:"status"`
	CreatedAt       time.Time   `db:"created_at" json:"createdAt"`
}

// Discount types
const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

// Coupon is a discount rule keyed by a unique upper-cased code.
type Coupon struct {
	ID                    string     `db:"id" json:"id"`
	Code                  string     `db:"code" json:"code"`
	Description           string     `db:"description" json:"description"`
	DiscountType          string     `db:"discount_type" json:"discountType"`
	DiscountValue         float64    `db:"discount_value" json:"discountValue"`
	MinimumOrderAmount    float64    `db:"minimum_order_amount" json:"minimumOrderAmount"`
	MaximumDiscountAmount *float64   `db:"maximum_discount_amount" json:"maximumDiscountAmount,omitempty"`
	UsageLimit            *int       `db:"usage_limit" json:"usageLimit,omitempty"`
	UsedCount             int        `db:"used_count" json:"usedCount"`
	IsActive              bool       `db:"is_active" json:"isActive"`
	ValidFrom             time.Time  `db:"valid_from" json:"validFrom"`
	ValidUntil            *time.Time `db:"valid_until" json:"validUntil,omitempty"`
	CreatedAt             time.Time  `db:"created_at" json:"createdAt"`
}

// Review is a customer product review, hidden until approved.
type Review struct {
	ID            string    `db:"id" json:"id"`
	CustomerName  string    `db:"customer_name" json:"customerName"`
	CustomerEmail *string   `db:"customer_email" json:"customerEmail,omitempty"`
	ProductID     *string   `db:"product_id" json:"productId,omitempty"`
	Rating        int       `db:"rating" json:"rating"`
	ReviewText    *string   `db:"review_text" json:"reviewText,omitempty"`
	Image         *string   `db:"image" json:"image,omitempty"`
	IsApproved    bool      `db:"is_approved" json:"isApproved"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
}

// Banner is a hero-carousel slide.
type Banner struct {
	ID       string  `db:"id" json:"id"`
	Image    string  `db:"image" json:"image"`
	Title    *string `db:"title" json:"title,omitempty"`
	Subtitle *string `db:"subtitle" json:"subtitle,omitempty"`
	Position int     `db:"position" json:"order"`
	IsActive bool    `db:"is_active" json:"isActive"`
}

// Announcement is a line in the rotating top-of-page strip.
type Announcement struct {
	ID              string    `db:"id" json:"id"`
	Text            string    `db:"text" json:"text"`
	BackgroundColor string    `db:"background_color" json:"backgroundColor"`
	TextColor       string    `db:"text_color" json:"textColor"`
	IsActive        bool      `db:"is_active" json:"isActive"`
	Position        int       `db:"position" json:"order"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
}

// BrandContent is a named editable content section (about page, story, etc).
type BrandContent struct {
	ID      string `db:"id" json:"id"`
	Section string `db:"section" json:"section"`
	Title   string `db:"title" json:"title"`
	Content string `db:"content" json:"content"`
}

// Subscriber is a newsletter signup.
type Subscriber struct {
	ID        string    `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Round2 rounds an amount to currency precision. Applied at persistence
// and display boundaries, never inside discount math.
func Round2(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// Subtotal sums price x quantity over a cart snapshot.
func Subtotal(items []CartItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}
