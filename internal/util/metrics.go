package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_created_total",
		Help: "Total number of orders created at checkout",
	})

	CheckoutsRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "checkouts_rejected_total",
		Help: "Total number of rejected checkout attempts",
	}, []string{"reason"})

	OrderStatusTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "order_status_transitions_total",
		Help: "Total number of admin order status transitions",
	}, []string{"to"})

	CouponsRedeemedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "coupons_redeemed_total",
		Help: "Total number of coupon redemptions",
	})

	CouponRejectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "coupon_rejections_total",
		Help: "Total number of coupon validation rejections",
	}, []string{"reason"})

	CouponReleasesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "coupon_releases_total",
		Help: "Total number of coupon usages handed back after a failed checkout",
	})

	OrderEventsPublishedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "order_events_published_total",
		Help: "Total number of order events published to the broker",
	}, []string{"type"})

	WebSocketClientsConnected = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "websocket_clients_connected",
		Help: "Number of browsers currently attached to the update feed",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
