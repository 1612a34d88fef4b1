package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"printshop-backend/config"
	"printshop-backend/internal/metrics"
	"printshop-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(h *Handler, cfg *config.Config, m *metrics.Registry) *gin.Engine {
	r := gin.Default()

	r.GET("/metrics", gin.WrapH(m.Handler()))

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst)

	cacheTTL := time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		// Public: shop views anyone can display.
		api.GET("/shops/:shop/printers", caching, h.ListPrinters)
		api.GET("/shops/:shop/pricing", caching, h.ListPricing)
		api.GET("/vapid_public_key", h.GetVAPIDPublicKey)

		authed := api.Group("", mw.Auth(cfg.Auth.JWTSecret))
		{
			authed.POST("/orders", h.CreateOrder)
			authed.GET("/orders", h.ListMyOrders)
			authed.POST("/orders/:id/cancel", h.CancelOrder)

			authed.POST("/uploads", h.UploadFile)

			authed.GET("/notifications", h.ListNotifications)
			authed.POST("/notifications/:id/read", h.MarkNotificationRead)

			authed.GET("/subscriptions", h.GetSubscriptions)
			authed.PUT("/subscriptions", h.PutSubscription)
			authed.DELETE("/subscriptions", h.DeleteSubscription)

			authed.GET("/events", h.StreamEvents)

			admin := authed.Group("/admin", mw.RequireAdmin())
			{
				admin.GET("/orders", h.AdminListOrders)
				admin.GET("/orders/by-number/:number", h.AdminGetOrderByNumber)
				admin.PATCH("/orders/:id/status", h.AdminUpdateOrderStatus)

				admin.POST("/printers", h.AdminCreatePrinter)
				admin.PATCH("/printers/:id", h.AdminUpdatePrinter)
				admin.DELETE("/printers/:id", h.AdminDeletePrinter)

				admin.PUT("/pricing", h.AdminSetPrice)

				admin.GET("/violations", h.AdminListViolations)
				admin.POST("/violations", h.AdminSendViolation)
				admin.POST("/violations/:id/settle", h.AdminSettleViolation)

				admin.POST("/users/:id/approve", h.AdminApproveAccount)
				admin.POST("/users/:id/decline", h.AdminDeclineAccount)
				admin.POST("/users/:id/ban", h.AdminBanUser)
				admin.POST("/users/:id/unban", h.AdminUnbanUser)
			}
		}
	}

	return r
}
