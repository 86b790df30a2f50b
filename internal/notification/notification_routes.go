package notification

import (
	"github.com/Saifeldin2401/prime-hotels-intranet-sub005/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	notifications := r.Group("/notifications")
	notifications.Use(middleware.AuthMiddleware())
	{
		notifications.GET("", middleware.RateLimitByUser(3, 10), handler.List)
		notifications.GET("/unread-count", middleware.RateLimitByUser(5, 20), handler.UnreadCount)
		notifications.POST("/:id/read", middleware.RateLimitByUser(2, 5), handler.MarkRead)
	}
}
