package property

import (
	"github.com/Saifeldin2401/prime-hotels-intranet-sub005/internal/middleware"
	"github.com/Saifeldin2401/prime-hotels-intranet-sub005/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	properties := r.Group("/properties")
	properties.Use(middleware.AuthMiddleware())
	{
		properties.GET("/me",
			middleware.RateLimitByUser(2, 10),
			handler.GetMe,
		)

		properties.PUT("/me",
			middleware.RateLimitByUser(0.1, 1),
			middleware.RBACAuthorize(rbacService, "property", "update"),
			handler.UpdateMe,
		)
	}
}
