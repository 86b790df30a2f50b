package staff

import (
	"github.com/Saifeldin2401/prime-hotels-intranet-sub005/internal/middleware"
	"github.com/Saifeldin2401/prime-hotels-intranet-sub005/internal/rbac"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	logger *zap.Logger,
) {
	members := r.Group("/staff")
	members.Use(middleware.AuthMiddleware())
	members.Use(middleware.ContextLogger(logger))
	{
		members.GET("",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "staff", "read"),
			handler.GetAll,
		)

		members.GET("/options",
			middleware.RateLimitByUser(5, 20),
			middleware.RBACAuthorize(rbacService, "staff", "read"),
			handler.GetOptions,
		)

		members.GET("/:id",
			middleware.RateLimitByUser(3, 10),
			middleware.RBACAuthorize(rbacService, "staff", "read"),
			handler.GetById,
		)

		members.POST("",
			middleware.RateLimitByUser(0.1, 1),
			middleware.RBACAuthorize(rbacService, "staff", "create"),
			handler.Create,
		)

		members.PUT("/:id",
			middleware.RateLimitByUser(0.5, 2),
			middleware.RBACAuthorize(rbacService, "staff", "update"),
			handler.Update,
		)

		members.DELETE("/:id",
			middleware.RateLimitByUser(0.05, 1),
			middleware.RBACAuthorize(rbacService, "staff", "delete"),
			handler.Delete,
		)
	}
}
