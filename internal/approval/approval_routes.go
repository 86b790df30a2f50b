package approval

import (
	"github.com/Saifeldin2401/prime-hotels-intranet-sub005/internal/middleware"
	"github.com/Saifeldin2401/prime-hotels-intranet-sub005/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	rdb ...*redis.Client,
) {
	var redisClient *redis.Client
	if len(rdb) > 0 {
		redisClient = rdb[0]
	}

	approvals := r.Group("/approvals")
	approvals.Use(middleware.AuthMiddleware())
	{
		approvals.GET("/assigned", middleware.RBACAuthorize(rbacService, "approval", "read"), handler.GetAssigned)
		approvals.GET("/latest/:entityType/:entityId", middleware.RBACAuthorize(rbacService, "approval", "read"), handler.GetLatest)
		approvals.GET("/:id", middleware.RBACAuthorize(rbacService, "approval", "read"), handler.GetById)
		if redisClient != nil {
			approvals.POST(
				"",
				middleware.Idempotency(redisClient),
				middleware.RBACAuthorize(rbacService, "approval", "create"),
				handler.Submit,
			)
			approvals.POST(
				"/:id/actions",
				middleware.Idempotency(redisClient),
				middleware.RBACAuthorize(rbacService, "approval", "act"),
				handler.Act,
			)
		} else {
			approvals.POST("", middleware.RBACAuthorize(rbacService, "approval", "create"), handler.Submit)
			approvals.POST("/:id/actions", middleware.RBACAuthorize(rbacService, "approval", "act"), handler.Act)
		}
	}
}
