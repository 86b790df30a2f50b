package app

import (
	"database/sql"
	"path/filepath"

	"github.com/Saifeldin2401/prime-hotels-intranet-sub005/internal/approval"
	"github.com/Saifeldin2401/prime-hotels-intranet-sub005/internal/assignment"
	"github.com/Saifeldin2401/prime-hotels-intranet-sub005/internal/auth"
	"github.com/Saifeldin2401/prime-hotels-intranet-sub005/internal/messaging/kafka"
	"github.com/Saifeldin2401/prime-hotels-intranet-sub005/internal/notification"
	"github.com/Saifeldin2401/prime-hotels-intranet-sub005/internal/property"
	"github.com/Saifeldin2401/prime-hotels-intranet-sub005/internal/rbac"
	"github.com/Saifeldin2401/prime-hotels-intranet-sub005/internal/rbac/infra"
	"github.com/Saifeldin2401/prime-hotels-intranet-sub005/internal/rbac/rbac_http"
	"github.com/Saifeldin2401/prime-hotels-intranet-sub005/internal/shared/counter"
	"github.com/Saifeldin2401/prime-hotels-intranet-sub005/internal/staff"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	logger := zap.L()

	// --- Repositories ---
	rbacRepo := rbac.NewRepository(gormDB)
	authRepo := auth.NewRepository(gormDB)
	staffRepo := staff.NewRepository(gormDB)
	propertyRepo := property.NewRepository(gormDB)
	approvalRepo := approval.NewRepository(gormDB)
	assignmentRepo := assignment.NewRepository(gormDB)
	notificationRepo := notification.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(filepath.Join("configs", "rbac_model.conf"))
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(rbacRepo, enforcer)

	// --- Services ---
	authService := auth.NewService(authRepo, rbacService, staffRepo)
	staffService := staff.NewServiceWithOutbox(db, staffRepo, counterRepo, outboxRepo, rdb, logger)
	propertyService := property.NewService(propertyRepo)
	assignmentService := assignment.NewService(assignmentRepo, rdb, logger)
	approvalService := approval.NewServiceWithOutbox(
		db,
		approvalRepo,
		counterRepo,
		assignmentService,
		approval.DefaultFlows(),
		outboxRepo,
		logger,
	)
	notificationService := notification.NewService(notificationRepo, logger)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	staffHandler := staff.NewHandler(staffService)
	propertyHandler := property.NewHandler(propertyService, logger)
	approvalHandler := approval.NewHandlerWithRedis(approvalService, rdb)
	notificationHandler := notification.NewHandler(notificationService)
	rbacHandler := rbac.NewHandler(rbacService, rbacRepo)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		staff.RegisterRoutes(api, staffHandler, rbacService, logger)
		property.RegisterRoutes(api, propertyHandler, rbacService)
		approval.RegisterRoutes(api, approvalHandler, rbacService, rdb)
		notification.RegisterRoutes(api, notificationHandler)
		rbac_http.RegisterRoutes(api, rbacHandler, rbacService)
	}

	return nil
}
