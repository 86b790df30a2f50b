package middleware

import (
	"net/http"

	"github.com/Saifeldin2401/prime-hotels-intranet-sub005/internal/domain"

	"github.com/gin-gonic/gin"
)

type ContextKey string

const (
	ContextStaffID    ContextKey = "staff_id"
	ContextPropertyID ContextKey = "property_id"
)

// RBACService is a local interface: any package with an
// Enforce(domain.EnforceRequest) method fits.
type RBACService interface {
	Enforce(req domain.EnforceRequest) (bool, error)
}

func RBACAuthorize(service RBACService, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		staffID, ok1 := c.Get(string(ContextStaffID))
		propertyID, ok2 := c.Get(string(ContextPropertyID))

		if !ok1 || !ok2 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing auth context"})
			c.Abort()
			return
		}

		req := domain.EnforceRequest{
			StaffID:    staffID.(string),
			PropertyID: propertyID.(string),
			Resource:   resource,
			Action:     action,
		}

		allowed, err := service.Enforce(req)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		if !allowed {
			c.JSON(http.StatusForbidden, gin.H{
				"error":    "forbidden",
				"message":  "You do not have permission to access this resource",
				"required": resource + ":" + action,
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
