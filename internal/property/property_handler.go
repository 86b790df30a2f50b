package property

import (
	"net/http"

	"github.com/Saifeldin2401/prime-hotels-intranet-sub005/internal/shared/apperror"
	"github.com/Saifeldin2401/prime-hotels-intranet-sub005/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("property.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("property.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// GetMe returns the property the authenticated caller belongs to.
func (h *Handler) GetMe(c *gin.Context) {
	propertyID, ok := c.Get("property_id")
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Property ID not found in context", nil)
		return
	}

	prop, err := h.service.GetByID(c.Request.Context(), propertyID.(string))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, prop, nil)
}

func (h *Handler) UpdateMe(c *gin.Context) {
	propertyID, ok := c.Get("property_id")
	if !ok {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Property ID not found in context", nil)
		return
	}

	var req UpdatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid input", err.Error())
		return
	}

	prop, err := h.service.Update(c.Request.Context(), propertyID.(string), req)
	if err != nil {
		h.logger.Error("update property failed", zap.Error(err))
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, prop, nil)
}
