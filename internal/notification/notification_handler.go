package notification

import (
	"net/http"
	"strconv"

	"github.com/Saifeldin2401/prime-hotels-intranet-sub005/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func recipientID(c *gin.Context) string {
	id := c.GetString("staff_id")
	if id == "" {
		id = c.GetString("user_id_validated")
	}
	return id
}

func (h *Handler) List(c *gin.Context) {
	propertyID := c.GetString("property_id")

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	resp, err := h.service.List(c.Request.Context(), propertyID, recipientID(c), limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) UnreadCount(c *gin.Context) {
	propertyID := c.GetString("property_id")

	count, err := h.service.CountUnread(c.Request.Context(), propertyID, recipientID(c))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
		return
	}

	response.Success(c, http.StatusOK, UnreadCountResponse{Unread: count}, nil)
}

func (h *Handler) MarkRead(c *gin.Context) {
	propertyID := c.GetString("property_id")

	ok, err := h.service.MarkRead(c.Request.Context(), propertyID, recipientID(c), c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
		return
	}
	if !ok {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Notification not found or already read", nil)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"read": true}, nil)
}
