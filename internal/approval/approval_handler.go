package approval

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Saifeldin2401/prime-hotels-intranet-sub005/internal/shared/apperror"
	"github.com/Saifeldin2401/prime-hotels-intranet-sub005/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type Handler struct {
	service Service
	rdb     *redis.Client
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func NewHandlerWithRedis(service Service, rdb *redis.Client) *Handler {
	return &Handler{service: service, rdb: rdb}
}

func getActorID(c *gin.Context) string {
	actorID := c.GetString("staff_id")
	if actorID == "" {
		actorID = c.GetString("user_id_validated")
	}
	return actorID
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) releaseIdempotencyLock(c *gin.Context) {
	if h.rdb == nil {
		return
	}
	if lockKey, ok := c.Get("idempotency_lock_key"); ok {
		if lk, ok := lockKey.(string); ok && lk != "" {
			h.rdb.Del(c.Request.Context(), lk)
		}
	}
}

func (h *Handler) cacheIdempotentResponse(c *gin.Context, resp any) {
	if h.rdb == nil {
		return
	}
	if cacheKey, ok := c.Get("idempotency_cache_key"); ok {
		if ck, ok := cacheKey.(string); ok && ck != "" {
			if payload, marshalErr := json.Marshal(resp); marshalErr == nil {
				_ = h.rdb.Set(c.Request.Context(), ck, payload, 24*time.Hour).Err()
			}
		}
	}
}

// Submit opens an approval request for a business object.
func (h *Handler) Submit(c *gin.Context) {
	defer h.releaseIdempotencyLock(c)

	propertyID := c.GetString("property_id")
	actorID := getActorID(c)

	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid input", err.Error())
		return
	}

	resp, err := h.service.Submit(c.Request.Context(), propertyID, actorID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	h.cacheIdempotentResponse(c, resp)
	response.Success(c, http.StatusCreated, resp, nil)
}

// Act applies one action to a request. Expected rule violations come back
// with HTTP 200 and an unsuccessful result body; only infrastructure
// failures produce error statuses.
func (h *Handler) Act(c *gin.Context) {
	defer h.releaseIdempotencyLock(c)

	propertyID := c.GetString("property_id")
	actorID := getActorID(c)
	requestID := c.Param("id")

	var req ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid input", err.Error())
		return
	}

	result, err := h.service.ApplyAction(c.Request.Context(), propertyID, actorID, requestID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	h.cacheIdempotentResponse(c, result)
	response.Success(c, http.StatusOK, result, nil)
}

// GetLatest returns the newest request for a business object, or a null
// payload when the object has never been submitted for approval.
func (h *Handler) GetLatest(c *gin.Context) {
	propertyID := c.GetString("property_id")
	entityType := c.Param("entityType")
	entityID := c.Param("entityId")

	resp, err := h.service.GetLatest(c.Request.Context(), propertyID, entityType, entityID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	if resp == nil {
		response.Success(c, http.StatusOK, nil, nil)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetById(c *gin.Context) {
	propertyID := c.GetString("property_id")
	requestID := c.Param("id")

	resp, err := h.service.GetByID(c.Request.Context(), propertyID, requestID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

// GetAssigned is the caller's approvals inbox.
func (h *Handler) GetAssigned(c *gin.Context) {
	propertyID := c.GetString("property_id")
	actorID := getActorID(c)

	resp, err := h.service.ListAssigned(c.Request.Context(), propertyID, actorID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
