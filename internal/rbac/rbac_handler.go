package rbac

import (
	"net/http"
	"strings"

	"github.com/Saifeldin2401/prime-hotels-intranet-sub005/internal/domain"
	"github.com/Saifeldin2401/prime-hotels-intranet-sub005/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	service Service
	repo    Repository
}

func NewHandler(service Service, repo Repository) *Handler {
	return &Handler{service: service, repo: repo}
}

func (h *Handler) Enforce(c *gin.Context) {
	var req domain.EnforceRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid input", err.Error())
		return
	}

	req.StaffID = strings.TrimSpace(req.StaffID)
	req.PropertyID = strings.TrimSpace(req.PropertyID)
	req.Resource = strings.TrimSpace(req.Resource)
	req.Action = strings.TrimSpace(req.Action)

	if req.StaffID == "" || req.PropertyID == "" || req.Resource == "" || req.Action == "" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "staff_id, property_id, resource, and action are required", nil)
		return
	}

	allowed, err := h.service.Enforce(req)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
		return
	}

	response.Success(c, http.StatusOK, domain.EnforceResponse{
		Allowed: allowed,
	}, nil)
}

func (h *Handler) ListRoles(c *gin.Context) {
	propertyID := c.GetString("property_id")

	roles, err := h.repo.ListRoles(propertyID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
		return
	}

	result := make([]domain.RoleResponse, 0, len(roles))
	for _, role := range roles {
		result = append(result, h.mapRole(role))
	}

	response.Success(c, http.StatusOK, result, nil)
}

func (h *Handler) GetRole(c *gin.Context) {
	role, err := h.repo.GetRoleByID(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Role not found", nil)
		return
	}

	if role.PropertyID != c.GetString("property_id") {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Role not found", nil)
		return
	}

	response.Success(c, http.StatusOK, h.mapRole(*role), nil)
}

func (h *Handler) CreateRole(c *gin.Context) {
	propertyID := c.GetString("property_id")

	var req domain.CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid input", err.Error())
		return
	}

	if existing, err := h.repo.GetRoleByName(propertyID, req.Name); err == nil && existing != nil {
		response.Error(c, http.StatusConflict, "CONFLICT", "Role with the same name already exists", nil)
		return
	}

	role := &RoleRow{
		ID:          uuid.NewString(),
		PropertyID:  propertyID,
		Name:        req.Name,
		Description: req.Description,
	}
	if err := h.repo.CreateRole(role); err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
		return
	}

	if len(req.Permissions) > 0 {
		if err := h.repo.UpdateRolePermissions(role.ID, req.Permissions); err != nil {
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
			return
		}
	}

	response.Success(c, http.StatusCreated, h.mapRole(*role), nil)
}

func (h *Handler) UpdateRole(c *gin.Context) {
	propertyID := c.GetString("property_id")

	role, err := h.repo.GetRoleByID(c.Param("id"))
	if err != nil || role.PropertyID != propertyID {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Role not found", nil)
		return
	}

	var req domain.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid input", err.Error())
		return
	}

	if req.Name != "" {
		role.Name = req.Name
	}
	if req.Description != "" {
		role.Description = req.Description
	}

	if err := h.repo.UpdateRole(role); err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
		return
	}

	if req.Permissions != nil {
		if err := h.repo.UpdateRolePermissions(role.ID, req.Permissions); err != nil {
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
			return
		}
	}

	response.Success(c, http.StatusOK, h.mapRole(*role), nil)
}

func (h *Handler) DeleteRole(c *gin.Context) {
	propertyID := c.GetString("property_id")

	role, err := h.repo.GetRoleByID(c.Param("id"))
	if err != nil || role.PropertyID != propertyID {
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Role not found", nil)
		return
	}

	if err := h.repo.DeleteRole(role.ID); err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}

func (h *Handler) ListPermissions(c *gin.Context) {
	perms, err := h.repo.ListPermissions()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
		return
	}

	result := make([]domain.PermissionResponse, 0, len(perms))
	for _, p := range perms {
		result = append(result, domain.PermissionResponse{
			ID:       p.ID,
			Resource: p.Resource,
			Action:   p.Action,
			Label:    p.Label,
			Category: p.Category,
		})
	}

	response.Success(c, http.StatusOK, result, nil)
}

func (h *Handler) mapRole(role RoleRow) domain.RoleResponse {
	resp := domain.RoleResponse{
		ID:          role.ID,
		Name:        role.Name,
		Description: role.Description,
		Permissions: []string{},
	}

	if perms, err := h.repo.GetPermissionsByRoleID(role.ID); err == nil {
		for _, p := range perms {
			resp.Permissions = append(resp.Permissions, p.ID)
		}
	}
	return resp
}
