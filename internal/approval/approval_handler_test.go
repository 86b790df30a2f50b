package approval_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Saifeldin2401/prime-hotels-intranet-sub005/internal/approval"
	approvalerrors "github.com/Saifeldin2401/prime-hotels-intranet-sub005/internal/approval/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeApprovalService struct {
	SubmitFn       func(ctx context.Context, propertyID, actorID string, req approval.SubmitRequest) (approval.RequestDetailResponse, error)
	ApplyActionFn  func(ctx context.Context, propertyID, actorID, requestID string, req approval.ActionRequest) (approval.ActionResult, error)
	GetLatestFn    func(ctx context.Context, propertyID, entityType, entityID string) (*approval.RequestDetailResponse, error)
	GetByIDFn      func(ctx context.Context, propertyID, id string) (approval.RequestDetailResponse, error)
	ListAssignedFn func(ctx context.Context, propertyID, assigneeID string) ([]approval.RequestResponse, error)
}

func (f *fakeApprovalService) Submit(ctx context.Context, propertyID, actorID string, req approval.SubmitRequest) (approval.RequestDetailResponse, error) {
	return f.SubmitFn(ctx, propertyID, actorID, req)
}
func (f *fakeApprovalService) ApplyAction(ctx context.Context, propertyID, actorID, requestID string, req approval.ActionRequest) (approval.ActionResult, error) {
	return f.ApplyActionFn(ctx, propertyID, actorID, requestID, req)
}
func (f *fakeApprovalService) GetLatest(ctx context.Context, propertyID, entityType, entityID string) (*approval.RequestDetailResponse, error) {
	return f.GetLatestFn(ctx, propertyID, entityType, entityID)
}
func (f *fakeApprovalService) GetByID(ctx context.Context, propertyID, id string) (approval.RequestDetailResponse, error) {
	return f.GetByIDFn(ctx, propertyID, id)
}
func (f *fakeApprovalService) ListAssigned(ctx context.Context, propertyID, assigneeID string) ([]approval.RequestResponse, error) {
	return f.ListAssignedFn(ctx, propertyID, assigneeID)
}

func init() {
	gin.SetMode(gin.TestMode)
}

func TestApprovalHandler_Submit(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		propertyID := uuid.New().String()
		staffID := uuid.New().String()
		entityID := uuid.New().String()

		svc := &fakeApprovalService{
			SubmitFn: func(ctx context.Context, pid, aid string, req approval.SubmitRequest) (approval.RequestDetailResponse, error) {
				assert.Equal(t, propertyID, pid)
				assert.Equal(t, staffID, aid)
				assert.Equal(t, "document", req.EntityType)
				return approval.RequestDetailResponse{
					RequestResponse: approval.RequestResponse{
						ID:            uuid.New().String(),
						RequestNumber: "APR-000001",
						Status:        approval.StatusPendingSupervisor,
					},
				}, nil
			},
		}

		h := approval.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		body := `{"entity_type":"document","entity_id":"` + entityID + `"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/approvals", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		c.Request = req

		c.Set("property_id", propertyID)
		c.Set("staff_id", staffID)

		h.Submit(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), "APR-000001")
	})

	t.Run("validation error", func(t *testing.T) {
		svc := &fakeApprovalService{}
		h := approval.NewHandler(svc)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		body := `{"entity_type":"document"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/approvals", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		c.Request = req

		c.Set("property_id", uuid.New().String())
		c.Set("staff_id", uuid.New().String())

		h.Submit(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
	})

	t.Run("service error maps to http status", func(t *testing.T) {
		svc := &fakeApprovalService{
			SubmitFn: func(ctx context.Context, pid, aid string, req approval.SubmitRequest) (approval.RequestDetailResponse, error) {
				return approval.RequestDetailResponse{}, approvalerrors.ErrNotAuthenticated
			},
		}

		h := approval.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		body := `{"entity_type":"document","entity_id":"` + uuid.New().String() + `"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/approvals", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		c.Request = req

		c.Set("property_id", uuid.New().String())

		h.Submit(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestApprovalHandler_Act(t *testing.T) {
	t.Run("successful action", func(t *testing.T) {
		propertyID := uuid.New().String()
		staffID := uuid.New().String()
		requestID := uuid.New().String()

		svc := &fakeApprovalService{
			ApplyActionFn: func(ctx context.Context, pid, aid, rid string, req approval.ActionRequest) (approval.ActionResult, error) {
				assert.Equal(t, requestID, rid)
				assert.Equal(t, approval.ActionApprove, req.Action)
				return approval.ActionResult{Success: true, Message: "step approved"}, nil
			},
		}

		h := approval.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		body := `{"action":"approve"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/approvals/"+requestID+"/actions", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		c.Request = req
		c.Params = gin.Params{{Key: "id", Value: requestID}}

		c.Set("property_id", propertyID)
		c.Set("staff_id", staffID)

		h.Act(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"success":true`)
	})

	t.Run("rule violation still returns 200 with unsuccessful result", func(t *testing.T) {
		svc := &fakeApprovalService{
			ApplyActionFn: func(ctx context.Context, pid, aid, rid string, req approval.ActionRequest) (approval.ActionResult, error) {
				return approval.ActionResult{
					Success: false,
					Code:    approval.CodeNotAuthorizedActor,
					Message: "you are not the current assignee for this request",
				}, nil
			},
		}

		h := approval.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		body := `{"action":"approve"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/approvals/"+uuid.New().String()+"/actions", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		c.Request = req
		c.Params = gin.Params{{Key: "id", Value: uuid.New().String()}}

		c.Set("property_id", uuid.New().String())
		c.Set("staff_id", uuid.New().String())

		h.Act(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), approval.CodeNotAuthorizedActor)
		assert.Contains(t, w.Body.String(), `"success":false`)
	})

	t.Run("infrastructure error returns 500", func(t *testing.T) {
		svc := &fakeApprovalService{
			ApplyActionFn: func(ctx context.Context, pid, aid, rid string, req approval.ActionRequest) (approval.ActionResult, error) {
				return approval.ActionResult{}, errors.New("connection reset")
			},
		}

		h := approval.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		body := `{"action":"approve"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/approvals/"+uuid.New().String()+"/actions", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		c.Request = req
		c.Params = gin.Params{{Key: "id", Value: uuid.New().String()}}

		c.Set("property_id", uuid.New().String())
		c.Set("staff_id", uuid.New().String())

		h.Act(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("missing action body", func(t *testing.T) {
		svc := &fakeApprovalService{}
		h := approval.NewHandler(svc)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/approvals/"+uuid.New().String()+"/actions", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		c.Request = req
		c.Params = gin.Params{{Key: "id", Value: uuid.New().String()}}

		c.Set("property_id", uuid.New().String())
		c.Set("staff_id", uuid.New().String())

		h.Act(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestApprovalHandler_GetLatest(t *testing.T) {
	t.Run("existing request", func(t *testing.T) {
		svc := &fakeApprovalService{
			GetLatestFn: func(ctx context.Context, pid, entityType, entityID string) (*approval.RequestDetailResponse, error) {
				return &approval.RequestDetailResponse{
					RequestResponse: approval.RequestResponse{
						ID:            uuid.New().String(),
						RequestNumber: "APR-000009",
						Status:        approval.StatusApproved,
					},
				}, nil
			},
		}

		h := approval.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/approvals/latest/document/"+uuid.New().String(), nil)
		c.Params = gin.Params{
			{Key: "entityType", Value: "document"},
			{Key: "entityId", Value: uuid.New().String()},
		}
		c.Set("property_id", uuid.New().String())

		h.GetLatest(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "APR-000009")
	})

	t.Run("never submitted yields null payload", func(t *testing.T) {
		svc := &fakeApprovalService{
			GetLatestFn: func(ctx context.Context, pid, entityType, entityID string) (*approval.RequestDetailResponse, error) {
				return nil, nil
			},
		}

		h := approval.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/approvals/latest/document/"+uuid.New().String(), nil)
		c.Params = gin.Params{
			{Key: "entityType", Value: "document"},
			{Key: "entityId", Value: uuid.New().String()},
		}
		c.Set("property_id", uuid.New().String())

		h.GetLatest(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"ok":true}`, w.Body.String())
	})
}

func TestApprovalHandler_GetAssigned(t *testing.T) {
	t.Run("returns inbox rows", func(t *testing.T) {
		staffID := uuid.New().String()

		svc := &fakeApprovalService{
			ListAssignedFn: func(ctx context.Context, pid, assigneeID string) ([]approval.RequestResponse, error) {
				assert.Equal(t, staffID, assigneeID)
				return []approval.RequestResponse{
					{ID: uuid.New().String(), RequestNumber: "APR-000003", Status: approval.StatusPendingSupervisor},
				}, nil
			},
		}

		h := approval.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/approvals/assigned", nil)
		c.Set("property_id", uuid.New().String())
		c.Set("staff_id", staffID)

		h.GetAssigned(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "APR-000003")
	})

	t.Run("falls back to validated user id", func(t *testing.T) {
		userID := uuid.New().String()

		svc := &fakeApprovalService{
			ListAssignedFn: func(ctx context.Context, pid, assigneeID string) ([]approval.RequestResponse, error) {
				assert.Equal(t, userID, assigneeID)
				return nil, nil
			},
		}

		h := approval.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/approvals/assigned", nil)
		c.Set("property_id", uuid.New().String())
		c.Set("user_id_validated", userID)

		h.GetAssigned(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestApprovalHandler_GetById(t *testing.T) {
	t.Run("not found maps to 404", func(t *testing.T) {
		svc := &fakeApprovalService{
			GetByIDFn: func(ctx context.Context, pid, id string) (approval.RequestDetailResponse, error) {
				return approval.RequestDetailResponse{}, approvalerrors.ErrRequestNotFound
			},
		}

		h := approval.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/approvals/"+uuid.New().String(), nil)
		c.Params = gin.Params{{Key: "id", Value: uuid.New().String()}}
		c.Set("property_id", uuid.New().String())

		h.GetById(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
