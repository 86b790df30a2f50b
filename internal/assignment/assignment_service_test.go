package assignment_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Saifeldin2401/prime-hotels-intranet-sub005/internal/assignment"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeAssignmentRepo struct {
	FindSupervisorOfFn func(ctx context.Context, propertyID, staffID string) (*assignment.ApproverRow, error)
	FindFirstByRoleFn  func(ctx context.Context, propertyID, role string) (*assignment.ApproverRow, error)
	FindActiveByRoleFn func(ctx context.Context, propertyID, role string) ([]assignment.ApproverRow, error)
}

func (f *fakeAssignmentRepo) FindSupervisorOf(ctx context.Context, propertyID, staffID string) (*assignment.ApproverRow, error) {
	return f.FindSupervisorOfFn(ctx, propertyID, staffID)
}
func (f *fakeAssignmentRepo) FindFirstByRole(ctx context.Context, propertyID, role string) (*assignment.ApproverRow, error) {
	return f.FindFirstByRoleFn(ctx, propertyID, role)
}
func (f *fakeAssignmentRepo) FindActiveByRole(ctx context.Context, propertyID, role string) ([]assignment.ApproverRow, error) {
	return f.FindActiveByRoleFn(ctx, propertyID, role)
}

func TestAssignmentService_ResolveApprover(t *testing.T) {
	ctx := context.Background()

	t.Run("supervisor slot prefers the requester's supervisor", func(t *testing.T) {
		supervisor := assignment.ApproverRow{ID: uuid.New(), FullName: "Sam Lead", Role: "supervisor"}

		repo := &fakeAssignmentRepo{
			FindSupervisorOfFn: func(ctx context.Context, pid, sid string) (*assignment.ApproverRow, error) {
				return &supervisor, nil
			},
		}
		svc := assignment.NewService(repo, nil)

		ref, err := svc.ResolveApprover(ctx, uuid.New().String(), uuid.New().String(), "supervisor")

		assert.NoError(t, err)
		assert.Equal(t, supervisor.ID, ref.ID)
		assert.Equal(t, "Sam Lead", ref.FullName)
	})

	t.Run("supervisor slot falls back to a property manager", func(t *testing.T) {
		manager := assignment.ApproverRow{ID: uuid.New(), FullName: "Morgan Chase", Role: "manager"}

		repo := &fakeAssignmentRepo{
			FindSupervisorOfFn: func(ctx context.Context, pid, sid string) (*assignment.ApproverRow, error) {
				return nil, nil
			},
			FindFirstByRoleFn: func(ctx context.Context, pid, role string) (*assignment.ApproverRow, error) {
				assert.Equal(t, "manager", role)
				return &manager, nil
			},
		}
		svc := assignment.NewService(repo, nil)

		ref, err := svc.ResolveApprover(ctx, uuid.New().String(), uuid.New().String(), "supervisor")

		assert.NoError(t, err)
		assert.Equal(t, manager.ID, ref.ID)
	})

	t.Run("nobody resolvable yields nil without error", func(t *testing.T) {
		repo := &fakeAssignmentRepo{
			FindSupervisorOfFn: func(ctx context.Context, pid, sid string) (*assignment.ApproverRow, error) {
				return nil, nil
			},
			FindFirstByRoleFn: func(ctx context.Context, pid, role string) (*assignment.ApproverRow, error) {
				return nil, nil
			},
		}
		svc := assignment.NewService(repo, nil)

		ref, err := svc.ResolveApprover(ctx, uuid.New().String(), uuid.New().String(), "supervisor")

		assert.NoError(t, err)
		assert.Nil(t, ref)
	})

	t.Run("other roles take the first active holder", func(t *testing.T) {
		hr := assignment.ApproverRow{ID: uuid.New(), FullName: "Harper Reyes", Role: "hr"}

		repo := &fakeAssignmentRepo{
			FindFirstByRoleFn: func(ctx context.Context, pid, role string) (*assignment.ApproverRow, error) {
				assert.Equal(t, "hr", role)
				return &hr, nil
			},
		}
		svc := assignment.NewService(repo, nil)

		ref, err := svc.ResolveApprover(ctx, uuid.New().String(), uuid.New().String(), "hr")

		assert.NoError(t, err)
		assert.Equal(t, hr.ID, ref.ID)
	})

	t.Run("repository failure propagates", func(t *testing.T) {
		repo := &fakeAssignmentRepo{
			FindSupervisorOfFn: func(ctx context.Context, pid, sid string) (*assignment.ApproverRow, error) {
				return nil, errors.New("connection reset")
			},
		}
		svc := assignment.NewService(repo, nil)

		_, err := svc.ResolveApprover(ctx, uuid.New().String(), uuid.New().String(), "supervisor")

		assert.Error(t, err)
	})
}

func TestAssignmentService_GetApproverOptions(t *testing.T) {
	ctx := context.Background()

	t.Run("cache miss loads from db and writes cache", func(t *testing.T) {
		propertyID := uuid.New().String()
		rows := []assignment.ApproverRow{
			{ID: uuid.New(), FullName: "Harper Reyes", Role: "hr"},
			{ID: uuid.New(), FullName: "Jordan Kim", Role: "hr"},
		}

		repo := &fakeAssignmentRepo{
			FindActiveByRoleFn: func(ctx context.Context, pid, role string) ([]assignment.ApproverRow, error) {
				assert.Equal(t, propertyID, pid)
				assert.Equal(t, "hr", role)
				return rows, nil
			},
		}

		rdb, mock := redismock.NewClientMock()
		key := assignment.GetApproverOptionsKey(propertyID, "hr")

		expected := []assignment.ApproverRef{
			{ID: rows[0].ID, FullName: "Harper Reyes", Role: "hr"},
			{ID: rows[1].ID, FullName: "Jordan Kim", Role: "hr"},
		}
		payload, err := json.Marshal(expected)
		assert.NoError(t, err)

		mock.ExpectGet(key).RedisNil()
		mock.ExpectSet(key, payload, 5*time.Minute).SetVal("OK")

		svc := assignment.NewService(repo, rdb)

		refs, err := svc.GetApproverOptions(ctx, propertyID, "hr")

		assert.NoError(t, err)
		assert.Equal(t, expected, refs)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("cache hit skips the database", func(t *testing.T) {
		propertyID := uuid.New().String()
		cached := []assignment.ApproverRef{
			{ID: uuid.New(), FullName: "Harper Reyes", Role: "hr"},
		}
		payload, err := json.Marshal(cached)
		assert.NoError(t, err)

		repo := &fakeAssignmentRepo{
			FindActiveByRoleFn: func(ctx context.Context, pid, role string) ([]assignment.ApproverRow, error) {
				t.Fatal("database should not be hit on cache hit")
				return nil, nil
			},
		}

		rdb, mock := redismock.NewClientMock()
		mock.ExpectGet(assignment.GetApproverOptionsKey(propertyID, "hr")).SetVal(string(payload))

		svc := assignment.NewService(repo, rdb)

		refs, err := svc.GetApproverOptions(ctx, propertyID, "hr")

		assert.NoError(t, err)
		assert.Equal(t, cached, refs)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("repository failure propagates", func(t *testing.T) {
		repo := &fakeAssignmentRepo{
			FindActiveByRoleFn: func(ctx context.Context, pid, role string) ([]assignment.ApproverRow, error) {
				return nil, errors.New("connection reset")
			},
		}

		svc := assignment.NewService(repo, nil)

		_, err := svc.GetApproverOptions(ctx, uuid.New().String(), "hr")

		assert.Error(t, err)
	})
}
