package staff_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/Saifeldin2401/prime-hotels-intranet-sub005/internal/assignment"
	"github.com/Saifeldin2401/prime-hotels-intranet-sub005/internal/staff"
	stafferrors "github.com/Saifeldin2401/prime-hotels-intranet-sub005/internal/staff/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeStaffRepo struct {
	CreateFn                func(ctx context.Context, member *staff.Staff) error
	FindAllByPropertyFn     func(ctx context.Context, propertyID string) ([]staff.Staff, error)
	FindOptionsByPropertyFn func(ctx context.Context, propertyID string) ([]staff.Staff, error)
	FindByIDAndPropertyFn   func(ctx context.Context, propertyID, id string) (*staff.Staff, error)
	FindByIDFn              func(ctx context.Context, id string) (*staff.Staff, error)
	UpdateFn                func(ctx context.Context, member *staff.Staff) error
	DeleteFn                func(ctx context.Context, propertyID, id string) error
}

func (f *fakeStaffRepo) WithTx(tx *sql.Tx) staff.Repository { return f }
func (f *fakeStaffRepo) Create(ctx context.Context, member *staff.Staff) error {
	return f.CreateFn(ctx, member)
}
func (f *fakeStaffRepo) FindAllByProperty(ctx context.Context, propertyID string) ([]staff.Staff, error) {
	return f.FindAllByPropertyFn(ctx, propertyID)
}
func (f *fakeStaffRepo) FindOptionsByProperty(ctx context.Context, propertyID string) ([]staff.Staff, error) {
	return f.FindOptionsByPropertyFn(ctx, propertyID)
}
func (f *fakeStaffRepo) FindByIDAndProperty(ctx context.Context, propertyID, id string) (*staff.Staff, error) {
	return f.FindByIDAndPropertyFn(ctx, propertyID, id)
}
func (f *fakeStaffRepo) FindByID(ctx context.Context, id string) (*staff.Staff, error) {
	return f.FindByIDFn(ctx, id)
}
func (f *fakeStaffRepo) Update(ctx context.Context, member *staff.Staff) error {
	return f.UpdateFn(ctx, member)
}
func (f *fakeStaffRepo) Delete(ctx context.Context, propertyID, id string) error {
	return f.DeleteFn(ctx, propertyID, id)
}

type fakeStaffCounter struct {
	next int64
	err  error
}

func (f *fakeStaffCounter) GetNextValue(ctx context.Context, propertyID, counterType string) (int64, error) {
	return f.next, f.err
}

func TestStaffService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		db, sqlMock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		propertyID := uuid.New().String()

		repo := &fakeStaffRepo{
			CreateFn: func(ctx context.Context, member *staff.Staff) error {
				assert.Equal(t, "STF-000007", member.StaffNumber)
				assert.Equal(t, "Jordan Kim", member.FullName)
				assert.True(t, member.IsActive)
				return nil
			},
		}

		rdb, redisMock := redismock.NewClientMock()
		redisMock.ExpectDel(
			staff.GetStaffOptionsKey(propertyID),
			assignment.GetApproverOptionsKey(propertyID, "hr"),
		).SetVal(2)

		sqlMock.ExpectBegin()
		sqlMock.ExpectCommit()

		svc := staff.NewService(db, repo, &fakeStaffCounter{next: 7}, rdb)

		resp, err := svc.Create(ctx, propertyID, staff.CreateStaffRequest{
			FullName: "Jordan Kim",
			Email:    "jordan@prime-hotels.example",
			Role:     "hr",
		})

		assert.NoError(t, err)
		assert.Equal(t, "STF-000007", resp.StaffNumber)
		assert.NoError(t, sqlMock.ExpectationsWereMet())
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("unknown supervisor rejected", func(t *testing.T) {
		db, sqlMock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		repo := &fakeStaffRepo{
			FindByIDAndPropertyFn: func(ctx context.Context, pid, id string) (*staff.Staff, error) {
				return nil, gorm.ErrRecordNotFound
			},
		}

		sqlMock.ExpectBegin()
		sqlMock.ExpectRollback()

		svc := staff.NewService(db, repo, &fakeStaffCounter{next: 1}, nil)

		_, err = svc.Create(ctx, uuid.New().String(), staff.CreateStaffRequest{
			FullName:     "Jordan Kim",
			Email:        "jordan@prime-hotels.example",
			Role:         "staff",
			SupervisorID: uuid.New().String(),
		})

		assert.ErrorIs(t, err, stafferrors.ErrInvalidSupervisor)
	})

	t.Run("invalid property id", func(t *testing.T) {
		db, _, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		svc := staff.NewService(db, &fakeStaffRepo{}, &fakeStaffCounter{}, nil)

		_, err = svc.Create(ctx, "not-a-uuid", staff.CreateStaffRequest{
			FullName: "Jordan Kim",
			Email:    "jordan@prime-hotels.example",
			Role:     "staff",
		})

		assert.ErrorIs(t, err, stafferrors.ErrInvalidPropertyID)
	})
}

func TestStaffService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("role change drops both approver caches", func(t *testing.T) {
		db, sqlMock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		propertyID := uuid.New().String()
		staffID := uuid.New()

		existing := &staff.Staff{
			ID:          staffID,
			PropertyID:  uuid.MustParse(propertyID),
			StaffNumber: "STF-000003",
			FullName:    "Jordan Kim",
			Email:       "jordan@prime-hotels.example",
			Role:        "supervisor",
			IsActive:    true,
		}

		repo := &fakeStaffRepo{
			FindByIDAndPropertyFn: func(ctx context.Context, pid, id string) (*staff.Staff, error) {
				return existing, nil
			},
			UpdateFn: func(ctx context.Context, member *staff.Staff) error {
				assert.Equal(t, "hr", member.Role)
				return nil
			},
		}

		rdb, redisMock := redismock.NewClientMock()
		redisMock.ExpectDel(
			staff.GetStaffOptionsKey(propertyID),
			assignment.GetApproverOptionsKey(propertyID, "supervisor"),
			assignment.GetApproverOptionsKey(propertyID, "hr"),
		).SetVal(3)

		sqlMock.ExpectBegin()
		sqlMock.ExpectCommit()

		svc := staff.NewService(db, repo, &fakeStaffCounter{}, rdb)

		resp, err := svc.Update(ctx, propertyID, staffID.String(), staff.UpdateStaffRequest{
			FullName: "Jordan Kim",
			Email:    "jordan@prime-hotels.example",
			Role:     "hr",
		})

		assert.NoError(t, err)
		assert.Equal(t, "hr", resp.Role)
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("self supervision rejected", func(t *testing.T) {
		db, sqlMock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		staffID := uuid.New()

		repo := &fakeStaffRepo{
			FindByIDAndPropertyFn: func(ctx context.Context, pid, id string) (*staff.Staff, error) {
				return &staff.Staff{ID: staffID, Role: "staff"}, nil
			},
		}

		sqlMock.ExpectBegin()
		sqlMock.ExpectRollback()

		svc := staff.NewService(db, repo, &fakeStaffCounter{}, nil)

		_, err = svc.Update(ctx, uuid.New().String(), staffID.String(), staff.UpdateStaffRequest{
			FullName:     "Jordan Kim",
			Email:        "jordan@prime-hotels.example",
			Role:         "staff",
			SupervisorID: staffID.String(),
		})

		assert.ErrorIs(t, err, stafferrors.ErrInvalidSupervisor)
	})
}

func TestStaffService_GetOptions(t *testing.T) {
	ctx := context.Background()

	t.Run("cache miss loads and caches active staff", func(t *testing.T) {
		db, _, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		propertyID := uuid.New().String()
		members := []staff.Staff{
			{ID: uuid.New(), PropertyID: uuid.MustParse(propertyID), StaffNumber: "STF-000001", FullName: "Alex Doe", Role: "staff", IsActive: true},
		}

		repo := &fakeStaffRepo{
			FindOptionsByPropertyFn: func(ctx context.Context, pid string) ([]staff.Staff, error) {
				return members, nil
			},
		}

		expected := []staff.StaffResponse{
			{
				ID:          members[0].ID.String(),
				StaffNumber: "STF-000001",
				FullName:    "Alex Doe",
				Role:        "staff",
				PropertyID:  propertyID,
				IsActive:    true,
			},
		}
		payload, err := json.Marshal(expected)
		assert.NoError(t, err)

		rdb, redisMock := redismock.NewClientMock()
		key := staff.GetStaffOptionsKey(propertyID)
		redisMock.ExpectGet(key).RedisNil()
		redisMock.ExpectSet(key, payload, 1*time.Hour).SetVal("OK")

		svc := staff.NewService(db, repo, &fakeStaffCounter{}, rdb)

		resp, err := svc.GetOptions(ctx, propertyID)

		assert.NoError(t, err)
		assert.Equal(t, expected, resp)
		assert.NoError(t, redisMock.ExpectationsWereMet())
	})

	t.Run("cache hit skips the database", func(t *testing.T) {
		db, _, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		propertyID := uuid.New().String()
		cached := []staff.StaffResponse{{ID: uuid.New().String(), FullName: "Alex Doe"}}
		payload, err := json.Marshal(cached)
		assert.NoError(t, err)

		repo := &fakeStaffRepo{
			FindOptionsByPropertyFn: func(ctx context.Context, pid string) ([]staff.Staff, error) {
				t.Fatal("database should not be hit on cache hit")
				return nil, nil
			},
		}

		rdb, redisMock := redismock.NewClientMock()
		redisMock.ExpectGet(staff.GetStaffOptionsKey(propertyID)).SetVal(string(payload))

		svc := staff.NewService(db, repo, &fakeStaffCounter{}, rdb)

		resp, err := svc.GetOptions(ctx, propertyID)

		assert.NoError(t, err)
		assert.Equal(t, cached, resp)
	})
}

func TestStaffService_GetByID(t *testing.T) {
	t.Run("not found maps to domain error", func(t *testing.T) {
		db, _, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		repo := &fakeStaffRepo{
			FindByIDAndPropertyFn: func(ctx context.Context, pid, id string) (*staff.Staff, error) {
				return nil, gorm.ErrRecordNotFound
			},
		}

		svc := staff.NewService(db, repo, &fakeStaffCounter{}, nil)

		_, err = svc.GetByID(context.Background(), uuid.New().String(), uuid.New().String())

		assert.ErrorIs(t, err, stafferrors.ErrStaffNotFound)
	})
}
