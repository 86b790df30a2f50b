package property_test

import (
	"context"
	"testing"

	"github.com/Saifeldin2401/prime-hotels-intranet-sub005/internal/property"
	propertyerrors "github.com/Saifeldin2401/prime-hotels-intranet-sub005/internal/property/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakePropertyRepo struct {
	CreateFn    func(ctx context.Context, prop *property.Property) error
	GetByIDFn   func(ctx context.Context, id uuid.UUID) (*property.Property, error)
	GetByCodeFn func(ctx context.Context, code string) (*property.Property, error)
	UpdateFn    func(ctx context.Context, prop *property.Property) error
}

func (f *fakePropertyRepo) Create(ctx context.Context, prop *property.Property) error {
	return f.CreateFn(ctx, prop)
}
func (f *fakePropertyRepo) GetByID(ctx context.Context, id uuid.UUID) (*property.Property, error) {
	return f.GetByIDFn(ctx, id)
}
func (f *fakePropertyRepo) GetByCode(ctx context.Context, code string) (*property.Property, error) {
	return f.GetByCodeFn(ctx, code)
}
func (f *fakePropertyRepo) Update(ctx context.Context, prop *property.Property) error {
	return f.UpdateFn(ctx, prop)
}
func (f *fakePropertyRepo) WithTx(tx *gorm.DB) property.Repository { return f }

func TestPropertyService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		id := uuid.New()
		repo := &fakePropertyRepo{
			GetByIDFn: func(ctx context.Context, got uuid.UUID) (*property.Property, error) {
				assert.Equal(t, id, got)
				return &property.Property{ID: id, Name: "Prime Bayfront", Code: "PBF", Timezone: "Asia/Jakarta", IsActive: true}, nil
			},
		}

		svc := property.NewService(repo)

		resp, err := svc.GetByID(ctx, id.String())

		assert.NoError(t, err)
		assert.Equal(t, "Prime Bayfront", resp.Name)
		assert.Equal(t, "PBF", resp.Code)
	})

	t.Run("invalid id", func(t *testing.T) {
		svc := property.NewService(&fakePropertyRepo{})

		_, err := svc.GetByID(ctx, "nope")

		assert.ErrorIs(t, err, propertyerrors.ErrInvalidPropertyID)
	})

	t.Run("not found", func(t *testing.T) {
		repo := &fakePropertyRepo{
			GetByIDFn: func(ctx context.Context, id uuid.UUID) (*property.Property, error) {
				return nil, gorm.ErrRecordNotFound
			},
		}

		svc := property.NewService(repo)

		_, err := svc.GetByID(ctx, uuid.New().String())

		assert.ErrorIs(t, err, propertyerrors.ErrPropertyNotFound)
	})
}

func TestPropertyService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("partial update keeps untouched fields", func(t *testing.T) {
		id := uuid.New()
		existing := &property.Property{
			ID:       id,
			Name:     "Prime Bayfront",
			Code:     "PBF",
			Email:    "front@prime-hotels.example",
			Timezone: "Asia/Jakarta",
			IsActive: true,
		}

		repo := &fakePropertyRepo{
			GetByIDFn: func(ctx context.Context, got uuid.UUID) (*property.Property, error) {
				return existing, nil
			},
			UpdateFn: func(ctx context.Context, prop *property.Property) error {
				assert.Equal(t, "Prime Bayfront Resort", prop.Name)
				assert.Equal(t, "Asia/Jakarta", prop.Timezone)
				return nil
			},
		}

		svc := property.NewService(repo)

		resp, err := svc.Update(ctx, id.String(), property.UpdatePropertyRequest{
			Name: "Prime Bayfront Resort",
		})

		assert.NoError(t, err)
		assert.Equal(t, "Prime Bayfront Resort", resp.Name)
		assert.Equal(t, "front@prime-hotels.example", resp.Email)
	})
}
