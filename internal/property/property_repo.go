package property

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -destination=mock/property_repo_mock.go -package=mock . Repository
type Repository interface {
	Create(ctx context.Context, prop *Property) error
	GetByID(ctx context.Context, id uuid.UUID) (*Property, error)
	GetByCode(ctx context.Context, code string) (*Property, error)
	Update(ctx context.Context, prop *Property) error
	WithTx(tx *gorm.DB) Repository
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, prop *Property) error {
	return r.db.WithContext(ctx).Create(prop).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Property, error) {
	var prop Property
	err := r.db.WithContext(ctx).First(&prop, "id = ?", id).Error
	return &prop, err
}

func (r *repository) GetByCode(ctx context.Context, code string) (*Property, error) {
	var prop Property
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&prop).Error
	return &prop, err
}

func (r *repository) Update(ctx context.Context, prop *Property) error {
	return r.db.WithContext(ctx).Save(prop).Error
}
