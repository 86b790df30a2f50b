package staff

import (
	"context"
	"database/sql"

	"github.com/Saifeldin2401/prime-hotels-intranet-sub005/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=staff_repo.go -destination=mock/staff_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, member *Staff) error
	FindAllByProperty(ctx context.Context, propertyID string) ([]Staff, error)
	FindOptionsByProperty(ctx context.Context, propertyID string) ([]Staff, error)
	FindByIDAndProperty(ctx context.Context, propertyID string, id string) (*Staff, error)
	FindByID(ctx context.Context, id string) (*Staff, error)
	Update(ctx context.Context, member *Staff) error
	Delete(ctx context.Context, propertyID string, id string) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

func (r *repository) Create(ctx context.Context, member *Staff) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *repository) FindAllByProperty(ctx context.Context, propertyID string) ([]Staff, error) {
	var members []Staff
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(propertyID)).
		Find(&members).Error
	return members, err
}

func (r *repository) FindOptionsByProperty(ctx context.Context, propertyID string) ([]Staff, error) {
	var members []Staff
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(propertyID)).
		Where("is_active = ?", true).
		Order("full_name ASC").
		Find(&members).Error
	return members, err
}

func (r *repository) FindByIDAndProperty(ctx context.Context, propertyID string, id string) (*Staff, error) {
	var member Staff
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(propertyID)).
		First(&member, "id = ?", id).Error
	return &member, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*Staff, error) {
	var member Staff
	err := r.db.WithContext(ctx).First(&member, "id = ?", id).Error
	return &member, err
}

func (r *repository) Update(ctx context.Context, member *Staff) error {
	return r.db.WithContext(ctx).Save(member).Error
}

func (r *repository) Delete(ctx context.Context, propertyID string, id string) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(propertyID)).
		Delete(&Staff{}, "id = ?", id).Error
}
