package assignment

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ApproverRow is a read-only projection of the staff table; the assignment
// resolver never writes staff records.
type ApproverRow struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	FullName string    `gorm:"column:full_name"`
	Role     string    `gorm:"column:role"`
}

//go:generate mockgen -source=assignment_repo.go -destination=mock/assignment_repo_mock.go -package=mock
type Repository interface {
	FindSupervisorOf(ctx context.Context, propertyID, staffID string) (*ApproverRow, error)
	FindFirstByRole(ctx context.Context, propertyID, role string) (*ApproverRow, error)
	FindActiveByRole(ctx context.Context, propertyID, role string) ([]ApproverRow, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindSupervisorOf(ctx context.Context, propertyID, staffID string) (*ApproverRow, error) {
	var row ApproverRow
	err := r.db.WithContext(ctx).
		Table("staff AS sup").
		Select("sup.id, sup.full_name, sup.role").
		Joins("JOIN staff AS req ON req.supervisor_id = sup.id").
		Where("req.id = ?", staffID).
		Where("req.property_id = ?", propertyID).
		Where("sup.property_id = ?", propertyID).
		Where("sup.is_active = true").
		Where("sup.deleted_at IS NULL").
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) FindFirstByRole(ctx context.Context, propertyID, role string) (*ApproverRow, error) {
	var row ApproverRow
	err := r.db.WithContext(ctx).
		Table("staff").
		Select("id, full_name, role").
		Where("property_id = ?", propertyID).
		Where("role = ?", role).
		Where("is_active = true").
		Where("deleted_at IS NULL").
		Order("full_name ASC").
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) FindActiveByRole(ctx context.Context, propertyID, role string) ([]ApproverRow, error) {
	var rows []ApproverRow
	err := r.db.WithContext(ctx).
		Table("staff").
		Select("id, full_name, role").
		Where("property_id = ?", propertyID).
		Where("role = ?", role).
		Where("is_active = true").
		Where("deleted_at IS NULL").
		Order("full_name ASC").
		Find(&rows).Error
	return rows, err
}
