package notification

import (
	"context"
	"time"

	"github.com/Saifeldin2401/prime-hotels-intranet-sub005/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=notification_repo.go -destination=mock/notification_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, n *Notification) error
	ListByRecipient(ctx context.Context, propertyID, recipientID string, limit int) ([]Notification, error)
	CountUnread(ctx context.Context, propertyID, recipientID string) (int64, error)
	MarkRead(ctx context.Context, propertyID, recipientID, id string, readAt time.Time) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, n *Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *repository) ListByRecipient(ctx context.Context, propertyID, recipientID string, limit int) ([]Notification, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []Notification
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(propertyID)).
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *repository) CountUnread(ctx context.Context, propertyID, recipientID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Notification{}).
		Scopes(tenant.Scope(propertyID)).
		Where("recipient_id = ?", recipientID).
		Where("read_at IS NULL").
		Count(&count).Error
	return count, err
}

func (r *repository) MarkRead(ctx context.Context, propertyID, recipientID, id string, readAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&Notification{}).
		Scopes(tenant.Scope(propertyID)).
		Where("id = ?", id).
		Where("recipient_id = ?", recipientID).
		Where("read_at IS NULL").
		Update("read_at", readAt)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
