package approval

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=approval_repo.go -destination=mock/approval_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository

	CreateRequest(ctx context.Context, r *Request) error
	CreateSteps(ctx context.Context, steps []Step) error
	CreateComment(ctx context.Context, c *Comment) error

	FindRequestByID(ctx context.Context, propertyID, id string) (*Request, error)
	// FindRequestByIDForUpdate row-locks the request so concurrent action
	// calls on the same request serialize.
	FindRequestByIDForUpdate(ctx context.Context, propertyID, id string) (*Request, error)
	FindLatestRequestByEntity(ctx context.Context, propertyID, entityType, entityID string) (*Request, error)
	FindRequestsByAssignee(ctx context.Context, propertyID, assigneeID string) ([]Request, error)

	FindStepsByRequest(ctx context.Context, requestID string) ([]Step, error)
	FindPendingStep(ctx context.Context, requestID string) (*Step, error)
	FindCommentsByRequest(ctx context.Context, requestID string) ([]Comment, error)

	// CompletePendingStep is a compare-and-swap: the update applies only while
	// the step is still pending. Returns false when another call won the race.
	CompletePendingStep(ctx context.Context, stepID, newStatus string, comment *string, actedAt time.Time) (bool, error)
	ReassignPendingStep(ctx context.Context, stepID, assigneeID string) (bool, error)
	PromoteWaitingStep(ctx context.Context, requestID string, stepOrder int) (*Step, error)

	UpdateRequest(ctx context.Context, r *Request) error
	CloseOpenRequests(ctx context.Context, propertyID, entityType, entityID string, now time.Time) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx rebinds the repository onto an open transaction so every mutation in
// an action commits or rolls back together.
func (r *repository) WithTx(tx *sql.Tx) Repository {
	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: tx}), &gorm.Config{})
	if err != nil {
		return r
	}
	return &repository{db: gdb, tx: tx}
}

func (r *repository) CreateRequest(ctx context.Context, req *Request) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *repository) CreateSteps(ctx context.Context, steps []Step) error {
	if len(steps) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&steps).Error
}

func (r *repository) CreateComment(ctx context.Context, c *Comment) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *repository) FindRequestByID(ctx context.Context, propertyID, id string) (*Request, error) {
	var req Request
	err := r.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		First(&req, "id = ?", id).Error
	return &req, err
}

func (r *repository) FindRequestByIDForUpdate(ctx context.Context, propertyID, id string) (*Request, error) {
	var req Request
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("property_id = ?", propertyID).
		First(&req, "id = ?", id).Error
	return &req, err
}

func (r *repository) FindLatestRequestByEntity(ctx context.Context, propertyID, entityType, entityID string) (*Request, error) {
	var req Request
	err := r.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Where("entity_type = ?", entityType).
		Where("entity_id = ?", entityID).
		Order("created_at DESC").
		First(&req).Error
	return &req, err
}

func (r *repository) FindRequestsByAssignee(ctx context.Context, propertyID, assigneeID string) ([]Request, error) {
	var rows []Request
	err := r.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Where("current_assignee_id = ?", assigneeID).
		Order("submitted_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindStepsByRequest(ctx context.Context, requestID string) ([]Step, error) {
	var steps []Step
	err := r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Order("step_order ASC").
		Find(&steps).Error
	return steps, err
}

func (r *repository) FindPendingStep(ctx context.Context, requestID string) (*Step, error) {
	var step Step
	err := r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Where("status = ?", StepPending).
		First(&step).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &step, nil
}

func (r *repository) FindCommentsByRequest(ctx context.Context, requestID string) ([]Comment, error) {
	var comments []Comment
	err := r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}

func (r *repository) CompletePendingStep(ctx context.Context, stepID, newStatus string, comment *string, actedAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&Step{}).
		Where("id = ?", stepID).
		Where("status = ?", StepPending).
		Updates(map[string]any{
			"status":     newStatus,
			"comment":    comment,
			"acted_at":   actedAt,
			"updated_at": actedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) ReassignPendingStep(ctx context.Context, stepID, assigneeID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&Step{}).
		Where("id = ?", stepID).
		Where("status = ?", StepPending).
		Updates(map[string]any{
			"assignee_id": assigneeID,
			"updated_at":  time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) PromoteWaitingStep(ctx context.Context, requestID string, stepOrder int) (*Step, error) {
	res := r.db.WithContext(ctx).
		Model(&Step{}).
		Where("request_id = ?", requestID).
		Where("step_order = ?", stepOrder).
		Where("status = ?", StepWaiting).
		Update("status", StepPending)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}

	var step Step
	err := r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Where("step_order = ?", stepOrder).
		First(&step).Error
	if err != nil {
		return nil, err
	}
	return &step, nil
}

func (r *repository) UpdateRequest(ctx context.Context, req *Request) error {
	return r.db.WithContext(ctx).Save(req).Error
}

func (r *repository) CloseOpenRequests(ctx context.Context, propertyID, entityType, entityID string, now time.Time) error {
	return r.db.WithContext(ctx).
		Model(&Request{}).
		Where("property_id = ?", propertyID).
		Where("entity_type = ?", entityType).
		Where("entity_id = ?", entityID).
		Where("status NOT IN ?", []string{StatusApproved, StatusRejected, StatusClosed}).
		Updates(map[string]any{
			"status":              StatusClosed,
			"current_assignee_id": nil,
			"completed_at":        now,
			"updated_at":          now,
		}).Error
}
