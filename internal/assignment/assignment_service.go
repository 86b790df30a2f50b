package assignment

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	roleSupervisor = "supervisor"
	roleManager    = "manager"

	optionsKeyPrefix = "approvers:options:"
	optionsCacheTTL  = 5 * time.Minute
)

func GetApproverOptionsKey(propertyID, role string) string {
	return optionsKeyPrefix + propertyID + ":" + role
}

// ApproverRef identifies a resolved approver.
type ApproverRef struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"full_name"`
	Role     string    `json:"role"`
}

// Resolver is the approver lookup the approval workflow consumes. A nil
// result with nil error means nobody could be resolved; the caller decides
// how to degrade.
type Resolver interface {
	ResolveApprover(ctx context.Context, propertyID, requesterID, role string) (*ApproverRef, error)
}

//go:generate mockgen -source=assignment_service.go -destination=mock/assignment_service_mock.go -package=mock
type Service interface {
	Resolver
	GetApproverOptions(ctx context.Context, propertyID, role string) ([]ApproverRef, error)
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("assignment.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("assignment.service")
	}
	return &service{
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

// ResolveApprover picks the approver for a role slot. The supervisor slot
// prefers the requester's own supervisor and falls back to any active
// property manager; other slots take the first active role holder.
func (s *service) ResolveApprover(ctx context.Context, propertyID, requesterID, role string) (*ApproverRef, error) {
	if role == roleSupervisor {
		row, err := s.repo.FindSupervisorOf(ctx, propertyID, requesterID)
		if err != nil {
			return nil, err
		}
		if row == nil {
			row, err = s.repo.FindFirstByRole(ctx, propertyID, roleManager)
			if err != nil {
				return nil, err
			}
		}
		return toRef(row), nil
	}

	row, err := s.repo.FindFirstByRole(ctx, propertyID, role)
	if err != nil {
		return nil, err
	}
	if row == nil {
		s.logger.Warn("no approver resolved for role",
			zap.String("property_id", propertyID),
			zap.String("role", role),
		)
	}
	return toRef(row), nil
}

// GetApproverOptions serves the pickers in the UI (e.g. forward targets).
// Cached in Redis; singleflight collapses concurrent cache misses.
func (s *service) GetApproverOptions(ctx context.Context, propertyID, role string) ([]ApproverRef, error) {
	key := GetApproverOptionsKey(propertyID, role)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, key).Result(); err == nil {
			var refs []ApproverRef
			if err := json.Unmarshal([]byte(cached), &refs); err == nil {
				return refs, nil
			}
		}
	}

	v, err, _ := s.sf.Do(key, func() (any, error) {
		rows, err := s.repo.FindActiveByRole(ctx, propertyID, role)
		if err != nil {
			return nil, err
		}

		refs := make([]ApproverRef, len(rows))
		for i, row := range rows {
			refs[i] = *toRef(&row)
		}

		if s.rdb != nil {
			if payload, err := json.Marshal(refs); err == nil {
				if err := s.rdb.Set(ctx, key, payload, optionsCacheTTL).Err(); err != nil {
					s.logger.Warn("cache approver options failed", zap.Error(err))
				}
			}
		}

		return refs, nil
	})
	if err != nil {
		return nil, fmt.Errorf("load approver options: %w", err)
	}

	return v.([]ApproverRef), nil
}

func toRef(row *ApproverRow) *ApproverRef {
	if row == nil {
		return nil
	}
	return &ApproverRef{
		ID:       row.ID,
		FullName: row.FullName,
		Role:     row.Role,
	}
}
