package staff

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Saifeldin2401/prime-hotels-intranet-sub005/internal/assignment"
	"github.com/Saifeldin2401/prime-hotels-intranet-sub005/internal/events"
	"github.com/Saifeldin2401/prime-hotels-intranet-sub005/internal/messaging/kafka"
	"github.com/Saifeldin2401/prime-hotels-intranet-sub005/internal/shared/contextutil"
	"github.com/Saifeldin2401/prime-hotels-intranet-sub005/internal/shared/counter"
	stafferrors "github.com/Saifeldin2401/prime-hotels-intranet-sub005/internal/staff/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const StaffOptionsKeyPrefix = "staff:options:"

func GetStaffOptionsKey(propertyID string) string {
	return StaffOptionsKeyPrefix + propertyID
}

//go:generate mockgen -source=staff_service.go -destination=mock/staff_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, propertyID string, req CreateStaffRequest) (StaffResponse, error)
	GetAll(ctx context.Context, propertyID string) ([]StaffResponse, error)
	GetOptions(ctx context.Context, propertyID string) ([]StaffResponse, error)
	GetByID(ctx context.Context, propertyID, id string) (StaffResponse, error)
	Update(ctx context.Context, propertyID, id string, req UpdateStaffRequest) (StaffResponse, error)
	Delete(ctx context.Context, propertyID, id string) error
}

type service struct {
	db      *sql.DB
	repo    Repository
	counter counter.Repository
	outbox  kafka.OutboxRepository
	rdb     *redis.Client
	sf      *singleflight.Group
	logger  *zap.Logger
}

func NewService(db *sql.DB, repo Repository, counter counter.Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, counter, nil, rdb, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	counter counter.Repository,
	outboxRepo kafka.OutboxRepository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("staff.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("staff.service")
	}
	return &service{
		db:      db,
		repo:    repo,
		counter: counter,
		outbox:  outboxRepo,
		rdb:     rdb,
		sf:      &singleflight.Group{},
		logger:  l}
}

func (s *service) Create(
	ctx context.Context,
	propertyID string,
	req CreateStaffRequest,
) (StaffResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create staff requested",
		zap.String("request_id", rid),
		zap.String("property_id", propertyID),
		zap.String("role", req.Role),
		zap.String("email", req.Email),
	)

	propertyUUID, err := uuid.Parse(propertyID)
	if err != nil {
		return StaffResponse{}, stafferrors.ErrInvalidPropertyID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create staff begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return StaffResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	var supervisorID *uuid.UUID
	if req.SupervisorID != "" {
		sup, err := qtx.FindByIDAndProperty(ctx, propertyID, req.SupervisorID)
		if err != nil {
			s.logger.Warn("create staff supervisor lookup failed",
				zap.String("supervisor_id", req.SupervisorID),
				zap.Error(err),
			)
			return StaffResponse{}, stafferrors.ErrInvalidSupervisor
		}
		supervisorID = &sup.ID
	}

	nextVal, err := s.counter.GetNextValue(ctx, propertyID, "staff_number")
	if err != nil {
		s.logger.Error("create staff generate number failed", zap.Error(err))
		return StaffResponse{}, err
	}
	staffNumber := fmt.Sprintf("STF-%06d", nextVal)

	member := &Staff{
		ID:           uuid.New(),
		PropertyID:   propertyUUID,
		SupervisorID: supervisorID,
		StaffNumber:  staffNumber,
		FullName:     req.FullName,
		Email:        req.Email,
		Role:         req.Role,
		IsActive:     true,
	}

	if err := qtx.Create(ctx, member); err != nil {
		s.logger.Error("create staff persist failed", zap.Error(err))
		return StaffResponse{}, mapRepositoryError(err)
	}

	if s.outbox != nil {
		event := events.StaffCreatedEvent{
			EventType:  "staff_created",
			RequestID:  rid,
			StaffID:    member.ID.String(),
			PropertyID: propertyID,
			Role:       member.Role,
			OccurredAt: time.Now().UTC(),
		}
		payload, err := json.Marshal(event)
		if err != nil {
			s.logger.Error("marshal event failed", zap.String("request_id", rid), zap.Error(err))
			return StaffResponse{}, err
		}

		outboxRepo := s.outbox.WithTx(tx)
		if err := outboxRepo.Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     rid,
			AggregateType: "staff",
			AggregateID:   member.ID.String(),
			EventType:     event.EventType,
			Topic:         events.StaffCreatedTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			s.logger.Error("create staff outbox persist failed",
				zap.String("staff_id", member.ID.String()),
				zap.Error(err),
			)
			return StaffResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("commit failed", zap.String("request_id", rid), zap.Error(err))
		return StaffResponse{}, err
	}

	s.invalidateCaches(ctx, propertyID, member.Role)

	s.logger.Info("create staff success",
		zap.String("request_id", rid),
		zap.String("staff_id", member.ID.String()),
	)

	return mapToResponse(*member), nil
}

func (s *service) GetAll(
	ctx context.Context,
	propertyID string,
) ([]StaffResponse, error) {
	s.logger.Debug("get all staff requested", zap.String("property_id", propertyID))
	members, err := s.repo.FindAllByProperty(ctx, propertyID)
	if err != nil {
		s.logger.Error("get all staff failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	return mapToListResponse(members), nil
}

func (s *service) GetOptions(ctx context.Context, propertyID string) ([]StaffResponse, error) {
	cacheKey := GetStaffOptionsKey(propertyID)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp []StaffResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	// Singleflight collapses the stampede when many pickers load at once.
	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		members, err := s.repo.FindOptionsByProperty(ctx, propertyID)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		resp := mapToListResponse(members)

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, cacheKey, jsonData, 1*time.Hour)
			}
		}

		return resp, nil
	})

	if err != nil {
		return nil, err
	}

	return v.([]StaffResponse), nil
}

func (s *service) GetByID(
	ctx context.Context,
	propertyID, id string,
) (StaffResponse, error) {
	s.logger.Debug("get staff by id requested",
		zap.String("property_id", propertyID),
		zap.String("staff_id", id),
	)
	member, err := s.repo.FindByIDAndProperty(ctx, propertyID, id)
	if err != nil {
		s.logger.Error("get staff by id failed", zap.Error(err))
		return StaffResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*member), nil
}

func (s *service) Update(
	ctx context.Context,
	propertyID, id string,
	req UpdateStaffRequest,
) (StaffResponse, error) {
	s.logger.Debug("update staff requested",
		zap.String("property_id", propertyID),
		zap.String("staff_id", id),
		zap.String("role", req.Role),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update staff begin tx failed", zap.Error(err))
		return StaffResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	member, err := qtx.FindByIDAndProperty(ctx, propertyID, id)
	if err != nil {
		s.logger.Error("update staff fetch existing failed", zap.Error(err))
		return StaffResponse{}, mapRepositoryError(err)
	}
	previousRole := member.Role

	var supervisorID *uuid.UUID
	if req.SupervisorID != "" {
		if req.SupervisorID == id {
			return StaffResponse{}, stafferrors.ErrInvalidSupervisor
		}
		sup, err := qtx.FindByIDAndProperty(ctx, propertyID, req.SupervisorID)
		if err != nil {
			return StaffResponse{}, stafferrors.ErrInvalidSupervisor
		}
		supervisorID = &sup.ID
	}

	member.FullName = req.FullName
	member.Email = req.Email
	member.Role = req.Role
	member.SupervisorID = supervisorID
	if req.IsActive != nil {
		member.IsActive = *req.IsActive
	}

	if err := qtx.Update(ctx, member); err != nil {
		s.logger.Error("update staff persist failed", zap.Error(err))
		return StaffResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update staff commit failed", zap.Error(err))
		return StaffResponse{}, err
	}

	s.invalidateCaches(ctx, propertyID, previousRole, member.Role)

	s.logger.Info("update staff success", zap.String("staff_id", id))

	return mapToResponse(*member), nil
}

func (s *service) Delete(
	ctx context.Context,
	propertyID, id string,
) error {
	s.logger.Debug("delete staff requested",
		zap.String("property_id", propertyID),
		zap.String("staff_id", id),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("delete staff begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	member, err := qtx.FindByIDAndProperty(ctx, propertyID, id)
	if err != nil {
		s.logger.Error("delete staff fetch existing failed", zap.Error(err))
		return mapRepositoryError(err)
	}

	if err := qtx.Delete(ctx, propertyID, id); err != nil {
		s.logger.Error("delete staff failed", zap.Error(err))
		return mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("delete staff commit failed", zap.Error(err))
		return err
	}

	s.invalidateCaches(ctx, propertyID, member.Role)

	s.logger.Info("delete staff success", zap.String("staff_id", id))
	return nil
}

// invalidateCaches drops the staff picker cache plus the approver option
// caches for every role the change touched, so stale approvers never get
// resolved onto fresh requests.
func (s *service) invalidateCaches(ctx context.Context, propertyID string, roles ...string) {
	if s.rdb == nil {
		return
	}

	keys := []string{GetStaffOptionsKey(propertyID)}
	seen := map[string]bool{}
	for _, role := range roles {
		if role == "" || seen[role] {
			continue
		}
		seen[role] = true
		keys = append(keys, assignment.GetApproverOptionsKey(propertyID, role))
	}

	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		s.logger.Error("failed to invalidate staff caches",
			zap.Error(err),
			zap.Strings("keys", keys),
		)
	}
}

func mapToResponse(member Staff) StaffResponse {
	resp := StaffResponse{
		ID:          member.ID.String(),
		StaffNumber: member.StaffNumber,
		FullName:    member.FullName,
		Email:       member.Email,
		Role:        member.Role,
		PropertyID:  member.PropertyID.String(),
		IsActive:    member.IsActive,
	}
	if member.SupervisorID != nil {
		resp.SupervisorID = member.SupervisorID.String()
	}
	return resp
}

func mapToListResponse(members []Staff) []StaffResponse {
	res := make([]StaffResponse, len(members))
	for i, m := range members {
		res[i] = mapToResponse(m)
	}
	return res
}
