package approval

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	approvalerrors "github.com/Saifeldin2401/prime-hotels-intranet-sub005/internal/approval/errors"
	"github.com/Saifeldin2401/prime-hotels-intranet-sub005/internal/assignment"
	"github.com/Saifeldin2401/prime-hotels-intranet-sub005/internal/events"
	"github.com/Saifeldin2401/prime-hotels-intranet-sub005/internal/messaging/kafka"
	"github.com/Saifeldin2401/prime-hotels-intranet-sub005/internal/shared/contextutil"
	"github.com/Saifeldin2401/prime-hotels-intranet-sub005/internal/shared/counter"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Actor-initiated verbs accepted by ApplyAction.
const (
	ActionApprove    = "approve"
	ActionReject     = "reject"
	ActionReturn     = "return"
	ActionForward    = "forward"
	ActionAddComment = "add_comment"
)

// Result codes for the expected, user-facing failure conditions. These travel
// inside ActionResult, never as errors.
const (
	CodeNotAuthenticated     = "NOT_AUTHENTICATED"
	CodeRequestNotFound      = "REQUEST_NOT_FOUND"
	CodeRequestAlreadyClosed = "REQUEST_ALREADY_CLOSED"
	CodeNotAuthorizedActor   = "NOT_AUTHORIZED_ACTOR"
	CodeNoActiveStep         = "NO_ACTIVE_STEP"
	CodeUnknownAction        = "UNKNOWN_ACTION"
	CodeResolutionFailed     = "RESOLUTION_FAILED"
)

const counterTypeRequestNumber = "approval_request_number"

// ActionResult is what ApplyAction hands back to the caller. Callers must
// check Success before treating the call as a state change; Message is safe
// to render inline.
type ActionResult struct {
	Success bool   `json:"success"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

func failure(code, message string) ActionResult {
	return ActionResult{Success: false, Code: code, Message: message}
}

func succeeded(message string) ActionResult {
	return ActionResult{Success: true, Message: message}
}

//go:generate mockgen -source=approval_service.go -destination=mock/approval_service_mock.go -package=mock
type Service interface {
	Submit(ctx context.Context, propertyID, actorID string, req SubmitRequest) (RequestDetailResponse, error)
	ApplyAction(ctx context.Context, propertyID, actorID, requestID string, req ActionRequest) (ActionResult, error)
	GetLatest(ctx context.Context, propertyID, entityType, entityID string) (*RequestDetailResponse, error)
	GetByID(ctx context.Context, propertyID, id string) (RequestDetailResponse, error)
	ListAssigned(ctx context.Context, propertyID, assigneeID string) ([]RequestResponse, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	counter  counter.Repository
	resolver assignment.Resolver
	outbox   kafka.OutboxRepository
	flows    Flows
	logger   *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	counterRepo counter.Repository,
	resolver assignment.Resolver,
	flows Flows,
	logger ...*zap.Logger,
) Service {
	return NewServiceWithOutbox(db, repo, counterRepo, resolver, flows, nil, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	counterRepo counter.Repository,
	resolver assignment.Resolver,
	flows Flows,
	outboxRepo kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("approval.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("approval.service")
	}
	if flows == nil {
		flows = DefaultFlows()
	}
	return &service{
		db:       db,
		repo:     repo,
		counter:  counterRepo,
		resolver: resolver,
		outbox:   outboxRepo,
		flows:    flows,
		logger:   l,
	}
}

// Submit opens a new approval request for a business object and materializes
// its whole step chain: slot 1 pending, later slots waiting. Any previous
// in-flight request for the same object is closed in the same transaction so
// exactly one request stays "latest".
func (s *service) Submit(ctx context.Context, propertyID, actorID string, req SubmitRequest) (RequestDetailResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("submit approval requested",
		zap.String("request_id", rid),
		zap.String("property_id", propertyID),
		zap.String("actor_id", actorID),
		zap.String("entity_type", req.EntityType),
		zap.String("entity_id", req.EntityID),
	)

	if actorID == "" {
		return RequestDetailResponse{}, approvalerrors.ErrNotAuthenticated
	}
	propertyUUID, err := uuid.Parse(propertyID)
	if err != nil {
		return RequestDetailResponse{}, approvalerrors.ErrInvalidPropertyID
	}
	requesterUUID, err := uuid.Parse(actorID)
	if err != nil {
		return RequestDetailResponse{}, approvalerrors.ErrInvalidActorID
	}
	entityUUID, err := uuid.Parse(req.EntityID)
	if err != nil {
		return RequestDetailResponse{}, approvalerrors.ErrInvalidEntityID
	}

	slots := s.flows.SlotsFor(req.EntityType)
	assignees := make([]*assignment.ApproverRef, len(slots))
	for i, slot := range slots {
		ref, err := s.resolver.ResolveApprover(ctx, propertyID, actorID, slot.Role)
		if err != nil {
			s.logger.Error("submit approval resolve approver failed",
				zap.String("role", slot.Role),
				zap.Error(err),
			)
			return RequestDetailResponse{}, err
		}
		// nil is allowed: the request enters a degraded state with no
		// assignee until someone forwards it.
		assignees[i] = ref
	}

	nextVal, err := s.counter.GetNextValue(ctx, propertyID, counterTypeRequestNumber)
	if err != nil {
		s.logger.Error("submit approval generate number failed", zap.Error(err))
		return RequestDetailResponse{}, err
	}
	requestNumber := fmt.Sprintf("APR-%06d", nextVal)

	var metadata []byte
	if len(req.Metadata) > 0 {
		metadata, err = json.Marshal(req.Metadata)
		if err != nil {
			return RequestDetailResponse{}, err
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("submit approval begin tx failed", zap.Error(err))
		return RequestDetailResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	now := time.Now().UTC()

	if err := qtx.CloseOpenRequests(ctx, propertyID, req.EntityType, req.EntityID, now); err != nil {
		s.logger.Error("submit approval supersede failed", zap.Error(err))
		return RequestDetailResponse{}, err
	}

	request := &Request{
		ID:            uuid.New(),
		PropertyID:    propertyUUID,
		RequestNumber: requestNumber,
		EntityType:    req.EntityType,
		EntityID:      entityUUID,
		RequesterID:   requesterUUID,
		Status:        slots[0].PendingStatus,
		Metadata:      metadata,
		SubmittedAt:   now,
	}
	if first := assignees[0]; first != nil {
		id := first.ID
		request.SupervisorID = &id
		request.CurrentAssigneeID = &id
	}

	steps := make([]Step, len(slots))
	for i, slot := range slots {
		status := StepWaiting
		if i == 0 {
			status = StepPending
		}
		steps[i] = Step{
			ID:           uuid.New(),
			RequestID:    request.ID,
			StepOrder:    i + 1,
			AssigneeRole: slot.Role,
			Status:       status,
			CreatedBy:    requesterUUID,
		}
		if ref := assignees[i]; ref != nil {
			id := ref.ID
			steps[i].AssigneeID = &id
		}
	}

	if err := qtx.CreateRequest(ctx, request); err != nil {
		s.logger.Error("submit approval persist request failed", zap.Error(err))
		return RequestDetailResponse{}, err
	}
	if err := qtx.CreateSteps(ctx, steps); err != nil {
		s.logger.Error("submit approval persist steps failed", zap.Error(err))
		return RequestDetailResponse{}, err
	}

	if s.outbox != nil {
		event := events.ApprovalRequestSubmittedEvent{
			EventType:         "approval_request_submitted",
			RequestID:         rid,
			ApprovalRequestID: request.ID.String(),
			RequestNumber:     request.RequestNumber,
			PropertyID:        propertyID,
			EntityType:        req.EntityType,
			EntityID:          req.EntityID,
			RequesterID:       actorID,
			OccurredAt:        now,
		}
		if request.CurrentAssigneeID != nil {
			event.AssigneeID = request.CurrentAssigneeID.String()
		}
		if err := s.enqueueEvent(ctx, tx, rid, request.ID.String(), event.EventType, events.ApprovalRequestSubmittedTopic, event); err != nil {
			return RequestDetailResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("submit approval commit failed", zap.Error(err))
		return RequestDetailResponse{}, err
	}

	s.logger.Info("submit approval success",
		zap.String("approval_request_id", request.ID.String()),
		zap.String("request_number", requestNumber),
		zap.String("status", request.Status),
	)

	return mapToDetailResponse(*request, steps, nil), nil
}

// ApplyAction is the single authoritative entry point that advances a
// request; the HTTP layer never writes request/step rows any other way. Every
// expected failure comes back as a structured result; only infrastructure
// faults become errors, and then the whole transaction rolls back.
func (s *service) ApplyAction(ctx context.Context, propertyID, actorID, requestID string, req ActionRequest) (ActionResult, error) {
	s.logger.Debug("apply action requested",
		zap.String("approval_request_id", requestID),
		zap.String("property_id", propertyID),
		zap.String("actor_id", actorID),
		zap.String("action", req.Action),
	)

	if actorID == "" {
		return failure(CodeNotAuthenticated, "no requesting actor is present"), nil
	}
	switch req.Action {
	case ActionApprove, ActionReject, ActionReturn, ActionForward, ActionAddComment:
	default:
		return failure(CodeUnknownAction, fmt.Sprintf("unsupported action %q", req.Action)), nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("apply action begin tx failed", zap.Error(err))
		return ActionResult{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	// Row lock serializes concurrent actions on the same request.
	request, err := qtx.FindRequestByIDForUpdate(ctx, propertyID, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return failure(CodeRequestNotFound, "approval request not found"), nil
		}
		return ActionResult{}, err
	}

	if IsTerminalStatus(request.Status) {
		return failure(CodeRequestAlreadyClosed, "this request has already been finalized"), nil
	}

	if req.Action == ActionAddComment {
		return s.addComment(ctx, tx, qtx, request, actorID, req.Comment)
	}

	if request.CurrentAssigneeID == nil || request.CurrentAssigneeID.String() != actorID {
		return failure(CodeNotAuthorizedActor, "you are not the current assignee for this request"), nil
	}

	step, err := qtx.FindPendingStep(ctx, request.ID.String())
	if err != nil {
		return ActionResult{}, err
	}
	if step == nil || step.AssigneeID == nil || step.AssigneeID.String() != actorID {
		return failure(CodeNoActiveStep, "no active step is awaiting your action"), nil
	}

	now := time.Now().UTC()
	var result ActionResult

	switch req.Action {
	case ActionApprove:
		result, err = s.approve(ctx, qtx, request, step, req.Comment, now)
	case ActionReject:
		result, err = s.reject(ctx, qtx, request, step, req.Comment, now)
	case ActionReturn:
		result, err = s.returnForCorrection(ctx, qtx, request, step, req.Comment, now)
	case ActionForward:
		result, err = s.forward(ctx, qtx, request, step, actorID, req, now)
	}
	if err != nil {
		return ActionResult{}, err
	}
	if !result.Success {
		return result, nil
	}

	if s.outbox != nil {
		rid := contextutil.GetRequestID(ctx)
		event := events.ApprovalRequestActionedEvent{
			EventType:         "approval_request_actioned",
			RequestID:         rid,
			ApprovalRequestID: request.ID.String(),
			RequestNumber:     request.RequestNumber,
			PropertyID:        propertyID,
			Action:            req.Action,
			ActorID:           actorID,
			RequesterID:       request.RequesterID.String(),
			NewStatus:         request.Status,
			OccurredAt:        now,
		}
		if request.CurrentAssigneeID != nil {
			event.NextAssigneeID = request.CurrentAssigneeID.String()
		}
		if err := s.enqueueEvent(ctx, tx, rid, request.ID.String(), event.EventType, events.ApprovalRequestActionedTopic, event); err != nil {
			return ActionResult{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("apply action commit failed",
			zap.String("approval_request_id", requestID),
			zap.Error(err),
		)
		return ActionResult{}, err
	}

	s.logger.Info("apply action success",
		zap.String("approval_request_id", requestID),
		zap.String("action", req.Action),
		zap.String("new_status", request.Status),
	)

	return result, nil
}

func (s *service) approve(ctx context.Context, qtx Repository, request *Request, step *Step, comment *string, now time.Time) (ActionResult, error) {
	ok, err := qtx.CompletePendingStep(ctx, step.ID.String(), StepApproved, comment, now)
	if err != nil {
		return ActionResult{}, err
	}
	if !ok {
		// Another call finished this step between our reads.
		return failure(CodeNoActiveStep, "no active step is awaiting your action"), nil
	}

	next, err := qtx.PromoteWaitingStep(ctx, request.ID.String(), step.StepOrder+1)
	if err != nil {
		return ActionResult{}, err
	}

	if next != nil {
		request.CurrentAssigneeID = next.AssigneeID
		request.Status = s.flows.PendingStatusFor(request.EntityType, next.AssigneeRole)
		if err := qtx.UpdateRequest(ctx, request); err != nil {
			return ActionResult{}, err
		}
		return succeeded("step approved; request moved to the next approver"), nil
	}

	request.Status = StatusApproved
	request.CurrentAssigneeID = nil
	request.CompletedAt = &now
	if err := qtx.UpdateRequest(ctx, request); err != nil {
		return ActionResult{}, err
	}
	return succeeded("request fully approved"), nil
}

func (s *service) reject(ctx context.Context, qtx Repository, request *Request, step *Step, comment *string, now time.Time) (ActionResult, error) {
	ok, err := qtx.CompletePendingStep(ctx, step.ID.String(), StepRejected, comment, now)
	if err != nil {
		return ActionResult{}, err
	}
	if !ok {
		return failure(CodeNoActiveStep, "no active step is awaiting your action"), nil
	}

	request.Status = StatusRejected
	request.CurrentAssigneeID = nil
	request.CompletedAt = &now
	if err := qtx.UpdateRequest(ctx, request); err != nil {
		return ActionResult{}, err
	}
	return succeeded("request rejected"), nil
}

// returnForCorrection hands the request back to its requester: the request
// stays in-flight under returned_for_correction and a fresh submission
// supersedes it once the source object is fixed.
func (s *service) returnForCorrection(ctx context.Context, qtx Repository, request *Request, step *Step, comment *string, now time.Time) (ActionResult, error) {
	ok, err := qtx.CompletePendingStep(ctx, step.ID.String(), StepReturned, comment, now)
	if err != nil {
		return ActionResult{}, err
	}
	if !ok {
		return failure(CodeNoActiveStep, "no active step is awaiting your action"), nil
	}

	requester := request.RequesterID
	request.Status = StatusReturned
	request.CurrentAssigneeID = &requester
	if err := qtx.UpdateRequest(ctx, request); err != nil {
		return ActionResult{}, err
	}
	return succeeded("request returned to the requester for correction"), nil
}

func (s *service) forward(ctx context.Context, qtx Repository, request *Request, step *Step, actorID string, req ActionRequest, now time.Time) (ActionResult, error) {
	if req.ForwardTo == nil || *req.ForwardTo == "" {
		return failure(CodeResolutionFailed, "forward target is required"), nil
	}
	forwardUUID, err := uuid.Parse(*req.ForwardTo)
	if err != nil {
		return failure(CodeResolutionFailed, "forward target is not a valid staff id"), nil
	}

	ok, err := qtx.ReassignPendingStep(ctx, step.ID.String(), forwardUUID.String())
	if err != nil {
		return ActionResult{}, err
	}
	if !ok {
		return failure(CodeNoActiveStep, "no active step is awaiting your action"), nil
	}

	request.CurrentAssigneeID = &forwardUUID
	if err := qtx.UpdateRequest(ctx, request); err != nil {
		return ActionResult{}, err
	}

	if req.Comment != nil && *req.Comment != "" {
		actorUUID, err := uuid.Parse(actorID)
		if err != nil {
			return ActionResult{}, err
		}
		if err := qtx.CreateComment(ctx, &Comment{
			ID:        uuid.New(),
			RequestID: request.ID,
			AuthorID:  actorUUID,
			Body:      *req.Comment,
			CreatedAt: now,
		}); err != nil {
			return ActionResult{}, err
		}
	}

	return succeeded("request forwarded to the new assignee"), nil
}

// addComment appends to the discussion thread. Any participant may comment;
// step progression and request status stay untouched.
func (s *service) addComment(ctx context.Context, tx *sql.Tx, qtx Repository, request *Request, actorID string, body *string) (ActionResult, error) {
	if body == nil || *body == "" {
		return failure(CodeUnknownAction, "a comment body is required"), nil
	}

	steps, err := qtx.FindStepsByRequest(ctx, request.ID.String())
	if err != nil {
		return ActionResult{}, err
	}
	if !isParticipant(request, steps, actorID) {
		return failure(CodeNotAuthorizedActor, "only participants of this request may comment"), nil
	}

	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return failure(CodeNotAuthorizedActor, "only participants of this request may comment"), nil
	}

	if err := qtx.CreateComment(ctx, &Comment{
		ID:        uuid.New(),
		RequestID: request.ID,
		AuthorID:  actorUUID,
		Body:      *body,
		CreatedAt: time.Now().UTC(),
	}); err != nil {
		return ActionResult{}, err
	}

	if err := tx.Commit(); err != nil {
		return ActionResult{}, err
	}
	return succeeded("comment added"), nil
}

func isParticipant(request *Request, steps []Step, actorID string) bool {
	if request.RequesterID.String() == actorID {
		return true
	}
	if request.CurrentAssigneeID != nil && request.CurrentAssigneeID.String() == actorID {
		return true
	}
	for _, step := range steps {
		if step.AssigneeID != nil && step.AssigneeID.String() == actorID {
			return true
		}
	}
	return false
}

// GetLatest returns the newest request for a business object with its steps
// and comments, or nil when the object has never been submitted. "No request"
// is not an error: it is the signal to show the submission entry point.
func (s *service) GetLatest(ctx context.Context, propertyID, entityType, entityID string) (*RequestDetailResponse, error) {
	request, err := s.repo.FindLatestRequestByEntity(ctx, propertyID, entityType, entityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	detail, err := s.loadDetail(ctx, request)
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

func (s *service) GetByID(ctx context.Context, propertyID, id string) (RequestDetailResponse, error) {
	request, err := s.repo.FindRequestByID(ctx, propertyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RequestDetailResponse{}, approvalerrors.ErrRequestNotFound
		}
		return RequestDetailResponse{}, err
	}
	return s.loadDetail(ctx, request)
}

// ListAssigned is the approvals inbox: every request currently waiting on the
// given assignee, oldest submission first.
func (s *service) ListAssigned(ctx context.Context, propertyID, assigneeID string) ([]RequestResponse, error) {
	if _, err := uuid.Parse(assigneeID); err != nil {
		return nil, approvalerrors.ErrInvalidAssigneeID
	}

	rows, err := s.repo.FindRequestsByAssignee(ctx, propertyID, assigneeID)
	if err != nil {
		return nil, err
	}

	resp := make([]RequestResponse, len(rows))
	for i, row := range rows {
		resp[i] = mapToResponse(row)
	}
	return resp, nil
}

func (s *service) loadDetail(ctx context.Context, request *Request) (RequestDetailResponse, error) {
	steps, err := s.repo.FindStepsByRequest(ctx, request.ID.String())
	if err != nil {
		return RequestDetailResponse{}, err
	}
	comments, err := s.repo.FindCommentsByRequest(ctx, request.ID.String())
	if err != nil {
		return RequestDetailResponse{}, err
	}
	return mapToDetailResponse(*request, steps, comments), nil
}

func (s *service) enqueueEvent(ctx context.Context, tx *sql.Tx, rid, aggregateID, eventType, topic string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	outboxRepo := s.outbox.WithTx(tx)
	if err := outboxRepo.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     rid,
		AggregateType: "approval_request",
		AggregateID:   aggregateID,
		EventType:     eventType,
		Topic:         topic,
		Payload:       body,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		s.logger.Error("enqueue approval event failed",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func mapToResponse(r Request) RequestResponse {
	resp := RequestResponse{
		ID:            r.ID.String(),
		PropertyID:    r.PropertyID.String(),
		RequestNumber: r.RequestNumber,
		EntityType:    r.EntityType,
		EntityID:      r.EntityID.String(),
		RequesterID:   r.RequesterID.String(),
		Status:        r.Status,
		SubmittedAt:   r.SubmittedAt.Format(time.RFC3339),
	}
	if r.SupervisorID != nil {
		v := r.SupervisorID.String()
		resp.SupervisorID = &v
	}
	if r.CurrentAssigneeID != nil {
		v := r.CurrentAssigneeID.String()
		resp.CurrentAssigneeID = &v
	}
	if r.CompletedAt != nil {
		v := r.CompletedAt.Format(time.RFC3339)
		resp.CompletedAt = &v
	}
	if len(r.Metadata) > 0 {
		var meta map[string]string
		if err := json.Unmarshal(r.Metadata, &meta); err == nil {
			resp.Metadata = meta
		}
	}
	return resp
}

func mapToDetailResponse(r Request, steps []Step, comments []Comment) RequestDetailResponse {
	detail := RequestDetailResponse{
		RequestResponse: mapToResponse(r),
		Steps:           make([]StepResponse, len(steps)),
		Comments:        make([]CommentResponse, len(comments)),
	}
	for i, step := range steps {
		sr := StepResponse{
			ID:           step.ID.String(),
			StepOrder:    step.StepOrder,
			AssigneeRole: step.AssigneeRole,
			Status:       step.Status,
			Comment:      step.Comment,
		}
		if step.AssigneeID != nil {
			v := step.AssigneeID.String()
			sr.AssigneeID = &v
		}
		if step.ActedAt != nil {
			v := step.ActedAt.Format(time.RFC3339)
			sr.ActedAt = &v
		}
		detail.Steps[i] = sr
	}
	for i, comment := range comments {
		detail.Comments[i] = CommentResponse{
			ID:        comment.ID.String(),
			AuthorID:  comment.AuthorID.String(),
			Body:      comment.Body,
			CreatedAt: comment.CreatedAt.Format(time.RFC3339),
		}
	}
	return detail
}
