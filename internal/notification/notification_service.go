package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/Saifeldin2401/prime-hotels-intranet-sub005/internal/events"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=notification_service.go -destination=mock/notification_service_mock.go -package=mock
type Service interface {
	NotifyRequestSubmitted(ctx context.Context, event events.ApprovalRequestSubmittedEvent) error
	NotifyRequestActioned(ctx context.Context, event events.ApprovalRequestActionedEvent) error
	List(ctx context.Context, propertyID, recipientID string, limit int) ([]NotificationResponse, error)
	CountUnread(ctx context.Context, propertyID, recipientID string) (int64, error)
	MarkRead(ctx context.Context, propertyID, recipientID, id string) (bool, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("notification.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.service")
	}
	return &service{repo: repo, logger: l}
}

// NotifyRequestSubmitted tells the first assignee a request is waiting. A
// degraded request with no assignee produces nothing; someone has to forward
// it first.
func (s *service) NotifyRequestSubmitted(ctx context.Context, event events.ApprovalRequestSubmittedEvent) error {
	if event.AssigneeID == "" {
		s.logger.Warn("submitted event has no assignee, skipping notification",
			zap.String("approval_request_id", event.ApprovalRequestID),
		)
		return nil
	}

	return s.create(ctx, event.PropertyID, event.AssigneeID, event.ApprovalRequestID, TypeApprovalAssigned,
		fmt.Sprintf("Approval needed: %s", event.RequestNumber),
		fmt.Sprintf("A %s approval request is waiting for your review.", event.EntityType),
	)
}

// NotifyRequestActioned fans out per action: the requester always hears about
// the outcome, and the next assignee hears when the request lands on them.
func (s *service) NotifyRequestActioned(ctx context.Context, event events.ApprovalRequestActionedEvent) error {
	if event.ActorID != event.RequesterID {
		title := fmt.Sprintf("Request %s: %s", event.RequestNumber, event.Action)
		body := fmt.Sprintf("Your request %s is now %s.", event.RequestNumber, event.NewStatus)
		if err := s.create(ctx, event.PropertyID, event.RequesterID, event.ApprovalRequestID, TypeApprovalOutcome, title, body); err != nil {
			return err
		}
	}

	if event.NextAssigneeID != "" && event.NextAssigneeID != event.ActorID && event.NextAssigneeID != event.RequesterID {
		if err := s.create(ctx, event.PropertyID, event.NextAssigneeID, event.ApprovalRequestID, TypeApprovalAssigned,
			fmt.Sprintf("Approval needed: %s", event.RequestNumber),
			"An approval request has been routed to you.",
		); err != nil {
			return err
		}
	}

	return nil
}

func (s *service) create(ctx context.Context, propertyID, recipientID, requestID, typ, title, body string) error {
	propertyUUID, err := uuid.Parse(propertyID)
	if err != nil {
		return err
	}
	recipientUUID, err := uuid.Parse(recipientID)
	if err != nil {
		return err
	}

	n := &Notification{
		ID:          uuid.New(),
		PropertyID:  propertyUUID,
		RecipientID: recipientUUID,
		Type:        typ,
		Title:       title,
		Body:        body,
	}
	if requestID != "" {
		if rid, err := uuid.Parse(requestID); err == nil {
			n.RequestID = &rid
		}
	}

	if err := s.repo.Create(ctx, n); err != nil {
		s.logger.Error("create notification failed",
			zap.String("recipient_id", recipientID),
			zap.String("type", typ),
			zap.Error(err),
		)
		return err
	}

	s.logger.Info("notification created",
		zap.String("recipient_id", recipientID),
		zap.String("type", typ),
	)
	return nil
}

func (s *service) List(ctx context.Context, propertyID, recipientID string, limit int) ([]NotificationResponse, error) {
	rows, err := s.repo.ListByRecipient(ctx, propertyID, recipientID, limit)
	if err != nil {
		return nil, err
	}

	resp := make([]NotificationResponse, len(rows))
	for i, n := range rows {
		resp[i] = mapToResponse(n)
	}
	return resp, nil
}

func (s *service) CountUnread(ctx context.Context, propertyID, recipientID string) (int64, error) {
	return s.repo.CountUnread(ctx, propertyID, recipientID)
}

func (s *service) MarkRead(ctx context.Context, propertyID, recipientID, id string) (bool, error) {
	return s.repo.MarkRead(ctx, propertyID, recipientID, id, time.Now().UTC())
}

func mapToResponse(n Notification) NotificationResponse {
	resp := NotificationResponse{
		ID:        n.ID.String(),
		Type:      n.Type,
		Title:     n.Title,
		Body:      n.Body,
		CreatedAt: n.CreatedAt.Format(time.RFC3339),
	}
	if n.RequestID != nil {
		v := n.RequestID.String()
		resp.RequestID = &v
	}
	if n.ReadAt != nil {
		v := n.ReadAt.Format(time.RFC3339)
		resp.ReadAt = &v
	}
	return resp
}
