package notification_test

import (
	"context"
	"testing"
	"time"

	"github.com/Saifeldin2401/prime-hotels-intranet-sub005/internal/events"
	"github.com/Saifeldin2401/prime-hotels-intranet-sub005/internal/notification"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeNotificationRepo struct {
	created []notification.Notification

	CreateFn          func(ctx context.Context, n *notification.Notification) error
	ListByRecipientFn func(ctx context.Context, propertyID, recipientID string, limit int) ([]notification.Notification, error)
	CountUnreadFn     func(ctx context.Context, propertyID, recipientID string) (int64, error)
	MarkReadFn        func(ctx context.Context, propertyID, recipientID, id string, readAt time.Time) (bool, error)
}

func (f *fakeNotificationRepo) Create(ctx context.Context, n *notification.Notification) error {
	if f.CreateFn != nil {
		return f.CreateFn(ctx, n)
	}
	f.created = append(f.created, *n)
	return nil
}
func (f *fakeNotificationRepo) ListByRecipient(ctx context.Context, propertyID, recipientID string, limit int) ([]notification.Notification, error) {
	return f.ListByRecipientFn(ctx, propertyID, recipientID, limit)
}
func (f *fakeNotificationRepo) CountUnread(ctx context.Context, propertyID, recipientID string) (int64, error) {
	return f.CountUnreadFn(ctx, propertyID, recipientID)
}
func (f *fakeNotificationRepo) MarkRead(ctx context.Context, propertyID, recipientID, id string, readAt time.Time) (bool, error) {
	return f.MarkReadFn(ctx, propertyID, recipientID, id, readAt)
}

func TestNotificationService_NotifyRequestSubmitted(t *testing.T) {
	ctx := context.Background()

	t.Run("notifies the first assignee", func(t *testing.T) {
		repo := &fakeNotificationRepo{}
		svc := notification.NewService(repo)

		assignee := uuid.New().String()
		err := svc.NotifyRequestSubmitted(ctx, events.ApprovalRequestSubmittedEvent{
			ApprovalRequestID: uuid.New().String(),
			RequestNumber:     "APR-000012",
			PropertyID:        uuid.New().String(),
			EntityType:        "document",
			RequesterID:       uuid.New().String(),
			AssigneeID:        assignee,
		})

		assert.NoError(t, err)
		assert.Len(t, repo.created, 1)
		assert.Equal(t, assignee, repo.created[0].RecipientID.String())
		assert.Equal(t, notification.TypeApprovalAssigned, repo.created[0].Type)
		assert.Contains(t, repo.created[0].Title, "APR-000012")
	})

	t.Run("degraded submission produces nothing", func(t *testing.T) {
		repo := &fakeNotificationRepo{}
		svc := notification.NewService(repo)

		err := svc.NotifyRequestSubmitted(ctx, events.ApprovalRequestSubmittedEvent{
			ApprovalRequestID: uuid.New().String(),
			PropertyID:        uuid.New().String(),
			RequesterID:       uuid.New().String(),
		})

		assert.NoError(t, err)
		assert.Empty(t, repo.created)
	})
}

func TestNotificationService_NotifyRequestActioned(t *testing.T) {
	ctx := context.Background()

	t.Run("requester and next assignee both notified", func(t *testing.T) {
		repo := &fakeNotificationRepo{}
		svc := notification.NewService(repo)

		requester := uuid.New().String()
		actor := uuid.New().String()
		next := uuid.New().String()

		err := svc.NotifyRequestActioned(ctx, events.ApprovalRequestActionedEvent{
			ApprovalRequestID: uuid.New().String(),
			RequestNumber:     "APR-000012",
			PropertyID:        uuid.New().String(),
			Action:            "approve",
			ActorID:           actor,
			RequesterID:       requester,
			NewStatus:         "pending_hr_review",
			NextAssigneeID:    next,
		})

		assert.NoError(t, err)
		assert.Len(t, repo.created, 2)
		assert.Equal(t, requester, repo.created[0].RecipientID.String())
		assert.Equal(t, notification.TypeApprovalOutcome, repo.created[0].Type)
		assert.Equal(t, next, repo.created[1].RecipientID.String())
		assert.Equal(t, notification.TypeApprovalAssigned, repo.created[1].Type)
	})

	t.Run("requester acting on own request is not notified", func(t *testing.T) {
		repo := &fakeNotificationRepo{}
		svc := notification.NewService(repo)

		requester := uuid.New().String()

		err := svc.NotifyRequestActioned(ctx, events.ApprovalRequestActionedEvent{
			ApprovalRequestID: uuid.New().String(),
			PropertyID:        uuid.New().String(),
			Action:            "add_comment",
			ActorID:           requester,
			RequesterID:       requester,
		})

		assert.NoError(t, err)
		assert.Empty(t, repo.created)
	})

	t.Run("next assignee equal to requester gets a single notification", func(t *testing.T) {
		repo := &fakeNotificationRepo{}
		svc := notification.NewService(repo)

		requester := uuid.New().String()
		actor := uuid.New().String()

		// A return hands the request back to the requester; the requester
		// should hear about it exactly once.
		err := svc.NotifyRequestActioned(ctx, events.ApprovalRequestActionedEvent{
			ApprovalRequestID: uuid.New().String(),
			RequestNumber:     "APR-000015",
			PropertyID:        uuid.New().String(),
			Action:            "return",
			ActorID:           actor,
			RequesterID:       requester,
			NewStatus:         "returned_for_correction",
			NextAssigneeID:    requester,
		})

		assert.NoError(t, err)
		assert.Len(t, repo.created, 1)
		assert.Equal(t, requester, repo.created[0].RecipientID.String())
	})
}

func TestNotificationService_MarkRead(t *testing.T) {
	t.Run("delegates to the repository", func(t *testing.T) {
		id := uuid.New().String()
		recipient := uuid.New().String()

		repo := &fakeNotificationRepo{
			MarkReadFn: func(ctx context.Context, pid, rid, nid string, readAt time.Time) (bool, error) {
				assert.Equal(t, recipient, rid)
				assert.Equal(t, id, nid)
				return true, nil
			},
		}
		svc := notification.NewService(repo)

		ok, err := svc.MarkRead(context.Background(), uuid.New().String(), recipient, id)

		assert.NoError(t, err)
		assert.True(t, ok)
	})
}
