package consumer

import (
	"context"
	"encoding/json"

	"github.com/Saifeldin2401/prime-hotels-intranet-sub005/internal/events"
	"github.com/Saifeldin2401/prime-hotels-intranet-sub005/internal/notification"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeApprovalSubmitted turns submitted events into assignee
// notifications. Poison messages are committed and dropped; transient
// failures are retried by not committing the offset.
func ConsumeApprovalSubmitted(
	ctx context.Context,
	reader *kafkago.Reader,
	notificationService notification.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.approval_submitted")
	log.Info("approval submitted consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("approval submitted consumer stopped")
				return
			}
			log.Error("fetch approval submitted message failed", zap.Error(err))
			continue
		}

		var event events.ApprovalRequestSubmittedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode approval_request_submitted event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := notificationService.NotifyRequestSubmitted(ctx, event); err != nil {
			log.Error("notify request submitted failed",
				zap.String("approval_request_id", event.ApprovalRequestID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit approval submitted message failed", zap.Error(err))
			continue
		}

		log.Info("assignee notified of submitted request",
			zap.String("approval_request_id", event.ApprovalRequestID),
			zap.String("assignee_id", event.AssigneeID),
		)
	}
}

// ConsumeApprovalActioned notifies the requester of outcomes and the next
// assignee of routed requests.
func ConsumeApprovalActioned(
	ctx context.Context,
	reader *kafkago.Reader,
	notificationService notification.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.approval_actioned")
	log.Info("approval actioned consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("approval actioned consumer stopped")
				return
			}
			log.Error("fetch approval actioned message failed", zap.Error(err))
			continue
		}

		var event events.ApprovalRequestActionedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode approval_request_actioned event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := notificationService.NotifyRequestActioned(ctx, event); err != nil {
			log.Error("notify request actioned failed",
				zap.String("approval_request_id", event.ApprovalRequestID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit approval actioned message failed", zap.Error(err))
			continue
		}

		log.Info("parties notified of actioned request",
			zap.String("approval_request_id", event.ApprovalRequestID),
			zap.String("action", event.Action),
		)
	}
}
