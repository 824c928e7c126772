package service

import (
	"context"
	"encoding/json"
	"fmt"

	"parking-rsvp-api/core/logger"
	"parking-rsvp-api/modules/notification/dto"

	"github.com/hibiken/asynq"
)

// TaskTypeRsvpReminder identifies guest reminder tasks on the queue.
const TaskTypeRsvpReminder = "rsvp:reminder"

// NotificationService enqueues reminder tasks. Delivery happens in the
// worker, so a slow mail provider never blocks the request path.
type NotificationService struct {
	client *asynq.Client
}

func NewNotificationService(client *asynq.Client) *NotificationService {
	return &NotificationService{client: client}
}

// EnqueueReminder queues one reminder task for (event, email).
func (s *NotificationService) EnqueueReminder(ctx context.Context, eventID int64, email string) error {
	payload, err := json.Marshal(dto.ReminderPayload{EventID: eventID, Email: email})
	if err != nil {
		return fmt.Errorf("marshal reminder payload: %w", err)
	}

	task := asynq.NewTask(TaskTypeRsvpReminder, payload)
	info, err := s.client.EnqueueContext(ctx, task, asynq.MaxRetry(3))
	if err != nil {
		return fmt.Errorf("enqueue reminder: %w", err)
	}

	logger.Debug("NotificationService:EnqueueReminder:Queued",
		"task_id", info.ID, "event_id", eventID, "email", email)
	return nil
}

func (s *NotificationService) Close() error {
	return s.client.Close()
}
