package service

import (
	"context"
	"encoding/json"
	"fmt"

	"parking-rsvp-api/core/logger"
	"parking-rsvp-api/modules/notification/dto"
	rsvpDto "parking-rsvp-api/modules/rsvp/dto"
	rsvpService "parking-rsvp-api/modules/rsvp/service"

	"github.com/hibiken/asynq"
)

// Sender delivers a rendered reminder to one guest. The default
// implementation only logs; a mail provider slots in behind this interface.
type Sender interface {
	Send(ctx context.Context, eventID int64, email, link string) error
}

type logSender struct{}

func (logSender) Send(_ context.Context, eventID int64, email, link string) error {
	logger.Info("Reminder:Send", "event_id", eventID, "email", email, "link", link)
	return nil
}

func NewLogSender() Sender {
	return logSender{}
}

// ReminderWorker consumes reminder tasks: it mints the guest's RSVP link and
// hands it to the sender.
type ReminderWorker struct {
	links  *rsvpService.LinkService
	sender Sender
}

func NewReminderWorker(links *rsvpService.LinkService, sender Sender) *ReminderWorker {
	if sender == nil {
		sender = NewLogSender()
	}
	return &ReminderWorker{links: links, sender: sender}
}

func (w *ReminderWorker) HandleReminderTask(ctx context.Context, task *asynq.Task) error {
	var payload dto.ReminderPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		// Malformed payloads never become valid; skip the retries.
		return fmt.Errorf("unmarshal reminder payload: %v: %w", err, asynq.SkipRetry)
	}

	link, appErr := w.links.GenerateLink(ctx, &rsvpDto.GenerateLinkRequest{
		EventID: payload.EventID,
		Email:   payload.Email,
	})
	if appErr != nil {
		logger.Error("ReminderWorker:GenerateLink:Error",
			"error", appErr, "event_id", payload.EventID, "email", payload.Email)
		return fmt.Errorf("generate link for event %d: %s", payload.EventID, appErr.Message)
	}

	if err := w.sender.Send(ctx, payload.EventID, payload.Email, link.Link); err != nil {
		return fmt.Errorf("send reminder: %w", err)
	}
	return nil
}

// Mux returns the handler mux for the asynq server.
func (w *ReminderWorker) Mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskTypeRsvpReminder, w.HandleReminderTask)
	return mux
}
