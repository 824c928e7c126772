package service

import (
	"context"
	"strings"
	"time"

	"parking-rsvp-api/core/constants"
	"parking-rsvp-api/core/errors"
	"parking-rsvp-api/core/logger"
	"parking-rsvp-api/core/params"
	"parking-rsvp-api/modules/event/dto"
	"parking-rsvp-api/modules/event/entity"
	"parking-rsvp-api/modules/event/repository"
	rsvpRepo "parking-rsvp-api/modules/rsvp/repository"

	"github.com/gosimple/slug"
)

// MaxParkingCapacity bounds organizer input; an event larger than this is
// almost certainly a typo.
const MaxParkingCapacity = 10000

// ReminderEnqueuer queues an RSVP reminder for one guest. Implemented by the
// notification service.
type ReminderEnqueuer interface {
	EnqueueReminder(ctx context.Context, eventID int64, email string) error
}

type EventService struct {
	events    repository.EventRepositoryInterface
	responses rsvpRepo.ResponseRepositoryInterface
	reminders ReminderEnqueuer
}

func NewEventService(
	events repository.EventRepositoryInterface,
	responses rsvpRepo.ResponseRepositoryInterface,
	reminders ReminderEnqueuer,
) *EventService {
	return &EventService{
		events:    events,
		responses: responses,
		reminders: reminders,
	}
}

func validateEventInput(name, location string, startsAt time.Time, endsAt *time.Time, capacity int) *errors.AppError {
	if strings.TrimSpace(name) == "" {
		return errors.NewAppError(errors.ErrInvalidInput, "name is required", nil)
	}
	if strings.TrimSpace(location) == "" {
		return errors.NewAppError(errors.ErrInvalidInput, "location is required", nil)
	}
	if startsAt.IsZero() {
		return errors.NewAppError(errors.ErrInvalidInput, "startsAt is required", nil)
	}
	if endsAt != nil && !endsAt.IsZero() && endsAt.Before(startsAt) {
		return errors.NewAppError(errors.ErrInvalidInput, "endsAt must not be before startsAt", nil)
	}
	if capacity <= 0 {
		return errors.NewAppError(errors.ErrInvalidInput, "parkingCapacity must be positive", nil)
	}
	if capacity > MaxParkingCapacity {
		return errors.NewAppError(errors.ErrInvalidInput, "parkingCapacity is too large", nil)
	}
	return nil
}

func parseEventType(raw string) (entity.EventType, *errors.AppError) {
	switch raw {
	case "":
		return entity.EventTypePrivate, nil
	case string(entity.EventTypePrivate):
		return entity.EventTypePrivate, nil
	case string(entity.EventTypePublic):
		return entity.EventTypePublic, nil
	default:
		return "", errors.NewAppError(errors.ErrInvalidInput, "eventType must be Private or Public", nil)
	}
}

func (s *EventService) Create(ctx context.Context, req *dto.CreateEventRequest) (*entity.Event, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	if appErr := validateEventInput(req.Name, req.Location, req.StartsAt, req.EndsAt, req.ParkingCapacity); appErr != nil {
		return nil, appErr
	}
	eventType, appErr := parseEventType(req.EventType)
	if appErr != nil {
		return nil, appErr
	}

	event := &entity.Event{
		Name:               strings.TrimSpace(req.Name),
		Slug:               slug.Make(req.Name),
		StartsAt:           req.StartsAt,
		EndsAt:             req.EndsAt,
		Location:           strings.TrimSpace(req.Location),
		ParkingCapacity:    req.ParkingCapacity,
		EventType:          eventType,
		RsvpListNames:      req.RsvpListNames,
		PublicInviteEmails: normalizeEmails(req.PublicInviteEmails),
	}

	created, err := s.events.Create(ctx, event)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCreateFailed, "create event failed", nil)
	}

	logger.Info("EventService:Create:Success", "event_id", created.ID, "capacity", created.ParkingCapacity)
	return created, nil
}

func (s *EventService) GetByID(ctx context.Context, id int64) (*entity.Event, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "get event failed", nil)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}
	return event, nil
}

func (s *EventService) List(ctx context.Context, p params.QueryParams) (*dto.ListEventsResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	events, total, err := s.events.List(ctx, p.PageSize, p.Offset(), p.Search)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "list events failed", nil)
	}
	if events == nil {
		events = []entity.Event{}
	}
	return &dto.ListEventsResponse{Events: events, Total: total}, nil
}

func (s *EventService) Update(ctx context.Context, id int64, req *dto.UpdateEventRequest) (*entity.Event, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	if appErr := validateEventInput(req.Name, req.Location, req.StartsAt, req.EndsAt, req.ParkingCapacity); appErr != nil {
		return nil, appErr
	}
	eventType, appErr := parseEventType(req.EventType)
	if appErr != nil {
		return nil, appErr
	}

	current, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "get event failed", nil)
	}
	if current == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}

	current.Name = strings.TrimSpace(req.Name)
	current.Slug = slug.Make(req.Name)
	current.StartsAt = req.StartsAt
	current.EndsAt = req.EndsAt
	current.Location = strings.TrimSpace(req.Location)
	current.ParkingCapacity = req.ParkingCapacity
	current.EventType = eventType
	current.RsvpListNames = req.RsvpListNames
	current.PublicInviteEmails = normalizeEmails(req.PublicInviteEmails)

	updated, err := s.events.Update(ctx, current)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrUpdateFailed, "update event failed", nil)
	}
	if updated == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}
	return updated, nil
}

// Cancel marks the event cancelled; records and counters are preserved so a
// cancelled event can still be inspected and exported.
func (s *EventService) Cancel(ctx context.Context, id int64) (*entity.Event, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "get event failed", nil)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}
	if event.Status == entity.EventStatusCancelled {
		return nil, errors.NewAppError(errors.ErrAlreadyExists, "Event is already cancelled", nil)
	}

	event.Status = entity.EventStatusCancelled
	updated, err := s.events.Update(ctx, event)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrUpdateFailed, "cancel event failed", nil)
	}

	logger.Info("EventService:Cancel:Success", "event_id", id)
	return updated, nil
}

func (s *EventService) Delete(ctx context.Context, id int64) *errors.AppError {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	deleted, err := s.events.Delete(ctx, id)
	if err != nil {
		return errors.NewAppError(errors.ErrDeleteFailed, "delete event failed", nil)
	}
	if !deleted {
		return errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}
	return nil
}

// ResetCounters zeroes counters and re-activates cancelled events, skipping
// events already in the past. Exposed on development environments only.
func (s *EventService) ResetCounters(ctx context.Context) (*dto.ResetCountersResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	updated, skipped, err := s.events.ResetCountersExceptPast(ctx)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrUpdateFailed, "reset counters failed", nil)
	}

	logger.Info("EventService:ResetCounters:Success", "updated", updated, "skipped", skipped)
	return &dto.ResetCountersResponse{Updated: updated, Skipped: skipped}, nil
}

// SimulateRSVP fakes one guest response for load and UI testing.
func (s *EventService) SimulateRSVP(ctx context.Context, id int64, needsParking bool) (*entity.Event, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	event, err := s.events.SimulateRSVP(ctx, id, needsParking)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrUpdateFailed, "simulate rsvp failed", nil)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}
	return event, nil
}

// SendReminders enqueues a reminder for every invited guest who has not
// responded yet. Returns the number of reminders queued.
func (s *EventService) SendReminders(ctx context.Context, id int64) (*dto.RemindResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultRequestTimeout)
	defer cancel()

	if s.reminders == nil {
		return nil, errors.NewAppError(errors.ErrNotConfigured, "reminder queue is not configured", nil)
	}

	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "get event failed", nil)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}
	if event.Status == entity.EventStatusCancelled {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "Event is cancelled", nil)
	}

	responded := make(map[string]bool)
	responses, err := s.responses.ListByEvent(ctx, id)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "list responses failed", nil)
	}
	for _, r := range responses {
		responded[r.Email] = true
	}

	enqueued := 0
	for _, email := range event.PublicInviteEmails {
		normalized := rsvpRepo.NormalizeEmail(email)
		if normalized == "" || responded[normalized] {
			continue
		}
		if err := s.reminders.EnqueueReminder(ctx, id, normalized); err != nil {
			logger.Error("EventService:SendReminders:Enqueue:Error", "error", err, "event_id", id, "email", normalized)
			continue
		}
		enqueued++
	}

	logger.Info("EventService:SendReminders:Success", "event_id", id, "enqueued", enqueued)
	return &dto.RemindResponse{Enqueued: enqueued}, nil
}

func normalizeEmails(emails []string) []string {
	out := make([]string, 0, len(emails))
	seen := make(map[string]bool)
	for _, e := range emails {
		normalized := rsvpRepo.NormalizeEmail(e)
		if normalized == "" || seen[normalized] {
			continue
		}
		seen[normalized] = true
		out = append(out, normalized)
	}
	return out
}
