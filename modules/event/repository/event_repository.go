package repository

import (
	"context"
	"database/sql"
	"time"

	"parking-rsvp-api/core/database"
	"parking-rsvp-api/core/logger"
	"parking-rsvp-api/modules/event/entity"
)

const eventColumns = `id, name, slug, starts_at, ends_at, location, parking_capacity,
	event_type, rsvp_list_names, public_invite_emails, status,
	invited, rsvp_received, parking_claimed, created_at, updated_at`

// EventRepositoryInterface defines the event record store contract.
// UpdateCounters must clamp on every call regardless of the caller:
// rsvp_received stays >= 0, parking_claimed stays within [0, capacity].
type EventRepositoryInterface interface {
	Create(ctx context.Context, event *entity.Event) (*entity.Event, error)
	GetByID(ctx context.Context, id int64) (*entity.Event, error)
	List(ctx context.Context, limit, offset int, search string) ([]entity.Event, int, error)
	Update(ctx context.Context, event *entity.Event) (*entity.Event, error)
	UpdateCounters(ctx context.Context, id int64, rsvpDelta, parkingDelta int) (*entity.Event, error)
	Delete(ctx context.Context, id int64) (bool, error)
	ResetCountersExceptPast(ctx context.Context) (updated, skipped int, err error)
	SimulateRSVP(ctx context.Context, id int64, needsParking bool) (*entity.Event, error)
}

type EventRepository struct {
	db database.IDatabase
}

func NewEventRepository(db database.IDatabase) *EventRepository {
	return &EventRepository{db: db}
}

// Create assigns a sequential id and fixes invited to the parking capacity.
func (r *EventRepository) Create(ctx context.Context, event *entity.Event) (*entity.Event, error) {
	if event.Status == "" {
		event.Status = entity.EventStatusActive
	}
	if event.EventType == "" {
		event.EventType = entity.EventTypePrivate
	}
	event.Invited = event.ParkingCapacity
	event.RsvpReceived = 0
	event.ParkingClaimed = 0

	query := `
		INSERT INTO events (name, slug, starts_at, ends_at, location, parking_capacity,
			event_type, rsvp_list_names, public_invite_emails, status, invited)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + eventColumns

	var created entity.Event
	err := r.db.GetContext(ctx, &created, query,
		event.Name, event.Slug, event.StartsAt, event.EndsAt, event.Location,
		event.ParkingCapacity, event.EventType, event.RsvpListNames,
		event.PublicInviteEmails, event.Status, event.Invited,
	)
	if err != nil {
		logger.Error("EventRepository:Create:Error", "error", err)
		return nil, err
	}
	return &created, nil
}

// GetByID returns nil when the event does not exist.
func (r *EventRepository) GetByID(ctx context.Context, id int64) (*entity.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	var event entity.Event
	err := r.db.GetContext(ctx, &event, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("EventRepository:GetByID:Error", "error", err)
		return nil, err
	}
	return &event, nil
}

// List returns a page of events by start time plus the unpaged total.
func (r *EventRepository) List(ctx context.Context, limit, offset int, search string) ([]entity.Event, int, error) {
	pattern := "%" + search + "%"

	var total int
	countQuery := `SELECT COUNT(*) FROM events WHERE ($1 = '%%' OR name ILIKE $1)`
	if err := r.db.GetContext(ctx, &total, countQuery, pattern); err != nil {
		logger.Error("EventRepository:List:Count:Error", "error", err)
		return nil, 0, err
	}

	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE ($1 = '%%' OR name ILIKE $1)
		ORDER BY starts_at ASC
		LIMIT $2 OFFSET $3
	`
	var events []entity.Event
	if err := r.db.SelectContext(ctx, &events, query, pattern, limit, offset); err != nil {
		logger.Error("EventRepository:List:Error", "error", err)
		return nil, 0, err
	}
	return events, total, nil
}

// Update replaces the organizer-editable fields. Counters and invited are
// never written here.
func (r *EventRepository) Update(ctx context.Context, event *entity.Event) (*entity.Event, error) {
	query := `
		UPDATE events
		SET name = $2, slug = $3, starts_at = $4, ends_at = $5, location = $6,
			parking_capacity = $7, event_type = $8, rsvp_list_names = $9,
			public_invite_emails = $10, status = $11, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + eventColumns

	var updated entity.Event
	err := r.db.GetContext(ctx, &updated, query,
		event.ID, event.Name, event.Slug, event.StartsAt, event.EndsAt, event.Location,
		event.ParkingCapacity, event.EventType, event.RsvpListNames,
		event.PublicInviteEmails, event.Status,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("EventRepository:Update:Error", "error", err)
		return nil, err
	}
	return &updated, nil
}

// UpdateCounters applies both deltas in one statement so the clamping is
// atomic: no interleaving can push parking_claimed outside [0, capacity]
// or rsvp_received below zero.
func (r *EventRepository) UpdateCounters(ctx context.Context, id int64, rsvpDelta, parkingDelta int) (*entity.Event, error) {
	query := `
		UPDATE events
		SET rsvp_received = GREATEST(0, rsvp_received + $2),
			parking_claimed = LEAST(parking_capacity, GREATEST(0, parking_claimed + $3)),
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + eventColumns

	var updated entity.Event
	err := r.db.GetContext(ctx, &updated, query, id, rsvpDelta, parkingDelta)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("EventRepository:UpdateCounters:Error", "error", err)
		return nil, err
	}
	return &updated, nil
}

func (r *EventRepository) Delete(ctx context.Context, id int64) (bool, error) {
	query := `DELETE FROM events WHERE id = $1 RETURNING id`
	var deleted int64
	err := r.db.GetContext(ctx, &deleted, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		logger.Error("EventRepository:Delete:Error", "error", err)
		return false, err
	}
	return true, nil
}

// ResetCountersExceptPast zeroes counters and re-activates cancelled events,
// skipping events whose end (or start) time has already passed.
func (r *EventRepository) ResetCountersExceptPast(ctx context.Context) (int, int, error) {
	now := time.Now()

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM events`); err != nil {
		logger.Error("EventRepository:ResetCountersExceptPast:Count:Error", "error", err)
		return 0, 0, err
	}

	query := `
		WITH reset AS (
			UPDATE events
			SET rsvp_received = 0,
				parking_claimed = 0,
				status = CASE WHEN status = $1 THEN $2 ELSE status END,
				updated_at = NOW()
			WHERE COALESCE(ends_at, starts_at) >= $3
			RETURNING id
		)
		SELECT COUNT(*) FROM reset
	`
	var updated int
	err := r.db.GetContext(ctx, &updated, query,
		entity.EventStatusCancelled, entity.EventStatusActive, now)
	if err != nil {
		logger.Error("EventRepository:ResetCountersExceptPast:Error", "error", err)
		return 0, 0, err
	}
	return updated, total - updated, nil
}

// SimulateRSVP bumps the counters as a fake guest response would; the clamp
// still applies, as with every counter write.
func (r *EventRepository) SimulateRSVP(ctx context.Context, id int64, needsParking bool) (*entity.Event, error) {
	parkingDelta := 0
	if needsParking {
		parkingDelta = 1
	}
	return r.UpdateCounters(ctx, id, 1, parkingDelta)
}
