package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"parking-rsvp-api/core/database"
	"parking-rsvp-api/core/logger"
	"parking-rsvp-api/modules/rsvp/entity"

	"github.com/google/uuid"
)

// NormalizePlate is the canonical license plate form used for storage and
// duplicate lookup.
func NormalizePlate(plate string) string {
	return strings.ToUpper(strings.TrimSpace(plate))
}

// NormalizeEmail lower-cases and trims a guest email.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ReservationRepositoryInterface defines the reservation store contract.
type ReservationRepositoryInterface interface {
	Create(ctx context.Context, eventID int64, guestName, licensePlate, guestEmail string) (*entity.Reservation, error)
	GetByID(ctx context.Context, id string) (*entity.Reservation, error)
	FindActiveByPlate(ctx context.Context, eventID int64, licensePlate string) (*entity.Reservation, error)
	Cancel(ctx context.Context, id string) error
	ListActiveByEvent(ctx context.Context, eventID int64) ([]entity.Reservation, error)
}

type ReservationRepository struct {
	db database.IDatabase
}

func NewReservationRepository(db database.IDatabase) *ReservationRepository {
	return &ReservationRepository{db: db}
}

// Create inserts an active reservation with normalized guest fields and an
// opaque generated id.
func (r *ReservationRepository) Create(ctx context.Context, eventID int64, guestName, licensePlate, guestEmail string) (*entity.Reservation, error) {
	reservation := &entity.Reservation{
		ID:           uuid.NewString(),
		EventID:      eventID,
		GuestName:    strings.TrimSpace(guestName),
		GuestEmail:   NormalizeEmail(guestEmail),
		LicensePlate: NormalizePlate(licensePlate),
		Status:       entity.ReservationStatusActive,
		CreatedAt:    time.Now(),
	}

	query := `
		INSERT INTO reservations (id, event_id, guest_name, guest_email, license_plate, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	err := r.db.ExecContext(ctx, query,
		reservation.ID,
		reservation.EventID,
		reservation.GuestName,
		reservation.GuestEmail,
		reservation.LicensePlate,
		reservation.Status,
		reservation.CreatedAt,
	)
	if err != nil {
		logger.Error("ReservationRepository:Create:Error", "error", err)
		return nil, err
	}
	return reservation, nil
}

// GetByID returns nil when the reservation does not exist.
func (r *ReservationRepository) GetByID(ctx context.Context, id string) (*entity.Reservation, error) {
	query := `
		SELECT id, event_id, guest_name, guest_email, license_plate, status, created_at
		FROM reservations
		WHERE id = $1
	`
	var reservation entity.Reservation
	err := r.db.GetContext(ctx, &reservation, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("ReservationRepository:GetByID:Error", "error", err)
		return nil, err
	}
	return &reservation, nil
}

// FindActiveByPlate looks up an active reservation by normalized plate.
func (r *ReservationRepository) FindActiveByPlate(ctx context.Context, eventID int64, licensePlate string) (*entity.Reservation, error) {
	query := `
		SELECT id, event_id, guest_name, guest_email, license_plate, status, created_at
		FROM reservations
		WHERE event_id = $1 AND license_plate = $2 AND status = $3
		LIMIT 1
	`
	var reservation entity.Reservation
	err := r.db.GetContext(ctx, &reservation, query, eventID, NormalizePlate(licensePlate), entity.ReservationStatusActive)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("ReservationRepository:FindActiveByPlate:Error", "error", err)
		return nil, err
	}
	return &reservation, nil
}

// Cancel flips the reservation status; the row is kept.
func (r *ReservationRepository) Cancel(ctx context.Context, id string) error {
	query := `UPDATE reservations SET status = $1 WHERE id = $2`
	if err := r.db.ExecContext(ctx, query, entity.ReservationStatusCancelled, id); err != nil {
		logger.Error("ReservationRepository:Cancel:Error", "error", err)
		return err
	}
	return nil
}

// ListActiveByEvent returns active reservations, oldest first.
func (r *ReservationRepository) ListActiveByEvent(ctx context.Context, eventID int64) ([]entity.Reservation, error) {
	query := `
		SELECT id, event_id, guest_name, guest_email, license_plate, status, created_at
		FROM reservations
		WHERE event_id = $1 AND status = $2
		ORDER BY created_at ASC
	`
	var reservations []entity.Reservation
	err := r.db.SelectContext(ctx, &reservations, query, eventID, entity.ReservationStatusActive)
	if err != nil {
		logger.Error("ReservationRepository:ListActiveByEvent:Error", "error", err)
		return nil, err
	}
	return reservations, nil
}
