package repository

import (
	"context"
	"database/sql"
	"time"

	"parking-rsvp-api/core/database"
	"parking-rsvp-api/core/logger"
	"parking-rsvp-api/modules/rsvp/entity"
)

// ResponseRepositoryInterface defines the RSVP response store contract.
// Record has overwrite semantics: the store keeps only the latest decision
// per (event, email).
type ResponseRepositoryInterface interface {
	Record(ctx context.Context, eventID int64, email string, status entity.ResponseStatus) (*entity.RsvpResponse, error)
	Get(ctx context.Context, eventID int64, email string) (*entity.RsvpResponse, error)
	ListByEvent(ctx context.Context, eventID int64) ([]entity.RsvpResponse, error)
}

type ResponseRepository struct {
	db database.IDatabase
}

func NewResponseRepository(db database.IDatabase) *ResponseRepository {
	return &ResponseRepository{db: db}
}

// Record upserts the guest's decision, last write wins.
func (r *ResponseRepository) Record(ctx context.Context, eventID int64, email string, status entity.ResponseStatus) (*entity.RsvpResponse, error) {
	response := &entity.RsvpResponse{
		EventID:   eventID,
		Email:     NormalizeEmail(email),
		Status:    status,
		UpdatedAt: time.Now(),
	}

	query := `
		INSERT INTO rsvp_responses (event_id, email, status, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (event_id, email)
		DO UPDATE SET status = EXCLUDED.status, updated_at = EXCLUDED.updated_at
	`
	err := r.db.ExecContext(ctx, query, response.EventID, response.Email, response.Status, response.UpdatedAt)
	if err != nil {
		logger.Error("ResponseRepository:Record:Error", "error", err)
		return nil, err
	}
	return response, nil
}

// Get returns nil when the guest has not responded yet.
func (r *ResponseRepository) Get(ctx context.Context, eventID int64, email string) (*entity.RsvpResponse, error) {
	query := `
		SELECT event_id, email, status, updated_at
		FROM rsvp_responses
		WHERE event_id = $1 AND email = $2
	`
	var response entity.RsvpResponse
	err := r.db.GetContext(ctx, &response, query, eventID, NormalizeEmail(email))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("ResponseRepository:Get:Error", "error", err)
		return nil, err
	}
	return &response, nil
}

func (r *ResponseRepository) ListByEvent(ctx context.Context, eventID int64) ([]entity.RsvpResponse, error) {
	query := `
		SELECT event_id, email, status, updated_at
		FROM rsvp_responses
		WHERE event_id = $1
	`
	var responses []entity.RsvpResponse
	err := r.db.SelectContext(ctx, &responses, query, eventID)
	if err != nil {
		logger.Error("ResponseRepository:ListByEvent:Error", "error", err)
		return nil, err
	}
	return responses, nil
}
