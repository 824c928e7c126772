package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"parking-rsvp-api/core/constants"
	"parking-rsvp-api/core/errors"
	"parking-rsvp-api/core/logger"
	"parking-rsvp-api/core/storage"
	"parking-rsvp-api/modules/event/dto"
	"parking-rsvp-api/modules/event/repository"
	rsvpRepo "parking-rsvp-api/modules/rsvp/repository"
)

// ExportService writes the active reservation list of an event to object
// storage as CSV, for handoff to parking staff.
type ExportService struct {
	events       repository.EventRepositoryInterface
	reservations rsvpRepo.ReservationRepositoryInterface
	uploader     storage.Uploader
}

func NewExportService(
	events repository.EventRepositoryInterface,
	reservations rsvpRepo.ReservationRepositoryInterface,
	uploader storage.Uploader,
) *ExportService {
	return &ExportService{
		events:       events,
		reservations: reservations,
		uploader:     uploader,
	}
}

func (s *ExportService) ExportReservations(ctx context.Context, eventID int64) (*dto.ExportResponse, *errors.AppError) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultTimeout)
	defer cancel()

	if s.uploader == nil {
		return nil, errors.NewAppError(errors.ErrNotConfigured, "export storage is not configured", nil)
	}

	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "get event failed", nil)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "Event not found", nil)
	}

	reservations, err := s.reservations.ListActiveByEvent(ctx, eventID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrGetFailed, "list reservations failed", nil)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"reservation_id", "guest_name", "guest_email", "license_plate", "created_at"})
	for _, r := range reservations {
		_ = w.Write([]string{
			r.ID,
			r.GuestName,
			r.GuestEmail,
			r.LicensePlate,
			r.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		logger.Error("ExportService:ExportReservations:CSV:Error", "error", err, "event_id", eventID)
		return nil, errors.NewAppError(errors.ErrInternalServer, "write csv failed", nil)
	}

	key := fmt.Sprintf("exports/%s/%d-%s.csv", event.Slug, event.ID, time.Now().UTC().Format("20060102-150405"))
	storedKey, err := s.uploader.Upload(ctx, key, "text/csv", buf.Bytes())
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "upload export failed", nil)
	}

	logger.Info("ExportService:ExportReservations:Success",
		"event_id", eventID, "key", storedKey, "rows", len(reservations))
	return &dto.ExportResponse{Key: storedKey}, nil
}
