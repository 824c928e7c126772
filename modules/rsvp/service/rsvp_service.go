package service

import (
	"context"
	"sync"

	"parking-rsvp-api/core/errors"
	"parking-rsvp-api/core/logger"
	eventRepo "parking-rsvp-api/modules/event/repository"
	"parking-rsvp-api/modules/rsvp/dto"
	"parking-rsvp-api/modules/rsvp/entity"
	"parking-rsvp-api/modules/rsvp/repository"
	"parking-rsvp-api/modules/rsvp/token"

	eventEntity "parking-rsvp-api/modules/event/entity"
)

// Guest-visible error messages. These ride inside the result objects; the
// HTTP layer never converts them to error statuses.
const (
	msgEventNotFound       = "Event not found"
	msgTokenRequired       = "RSVP token required"
	msgInvalidToken        = "Invalid RSVP token"
	msgAlreadyRecorded     = "Reservation already recorded"
	msgNoSpots             = "No parking spots available"
	msgDuplicatePlate      = "This license plate already has a reservation for this event"
	msgAlreadyReserved     = "Parking already reserved"
	msgReservationMismatch = "Reservation does not match token"
	msgAlreadyCancelled    = "Reservation already cancelled"
	msgUnexpected          = "An unexpected error occurred"
)

// eventLocks serializes the validate-and-mutate sequence per event, closing
// the check-then-act gap between the capacity/duplicate checks and the
// writes they guard.
type eventLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newEventLocks() *eventLocks {
	return &eventLocks{locks: make(map[int64]*sync.Mutex)}
}

func (l *eventLocks) forEvent(id int64) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	return m
}

// RsvpService drives the guest decision state machine: for each
// (event, email) pair the response moves unset -> {reserved, declined},
// with cancellation folding back to declined.
type RsvpService struct {
	events       eventRepo.EventRepositoryInterface
	reservations repository.ReservationRepositoryInterface
	responses    repository.ResponseRepositoryInterface
	secret       string
	locks        *eventLocks
}

func NewRsvpService(
	events eventRepo.EventRepositoryInterface,
	reservations repository.ReservationRepositoryInterface,
	responses repository.ResponseRepositoryInterface,
	secret string,
) *RsvpService {
	return &RsvpService{
		events:       events,
		reservations: reservations,
		responses:    responses,
		secret:       secret,
		locks:        newEventLocks(),
	}
}

// GetEvent returns the event shown on the guest RSVP page.
func (s *RsvpService) GetEvent(ctx context.Context, eventID int64) (*eventEntity.Event, *errors.AppError) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		logger.Error("RsvpService:GetEvent:Error", "error", err, "event_id", eventID)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load event", nil)
	}
	if event == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, msgEventNotFound, nil)
	}
	return event, nil
}

// verifyForEvent runs the shared token checks for reserve/decline: a token
// and a configured secret must be present, the signature and expiry must
// hold, and the token must be bound to the target event.
func (s *RsvpService) verifyForEvent(tok string, eventID int64) (*token.Payload, string) {
	if tok == "" || s.secret == "" {
		return nil, msgTokenRequired
	}
	payload := token.Verify(tok, s.secret)
	if payload == nil || payload.EventID != eventID {
		return nil, msgInvalidToken
	}
	return payload, ""
}

// ReserveParking claims a parking spot for the token's guest.
func (s *RsvpService) ReserveParking(ctx context.Context, eventID int64, guestName, licensePlate, tok string) (result *dto.ReserveParkingResult) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("RsvpService:ReserveParking:Panic", "panic", r, "event_id", eventID)
			result = &dto.ReserveParkingResult{Success: false, Error: msgUnexpected}
		}
	}()

	lock := s.locks.forEvent(eventID)
	lock.Lock()
	defer lock.Unlock()

	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		logger.Error("RsvpService:ReserveParking:GetEvent:Error", "error", err, "event_id", eventID)
		return &dto.ReserveParkingResult{Success: false, Error: msgUnexpected}
	}
	if event == nil {
		return &dto.ReserveParkingResult{Success: false, Error: msgEventNotFound}
	}

	payload, failure := s.verifyForEvent(tok, eventID)
	if failure != "" {
		return &dto.ReserveParkingResult{Success: false, Error: failure}
	}
	guestEmail := payload.Email

	existingResponse, err := s.responses.Get(ctx, eventID, guestEmail)
	if err != nil {
		logger.Error("RsvpService:ReserveParking:GetResponse:Error", "error", err, "event_id", eventID)
		return &dto.ReserveParkingResult{Success: false, Error: msgUnexpected}
	}
	if existingResponse != nil && existingResponse.Status == entity.ResponseStatusReserved {
		return &dto.ReserveParkingResult{Success: false, Error: msgAlreadyRecorded}
	}

	if event.ParkingClaimed >= event.ParkingCapacity {
		return &dto.ReserveParkingResult{Success: false, Error: msgNoSpots}
	}

	existing, err := s.reservations.FindActiveByPlate(ctx, eventID, licensePlate)
	if err != nil {
		logger.Error("RsvpService:ReserveParking:FindByPlate:Error", "error", err, "event_id", eventID)
		return &dto.ReserveParkingResult{Success: false, Error: msgUnexpected}
	}
	if existing != nil {
		return &dto.ReserveParkingResult{Success: false, Error: msgDuplicatePlate}
	}

	reservation, err := s.reservations.Create(ctx, eventID, guestName, licensePlate, guestEmail)
	if err != nil {
		logger.Error("RsvpService:ReserveParking:Create:Error", "error", err, "event_id", eventID)
		return &dto.ReserveParkingResult{Success: false, Error: msgUnexpected}
	}

	// rsvpDelta is 1 for a first-time response or a declined->reserved flip.
	// A guest already counted toward rsvp_received must not count twice.
	rsvpDelta := 1
	if existingResponse != nil && existingResponse.Status != entity.ResponseStatusDeclined {
		rsvpDelta = 0
	}

	if _, err := s.events.UpdateCounters(ctx, eventID, rsvpDelta, 1); err != nil {
		logger.Error("RsvpService:ReserveParking:UpdateCounters:Error", "error", err, "event_id", eventID)
		return &dto.ReserveParkingResult{Success: false, Error: msgUnexpected}
	}
	if _, err := s.responses.Record(ctx, eventID, guestEmail, entity.ResponseStatusReserved); err != nil {
		logger.Error("RsvpService:ReserveParking:Record:Error", "error", err, "event_id", eventID)
		return &dto.ReserveParkingResult{Success: false, Error: msgUnexpected}
	}

	logger.Info("RsvpService:ReserveParking:Success",
		"event_id", eventID, "reservation_id", reservation.ID)
	return &dto.ReserveParkingResult{Success: true, ReservationID: reservation.ID}
}

// DeclineParking records a "no parking" decision. A guest holding an active
// reservation must cancel it instead of declining.
func (s *RsvpService) DeclineParking(ctx context.Context, eventID int64, tok string) (result *dto.DeclineParkingResult) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("RsvpService:DeclineParking:Panic", "panic", r, "event_id", eventID)
			result = &dto.DeclineParkingResult{Success: false, Error: msgUnexpected}
		}
	}()

	lock := s.locks.forEvent(eventID)
	lock.Lock()
	defer lock.Unlock()

	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		logger.Error("RsvpService:DeclineParking:GetEvent:Error", "error", err, "event_id", eventID)
		return &dto.DeclineParkingResult{Success: false, Error: msgUnexpected}
	}
	if event == nil {
		return &dto.DeclineParkingResult{Success: false, Error: msgEventNotFound}
	}

	payload, failure := s.verifyForEvent(tok, eventID)
	if failure != "" {
		return &dto.DeclineParkingResult{Success: false, Error: failure}
	}
	guestEmail := payload.Email

	existingResponse, err := s.responses.Get(ctx, eventID, guestEmail)
	if err != nil {
		logger.Error("RsvpService:DeclineParking:GetResponse:Error", "error", err, "event_id", eventID)
		return &dto.DeclineParkingResult{Success: false, Error: msgUnexpected}
	}
	if existingResponse != nil && existingResponse.Status == entity.ResponseStatusReserved {
		return &dto.DeclineParkingResult{Success: false, Error: msgAlreadyReserved}
	}

	rsvpDelta := 1
	if existingResponse != nil && existingResponse.Status == entity.ResponseStatusDeclined {
		rsvpDelta = 0
	}

	if _, err := s.events.UpdateCounters(ctx, eventID, rsvpDelta, 0); err != nil {
		logger.Error("RsvpService:DeclineParking:UpdateCounters:Error", "error", err, "event_id", eventID)
		return &dto.DeclineParkingResult{Success: false, Error: msgUnexpected}
	}
	if _, err := s.responses.Record(ctx, eventID, guestEmail, entity.ResponseStatusDeclined); err != nil {
		logger.Error("RsvpService:DeclineParking:Record:Error", "error", err, "event_id", eventID)
		return &dto.DeclineParkingResult{Success: false, Error: msgUnexpected}
	}

	return &dto.DeclineParkingResult{Success: true}
}

// CancelReservation releases the guest's spot and records a decline.
//
// A missing reservation is not an error: the guest's client may have lost
// its stored reservation id, so the call degrades to an idempotent decline
// for the token's (event, email) pair.
func (s *RsvpService) CancelReservation(ctx context.Context, reservationID, tok string) (result *dto.CancelReservationResult) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("RsvpService:CancelReservation:Panic", "panic", r, "reservation_id", reservationID)
			result = &dto.CancelReservationResult{Success: false, Error: msgUnexpected}
		}
	}()

	if tok == "" || s.secret == "" {
		return &dto.CancelReservationResult{Success: false, Error: msgTokenRequired}
	}
	payload := token.Verify(tok, s.secret)
	if payload == nil {
		return &dto.CancelReservationResult{Success: false, Error: msgInvalidToken}
	}

	lock := s.locks.forEvent(payload.EventID)
	lock.Lock()
	defer lock.Unlock()

	existingResponse, err := s.responses.Get(ctx, payload.EventID, payload.Email)
	if err != nil {
		logger.Error("RsvpService:CancelReservation:GetResponse:Error", "error", err, "event_id", payload.EventID)
		return &dto.CancelReservationResult{Success: false, Error: msgUnexpected}
	}

	reservation, err := s.reservations.GetByID(ctx, reservationID)
	if err != nil {
		logger.Error("RsvpService:CancelReservation:GetReservation:Error", "error", err, "reservation_id", reservationID)
		return &dto.CancelReservationResult{Success: false, Error: msgUnexpected}
	}

	if reservation == nil {
		// Only decrement if this guest actually held a spot.
		if existingResponse != nil && existingResponse.Status == entity.ResponseStatusReserved {
			if _, err := s.events.UpdateCounters(ctx, payload.EventID, 0, -1); err != nil {
				logger.Error("RsvpService:CancelReservation:UpdateCounters:Error", "error", err, "event_id", payload.EventID)
				return &dto.CancelReservationResult{Success: false, Error: msgUnexpected}
			}
		}
		if _, err := s.responses.Record(ctx, payload.EventID, payload.Email, entity.ResponseStatusDeclined); err != nil {
			logger.Error("RsvpService:CancelReservation:Record:Error", "error", err, "event_id", payload.EventID)
			return &dto.CancelReservationResult{Success: false, Error: msgUnexpected}
		}
		return &dto.CancelReservationResult{Success: true, EventID: payload.EventID}
	}

	if payload.EventID != reservation.EventID {
		return &dto.CancelReservationResult{Success: false, Error: msgInvalidToken}
	}
	if reservation.GuestEmail == "" || reservation.GuestEmail != payload.Email {
		return &dto.CancelReservationResult{Success: false, Error: msgReservationMismatch}
	}
	if reservation.Status == entity.ReservationStatusCancelled {
		return &dto.CancelReservationResult{Success: false, Error: msgAlreadyCancelled}
	}

	if err := s.reservations.Cancel(ctx, reservationID); err != nil {
		logger.Error("RsvpService:CancelReservation:Cancel:Error", "error", err, "reservation_id", reservationID)
		return &dto.CancelReservationResult{Success: false, Error: msgUnexpected}
	}

	// Guard against a double decrement: if the stored response already moved
	// off "reserved", the spot was released on a previous pass.
	if existingResponse == nil || existingResponse.Status == entity.ResponseStatusReserved {
		if _, err := s.events.UpdateCounters(ctx, reservation.EventID, 0, -1); err != nil {
			logger.Error("RsvpService:CancelReservation:UpdateCounters:Error", "error", err, "event_id", reservation.EventID)
			return &dto.CancelReservationResult{Success: false, Error: msgUnexpected}
		}
	}
	if _, err := s.responses.Record(ctx, reservation.EventID, payload.Email, entity.ResponseStatusDeclined); err != nil {
		logger.Error("RsvpService:CancelReservation:Record:Error", "error", err, "event_id", reservation.EventID)
		return &dto.CancelReservationResult{Success: false, Error: msgUnexpected}
	}

	logger.Info("RsvpService:CancelReservation:Success",
		"event_id", reservation.EventID, "reservation_id", reservationID)
	return &dto.CancelReservationResult{Success: true, EventID: reservation.EventID}
}
