package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	eventEntity "parking-rsvp-api/modules/event/entity"
	"parking-rsvp-api/modules/rsvp/entity"
	"parking-rsvp-api/modules/rsvp/token"

	"github.com/google/uuid"
)

const testSecret = "orchestration-test-secret"

// ---- in-memory fakes ----

type fakeEventStore struct {
	events map[int64]*eventEntity.Event
	nextID int64
}

func newFakeEventStore() *fakeEventStore {
	return &fakeEventStore{events: make(map[int64]*eventEntity.Event), nextID: 1}
}

func (f *fakeEventStore) Create(_ context.Context, event *eventEntity.Event) (*eventEntity.Event, error) {
	e := *event
	e.ID = f.nextID
	f.nextID++
	e.Invited = e.ParkingCapacity
	e.RsvpReceived = 0
	e.ParkingClaimed = 0
	if e.Status == "" {
		e.Status = eventEntity.EventStatusActive
	}
	f.events[e.ID] = &e
	return &e, nil
}

func (f *fakeEventStore) GetByID(_ context.Context, id int64) (*eventEntity.Event, error) {
	e, ok := f.events[id]
	if !ok {
		return nil, nil
	}
	copied := *e
	return &copied, nil
}

func (f *fakeEventStore) List(_ context.Context, _, _ int, _ string) ([]eventEntity.Event, int, error) {
	var out []eventEntity.Event
	for _, e := range f.events {
		out = append(out, *e)
	}
	return out, len(out), nil
}

func (f *fakeEventStore) Update(_ context.Context, event *eventEntity.Event) (*eventEntity.Event, error) {
	if _, ok := f.events[event.ID]; !ok {
		return nil, nil
	}
	copied := *event
	f.events[event.ID] = &copied
	return event, nil
}

func (f *fakeEventStore) UpdateCounters(_ context.Context, id int64, rsvpDelta, parkingDelta int) (*eventEntity.Event, error) {
	e, ok := f.events[id]
	if !ok {
		return nil, nil
	}
	e.RsvpReceived += rsvpDelta
	if e.RsvpReceived < 0 {
		e.RsvpReceived = 0
	}
	e.ParkingClaimed += parkingDelta
	if e.ParkingClaimed < 0 {
		e.ParkingClaimed = 0
	}
	if e.ParkingClaimed > e.ParkingCapacity {
		e.ParkingClaimed = e.ParkingCapacity
	}
	copied := *e
	return &copied, nil
}

func (f *fakeEventStore) Delete(_ context.Context, id int64) (bool, error) {
	if _, ok := f.events[id]; !ok {
		return false, nil
	}
	delete(f.events, id)
	return true, nil
}

func (f *fakeEventStore) ResetCountersExceptPast(_ context.Context) (int, int, error) {
	return 0, 0, nil
}

func (f *fakeEventStore) SimulateRSVP(ctx context.Context, id int64, needsParking bool) (*eventEntity.Event, error) {
	delta := 0
	if needsParking {
		delta = 1
	}
	return f.UpdateCounters(ctx, id, 1, delta)
}

type fakeReservationStore struct {
	reservations map[string]*entity.Reservation
}

func newFakeReservationStore() *fakeReservationStore {
	return &fakeReservationStore{reservations: make(map[string]*entity.Reservation)}
}

func (f *fakeReservationStore) Create(_ context.Context, eventID int64, guestName, licensePlate, guestEmail string) (*entity.Reservation, error) {
	r := &entity.Reservation{
		ID:           uuid.NewString(),
		EventID:      eventID,
		GuestName:    strings.TrimSpace(guestName),
		GuestEmail:   strings.ToLower(strings.TrimSpace(guestEmail)),
		LicensePlate: strings.ToUpper(strings.TrimSpace(licensePlate)),
		Status:       entity.ReservationStatusActive,
		CreatedAt:    time.Now(),
	}
	f.reservations[r.ID] = r
	return r, nil
}

func (f *fakeReservationStore) GetByID(_ context.Context, id string) (*entity.Reservation, error) {
	r, ok := f.reservations[id]
	if !ok {
		return nil, nil
	}
	copied := *r
	return &copied, nil
}

func (f *fakeReservationStore) FindActiveByPlate(_ context.Context, eventID int64, licensePlate string) (*entity.Reservation, error) {
	normalized := strings.ToUpper(strings.TrimSpace(licensePlate))
	for _, r := range f.reservations {
		if r.EventID == eventID && r.LicensePlate == normalized && r.Status == entity.ReservationStatusActive {
			copied := *r
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeReservationStore) Cancel(_ context.Context, id string) error {
	if r, ok := f.reservations[id]; ok {
		r.Status = entity.ReservationStatusCancelled
	}
	return nil
}

func (f *fakeReservationStore) ListActiveByEvent(_ context.Context, eventID int64) ([]entity.Reservation, error) {
	var out []entity.Reservation
	for _, r := range f.reservations {
		if r.EventID == eventID && r.Status == entity.ReservationStatusActive {
			out = append(out, *r)
		}
	}
	return out, nil
}

type fakeResponseStore struct {
	responses map[string]*entity.RsvpResponse
}

func newFakeResponseStore() *fakeResponseStore {
	return &fakeResponseStore{responses: make(map[string]*entity.RsvpResponse)}
}

func responseKey(eventID int64, email string) string {
	return fmt.Sprintf("%d:%s", eventID, strings.ToLower(email))
}

func (f *fakeResponseStore) Record(_ context.Context, eventID int64, email string, status entity.ResponseStatus) (*entity.RsvpResponse, error) {
	r := &entity.RsvpResponse{
		EventID:   eventID,
		Email:     strings.ToLower(strings.TrimSpace(email)),
		Status:    status,
		UpdatedAt: time.Now(),
	}
	f.responses[responseKey(eventID, email)] = r
	return r, nil
}

func (f *fakeResponseStore) Get(_ context.Context, eventID int64, email string) (*entity.RsvpResponse, error) {
	r, ok := f.responses[responseKey(eventID, email)]
	if !ok {
		return nil, nil
	}
	copied := *r
	return &copied, nil
}

func (f *fakeResponseStore) ListByEvent(_ context.Context, eventID int64) ([]entity.RsvpResponse, error) {
	var out []entity.RsvpResponse
	for _, r := range f.responses {
		if r.EventID == eventID {
			out = append(out, *r)
		}
	}
	return out, nil
}

// ---- helpers ----

type fixture struct {
	svc          *RsvpService
	events       *fakeEventStore
	reservations *fakeReservationStore
	responses    *fakeResponseStore
	event        *eventEntity.Event
}

func newFixture(t *testing.T, capacity int) *fixture {
	t.Helper()
	events := newFakeEventStore()
	reservations := newFakeReservationStore()
	responses := newFakeResponseStore()

	ends := time.Now().Add(4 * time.Hour)
	event, err := events.Create(context.Background(), &eventEntity.Event{
		Name:            "Summer Party",
		StartsAt:        time.Now().Add(2 * time.Hour),
		EndsAt:          &ends,
		Location:        "Rooftop",
		ParkingCapacity: capacity,
	})
	if err != nil {
		t.Fatal(err)
	}

	return &fixture{
		svc:          NewRsvpService(events, reservations, responses, testSecret),
		events:       events,
		reservations: reservations,
		responses:    responses,
		event:        event,
	}
}

func (f *fixture) tokenFor(t *testing.T, email string) string {
	t.Helper()
	tok, err := token.Sign(token.Payload{
		EventID: f.event.ID,
		Email:   email,
		Exp:     time.Now().Add(time.Hour).UnixMilli(),
	}, testSecret)
	if err != nil {
		t.Fatal(err)
	}
	return tok
}

func (f *fixture) counters(t *testing.T) (rsvp, parking int) {
	t.Helper()
	e, err := f.events.GetByID(context.Background(), f.event.ID)
	if err != nil || e == nil {
		t.Fatalf("event lookup failed: %v", err)
	}
	return e.RsvpReceived, e.ParkingClaimed
}

// ---- tests ----

func TestReserveParkingHappyPath(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()

	result := f.svc.ReserveParking(ctx, f.event.ID, "Alice", "abc123", f.tokenFor(t, "alice@example.com"))
	if !result.Success {
		t.Fatalf("reserve failed: %s", result.Error)
	}
	if result.ReservationID == "" {
		t.Error("expected a reservation id")
	}

	rsvp, parking := f.counters(t)
	if rsvp != 1 || parking != 1 {
		t.Errorf("counters = (%d, %d), want (1, 1)", rsvp, parking)
	}

	reservation, _ := f.reservations.GetByID(ctx, result.ReservationID)
	if reservation == nil {
		t.Fatal("reservation not stored")
	}
	if reservation.LicensePlate != "ABC123" {
		t.Errorf("plate %q not normalized to upper case", reservation.LicensePlate)
	}
	if reservation.GuestEmail != "alice@example.com" {
		t.Errorf("guest email = %q", reservation.GuestEmail)
	}

	response, _ := f.responses.Get(ctx, f.event.ID, "alice@example.com")
	if response == nil || response.Status != entity.ResponseStatusReserved {
		t.Errorf("response = %+v, want reserved", response)
	}
}

func TestReserveParkingFailures(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()

	otherEventToken, err := token.Sign(token.Payload{
		EventID: f.event.ID + 99,
		Email:   "alice@example.com",
		Exp:     time.Now().Add(time.Hour).UnixMilli(),
	}, testSecret)
	if err != nil {
		t.Fatal(err)
	}
	expiredToken, err := token.Sign(token.Payload{
		EventID: f.event.ID,
		Email:   "alice@example.com",
		Exp:     time.Now().Add(-time.Hour).UnixMilli(),
	}, testSecret)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		eventID   int64
		tok       string
		wantError string
	}{
		{"event missing", f.event.ID + 99, f.tokenFor(t, "alice@example.com"), msgEventNotFound},
		{"token missing", f.event.ID, "", msgTokenRequired},
		{"token garbage", f.event.ID, "not.a.token", msgInvalidToken},
		{"token for other event", f.event.ID, otherEventToken, msgInvalidToken},
		{"token expired", f.event.ID, expiredToken, msgInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := f.svc.ReserveParking(ctx, tt.eventID, "Alice", "AAA111", tt.tok)
			if result.Success {
				t.Fatal("expected failure")
			}
			if result.Error != tt.wantError {
				t.Errorf("error = %q, want %q", result.Error, tt.wantError)
			}
		})
	}

	rsvp, parking := f.counters(t)
	if rsvp != 0 || parking != 0 {
		t.Errorf("failed attempts moved counters: (%d, %d)", rsvp, parking)
	}
}

func TestReserveParkingSecretUnconfigured(t *testing.T) {
	f := newFixture(t, 1)
	svc := NewRsvpService(f.events, f.reservations, f.responses, "")

	result := svc.ReserveParking(context.Background(), f.event.ID, "Alice", "AAA111", f.tokenFor(t, "alice@example.com"))
	if result.Success || result.Error != msgTokenRequired {
		t.Errorf("result = %+v, want token-required failure", result)
	}
}

// Capacity-2 walkthrough: duplicate token, duplicate plate, capacity limit.
func TestReserveParkingCapacityScenario(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()

	aliceToken := f.tokenFor(t, "alice@example.com")
	first := f.svc.ReserveParking(ctx, f.event.ID, "Alice", "ABC123", aliceToken)
	if !first.Success {
		t.Fatalf("first reserve failed: %s", first.Error)
	}
	if rsvp, parking := f.counters(t); rsvp != 1 || parking != 1 {
		t.Fatalf("counters after first reserve = (%d, %d), want (1, 1)", rsvp, parking)
	}

	again := f.svc.ReserveParking(ctx, f.event.ID, "Alice", "ABC123", aliceToken)
	if again.Success || again.Error != msgAlreadyRecorded {
		t.Errorf("re-reserve = %+v, want %q", again, msgAlreadyRecorded)
	}
	if rsvp, parking := f.counters(t); rsvp != 1 || parking != 1 {
		t.Errorf("re-reserve moved counters: (%d, %d)", rsvp, parking)
	}

	samePlate := f.svc.ReserveParking(ctx, f.event.ID, "Bob", " abc123 ", f.tokenFor(t, "bob@example.com"))
	if samePlate.Success || samePlate.Error != msgDuplicatePlate {
		t.Errorf("duplicate plate = %+v, want %q", samePlate, msgDuplicatePlate)
	}

	second := f.svc.ReserveParking(ctx, f.event.ID, "Bob", "XYZ999", f.tokenFor(t, "bob@example.com"))
	if !second.Success {
		t.Fatalf("second reserve failed: %s", second.Error)
	}
	if _, parking := f.counters(t); parking != 2 {
		t.Fatalf("parkingClaimed = %d, want 2", parking)
	}

	full := f.svc.ReserveParking(ctx, f.event.ID, "Carol", "CAR001", f.tokenFor(t, "carol@example.com"))
	if full.Success || full.Error != msgNoSpots {
		t.Errorf("over-capacity reserve = %+v, want %q", full, msgNoSpots)
	}
	if _, parking := f.counters(t); parking != 2 {
		t.Errorf("parkingClaimed = %d after capacity failure, want 2", parking)
	}
}

func TestDeclineParking(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()
	tok := f.tokenFor(t, "dana@example.com")

	first := f.svc.DeclineParking(ctx, f.event.ID, tok)
	if !first.Success {
		t.Fatalf("decline failed: %s", first.Error)
	}
	if rsvp, parking := f.counters(t); rsvp != 1 || parking != 0 {
		t.Errorf("counters after decline = (%d, %d), want (1, 0)", rsvp, parking)
	}

	// Declining again is accepted but must not double-count.
	second := f.svc.DeclineParking(ctx, f.event.ID, tok)
	if !second.Success {
		t.Fatalf("repeat decline failed: %s", second.Error)
	}
	if rsvp, _ := f.counters(t); rsvp != 1 {
		t.Errorf("rsvpReceived = %d after repeat decline, want 1", rsvp)
	}
}

func TestDeclineRejectedWhileReserved(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()
	tok := f.tokenFor(t, "erin@example.com")

	if result := f.svc.ReserveParking(ctx, f.event.ID, "Erin", "ERN001", tok); !result.Success {
		t.Fatalf("reserve failed: %s", result.Error)
	}

	declined := f.svc.DeclineParking(ctx, f.event.ID, tok)
	if declined.Success || declined.Error != msgAlreadyReserved {
		t.Errorf("decline while reserved = %+v, want %q", declined, msgAlreadyReserved)
	}
	if rsvp, parking := f.counters(t); rsvp != 1 || parking != 1 {
		t.Errorf("counters moved: (%d, %d)", rsvp, parking)
	}
}

func TestReserveAfterDeclineCountsOnce(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()
	tok := f.tokenFor(t, "finn@example.com")

	if result := f.svc.DeclineParking(ctx, f.event.ID, tok); !result.Success {
		t.Fatal("decline failed")
	}
	if result := f.svc.ReserveParking(ctx, f.event.ID, "Finn", "FIN001", tok); !result.Success {
		t.Fatalf("reserve after decline failed: %s", result.Error)
	}

	// Spec'd behavior: the flip adds another rsvp increment on top of the
	// decline's, and claims the spot.
	if rsvp, parking := f.counters(t); rsvp != 2 || parking != 1 {
		t.Errorf("counters = (%d, %d), want (2, 1)", rsvp, parking)
	}

	response, _ := f.responses.Get(ctx, f.event.ID, "finn@example.com")
	if response == nil || response.Status != entity.ResponseStatusReserved {
		t.Errorf("response = %+v, want reserved (last write wins)", response)
	}
}

func TestCancelReservation(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()
	tok := f.tokenFor(t, "gail@example.com")

	reserved := f.svc.ReserveParking(ctx, f.event.ID, "Gail", "GGG001", tok)
	if !reserved.Success {
		t.Fatalf("reserve failed: %s", reserved.Error)
	}

	cancelled := f.svc.CancelReservation(ctx, reserved.ReservationID, tok)
	if !cancelled.Success {
		t.Fatalf("cancel failed: %s", cancelled.Error)
	}
	if cancelled.EventID != f.event.ID {
		t.Errorf("cancel eventId = %d, want %d", cancelled.EventID, f.event.ID)
	}
	if rsvp, parking := f.counters(t); rsvp != 1 || parking != 0 {
		t.Errorf("counters after cancel = (%d, %d), want (1, 0)", rsvp, parking)
	}

	response, _ := f.responses.Get(ctx, f.event.ID, "gail@example.com")
	if response == nil || response.Status != entity.ResponseStatusDeclined {
		t.Errorf("response = %+v, want declined", response)
	}

	reservation, _ := f.reservations.GetByID(ctx, reserved.ReservationID)
	if reservation == nil || reservation.Status != entity.ReservationStatusCancelled {
		t.Errorf("reservation = %+v, want cancelled (not deleted)", reservation)
	}

	// Second cancel of the same reservation is a conflict, not a decrement.
	again := f.svc.CancelReservation(ctx, reserved.ReservationID, tok)
	if again.Success || again.Error != msgAlreadyCancelled {
		t.Errorf("double cancel = %+v, want %q", again, msgAlreadyCancelled)
	}
	if _, parking := f.counters(t); parking != 0 {
		t.Errorf("double cancel decremented again: parking = %d", parking)
	}
}

func TestCancelReservationNotFoundIsIdempotentDecline(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()
	tok := f.tokenFor(t, "hana@example.com")

	// Guest reserved, then their client lost the reservation id.
	reserved := f.svc.ReserveParking(ctx, f.event.ID, "Hana", "HHH001", tok)
	if !reserved.Success {
		t.Fatal("reserve failed")
	}

	result := f.svc.CancelReservation(ctx, "no-such-reservation", tok)
	if !result.Success {
		t.Fatalf("not-found cancel should succeed, got %s", result.Error)
	}
	if result.EventID != f.event.ID {
		t.Errorf("eventId = %d, want %d", result.EventID, f.event.ID)
	}
	if rsvp, parking := f.counters(t); rsvp != 1 || parking != 0 {
		t.Errorf("counters = (%d, %d), want (1, 0)", rsvp, parking)
	}

	response, _ := f.responses.Get(ctx, f.event.ID, "hana@example.com")
	if response == nil || response.Status != entity.ResponseStatusDeclined {
		t.Errorf("response = %+v, want declined", response)
	}

	// Retried stale cancel: response is already declined, so no decrement.
	retry := f.svc.CancelReservation(ctx, "no-such-reservation", tok)
	if !retry.Success {
		t.Fatalf("retried cancel should succeed, got %s", retry.Error)
	}
	if rsvp, parking := f.counters(t); rsvp != 1 || parking != 0 {
		t.Errorf("retried cancel moved counters: (%d, %d)", rsvp, parking)
	}
}

func TestCancelReservationTokenChecks(t *testing.T) {
	f := newFixture(t, 2)
	ctx := context.Background()
	tok := f.tokenFor(t, "ivan@example.com")

	reserved := f.svc.ReserveParking(ctx, f.event.ID, "Ivan", "IVN001", tok)
	if !reserved.Success {
		t.Fatal("reserve failed")
	}

	missing := f.svc.CancelReservation(ctx, reserved.ReservationID, "")
	if missing.Success || missing.Error != msgTokenRequired {
		t.Errorf("missing token = %+v, want %q", missing, msgTokenRequired)
	}

	otherEvent, err := token.Sign(token.Payload{
		EventID: f.event.ID + 1,
		Email:   "ivan@example.com",
		Exp:     time.Now().Add(time.Hour).UnixMilli(),
	}, testSecret)
	if err != nil {
		t.Fatal(err)
	}
	mismatchEvent := f.svc.CancelReservation(ctx, reserved.ReservationID, otherEvent)
	if mismatchEvent.Success || mismatchEvent.Error != msgInvalidToken {
		t.Errorf("event mismatch = %+v, want %q", mismatchEvent, msgInvalidToken)
	}

	otherGuest := f.tokenFor(t, "impostor@example.com")
	mismatchEmail := f.svc.CancelReservation(ctx, reserved.ReservationID, otherGuest)
	if mismatchEmail.Success || mismatchEmail.Error != msgReservationMismatch {
		t.Errorf("email mismatch = %+v, want %q", mismatchEmail, msgReservationMismatch)
	}

	if rsvp, parking := f.counters(t); rsvp != 1 || parking != 1 {
		t.Errorf("failed cancels moved counters: (%d, %d)", rsvp, parking)
	}
}

func TestResponseOverwriteKeepsNoHistory(t *testing.T) {
	f := newFixture(t, 3)
	ctx := context.Background()
	tok := f.tokenFor(t, "judy@example.com")

	if r := f.svc.DeclineParking(ctx, f.event.ID, tok); !r.Success {
		t.Fatal("decline failed")
	}
	reserved := f.svc.ReserveParking(ctx, f.event.ID, "Judy", "JDY001", tok)
	if !reserved.Success {
		t.Fatal("reserve failed")
	}
	if r := f.svc.CancelReservation(ctx, reserved.ReservationID, tok); !r.Success {
		t.Fatal("cancel failed")
	}

	responses, _ := f.responses.ListByEvent(ctx, f.event.ID)
	if len(responses) != 1 {
		t.Fatalf("stored %d responses for one guest, want 1 (last write wins)", len(responses))
	}
	if responses[0].Status != entity.ResponseStatusDeclined {
		t.Errorf("final response = %s, want declined", responses[0].Status)
	}
}

func TestParkingClaimedNeverExceedsCapacity(t *testing.T) {
	f := newFixture(t, 1)
	ctx := context.Background()

	if r := f.svc.ReserveParking(ctx, f.event.ID, "A", "PLT001", f.tokenFor(t, "a@example.com")); !r.Success {
		t.Fatal("reserve failed")
	}
	for i, email := range []string{"b@example.com", "c@example.com"} {
		r := f.svc.ReserveParking(ctx, f.event.ID, "X", fmt.Sprintf("OTH%03d", i+1), f.tokenFor(t, email))
		if r.Success {
			t.Fatal("reserve beyond capacity succeeded")
		}
	}

	if _, parking := f.counters(t); parking != 1 {
		t.Errorf("parkingClaimed = %d, want 1 (capacity)", parking)
	}
}
