package entity

import (
	"time"

	"github.com/lib/pq"
)

type EventType string

const (
	EventTypePrivate EventType = "Private"
	EventTypePublic  EventType = "Public"
)

type EventStatus string

const (
	EventStatusActive    EventStatus = "active"
	EventStatusCancelled EventStatus = "cancelled"
)

// Event is an organizer-created occasion with a parking capacity.
//
// Invited is fixed at creation (equal to the parking capacity); RsvpReceived
// and ParkingClaimed are derived counters adjusted only through the
// repository's UpdateCounters, which clamps ParkingClaimed to
// [0, ParkingCapacity] and keeps RsvpReceived non-negative.
type Event struct {
	ID                 int64          `db:"id" json:"id"`
	Name               string         `db:"name" json:"name"`
	Slug               string         `db:"slug" json:"slug"`
	StartsAt           time.Time      `db:"starts_at" json:"startsAt"`
	EndsAt             *time.Time     `db:"ends_at" json:"endsAt,omitempty"`
	Location           string         `db:"location" json:"location"`
	ParkingCapacity    int            `db:"parking_capacity" json:"parkingCapacity"`
	EventType          EventType      `db:"event_type" json:"eventType"`
	RsvpListNames      pq.StringArray `db:"rsvp_list_names" json:"rsvpListNames"`
	PublicInviteEmails pq.StringArray `db:"public_invite_emails" json:"publicInviteEmails"`
	Status             EventStatus    `db:"status" json:"status"`
	Invited            int            `db:"invited" json:"invited"`
	RsvpReceived       int            `db:"rsvp_received" json:"rsvpReceived"`
	ParkingClaimed     int            `db:"parking_claimed" json:"parkingClaimed"`
	CreatedAt          time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt          time.Time      `db:"updated_at" json:"updatedAt"`
}

// RsvpDeadline is the instant tokens for this event expire: the end time,
// falling back to the start time.
func (e *Event) RsvpDeadline() time.Time {
	if e.EndsAt != nil && !e.EndsAt.IsZero() {
		return *e.EndsAt
	}
	return e.StartsAt
}
