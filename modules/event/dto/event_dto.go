package dto

import (
	"time"

	"parking-rsvp-api/modules/event/entity"
)

type CreateEventRequest struct {
	Name               string     `json:"name"`
	StartsAt           time.Time  `json:"startsAt"`
	EndsAt             *time.Time `json:"endsAt,omitempty"`
	Location           string     `json:"location"`
	ParkingCapacity    int        `json:"parkingCapacity"`
	EventType          string     `json:"eventType,omitempty"`
	RsvpListNames      []string   `json:"rsvpListNames,omitempty"`
	PublicInviteEmails []string   `json:"publicInviteEmails,omitempty"`
}

// UpdateEventRequest replaces the organizer-editable fields wholesale;
// derived counters are untouched.
type UpdateEventRequest struct {
	Name               string     `json:"name"`
	StartsAt           time.Time  `json:"startsAt"`
	EndsAt             *time.Time `json:"endsAt,omitempty"`
	Location           string     `json:"location"`
	ParkingCapacity    int        `json:"parkingCapacity"`
	EventType          string     `json:"eventType,omitempty"`
	RsvpListNames      []string   `json:"rsvpListNames,omitempty"`
	PublicInviteEmails []string   `json:"publicInviteEmails,omitempty"`
}

type ListEventsResponse struct {
	Events []entity.Event `json:"events"`
	Total  int            `json:"total"`
}

type SimulateRsvpRequest struct {
	NeedsParking bool `json:"needsParking"`
}

type ResetCountersResponse struct {
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

type ExportResponse struct {
	Key string `json:"key"`
}

type RemindResponse struct {
	Enqueued int `json:"enqueued"`
}
