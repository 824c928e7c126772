package entity

import "time"

type ResponseStatus string

const (
	ResponseStatusReserved ResponseStatus = "reserved"
	ResponseStatusDeclined ResponseStatus = "declined"
)

// RsvpResponse is the latest parking decision per (event, email).
// A new decision overwrites the previous one; no history is kept.
type RsvpResponse struct {
	EventID   int64          `db:"event_id" json:"eventId"`
	Email     string         `db:"email" json:"email"`
	Status    ResponseStatus `db:"status" json:"status"`
	UpdatedAt time.Time      `db:"updated_at" json:"updatedAt"`
}
