package entity

import "time"

type ReservationStatus string

const (
	ReservationStatusActive    ReservationStatus = "active"
	ReservationStatusCancelled ReservationStatus = "cancelled"
)

// Reservation is a guest's claim on a parking spot. Rows are never deleted;
// cancellation flips the status.
type Reservation struct {
	ID           string            `db:"id" json:"id"`
	EventID      int64             `db:"event_id" json:"eventId"`
	GuestName    string            `db:"guest_name" json:"guestName"`
	GuestEmail   string            `db:"guest_email" json:"guestEmail,omitempty"`
	LicensePlate string            `db:"license_plate" json:"licensePlate"`
	Status       ReservationStatus `db:"status" json:"status"`
	CreatedAt    time.Time         `db:"created_at" json:"createdAt"`
}
