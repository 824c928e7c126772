package dto

// Guest-facing requests. The token always travels with the request body,
// mirroring the `token` query parameter of the RSVP link.
type (
	ReserveParkingRequest struct {
		GuestName    string `json:"guestName"`
		LicensePlate string `json:"licensePlate"`
		Token        string `json:"token"`
	}

	DeclineParkingRequest struct {
		Token string `json:"token"`
	}

	CancelReservationRequest struct {
		Token string `json:"token"`
	}
)

// Results are plain values: domain failures ride inside them instead of
// becoming HTTP errors, so the guest UI always gets a renderable outcome.
type (
	ReserveParkingResult struct {
		Success       bool   `json:"success"`
		ReservationID string `json:"reservationId,omitempty"`
		Error         string `json:"error,omitempty"`
	}

	CancelReservationResult struct {
		Success bool   `json:"success"`
		EventID int64  `json:"eventId,omitempty"`
		Error   string `json:"error,omitempty"`
	}

	DeclineParkingResult struct {
		Success bool   `json:"success"`
		Error   string `json:"error,omitempty"`
	}
)

// Organizer-facing link generation.
type (
	GenerateLinkRequest struct {
		EventID int64  `json:"eventId"`
		Email   string `json:"email"`
		RsvpURL string `json:"rsvpUrl,omitempty"`
	}

	GenerateLinkResponse struct {
		Link string `json:"link"`
	}
)
