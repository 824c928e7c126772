package dto

// ReminderPayload is the asynq task body for one guest reminder.
type ReminderPayload struct {
	EventID int64  `json:"eventId"`
	Email   string `json:"email"`
}
