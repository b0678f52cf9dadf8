package models

import "time"

// Event types published on the complaint lifecycle channel.
const (
	EventComplaintCreated = "complaint.created"
	EventStatusChanged    = "complaint.status-changed"
	EventPaymentRecorded  = "complaint.payment-recorded"
	EventComplaintDeleted = "complaint.deleted"
)

// ComplaintEvent is the wire payload fanned out to the admin feed and the
// Telegram notifier. It is not persisted.
type ComplaintEvent struct {
	Type        string    `json:"type"`
	ComplaintID string    `json:"complaintId"`
	UserID      string    `json:"userId,omitempty"`
	ActorID     string    `json:"actorId,omitempty"`
	Title       string    `json:"title,omitempty"`
	Status      string    `json:"status,omitempty"`
	At          time.Time `json:"at"`
}
