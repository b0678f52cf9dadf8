package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Complaint statuses. pending is initial; closed and rejected are terminal.
const (
	StatusPending    = "pending"
	StatusInProgress = "in-progress"
	StatusResolved   = "resolved"
	StatusRejected   = "rejected"
	StatusClosed     = "closed"
)

// Payment statuses for the complaint-level paymentStatus field.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// PaymentDetails is the sub-record written once the owner pays a resolved
// complaint. Only the last four card digits are ever stored.
type PaymentDetails struct {
	TransactionID  string  `json:"transactionId,omitempty"`
	Amount         float64 `json:"amount,omitempty"`
	Currency       string  `json:"currency,omitempty"`
	PaymentMethod  string  `json:"paymentMethod,omitempty"`
	CardholderName string  `json:"cardholderName,omitempty"`
	CardLastFour   string  `json:"cardLastFour,omitempty"`
	DoorNumber     string  `json:"doorNumber,omitempty"`
	Status         string  `json:"status,omitempty"`
}

// Complaint is the central entity. Status moves only through the lifecycle
// engine; content fields are mutable by the owner while status is pending.
type Complaint struct {
	ID             string         `gorm:"primaryKey" json:"id"`
	UserID         string         `gorm:"index" json:"userId"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	Category       string         `json:"category"`
	Priority       string         `json:"priority"` // low | medium | high
	Status         string         `gorm:"index" json:"status"`
	PaymentAmount  float64        `json:"paymentAmount"`
	PaymentStatus  string         `json:"paymentStatus"`
	PaymentDate    *time.Time     `json:"paymentDate,omitempty"`
	PaymentDetails PaymentDetails `gorm:"embedded;embeddedPrefix:payment_" json:"paymentDetails"`
	DoorNumber     string         `json:"doorNumber,omitempty"`
	AdminComments  string         `json:"adminComments,omitempty"`
	AssignedTo     string         `json:"assignedTo,omitempty"`
	Attachments    pq.StringArray `gorm:"type:text[]" json:"attachments,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (c *Complaint) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.Status == "" {
		c.Status = StatusPending
	}
	if c.PaymentStatus == "" {
		c.PaymentStatus = PaymentPending
	}
	return
}

func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusResolved, StatusRejected, StatusClosed:
		return true
	}
	return false
}

func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}
