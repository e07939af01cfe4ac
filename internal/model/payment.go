package model

import "time"

// PaymentMethod is the channel the seminar fee was paid through.
type PaymentMethod string

const (
	PaymentOnline PaymentMethod = "online"
	PaymentCash   PaymentMethod = "cash"
)

// PaymentStatus is the payment state machine. Success and failed are
// terminal; only a pending payment can transition.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentSuccess PaymentStatus = "success"
	PaymentFailed  PaymentStatus = "failed"
)

// Payment records one attempt to pay the fixed seminar fee.
// ReferenceCode is the correlation key the gateway echoes back in its
// callback.
type Payment struct {
	ID            string        `gorm:"type:uuid;primaryKey" json:"id"`
	InscriptionID string        `gorm:"type:uuid;index;not null" json:"inscription_id"`
	Amount        int64         `gorm:"not null" json:"amount"`
	Currency      string        `gorm:"size:8;not null" json:"currency"`
	Method        PaymentMethod `gorm:"size:16;not null" json:"method"`
	Status        PaymentStatus `gorm:"size:16;not null;default:pending" json:"status"`
	ReferenceCode string        `gorm:"size:64;uniqueIndex;not null" json:"reference_code"`
	PaymentDate   *time.Time    `json:"payment_date,omitempty"`
	CreatedAt     time.Time     `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time     `gorm:"not null" json:"updated_at"`
}

// Receipt is issued once per successful payment.
type Receipt struct {
	ID            string    `gorm:"type:uuid;primaryKey" json:"id"`
	PaymentID     string    `gorm:"type:uuid;uniqueIndex;not null" json:"payment_id"`
	ReceiptNumber string    `gorm:"size:64;uniqueIndex;not null" json:"receipt_number"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
}
