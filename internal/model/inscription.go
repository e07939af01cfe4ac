package model

import "time"

// InscriptionStatus tracks a registration through the payment lifecycle.
type InscriptionStatus string

const (
	InscriptionPending   InscriptionStatus = "pending"
	InscriptionConfirmed InscriptionStatus = "confirmed"
	InscriptionCancelled InscriptionStatus = "cancelled"
)

// Inscription is a seminar registration. The assignment core reads the
// gender from this row rather than trusting a caller-supplied value.
type Inscription struct {
	ID        string            `gorm:"type:uuid;primaryKey" json:"id"`
	FirstName string            `gorm:"size:128;not null" json:"first_name"`
	LastName  string            `gorm:"size:128;not null" json:"last_name"`
	Gender    Gender            `gorm:"size:16" json:"gender"`
	Status    InscriptionStatus `gorm:"size:16;not null;default:pending" json:"status"`
	CreatedAt time.Time         `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time         `gorm:"not null" json:"updated_at"`
}
