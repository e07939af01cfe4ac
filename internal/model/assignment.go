package model

import "time"

// Assignment binds one inscription to one dormitory bed, consuming
// exactly one unit of that dormitory's capacity. The unique index on
// InscriptionID is what makes assignment idempotent under duplicate
// payment triggers.
type Assignment struct {
	ID            string    `gorm:"type:uuid;primaryKey" json:"id"`
	InscriptionID string    `gorm:"type:uuid;uniqueIndex;not null" json:"inscription_id"`
	DormitoryID   int64     `gorm:"index;not null" json:"dormitory_id"`
	RoomNumber    *string   `gorm:"size:32" json:"room_number,omitempty"`
	BedNumber     *string   `gorm:"size:32" json:"bed_number,omitempty"`
	AssignedAt    time.Time `gorm:"not null" json:"assigned_at"`

	// Associations
	Dormitory Dormitory `gorm:"foreignKey:DormitoryID" json:"dormitory,omitempty"`
}
