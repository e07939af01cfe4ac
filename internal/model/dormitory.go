package model

import "time"

// Gender partitions dormitories and participants into the two capacity pools.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Valid reports whether g is one of the recognized pool keys.
func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

// Dormitory represents a gender-scoped pool of bed capacity.
//
// AvailableSlots is denormalized: at quiescent times it must equal
// TotalCapacity minus the number of assignments referencing the
// dormitory. It is only ever mutated through guarded single-statement
// updates in the store layer.
type Dormitory struct {
	ID             int64     `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"size:128;not null" json:"name"`
	Gender         Gender    `gorm:"size:16;not null;index" json:"gender"`
	TotalCapacity  int       `gorm:"not null" json:"total_capacity"`
	AvailableSlots int       `gorm:"not null" json:"available_slots"`
	CreatedAt      time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time `gorm:"not null" json:"updated_at"`

	// Associations
	Assignments []Assignment `gorm:"foreignKey:DormitoryID" json:"-"`
}
