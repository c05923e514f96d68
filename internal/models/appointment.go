package models

import "time"

// Appointment occupies one slot. The composite unique index on (date, time)
// is the authoritative conflict check: concurrent bookings race on it, and
// exactly one insert wins.
type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Date time.Time `gorm:"type:date;not null;index;uniqueIndex:idx_appointments_slot" json:"date"`
	Time string    `gorm:"size:5;not null;uniqueIndex:idx_appointments_slot" json:"time"`

	// Nullable on purpose: deleting a patient orphans the appointment
	// instead of cascading.
	PatientID *uint    `json:"patient_id"`
	Patient   *Patient `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"patient,omitempty"`

	Note string `gorm:"size:255" json:"note"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
