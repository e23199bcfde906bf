package models

import (
	"time"

	"gorm.io/gorm"
)

type AppointmentStatus string

const (
	StatusBooked    AppointmentStatus = "booked"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusCompleted AppointmentStatus = "completed"
	StatusNoShow    AppointmentStatus = "no-show"
)

// Valid reports whether s is one of the four known statuses.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusBooked, StatusCancelled, StatusCompleted, StatusNoShow:
		return true
	}
	return false
}

// Appointment is the ledger record for one consultation slot. The calendar
// date and the "HH:MM" slot label are stored as two separate fields; the
// uniqueness of a booking is keyed on the (doctor, date, time_slot) triple,
// never on a combined instant.
type Appointment struct {
	ID        uint              `json:"id" gorm:"primaryKey"`
	PatientID uint              `json:"patient_id" gorm:"index:idx_appointments_patient_date"`
	Patient   User              `json:"patient,omitempty" gorm:"foreignKey:PatientID"`
	DoctorID  uint              `json:"doctor_id" gorm:"index:idx_appointments_doctor_date"`
	Doctor    Doctor            `json:"doctor,omitempty" gorm:"foreignKey:DoctorID"`
	Date      time.Time         `json:"date" gorm:"index:idx_appointments_patient_date;index:idx_appointments_doctor_date;index:idx_appointments_status_date"`
	TimeSlot  string            `json:"time_slot"`
	Status    AppointmentStatus `json:"status" gorm:"index:idx_appointments_status_date"`
	Reason    string            `json:"reason,omitempty"`
	Symptoms  string            `json:"symptoms,omitempty"`
	Notes     string            `json:"notes,omitempty"`

	CancelledByID      *uint      `json:"cancelled_by_id,omitempty"`
	CancelledBy        *User      `json:"cancelled_by,omitempty" gorm:"foreignKey:CancelledByID"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
	CancellationReason string     `json:"cancellation_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a *Appointment) BeforeCreate(tx *gorm.DB) error {
	if a.Status == "" {
		a.Status = StatusBooked
	}
	if a.Reason == "" {
		a.Reason = "General consultation"
	}
	return nil
}

// Cancellable reports whether a cancellation may still be applied. Cancelled
// and completed are terminal for cancellation purposes.
func (a *Appointment) Cancellable() bool {
	return a.Status != StatusCancelled && a.Status != StatusCompleted
}

// Cancel marks the appointment cancelled on behalf of actorID.
func (a *Appointment) Cancel(actorID uint, reason string) {
	now := time.Now()
	a.Status = StatusCancelled
	a.CancelledByID = &actorID
	a.CancelledAt = &now
	if reason == "" {
		reason = "No reason provided"
	}
	a.CancellationReason = reason
}
