package entity

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusAccepted  AppointmentStatus = "accepted"
	AppointmentStatusRejected  AppointmentStatus = "rejected"
	AppointmentStatusCompleted AppointmentStatus = "completed"
)

// ParseAppointmentStatus validates a raw status string against the
// enumerated set.
func ParseAppointmentStatus(s string) (AppointmentStatus, bool) {
	switch AppointmentStatus(s) {
	case AppointmentStatusPending, AppointmentStatusAccepted,
		AppointmentStatusRejected, AppointmentStatusCompleted:
		return AppointmentStatus(s), true
	default:
		return "", false
	}
}

// IsTerminal reports whether no further transitions are permitted.
func (s AppointmentStatus) IsTerminal() bool {
	return s == AppointmentStatusRejected || s == AppointmentStatusCompleted
}

// ConsumesSlot reports whether the status counts against the doctor's
// daily capacity and blocks its time slot.
func (s AppointmentStatus) ConsumesSlot() bool {
	return s == AppointmentStatusPending || s == AppointmentStatusAccepted
}

// Appointment represents a booked time slot between a patient and a doctor.
// PatientName, DoctorName and DoctorSpecialization are snapshots taken at
// creation time and are not updated when the source records change.
type Appointment struct {
	ID                   uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	PatientID            uuid.UUID         `gorm:"type:uuid;not null;index" json:"patient_id"`
	PatientName          string            `gorm:"type:varchar(255);not null" json:"patient_name"`
	DoctorID             uuid.UUID         `gorm:"type:uuid;not null;index:idx_appointments_doctor_date" json:"doctor_id"`
	DoctorName           string            `gorm:"type:varchar(255);not null" json:"doctor_name"`
	DoctorSpecialization Specialization    `gorm:"type:varchar(100);not null" json:"doctor_specialization"`
	Date                 string            `gorm:"type:varchar(10);not null;index:idx_appointments_doctor_date" json:"date"`
	Time                 string            `gorm:"type:varchar(20);not null" json:"time"`
	Status               AppointmentStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CreatedAt            time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient User   `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Doctor  Doctor `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// IsPending checks if the appointment is awaiting doctor review
func (a *Appointment) IsPending() bool {
	return a.Status == AppointmentStatusPending
}

// IsAccepted checks if the appointment has been accepted by the doctor
func (a *Appointment) IsAccepted() bool {
	return a.Status == AppointmentStatusAccepted
}
