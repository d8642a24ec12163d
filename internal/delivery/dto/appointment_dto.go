package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateAppointmentRequest struct {
	DoctorID string `json:"doctor_id" validate:"required,uuid"`
	Date     string `json:"date" validate:"required,datetime=2006-01-02"`
	Time     string `json:"time" validate:"required,timeslot"`
}

type UpdateAppointmentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending accepted rejected completed"`
}

// AppointmentFilterQuery mirrors the supported query parameters on the
// appointment listing endpoints.
type AppointmentFilterQuery struct {
	DateFrom       string `json:"date_from" validate:"omitempty,datetime=2006-01-02"`
	DateTo         string `json:"date_to" validate:"omitempty,datetime=2006-01-02"`
	DoctorName     string `json:"doctor_name" validate:"omitempty"`
	Specialization string `json:"specialization" validate:"omitempty"`
	Status         string `json:"status" validate:"omitempty,oneof=pending accepted rejected completed"`
}

// Response DTOs

type AppointmentResponse struct {
	ID                   uuid.UUID `json:"id"`
	PatientID            uuid.UUID `json:"patient_id"`
	PatientName          string    `json:"patient_name"`
	DoctorID             uuid.UUID `json:"doctor_id"`
	DoctorName           string    `json:"doctor_name"`
	DoctorSpecialization string    `json:"doctor_specialization"`
	Date                 string    `json:"date"`
	Time                 string    `json:"time"`
	Status               string    `json:"status"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}
