package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type CreateDoctorRequest struct {
	Email            string   `json:"email" validate:"required,email"`
	Password         string   `json:"password" validate:"required,min=6"`
	FullName         string   `json:"full_name" validate:"required,min=2"`
	Specialization   string   `json:"specialization" validate:"required"`
	AvailableDays    []int    `json:"available_days" validate:"required,min=1,dive,gte=0,lte=6"`
	TimeSlots        []string `json:"time_slots" validate:"required,min=1,dive,timeslot"`
	MaxPerDay        int      `json:"max_per_day" validate:"required,min=1"`
	UnavailableDates []string `json:"unavailable_dates" validate:"omitempty,dive,datetime=2006-01-02"`
	ConsultationFee  string   `json:"consultation_fee" validate:"omitempty"`
	Biography        string   `json:"biography" validate:"omitempty"`
	Avatar           string   `json:"avatar" validate:"omitempty"`
}

type UpdateDoctorRequest struct {
	FullName         string    `json:"full_name" validate:"omitempty,min=2"`
	Specialization   string    `json:"specialization" validate:"omitempty"`
	AvailableDays    *[]int    `json:"available_days" validate:"omitempty,min=1,dive,gte=0,lte=6"`
	TimeSlots        *[]string `json:"time_slots" validate:"omitempty,min=1,dive,timeslot"`
	MaxPerDay        *int      `json:"max_per_day" validate:"omitempty,min=1"`
	UnavailableDates *[]string `json:"unavailable_dates" validate:"omitempty,dive,datetime=2006-01-02"`
	ConsultationFee  string    `json:"consultation_fee" validate:"omitempty"`
	Biography        *string   `json:"biography" validate:"omitempty"`
	Avatar           *string   `json:"avatar" validate:"omitempty"`
	IsActive         *bool     `json:"is_active" validate:"omitempty"`
}

// Response DTOs

type DoctorResponse struct {
	ID               uuid.UUID       `json:"id"`
	Email            string          `json:"email"`
	FullName         string          `json:"full_name"`
	Specialization   string          `json:"specialization"`
	AvailableDays    []int           `json:"available_days"`
	TimeSlots        []string        `json:"time_slots"`
	MaxPerDay        int             `json:"max_per_day"`
	UnavailableDates []string        `json:"unavailable_dates,omitempty"`
	ConsultationFee  decimal.Decimal `json:"consultation_fee"`
	Biography        string          `json:"biography,omitempty"`
	Avatar           string          `json:"avatar,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

type DoctorListResponse struct {
	Doctors []DoctorResponse `json:"doctors"`
	Total   int              `json:"total"`
}

type TimeSlotResponse struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

type AvailableSlotsResponse struct {
	DoctorID uuid.UUID          `json:"doctor_id"`
	Date     string             `json:"date"`
	Slots    []TimeSlotResponse `json:"slots"`
}
