// Package scheduling contains the slot-allocation core: availability
// evaluation, slot enumeration, booking admission checks and the
// appointment status state machine. Everything in this package is a pure
// function over entities; persistence and locking live in the usecase
// and service layers.
//
// Weekday convention: Go's time.Weekday (0=Sunday .. 6=Saturday) is the
// single canonical convention, used both for doctor configuration and
// for date evaluation.
package scheduling

import (
	"errors"
	"time"

	"clinic-appointment-api/internal/domain/entity"
)

// DateLayout is the calendar date format used across the system.
const DateLayout = "2006-01-02"

var (
	ErrInvalidDate          = errors.New("invalid date, use YYYY-MM-DD")
	ErrDoctorUnavailable    = errors.New("doctor is not available on this date")
	ErrInvalidTimeSlot      = errors.New("time slot is not in the doctor's schedule")
	ErrSlotAlreadyBooked    = errors.New("time slot is already booked")
	ErrDailyCapacityReached = errors.New("doctor has reached maximum appointments for this day")
)

// ParseDate parses a calendar date in YYYY-MM-DD form.
func ParseDate(value string) (time.Time, error) {
	date, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return date, nil
}

// IsDoctorAvailable reports whether the doctor takes appointments on the
// given date. The unavailable-dates override takes precedence over the
// weekly pattern; it can only remove availability, never add it.
func IsDoctorAvailable(doctor *entity.Doctor, date time.Time) bool {
	if !doctor.AvailableDays.Contains(date.Weekday()) {
		return false
	}
	if doctor.UnavailableDates.Contains(date.Format(DateLayout)) {
		return false
	}
	return true
}
