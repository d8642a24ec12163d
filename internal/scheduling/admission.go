package scheduling

import (
	"time"

	"clinic-appointment-api/internal/domain/entity"
)

// CheckAdmission validates a booking request against the doctor's
// availability, slot configuration, per-slot occupancy and daily
// capacity. Checks short-circuit in order, each with a distinct error:
//
//  1. doctor available on the date (ErrDoctorUnavailable)
//  2. slot is one of the doctor's configured slots (ErrInvalidTimeSlot)
//  3. slot not already held by a pending/accepted appointment
//     (ErrSlotAlreadyBooked)
//  4. committed count below the daily capacity (ErrDailyCapacityReached)
//
// The appointments argument must contain the doctor's appointments for
// the date; the caller is responsible for evaluating this check and the
// subsequent insert atomically with respect to concurrent bookings.
func CheckAdmission(doctor *entity.Doctor, date time.Time, slot string, appointments []entity.Appointment) error {
	if !IsDoctorAvailable(doctor, date) {
		return ErrDoctorUnavailable
	}

	if !doctor.HasTimeSlot(slot) {
		return ErrInvalidTimeSlot
	}

	committed := committedFor(doctor, date.Format(DateLayout), appointments)

	for _, apt := range committed {
		if apt.Time == slot {
			return ErrSlotAlreadyBooked
		}
	}

	if len(committed) >= doctor.MaxPerDay {
		return ErrDailyCapacityReached
	}

	return nil
}
