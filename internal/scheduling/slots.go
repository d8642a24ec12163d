package scheduling

import (
	"time"

	"clinic-appointment-api/internal/domain/entity"
)

// TimeSlot is one of a doctor's configured slots together with its
// current bookability on a given date.
type TimeSlot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

// committedFor filters appointments down to those that consume capacity
// for the given doctor and date (pending or accepted).
func committedFor(doctor *entity.Doctor, dateStr string, appointments []entity.Appointment) []entity.Appointment {
	var committed []entity.Appointment
	for _, apt := range appointments {
		if apt.DoctorID == doctor.UserID && apt.Date == dateStr && apt.Status.ConsumesSlot() {
			committed = append(committed, apt)
		}
	}
	return committed
}

// EnumerateSlots returns the doctor's slots for a date in configured
// order, each marked available or not.
//
// An unavailable date yields no slots at all. When the committed
// appointment count has reached the doctor's daily capacity, every slot
// is reported closed regardless of per-slot occupancy.
func EnumerateSlots(doctor *entity.Doctor, date time.Time, appointments []entity.Appointment) []TimeSlot {
	if !IsDoctorAvailable(doctor, date) {
		return []TimeSlot{}
	}

	dateStr := date.Format(DateLayout)
	committed := committedFor(doctor, dateStr, appointments)

	slots := make([]TimeSlot, 0, len(doctor.TimeSlots))

	if len(committed) >= doctor.MaxPerDay {
		for _, slot := range doctor.TimeSlots {
			slots = append(slots, TimeSlot{Time: slot, Available: false})
		}
		return slots
	}

	booked := make(map[string]struct{}, len(committed))
	for _, apt := range committed {
		booked[apt.Time] = struct{}{}
	}

	for _, slot := range doctor.TimeSlots {
		_, taken := booked[slot]
		slots = append(slots, TimeSlot{Time: slot, Available: !taken})
	}
	return slots
}

// AvailableSlots is the open-only form of EnumerateSlots.
func AvailableSlots(doctor *entity.Doctor, date time.Time, appointments []entity.Appointment) []string {
	open := []string{}
	for _, slot := range EnumerateSlots(doctor, date, appointments) {
		if slot.Available {
			open = append(open, slot.Time)
		}
	}
	return open
}
