package scheduling

import (
	"testing"

	"clinic-appointment-api/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func committedAppointment(doctor *entity.Doctor, date, slot string, status entity.AppointmentStatus) entity.Appointment {
	return entity.Appointment{
		ID:       uuid.New(),
		DoctorID: doctor.UserID,
		Date:     date,
		Time:     slot,
		Status:   status,
	}
}

func TestEnumerateSlots_UnavailableDateYieldsNoSlots(t *testing.T) {
	doctor := newTestDoctor()

	// Tuesday is outside the doctor's weekly pattern.
	slots := EnumerateSlots(doctor, mustParseDate(t, "2024-01-02"), nil)
	assert.Empty(t, slots)

	// A full capacity of appointments changes nothing on an unavailable day.
	appointments := []entity.Appointment{
		committedAppointment(doctor, "2024-01-02", "09:00 AM", entity.AppointmentStatusPending),
		committedAppointment(doctor, "2024-01-02", "10:00 AM", entity.AppointmentStatusAccepted),
	}
	slots = EnumerateSlots(doctor, mustParseDate(t, "2024-01-02"), appointments)
	assert.Empty(t, slots)
}

func TestEnumerateSlots_AllOpenWhenNoAppointments(t *testing.T) {
	doctor := newTestDoctor()

	slots := EnumerateSlots(doctor, mustParseDate(t, "2024-01-01"), nil)

	assert.Equal(t, []TimeSlot{
		{Time: "09:00 AM", Available: true},
		{Time: "10:00 AM", Available: true},
	}, slots)
}

func TestEnumerateSlots_BookedSlotClosed(t *testing.T) {
	doctor := newTestDoctor()
	appointments := []entity.Appointment{
		committedAppointment(doctor, "2024-01-01", "09:00 AM", entity.AppointmentStatusPending),
	}

	slots := EnumerateSlots(doctor, mustParseDate(t, "2024-01-01"), appointments)

	assert.Equal(t, []TimeSlot{
		{Time: "09:00 AM", Available: false},
		{Time: "10:00 AM", Available: true},
	}, slots)
}

func TestEnumerateSlots_CapacityClosesEverySlot(t *testing.T) {
	doctor := newTestDoctor()
	doctor.TimeSlots = entity.StringList{"09:00 AM", "10:00 AM", "11:00 AM"}

	// maxPerDay=2, two committed appointments: the untouched 11:00 slot
	// must be closed as well.
	appointments := []entity.Appointment{
		committedAppointment(doctor, "2024-01-01", "09:00 AM", entity.AppointmentStatusPending),
		committedAppointment(doctor, "2024-01-01", "10:00 AM", entity.AppointmentStatusAccepted),
	}

	slots := EnumerateSlots(doctor, mustParseDate(t, "2024-01-01"), appointments)

	assert.Len(t, slots, 3)
	for _, slot := range slots {
		assert.False(t, slot.Available, "slot %s should be closed at capacity", slot.Time)
	}
}

func TestEnumerateSlots_TerminalStatusesDoNotConsumeCapacity(t *testing.T) {
	doctor := newTestDoctor()
	appointments := []entity.Appointment{
		committedAppointment(doctor, "2024-01-01", "09:00 AM", entity.AppointmentStatusRejected),
		committedAppointment(doctor, "2024-01-01", "10:00 AM", entity.AppointmentStatusCompleted),
	}

	slots := EnumerateSlots(doctor, mustParseDate(t, "2024-01-01"), appointments)

	assert.Equal(t, []TimeSlot{
		{Time: "09:00 AM", Available: true},
		{Time: "10:00 AM", Available: true},
	}, slots)
}

func TestEnumerateSlots_IgnoresOtherDoctorsAndDates(t *testing.T) {
	doctor := newTestDoctor()
	other := newTestDoctor()

	appointments := []entity.Appointment{
		committedAppointment(other, "2024-01-01", "09:00 AM", entity.AppointmentStatusPending),
		committedAppointment(doctor, "2024-01-08", "09:00 AM", entity.AppointmentStatusPending),
	}

	slots := EnumerateSlots(doctor, mustParseDate(t, "2024-01-01"), appointments)

	assert.Equal(t, []TimeSlot{
		{Time: "09:00 AM", Available: true},
		{Time: "10:00 AM", Available: true},
	}, slots)
}

func TestEnumerateSlots_PreservesConfiguredOrder(t *testing.T) {
	doctor := newTestDoctor()
	// Deliberately not chronological.
	doctor.TimeSlots = entity.StringList{"02:00 PM", "09:00 AM", "11:00 AM"}
	doctor.MaxPerDay = 5

	slots := EnumerateSlots(doctor, mustParseDate(t, "2024-01-01"), nil)

	got := make([]string, 0, len(slots))
	for _, slot := range slots {
		got = append(got, slot.Time)
	}
	assert.Equal(t, []string{"02:00 PM", "09:00 AM", "11:00 AM"}, got)
}

func TestAvailableSlots_ReadPathIsIdempotent(t *testing.T) {
	doctor := newTestDoctor()
	appointments := []entity.Appointment{
		committedAppointment(doctor, "2024-01-01", "09:00 AM", entity.AppointmentStatusAccepted),
	}

	first := AvailableSlots(doctor, mustParseDate(t, "2024-01-01"), appointments)
	second := AvailableSlots(doctor, mustParseDate(t, "2024-01-01"), appointments)

	assert.Equal(t, []string{"10:00 AM"}, first)
	assert.Equal(t, first, second)
}
