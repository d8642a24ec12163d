package entity

// AppointmentFilter is a domain-level filter for querying appointments.
// Used by repository layer to avoid coupling with delivery DTOs.
type AppointmentFilter struct {
	DateFrom       string // Format: YYYY-MM-DD
	DateTo         string // Format: YYYY-MM-DD
	DoctorName     string // Filter by doctor name snapshot (ILIKE)
	Specialization string // Filter by specialization snapshot (ILIKE)
	Status         string // Filter by exact status
}
