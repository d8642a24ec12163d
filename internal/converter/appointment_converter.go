package converter

import (
	"clinic-appointment-api/internal/delivery/dto"
	"clinic-appointment-api/internal/domain/entity"
)

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	return &dto.AppointmentResponse{
		ID:                   appointment.ID,
		PatientID:            appointment.PatientID,
		PatientName:          appointment.PatientName,
		DoctorID:             appointment.DoctorID,
		DoctorName:           appointment.DoctorName,
		DoctorSpecialization: string(appointment.DoctorSpecialization),
		Date:                 appointment.Date,
		Time:                 appointment.Time,
		Status:               string(appointment.Status),
		CreatedAt:            appointment.CreatedAt,
		UpdatedAt:            appointment.UpdatedAt,
	}
}

// AppointmentsToListResponse converts a slice of Appointment entities to AppointmentListResponse DTO
func AppointmentsToListResponse(appointments []entity.Appointment) *dto.AppointmentListResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i])
	}

	return &dto.AppointmentListResponse{
		Appointments: responses,
		Total:        len(responses),
	}
}
