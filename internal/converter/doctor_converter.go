package converter

import (
	"clinic-appointment-api/internal/delivery/dto"
	"clinic-appointment-api/internal/domain/entity"
	"clinic-appointment-api/internal/scheduling"
)

// DoctorToResponse converts a Doctor entity to DoctorResponse DTO
func DoctorToResponse(doctor *entity.Doctor) *dto.DoctorResponse {
	if doctor == nil {
		return nil
	}

	days := make([]int, len(doctor.AvailableDays))
	for i, d := range doctor.AvailableDays {
		days[i] = int(d)
	}

	return &dto.DoctorResponse{
		ID:               doctor.UserID,
		Email:            doctor.Email,
		FullName:         doctor.FullName,
		Specialization:   string(doctor.Specialization),
		AvailableDays:    days,
		TimeSlots:        doctor.TimeSlots,
		MaxPerDay:        doctor.MaxPerDay,
		UnavailableDates: doctor.UnavailableDates,
		ConsultationFee:  doctor.ConsultationFee,
		Biography:        doctor.Biography,
		Avatar:           doctor.Avatar,
		CreatedAt:        doctor.CreatedAt,
		UpdatedAt:        doctor.UpdatedAt,
	}
}

// DoctorsToListResponse converts a slice of Doctor entities to DoctorListResponse DTO
func DoctorsToListResponse(doctors []entity.Doctor) *dto.DoctorListResponse {
	responses := make([]dto.DoctorResponse, len(doctors))
	for i := range doctors {
		responses[i] = *DoctorToResponse(&doctors[i])
	}

	return &dto.DoctorListResponse{
		Doctors: responses,
		Total:   len(responses),
	}
}

// SlotsToResponse converts enumerated time slots to AvailableSlotsResponse DTO
func SlotsToResponse(doctor *entity.Doctor, date string, slots []scheduling.TimeSlot) *dto.AvailableSlotsResponse {
	responses := make([]dto.TimeSlotResponse, len(slots))
	for i, slot := range slots {
		responses[i] = dto.TimeSlotResponse{
			Time:      slot.Time,
			Available: slot.Available,
		}
	}

	return &dto.AvailableSlotsResponse{
		DoctorID: doctor.UserID,
		Date:     date,
		Slots:    responses,
	}
}
