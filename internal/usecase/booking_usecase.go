package usecase

import (
	"context"
	"errors"
	"time"

	"clinic-appointment-api/internal/converter"
	"clinic-appointment-api/internal/delivery/dto"
	"clinic-appointment-api/internal/delivery/http/middleware"
	"clinic-appointment-api/internal/domain/entity"
	"clinic-appointment-api/internal/domain/repository"
	"clinic-appointment-api/internal/scheduling"
	"clinic-appointment-api/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrDatePast = errors.New("cannot book an appointment in the past")
)

type BookingUsecase interface {
	GetAvailableSlots(ctx context.Context, doctorID uuid.UUID, date string) (*dto.AvailableSlotsResponse, error)
	CreateAppointment(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
}

type bookingUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	userRepo        repository.UserRepository
	doctorRepo      repository.DoctorRepository
	appointmentRepo repository.AppointmentRepository
	auditService    service.AuditService
	lockService     *service.BookingLockService
	slotCache       *service.SlotCacheService
}

func NewBookingUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	doctorRepo repository.DoctorRepository,
	appointmentRepo repository.AppointmentRepository,
	auditService service.AuditService,
	lockService *service.BookingLockService,
	slotCache *service.SlotCacheService,
) BookingUsecase {
	return &bookingUsecase{
		db:              db,
		log:             log,
		userRepo:        userRepo,
		doctorRepo:      doctorRepo,
		appointmentRepo: appointmentRepo,
		auditService:    auditService,
		lockService:     lockService,
		slotCache:       slotCache,
	}
}

// GetAvailableSlots returns the doctor's slots for a date, each marked
// available or taken. Reads go through a short-TTL cache; a momentarily
// stale listing is acceptable because the booking path re-checks under
// lock.
func (u *bookingUsecase) GetAvailableSlots(ctx context.Context, doctorID uuid.UUID, dateStr string) (*dto.AvailableSlotsResponse, error) {
	doctor, err := u.doctorRepo.FindByUserID(u.db.WithContext(ctx), doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	date, err := scheduling.ParseDate(dateStr)
	if err != nil {
		return nil, err
	}

	if slots, ok := u.slotCache.Get(ctx, doctorID, dateStr); ok {
		return converter.SlotsToResponse(doctor, dateStr, slots), nil
	}

	appointments, err := u.appointmentRepo.FindCommittedForDay(u.db.WithContext(ctx), doctorID, dateStr)
	if err != nil {
		u.log.Warnf("Failed to load appointments for doctor %s on %s: %+v", doctorID, dateStr, err)
		return nil, err
	}

	slots := scheduling.EnumerateSlots(doctor, date, appointments)
	u.slotCache.Set(ctx, doctorID, dateStr, slots)

	return converter.SlotsToResponse(doctor, dateStr, slots), nil
}

// CreateAppointment books a slot for the logged-in patient.
//
// Flow:
//  1. Load patient and doctor, validate the date
//  2. Acquire the doctor+date lock, then open the transaction
//  3. Read committed appointments FOR UPDATE
//  4. Run the admission checks against that snapshot
//  5. Insert with name/specialization snapshots, write the audit entry
//  6. Commit; a unique violation from a racing process maps to
//     ErrSlotAlreadyBooked
func (u *bookingUsecase) CreateAppointment(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	patient, err := u.userRepo.FindByID(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", userID, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrUserNotFound
	}

	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		return nil, ErrDoctorNotFound
	}

	doctor, err := u.doctorRepo.FindByUserID(u.db.WithContext(ctx), doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	date, err := scheduling.ParseDate(req.Date)
	if err != nil {
		return nil, err
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	if date.Before(today) {
		return nil, ErrDatePast
	}

	// Lock ordering: doctor+date mutex first, then the transaction.
	unlock := u.lockService.Lock(doctorID, req.Date)
	defer unlock()

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointments, err := u.appointmentRepo.FindCommittedForDay(tx, doctorID, req.Date)
	if err != nil {
		u.log.Warnf("Failed to load appointments for doctor %s on %s: %+v", doctorID, req.Date, err)
		return nil, err
	}

	if err := scheduling.CheckAdmission(doctor, date, req.Time, appointments); err != nil {
		return nil, err
	}

	appointment := &entity.Appointment{
		PatientID:            patient.ID,
		PatientName:          patient.FullName,
		DoctorID:             doctor.UserID,
		DoctorName:           doctor.FullName,
		DoctorSpecialization: doctor.Specialization,
		Date:                 req.Date,
		Time:                 req.Time,
		Status:               entity.AppointmentStatusPending,
	}

	if err := u.appointmentRepo.Create(tx, appointment); err != nil {
		if isDuplicateKeyError(err, "active_slot") {
			return nil, scheduling.ErrSlotAlreadyBooked
		}
		u.log.Warnf("Failed to create appointment: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogCreate(tx, &userID, entity.AuditActionAppointmentCreate, "appointment", appointment.ID.String(), appointment); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		if isDuplicateKeyError(err, "active_slot") {
			return nil, scheduling.ErrSlotAlreadyBooked
		}
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.slotCache.Invalidate(ctx, doctorID, req.Date)

	u.log.Infof("Appointment created: id=%s, doctor=%s, date=%s, time=%s", appointment.ID, doctorID, req.Date, req.Time)
	return converter.AppointmentToResponse(appointment), nil
}
