package usecase

import (
	"context"
	"errors"

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
	ErrAppointmentNotFound     = errors.New("appointment not found")
	ErrAppointmentAccessDenied = errors.New("appointment does not belong to you")
)

type AppointmentUsecase interface {
	GetAppointments(ctx context.Context, filter *dto.AppointmentFilterQuery) (*dto.AppointmentListResponse, error)
	GetAppointment(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error)
	DeleteAppointment(ctx context.Context, id uuid.UUID) error
}

type appointmentUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	auditService    service.AuditService
	slotCache       *service.SlotCacheService
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	auditService service.AuditService,
	slotCache *service.SlotCacheService,
) AppointmentUsecase {
	return &appointmentUsecase{
		db:              db,
		log:             log,
		appointmentRepo: appointmentRepo,
		auditService:    auditService,
		slotCache:       slotCache,
	}
}

// GetAppointments lists appointments scoped to the caller's role:
// admins see everything and may filter, doctors and patients only see
// their own.
func (u *appointmentUsecase) GetAppointments(ctx context.Context, filter *dto.AppointmentFilterQuery) (*dto.AppointmentListResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}
	roleID, ok := middleware.GetRoleIDFromContext(ctx)
	if !ok {
		return nil, errors.New("role not found in context")
	}

	var (
		appointments []entity.Appointment
		err          error
	)

	switch roleID {
	case entity.RoleIDAdmin:
		appointments, err = u.appointmentRepo.FindAll(u.db.WithContext(ctx), toAppointmentFilter(filter))
	case entity.RoleIDDoctor:
		appointments, err = u.appointmentRepo.FindByDoctorID(u.db.WithContext(ctx), userID)
	default:
		appointments, err = u.appointmentRepo.FindByPatientID(u.db.WithContext(ctx), userID)
	}
	if err != nil {
		u.log.Warnf("Failed to list appointments for user %s: %+v", userID, err)
		return nil, err
	}

	return converter.AppointmentsToListResponse(appointments), nil
}

func (u *appointmentUsecase) GetAppointment(ctx context.Context, id uuid.UUID) (*dto.AppointmentResponse, error) {
	appointment, err := u.findAccessible(ctx, u.db.WithContext(ctx), id)
	if err != nil {
		return nil, err
	}
	return converter.AppointmentToResponse(appointment), nil
}

// UpdateStatus moves an appointment through its lifecycle. Authority is
// decided by the status state machine; the repository write itself is
// unconditional.
func (u *appointmentUsecase) UpdateStatus(ctx context.Context, id uuid.UUID, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}
	roleID, ok := middleware.GetRoleIDFromContext(ctx)
	if !ok {
		return nil, errors.New("role not found in context")
	}

	newStatus, ok := entity.ParseAppointmentStatus(req.Status)
	if !ok {
		return nil, scheduling.ErrInvalidStatus
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.appointmentRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	isOwner := false
	switch roleID {
	case entity.RoleIDDoctor:
		isOwner = appointment.DoctorID == userID
	case entity.RoleIDPatient:
		isOwner = appointment.PatientID == userID
	}

	if err := scheduling.CanTransition(roleID, isOwner, appointment.Status, newStatus); err != nil {
		return nil, err
	}

	oldStatus := appointment.Status

	if _, err := u.appointmentRepo.UpdateStatus(tx, id, newStatus); err != nil {
		u.log.Warnf("Failed to update appointment %s status: %+v", id, err)
		return nil, err
	}
	appointment.Status = newStatus

	if err := u.auditService.LogUpdate(tx, &userID, entity.AuditActionAppointmentStatus, "appointment", id.String(), string(oldStatus), string(newStatus)); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	// Rejecting or completing frees the slot; the cached listing for
	// that day is stale either way.
	u.slotCache.Invalidate(ctx, appointment.DoctorID, appointment.Date)

	u.log.Infof("Appointment %s status: %s -> %s (by user %s)", id, oldStatus, newStatus, userID)
	return converter.AppointmentToResponse(appointment), nil
}

// DeleteAppointment removes an appointment outright. Reserved for
// admins; the route is guarded by the role middleware.
func (u *appointmentUsecase) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	actorID, _ := actorFromContext(ctx)

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	appointment, err := u.appointmentRepo.FindByID(tx, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return err
	}
	if appointment == nil {
		return ErrAppointmentNotFound
	}

	if _, err := u.appointmentRepo.Delete(tx, id); err != nil {
		u.log.Warnf("Failed to delete appointment %s: %+v", id, err)
		return err
	}

	if err := u.auditService.LogDelete(tx, actorID, entity.AuditActionAppointmentDelete, "appointment", id.String(), appointment); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	u.slotCache.Invalidate(ctx, appointment.DoctorID, appointment.Date)
	return nil
}

// findAccessible loads an appointment and enforces the read access rule:
// admins read anything, doctors and patients only their own.
func (u *appointmentUsecase) findAccessible(ctx context.Context, db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}
	roleID, ok := middleware.GetRoleIDFromContext(ctx)
	if !ok {
		return nil, errors.New("role not found in context")
	}

	appointment, err := u.appointmentRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	switch roleID {
	case entity.RoleIDAdmin:
	case entity.RoleIDDoctor:
		if appointment.DoctorID != userID {
			return nil, ErrAppointmentAccessDenied
		}
	default:
		if appointment.PatientID != userID {
			return nil, ErrAppointmentAccessDenied
		}
	}

	return appointment, nil
}

func toAppointmentFilter(q *dto.AppointmentFilterQuery) *entity.AppointmentFilter {
	if q == nil {
		return nil
	}
	return &entity.AppointmentFilter{
		DateFrom:       q.DateFrom,
		DateTo:         q.DateTo,
		DoctorName:     q.DoctorName,
		Specialization: q.Specialization,
		Status:         q.Status,
	}
}
