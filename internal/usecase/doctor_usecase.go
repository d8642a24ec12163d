package usecase

import (
	"context"
	"errors"
	"time"

	"clinic-appointment-api/internal/converter"
	"clinic-appointment-api/internal/delivery/dto"
	"clinic-appointment-api/internal/domain/entity"
	"clinic-appointment-api/internal/domain/repository"
	"clinic-appointment-api/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrDoctorNotFound        = errors.New("doctor not found")
	ErrInvalidSpecialization = errors.New("invalid specialization")
	ErrInvalidFee            = errors.New("invalid consultation fee")
)

type DoctorUsecase interface {
	CreateDoctor(ctx context.Context, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error)
	GetDoctors(ctx context.Context) (*dto.DoctorListResponse, error)
	GetDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorResponse, error)
	UpdateDoctor(ctx context.Context, doctorID uuid.UUID, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error)
	DeleteDoctor(ctx context.Context, doctorID uuid.UUID) error
}

type doctorUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	userRepo     repository.UserRepository
	doctorRepo   repository.DoctorRepository
	auditService service.AuditService
}

func NewDoctorUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	doctorRepo repository.DoctorRepository,
	auditService service.AuditService,
) DoctorUsecase {
	return &doctorUsecase{
		db:           db,
		log:          log,
		userRepo:     userRepo,
		doctorRepo:   doctorRepo,
		auditService: auditService,
	}
}

// CreateDoctor creates a doctor account: a user row for authentication
// and the doctor profile holding the scheduling configuration, in one
// transaction.
func (u *doctorUsecase) CreateDoctor(ctx context.Context, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error) {
	specialization := entity.Specialization(req.Specialization)
	if !specialization.IsValid() {
		return nil, ErrInvalidSpecialization
	}

	fee, err := parseFee(req.ConsultationFee)
	if err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	actorID, _ := actorFromContext(ctx)

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user := &entity.User{
		Email:    req.Email,
		Password: string(hashedPassword),
		FullName: req.FullName,
		RoleID:   entity.RoleIDDoctor,
	}

	if err := u.userRepo.Create(tx, user); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed to create doctor user: %+v", err)
		return nil, err
	}

	doctor := &entity.Doctor{
		UserID:           user.ID,
		FullName:         req.FullName,
		Email:            req.Email,
		Specialization:   specialization,
		AvailableDays:    toWeekdayList(req.AvailableDays),
		TimeSlots:        entity.StringList(req.TimeSlots),
		MaxPerDay:        req.MaxPerDay,
		UnavailableDates: entity.StringList(req.UnavailableDates),
		ConsultationFee:  fee,
		Biography:        req.Biography,
		Avatar:           req.Avatar,
	}

	if err := u.doctorRepo.Create(tx, doctor); err != nil {
		u.log.Warnf("Failed to create doctor profile: %+v", err)
		return nil, err
	}

	if err := u.auditService.LogCreate(tx, actorID, entity.AuditActionDoctorCreate, "doctor", doctor.UserID.String(), doctor); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.DoctorToResponse(doctor), nil
}

func (u *doctorUsecase) GetDoctors(ctx context.Context) (*dto.DoctorListResponse, error) {
	doctors, err := u.doctorRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to list doctors: %+v", err)
		return nil, err
	}
	return converter.DoctorsToListResponse(doctors), nil
}

func (u *doctorUsecase) GetDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorResponse, error) {
	doctor, err := u.doctorRepo.FindByUserID(u.db.WithContext(ctx), doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}
	return converter.DoctorToResponse(doctor), nil
}

// UpdateDoctor applies a partial update to the doctor profile. Schedule
// changes only affect future bookings; existing appointments keep their
// slots even if those slots leave the configuration.
func (u *doctorUsecase) UpdateDoctor(ctx context.Context, doctorID uuid.UUID, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error) {
	actorID, _ := actorFromContext(ctx)

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	doctor, err := u.doctorRepo.FindByUserID(tx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	old := *doctor

	if req.FullName != "" {
		doctor.FullName = req.FullName
	}
	if req.Specialization != "" {
		specialization := entity.Specialization(req.Specialization)
		if !specialization.IsValid() {
			return nil, ErrInvalidSpecialization
		}
		doctor.Specialization = specialization
	}
	if req.AvailableDays != nil {
		doctor.AvailableDays = toWeekdayList(*req.AvailableDays)
	}
	if req.TimeSlots != nil {
		doctor.TimeSlots = entity.StringList(*req.TimeSlots)
	}
	if req.MaxPerDay != nil {
		doctor.MaxPerDay = *req.MaxPerDay
	}
	if req.UnavailableDates != nil {
		doctor.UnavailableDates = entity.StringList(*req.UnavailableDates)
	}
	if req.ConsultationFee != "" {
		fee, err := parseFee(req.ConsultationFee)
		if err != nil {
			return nil, err
		}
		doctor.ConsultationFee = fee
	}
	if req.Biography != nil {
		doctor.Biography = *req.Biography
	}
	if req.Avatar != nil {
		doctor.Avatar = *req.Avatar
	}

	if err := u.doctorRepo.Update(tx, doctor); err != nil {
		u.log.Warnf("Failed to update doctor %s: %+v", doctorID, err)
		return nil, err
	}

	if req.FullName != "" || req.IsActive != nil {
		user, err := u.userRepo.FindByID(tx, doctorID)
		if err != nil {
			return nil, err
		}
		if user != nil {
			if req.FullName != "" {
				user.FullName = req.FullName
			}
			if req.IsActive != nil {
				user.IsActive = req.IsActive
			}
			if err := u.userRepo.Update(tx, user); err != nil {
				u.log.Warnf("Failed to update doctor user %s: %+v", doctorID, err)
				return nil, err
			}
		}
	}

	if err := u.auditService.LogUpdate(tx, actorID, entity.AuditActionDoctorUpdate, "doctor", doctorID.String(), old, doctor); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.DoctorToResponse(doctor), nil
}

// DeleteDoctor removes the doctor profile and its user account.
// Appointments are kept: they carry name and specialization snapshots
// and stay meaningful without the doctor row.
func (u *doctorUsecase) DeleteDoctor(ctx context.Context, doctorID uuid.UUID) error {
	actorID, _ := actorFromContext(ctx)

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	doctor, err := u.doctorRepo.FindByUserID(tx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return err
	}
	if doctor == nil {
		return ErrDoctorNotFound
	}

	if _, err := u.doctorRepo.Delete(tx, doctorID); err != nil {
		u.log.Warnf("Failed to delete doctor %s: %+v", doctorID, err)
		return err
	}

	if _, err := u.userRepo.Delete(tx, doctorID); err != nil {
		u.log.Warnf("Failed to delete doctor user %s: %+v", doctorID, err)
		return err
	}

	if err := u.auditService.LogDelete(tx, actorID, entity.AuditActionDoctorDelete, "doctor", doctorID.String(), doctor); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	return nil
}

func toWeekdayList(days []int) entity.WeekdayList {
	list := make(entity.WeekdayList, len(days))
	for i, d := range days {
		list[i] = time.Weekday(d)
	}
	return list
}

func parseFee(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	fee, err := decimal.NewFromString(raw)
	if err != nil || fee.IsNegative() {
		return decimal.Decimal{}, ErrInvalidFee
	}
	return fee, nil
}
