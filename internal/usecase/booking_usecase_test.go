package usecase

import (
	"context"
	"testing"
	"time"

	"clinic-appointment-api/internal/delivery/dto"
	"clinic-appointment-api/internal/delivery/http/middleware"
	"clinic-appointment-api/internal/domain/entity"
	"clinic-appointment-api/internal/repository"
	"clinic-appointment-api/internal/scheduling"
	"clinic-appointment-api/internal/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return db, mock
}

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client
}

// authedContext builds a request context the way the auth middleware
// does after validating a token.
func authedContext(userID uuid.UUID, roleID int) context.Context {
	ctx := context.WithValue(context.Background(), middleware.UserIDKey, userID)
	ctx = context.WithValue(ctx, middleware.RoleIDKey, roleID)
	return ctx
}

func userRows(id uuid.UUID, roleID int, fullName string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "role_id", "email", "password", "full_name", "is_active", "created_at", "updated_at"}).
		AddRow(id, roleID, "someone@example.com", "hashed", fullName, true, time.Now(), time.Now())
}

func roleRows(roleID int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "role_name", "description"}).
		AddRow(roleID, entity.RoleNameByID(roleID), "")
}

// doctorRows builds a doctors result set. The doctor works every day of
// the week so tests stay independent of the calendar.
func doctorRows(id uuid.UUID, maxPerDay int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"user_id", "full_name", "email", "specialization", "available_days", "time_slots",
		"max_per_day", "unavailable_dates", "consultation_fee", "biography", "avatar", "created_at", "updated_at",
	}).AddRow(
		id, "Dr. Alice Chen", "alice@example.com", "Cardiology",
		[]byte(`[0,1,2,3,4,5,6]`), []byte(`["09:00 AM","10:00 AM","11:00 AM"]`),
		maxPerDay, []byte(`[]`), "150.00", "", "", time.Now(), time.Now(),
	)
}

func appointmentColumns() []string {
	return []string{
		"id", "patient_id", "patient_name", "doctor_id", "doctor_name",
		"doctor_specialization", "date", "time", "status", "created_at", "updated_at",
	}
}

func appointmentRow(rows *sqlmock.Rows, doctorID, patientID uuid.UUID, date, slot string, status entity.AppointmentStatus) *sqlmock.Rows {
	return rows.AddRow(
		uuid.New(), patientID, "Bob Patient", doctorID, "Dr. Alice Chen",
		"Cardiology", date, slot, string(status), time.Now(), time.Now(),
	)
}

func futureDate(daysAhead int) string {
	return time.Now().UTC().AddDate(0, 0, daysAhead).Format(scheduling.DateLayout)
}

func newBookingUsecase(t *testing.T, db *gorm.DB) BookingUsecase {
	t.Helper()

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	lockService := service.NewBookingLockService(log)
	t.Cleanup(lockService.Stop)

	return NewBookingUsecase(
		db,
		log,
		repository.NewUserRepository(),
		repository.NewDoctorRepository(),
		repository.NewAppointmentRepository(),
		service.NewAuditService(log, repository.NewAuditLogRepository()),
		lockService,
		service.NewSlotCacheService(newTestRedis(t), log),
	)
}

func expectPatientAndDoctorLookup(mock sqlmock.Sqlmock, patientID, doctorID uuid.UUID, maxPerDay int) {
	mock.ExpectQuery(`SELECT (.+) FROM "users"`).WillReturnRows(userRows(patientID, entity.RoleIDPatient, "Bob Patient"))
	mock.ExpectQuery(`SELECT (.+) FROM "roles"`).WillReturnRows(roleRows(entity.RoleIDPatient))
	mock.ExpectQuery(`SELECT (.+) FROM "doctors"`).WillReturnRows(doctorRows(doctorID, maxPerDay))
}

func TestCreateAppointment_Success(t *testing.T) {
	db, mock := newMockDB(t)
	uc := newBookingUsecase(t, db)

	patientID := uuid.New()
	doctorID := uuid.New()
	date := futureDate(7)

	expectPatientAndDoctorLookup(mock, patientID, doctorID, 3)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "appointments" (.+) FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows(appointmentColumns()))
	mock.ExpectQuery(`INSERT INTO "appointments"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))
	mock.ExpectQuery(`INSERT INTO "audit_logs"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectCommit()

	resp, err := uc.CreateAppointment(authedContext(patientID, entity.RoleIDPatient), &dto.CreateAppointmentRequest{
		DoctorID: doctorID.String(),
		Date:     date,
		Time:     "09:00 AM",
	})
	require.NoError(t, err)

	assert.Equal(t, patientID, resp.PatientID)
	assert.Equal(t, doctorID, resp.DoctorID)
	assert.Equal(t, "Bob Patient", resp.PatientName)
	assert.Equal(t, "Dr. Alice Chen", resp.DoctorName)
	assert.Equal(t, "Cardiology", resp.DoctorSpecialization)
	assert.Equal(t, date, resp.Date)
	assert.Equal(t, "09:00 AM", resp.Time)
	assert.Equal(t, string(entity.AppointmentStatusPending), resp.Status)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAppointment_SlotAlreadyBooked(t *testing.T) {
	db, mock := newMockDB(t)
	uc := newBookingUsecase(t, db)

	patientID := uuid.New()
	doctorID := uuid.New()
	date := futureDate(7)

	expectPatientAndDoctorLookup(mock, patientID, doctorID, 3)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "appointments" (.+) FOR UPDATE`).
		WillReturnRows(appointmentRow(sqlmock.NewRows(appointmentColumns()), doctorID, uuid.New(), date, "09:00 AM", entity.AppointmentStatusPending))
	mock.ExpectRollback()

	_, err := uc.CreateAppointment(authedContext(patientID, entity.RoleIDPatient), &dto.CreateAppointmentRequest{
		DoctorID: doctorID.String(),
		Date:     date,
		Time:     "09:00 AM",
	})
	assert.ErrorIs(t, err, scheduling.ErrSlotAlreadyBooked)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAppointment_DailyCapacityReached(t *testing.T) {
	db, mock := newMockDB(t)
	uc := newBookingUsecase(t, db)

	patientID := uuid.New()
	doctorID := uuid.New()
	date := futureDate(7)

	// Capacity one, taken by a different slot than the one requested.
	expectPatientAndDoctorLookup(mock, patientID, doctorID, 1)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "appointments" (.+) FOR UPDATE`).
		WillReturnRows(appointmentRow(sqlmock.NewRows(appointmentColumns()), doctorID, uuid.New(), date, "10:00 AM", entity.AppointmentStatusAccepted))
	mock.ExpectRollback()

	_, err := uc.CreateAppointment(authedContext(patientID, entity.RoleIDPatient), &dto.CreateAppointmentRequest{
		DoctorID: doctorID.String(),
		Date:     date,
		Time:     "09:00 AM",
	})
	assert.ErrorIs(t, err, scheduling.ErrDailyCapacityReached)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAppointment_PastDate(t *testing.T) {
	db, mock := newMockDB(t)
	uc := newBookingUsecase(t, db)

	patientID := uuid.New()
	doctorID := uuid.New()

	expectPatientAndDoctorLookup(mock, patientID, doctorID, 3)

	_, err := uc.CreateAppointment(authedContext(patientID, entity.RoleIDPatient), &dto.CreateAppointmentRequest{
		DoctorID: doctorID.String(),
		Date:     "2020-01-01",
		Time:     "09:00 AM",
	})
	assert.ErrorIs(t, err, ErrDatePast)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAppointment_InvalidSlot(t *testing.T) {
	db, mock := newMockDB(t)
	uc := newBookingUsecase(t, db)

	patientID := uuid.New()
	doctorID := uuid.New()
	date := futureDate(7)

	expectPatientAndDoctorLookup(mock, patientID, doctorID, 3)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "appointments" (.+) FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows(appointmentColumns()))
	mock.ExpectRollback()

	_, err := uc.CreateAppointment(authedContext(patientID, entity.RoleIDPatient), &dto.CreateAppointmentRequest{
		DoctorID: doctorID.String(),
		Date:     date,
		Time:     "08:00 PM",
	})
	assert.ErrorIs(t, err, scheduling.ErrInvalidTimeSlot)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAppointment_DoctorNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	uc := newBookingUsecase(t, db)

	patientID := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM "users"`).WillReturnRows(userRows(patientID, entity.RoleIDPatient, "Bob Patient"))
	mock.ExpectQuery(`SELECT (.+) FROM "roles"`).WillReturnRows(roleRows(entity.RoleIDPatient))
	mock.ExpectQuery(`SELECT (.+) FROM "doctors"`).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))

	_, err := uc.CreateAppointment(authedContext(patientID, entity.RoleIDPatient), &dto.CreateAppointmentRequest{
		DoctorID: uuid.New().String(),
		Date:     futureDate(7),
		Time:     "09:00 AM",
	})
	assert.ErrorIs(t, err, ErrDoctorNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAvailableSlots_MarksBookedSlots(t *testing.T) {
	db, mock := newMockDB(t)
	uc := newBookingUsecase(t, db)

	doctorID := uuid.New()
	date := futureDate(7)

	mock.ExpectQuery(`SELECT (.+) FROM "doctors"`).WillReturnRows(doctorRows(doctorID, 3))
	mock.ExpectQuery(`SELECT (.+) FROM "appointments"`).
		WillReturnRows(appointmentRow(sqlmock.NewRows(appointmentColumns()), doctorID, uuid.New(), date, "10:00 AM", entity.AppointmentStatusPending))

	resp, err := uc.GetAvailableSlots(context.Background(), doctorID, date)
	require.NoError(t, err)

	require.Len(t, resp.Slots, 3)
	assert.Equal(t, dto.TimeSlotResponse{Time: "09:00 AM", Available: true}, resp.Slots[0])
	assert.Equal(t, dto.TimeSlotResponse{Time: "10:00 AM", Available: false}, resp.Slots[1])
	assert.Equal(t, dto.TimeSlotResponse{Time: "11:00 AM", Available: true}, resp.Slots[2])

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAvailableSlots_SecondReadServedFromCache(t *testing.T) {
	db, mock := newMockDB(t)
	uc := newBookingUsecase(t, db)

	doctorID := uuid.New()
	date := futureDate(7)

	// The doctor row is fetched on every call; the appointments query
	// runs only once because the second call hits the cache.
	mock.ExpectQuery(`SELECT (.+) FROM "doctors"`).WillReturnRows(doctorRows(doctorID, 3))
	mock.ExpectQuery(`SELECT (.+) FROM "appointments"`).
		WillReturnRows(sqlmock.NewRows(appointmentColumns()))
	mock.ExpectQuery(`SELECT (.+) FROM "doctors"`).WillReturnRows(doctorRows(doctorID, 3))

	first, err := uc.GetAvailableSlots(context.Background(), doctorID, date)
	require.NoError(t, err)

	second, err := uc.GetAvailableSlots(context.Background(), doctorID, date)
	require.NoError(t, err)

	assert.Equal(t, first.Slots, second.Slots)
	assert.NoError(t, mock.ExpectationsWereMet())
}
