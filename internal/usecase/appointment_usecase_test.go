package usecase

import (
	"testing"

	"clinic-appointment-api/internal/delivery/dto"
	"clinic-appointment-api/internal/domain/entity"
	"clinic-appointment-api/internal/repository"
	"clinic-appointment-api/internal/scheduling"
	"clinic-appointment-api/internal/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAppointmentUsecase(t *testing.T, db *gorm.DB) AppointmentUsecase {
	t.Helper()

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	return NewAppointmentUsecase(
		db,
		log,
		repository.NewAppointmentRepository(),
		service.NewAuditService(log, repository.NewAuditLogRepository()),
		service.NewSlotCacheService(newTestRedis(t), log),
	)
}

func expectStatusUpdateCommit(mock sqlmock.Sqlmock) {
	mock.ExpectExec(`UPDATE "appointments" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "audit_logs"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectCommit()
}

func TestUpdateStatus_DoctorAcceptsOwnAppointment(t *testing.T) {
	db, mock := newMockDB(t)
	uc := newAppointmentUsecase(t, db)

	doctorID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "appointments"`).
		WillReturnRows(appointmentRow(sqlmock.NewRows(appointmentColumns()), doctorID, uuid.New(), "2030-06-03", "09:00 AM", entity.AppointmentStatusPending))
	expectStatusUpdateCommit(mock)

	resp, err := uc.UpdateStatus(authedContext(doctorID, entity.RoleIDDoctor), uuid.New(), &dto.UpdateAppointmentStatusRequest{
		Status: "accepted",
	})
	require.NoError(t, err)

	assert.Equal(t, string(entity.AppointmentStatusAccepted), resp.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus_PatientCancelsOwnPending(t *testing.T) {
	db, mock := newMockDB(t)
	uc := newAppointmentUsecase(t, db)

	patientID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "appointments"`).
		WillReturnRows(appointmentRow(sqlmock.NewRows(appointmentColumns()), uuid.New(), patientID, "2030-06-03", "09:00 AM", entity.AppointmentStatusPending))
	expectStatusUpdateCommit(mock)

	resp, err := uc.UpdateStatus(authedContext(patientID, entity.RoleIDPatient), uuid.New(), &dto.UpdateAppointmentStatusRequest{
		Status: "rejected",
	})
	require.NoError(t, err)

	assert.Equal(t, string(entity.AppointmentStatusRejected), resp.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus_PatientCannotAccept(t *testing.T) {
	db, mock := newMockDB(t)
	uc := newAppointmentUsecase(t, db)

	patientID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "appointments"`).
		WillReturnRows(appointmentRow(sqlmock.NewRows(appointmentColumns()), uuid.New(), patientID, "2030-06-03", "09:00 AM", entity.AppointmentStatusPending))
	mock.ExpectRollback()

	_, err := uc.UpdateStatus(authedContext(patientID, entity.RoleIDPatient), uuid.New(), &dto.UpdateAppointmentStatusRequest{
		Status: "accepted",
	})
	assert.ErrorIs(t, err, scheduling.ErrTransitionNotAllowed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus_DoctorCannotLeaveTerminalState(t *testing.T) {
	db, mock := newMockDB(t)
	uc := newAppointmentUsecase(t, db)

	doctorID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "appointments"`).
		WillReturnRows(appointmentRow(sqlmock.NewRows(appointmentColumns()), doctorID, uuid.New(), "2030-06-03", "09:00 AM", entity.AppointmentStatusCompleted))
	mock.ExpectRollback()

	_, err := uc.UpdateStatus(authedContext(doctorID, entity.RoleIDDoctor), uuid.New(), &dto.UpdateAppointmentStatusRequest{
		Status: "accepted",
	})
	assert.ErrorIs(t, err, scheduling.ErrTransitionNotAllowed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus_OtherDoctorDenied(t *testing.T) {
	db, mock := newMockDB(t)
	uc := newAppointmentUsecase(t, db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "appointments"`).
		WillReturnRows(appointmentRow(sqlmock.NewRows(appointmentColumns()), uuid.New(), uuid.New(), "2030-06-03", "09:00 AM", entity.AppointmentStatusPending))
	mock.ExpectRollback()

	_, err := uc.UpdateStatus(authedContext(uuid.New(), entity.RoleIDDoctor), uuid.New(), &dto.UpdateAppointmentStatusRequest{
		Status: "accepted",
	})
	assert.ErrorIs(t, err, scheduling.ErrTransitionNotAllowed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	uc := newAppointmentUsecase(t, db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "appointments"`).
		WillReturnRows(sqlmock.NewRows(appointmentColumns()))
	mock.ExpectRollback()

	_, err := uc.UpdateStatus(authedContext(uuid.New(), entity.RoleIDAdmin), uuid.New(), &dto.UpdateAppointmentStatusRequest{
		Status: "accepted",
	})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAppointment_PatientCannotReadOthers(t *testing.T) {
	db, mock := newMockDB(t)
	uc := newAppointmentUsecase(t, db)

	mock.ExpectQuery(`SELECT (.+) FROM "appointments"`).
		WillReturnRows(appointmentRow(sqlmock.NewRows(appointmentColumns()), uuid.New(), uuid.New(), "2030-06-03", "09:00 AM", entity.AppointmentStatusPending))

	_, err := uc.GetAppointment(authedContext(uuid.New(), entity.RoleIDPatient), uuid.New())
	assert.ErrorIs(t, err, ErrAppointmentAccessDenied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAppointments_RoleScoping(t *testing.T) {
	t.Run("patient sees own appointments", func(t *testing.T) {
		db, mock := newMockDB(t)
		uc := newAppointmentUsecase(t, db)

		patientID := uuid.New()

		mock.ExpectQuery(`SELECT (.+) FROM "appointments" WHERE patient_id`).
			WillReturnRows(appointmentRow(sqlmock.NewRows(appointmentColumns()), uuid.New(), patientID, "2030-06-03", "09:00 AM", entity.AppointmentStatusPending))

		resp, err := uc.GetAppointments(authedContext(patientID, entity.RoleIDPatient), nil)
		require.NoError(t, err)

		assert.Equal(t, 1, resp.Total)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("doctor sees own appointments", func(t *testing.T) {
		db, mock := newMockDB(t)
		uc := newAppointmentUsecase(t, db)

		doctorID := uuid.New()

		mock.ExpectQuery(`SELECT (.+) FROM "appointments" WHERE doctor_id`).
			WillReturnRows(appointmentRow(sqlmock.NewRows(appointmentColumns()), doctorID, uuid.New(), "2030-06-03", "09:00 AM", entity.AppointmentStatusPending))

		resp, err := uc.GetAppointments(authedContext(doctorID, entity.RoleIDDoctor), nil)
		require.NoError(t, err)

		assert.Equal(t, 1, resp.Total)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("admin filter narrows by status", func(t *testing.T) {
		db, mock := newMockDB(t)
		uc := newAppointmentUsecase(t, db)

		mock.ExpectQuery(`SELECT (.+) FROM "appointments" WHERE status`).
			WillReturnRows(sqlmock.NewRows(appointmentColumns()))

		resp, err := uc.GetAppointments(authedContext(uuid.New(), entity.RoleIDAdmin), &dto.AppointmentFilterQuery{Status: "pending"})
		require.NoError(t, err)

		assert.Equal(t, 0, resp.Total)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDeleteAppointment_Admin(t *testing.T) {
	db, mock := newMockDB(t)
	uc := newAppointmentUsecase(t, db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "appointments"`).
		WillReturnRows(appointmentRow(sqlmock.NewRows(appointmentColumns()), uuid.New(), uuid.New(), "2030-06-03", "09:00 AM", entity.AppointmentStatusPending))
	mock.ExpectExec(`DELETE FROM "appointments"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "audit_logs"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectCommit()

	err := uc.DeleteAppointment(authedContext(uuid.New(), entity.RoleIDAdmin), uuid.New())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
