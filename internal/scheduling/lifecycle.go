package scheduling

import (
	"errors"

	"clinic-appointment-api/internal/domain/entity"
)

var (
	ErrInvalidStatus        = errors.New("invalid appointment status")
	ErrTransitionNotAllowed = errors.New("status change not permitted for this actor")
)

// CanTransition decides whether an actor may move an appointment from
// one status to another. isOwner means the actor is the appointment's
// patient (for the patient role) or its doctor (for the doctor role).
//
// Authority table:
//   - admin: any status, unconditionally
//   - owning doctor: accepted, rejected or completed, from any
//     non-terminal current status
//   - owning patient: pending -> rejected only (cancellation)
//
// Returns ErrInvalidStatus for a target outside the enumerated set,
// ErrTransitionNotAllowed for an authorization failure.
func CanTransition(roleID int, isOwner bool, from, to entity.AppointmentStatus) error {
	if _, ok := entity.ParseAppointmentStatus(string(to)); !ok {
		return ErrInvalidStatus
	}

	switch roleID {
	case entity.RoleIDAdmin:
		return nil

	case entity.RoleIDDoctor:
		if !isOwner {
			return ErrTransitionNotAllowed
		}
		if from.IsTerminal() {
			return ErrTransitionNotAllowed
		}
		switch to {
		case entity.AppointmentStatusAccepted, entity.AppointmentStatusRejected, entity.AppointmentStatusCompleted:
			return nil
		default:
			return ErrTransitionNotAllowed
		}

	case entity.RoleIDPatient:
		if !isOwner {
			return ErrTransitionNotAllowed
		}
		if from == entity.AppointmentStatusPending && to == entity.AppointmentStatusRejected {
			return nil
		}
		return ErrTransitionNotAllowed

	default:
		return ErrTransitionNotAllowed
	}
}
