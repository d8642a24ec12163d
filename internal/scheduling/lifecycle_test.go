package scheduling

import (
	"testing"

	"clinic-appointment-api/internal/domain/entity"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		roleID  int
		isOwner bool
		from    entity.AppointmentStatus
		to      entity.AppointmentStatus
		wantErr error
	}{
		// Doctor authority
		{name: "doctor accepts pending", roleID: entity.RoleIDDoctor, isOwner: true, from: entity.AppointmentStatusPending, to: entity.AppointmentStatusAccepted},
		{name: "doctor rejects pending", roleID: entity.RoleIDDoctor, isOwner: true, from: entity.AppointmentStatusPending, to: entity.AppointmentStatusRejected},
		{name: "doctor completes accepted", roleID: entity.RoleIDDoctor, isOwner: true, from: entity.AppointmentStatusAccepted, to: entity.AppointmentStatusCompleted},
		{name: "doctor rejects accepted", roleID: entity.RoleIDDoctor, isOwner: true, from: entity.AppointmentStatusAccepted, to: entity.AppointmentStatusRejected},
		{name: "doctor cannot reset to pending", roleID: entity.RoleIDDoctor, isOwner: true, from: entity.AppointmentStatusAccepted, to: entity.AppointmentStatusPending, wantErr: ErrTransitionNotAllowed},
		{name: "doctor cannot revive rejected", roleID: entity.RoleIDDoctor, isOwner: true, from: entity.AppointmentStatusRejected, to: entity.AppointmentStatusAccepted, wantErr: ErrTransitionNotAllowed},
		{name: "doctor cannot touch completed", roleID: entity.RoleIDDoctor, isOwner: true, from: entity.AppointmentStatusCompleted, to: entity.AppointmentStatusRejected, wantErr: ErrTransitionNotAllowed},
		{name: "unrelated doctor denied", roleID: entity.RoleIDDoctor, isOwner: false, from: entity.AppointmentStatusAccepted, to: entity.AppointmentStatusCompleted, wantErr: ErrTransitionNotAllowed},

		// Patient authority
		{name: "patient cancels pending", roleID: entity.RoleIDPatient, isOwner: true, from: entity.AppointmentStatusPending, to: entity.AppointmentStatusRejected},
		{name: "patient cannot cancel accepted", roleID: entity.RoleIDPatient, isOwner: true, from: entity.AppointmentStatusAccepted, to: entity.AppointmentStatusRejected, wantErr: ErrTransitionNotAllowed},
		{name: "patient cannot accept", roleID: entity.RoleIDPatient, isOwner: true, from: entity.AppointmentStatusPending, to: entity.AppointmentStatusAccepted, wantErr: ErrTransitionNotAllowed},
		{name: "patient cannot complete", roleID: entity.RoleIDPatient, isOwner: true, from: entity.AppointmentStatusAccepted, to: entity.AppointmentStatusCompleted, wantErr: ErrTransitionNotAllowed},
		{name: "unrelated patient denied", roleID: entity.RoleIDPatient, isOwner: false, from: entity.AppointmentStatusPending, to: entity.AppointmentStatusRejected, wantErr: ErrTransitionNotAllowed},

		// Admin override
		{name: "admin sets any status", roleID: entity.RoleIDAdmin, isOwner: false, from: entity.AppointmentStatusCompleted, to: entity.AppointmentStatusPending},
		{name: "admin revives rejected", roleID: entity.RoleIDAdmin, isOwner: false, from: entity.AppointmentStatusRejected, to: entity.AppointmentStatusAccepted},

		// Validation
		{name: "unknown target status", roleID: entity.RoleIDAdmin, isOwner: true, from: entity.AppointmentStatusPending, to: "cancelled", wantErr: ErrInvalidStatus},
		{name: "empty target status", roleID: entity.RoleIDDoctor, isOwner: true, from: entity.AppointmentStatusPending, to: "", wantErr: ErrInvalidStatus},
		{name: "unknown role denied", roleID: 99, isOwner: true, from: entity.AppointmentStatusPending, to: entity.AppointmentStatusAccepted, wantErr: ErrTransitionNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanTransition(tt.roleID, tt.isOwner, tt.from, tt.to)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAppointmentStatusHelpers(t *testing.T) {
	assert.True(t, entity.AppointmentStatusRejected.IsTerminal())
	assert.True(t, entity.AppointmentStatusCompleted.IsTerminal())
	assert.False(t, entity.AppointmentStatusPending.IsTerminal())
	assert.False(t, entity.AppointmentStatusAccepted.IsTerminal())

	assert.True(t, entity.AppointmentStatusPending.ConsumesSlot())
	assert.True(t, entity.AppointmentStatusAccepted.ConsumesSlot())
	assert.False(t, entity.AppointmentStatusRejected.ConsumesSlot())
	assert.False(t, entity.AppointmentStatusCompleted.ConsumesSlot())
}
