//go:build unit

package appointment_test

import (
	"strings"
	"testing"
	"time"

	"salon-scheduler/internal/domain/appointment"
	"salon-scheduler/internal/domain/schedule"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	tenAM    = time.Date(2026, 2, 5, 13, 0, 0, 0, time.UTC)
	tenSlot  = schedule.Interval{Start: tenAM, End: tenAM.Add(time.Hour)}
	issuedAt = time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
)

func newToken(t *testing.T) appointment.ManagementToken {
	t.Helper()
	tok, err := appointment.NewManagementToken(strings.Repeat("ab", 32), issuedAt.Add(24*time.Hour))
	require.NoError(t, err)
	return tok
}

func newAppointment(t *testing.T, status appointment.Status) *appointment.Appointment {
	t.Helper()
	clientID := uuid.New()
	return appointment.Reconstruct(
		uuid.New(), uuid.New(), uuid.New(), &clientID, status, tenSlot,
		appointment.ClientSnapshot{Name: "Ana", Email: "ana@example.com", Phone: "11999990000"},
		nil, newToken(t), issuedAt, issuedAt,
	)
}

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"PENDING", "CONFIRMED", "RESCHEDULED", "CANCELLED", "COMPLETED", "confirmed"} {
		_, err := appointment.ParseStatus(s)
		assert.NoError(t, err, s)
	}
	for _, s := range []string{"", "CANCELED", "DONE"} {
		_, err := appointment.ParseStatus(s)
		assert.ErrorIs(t, err, appointment.ErrInvalidStatus, s)
	}
}

func TestStatusTransitions(t *testing.T) {
	all := []appointment.Status{
		appointment.StatusPending, appointment.StatusConfirmed, appointment.StatusRescheduled,
		appointment.StatusCancelled, appointment.StatusCompleted,
	}

	t.Run("terminal statuses have no exits", func(t *testing.T) {
		for _, from := range []appointment.Status{appointment.StatusCancelled, appointment.StatusCompleted} {
			assert.True(t, from.IsTerminal())
			assert.False(t, from.IsActive())
			for _, to := range all {
				assert.False(t, from.CanTransitionTo(to), "%s -> %s", from, to)
			}
		}
	})

	t.Run("active statuses can be cancelled, completed and rescheduled", func(t *testing.T) {
		for _, from := range appointment.ActiveStatuses {
			assert.True(t, from.IsActive())
			assert.True(t, from.CanTransitionTo(appointment.StatusCancelled))
			assert.True(t, from.CanTransitionTo(appointment.StatusCompleted))
			assert.True(t, from.CanTransitionTo(appointment.StatusRescheduled))
		}
	})

	t.Run("nothing returns to pending", func(t *testing.T) {
		for _, from := range all {
			assert.False(t, from.CanTransitionTo(appointment.StatusPending))
		}
	})

	t.Run("staff targets", func(t *testing.T) {
		assert.True(t, appointment.StatusCancelled.IsStaffTarget())
		assert.True(t, appointment.StatusCompleted.IsStaffTarget())
		assert.True(t, appointment.StatusConfirmed.IsStaffTarget())
		assert.False(t, appointment.StatusPending.IsStaffTarget())
		assert.False(t, appointment.StatusRescheduled.IsStaffTarget())
	})
}

func TestNewAppointment(t *testing.T) {
	clientID := uuid.New()
	snapshot := appointment.ClientSnapshot{Name: "Ana"}

	pending, err := appointment.NewPending(uuid.New(), uuid.New(), uuid.New(), &clientID, tenSlot, snapshot, newToken(t))
	require.NoError(t, err)
	assert.Equal(t, appointment.StatusPending, pending.Status())

	confirmed, err := appointment.NewConfirmed(uuid.New(), uuid.New(), uuid.New(), nil, tenSlot, snapshot, newToken(t))
	require.NoError(t, err)
	assert.Equal(t, appointment.StatusConfirmed, confirmed.Status())
	assert.Nil(t, confirmed.ClientID(), "walk-ins have no client record")

	_, err = appointment.NewPending(uuid.New(), uuid.New(), uuid.New(), nil, tenSlot, snapshot, newToken(t))
	assert.ErrorIs(t, err, appointment.ErrInvalidAppointment, "public bookings always resolve a client")

	_, err = appointment.NewConfirmed(uuid.New(), uuid.New(), uuid.New(), nil, schedule.Interval{Start: tenAM, End: tenAM}, snapshot, newToken(t))
	assert.ErrorIs(t, err, appointment.ErrInvalidAppointment)
}

func TestReschedule(t *testing.T) {
	later := schedule.Interval{Start: tenAM.Add(2 * time.Hour), End: tenAM.Add(3 * time.Hour)}

	for _, st := range appointment.ActiveStatuses {
		t.Run(string(st), func(t *testing.T) {
			a := newAppointment(t, st)
			tokenBefore := a.Token()

			require.NoError(t, a.Reschedule(later))
			assert.Equal(t, appointment.StatusRescheduled, a.Status())
			assert.True(t, later.Equal(a.Slot()))
			assert.Equal(t, tokenBefore, a.Token(), "token and expiry survive reschedule")
		})
	}

	for _, st := range []appointment.Status{appointment.StatusCancelled, appointment.StatusCompleted} {
		t.Run(string(st)+" is refused", func(t *testing.T) {
			a := newAppointment(t, st)
			assert.ErrorIs(t, a.Reschedule(later), appointment.ErrTransitionRefused)
			assert.True(t, tenSlot.Equal(a.Slot()))
		})
	}
}

func TestCancel(t *testing.T) {
	a := newAppointment(t, appointment.StatusPending)
	require.NoError(t, a.Cancel("changed plans"))

	assert.Equal(t, appointment.StatusCancelled, a.Status())
	require.NotNil(t, a.CancellationReason())
	assert.Equal(t, "changed plans", *a.CancellationReason())
	assert.False(t, a.OccupiesCalendar())

	assert.ErrorIs(t, a.Cancel("again"), appointment.ErrTransitionRefused)
}

func TestApplyStaffStatus(t *testing.T) {
	reason := "no show"

	t.Run("reason stored only on cancellation", func(t *testing.T) {
		a := newAppointment(t, appointment.StatusPending)
		require.NoError(t, a.ApplyStaffStatus(appointment.StatusConfirmed, &reason))
		assert.Nil(t, a.CancellationReason())

		require.NoError(t, a.ApplyStaffStatus(appointment.StatusCancelled, &reason))
		require.NotNil(t, a.CancellationReason())
		assert.Equal(t, reason, *a.CancellationReason())
	})

	t.Run("non staff targets are rejected", func(t *testing.T) {
		a := newAppointment(t, appointment.StatusConfirmed)
		assert.ErrorIs(t, a.ApplyStaffStatus(appointment.StatusRescheduled, nil), appointment.ErrStatusNotAllowed)
		assert.ErrorIs(t, a.ApplyStaffStatus(appointment.StatusPending, nil), appointment.ErrStatusNotAllowed)
		assert.Equal(t, appointment.StatusConfirmed, a.Status())
	})

	// Staff confirmation carries no prior-state guard. A completed or cancelled
	// appointment can be confirmed again and then occupies the calendar.
	t.Run("confirming a terminal appointment is permitted", func(t *testing.T) {
		for _, st := range []appointment.Status{appointment.StatusCompleted, appointment.StatusCancelled} {
			a := newAppointment(t, st)
			require.NoError(t, a.ApplyStaffStatus(appointment.StatusConfirmed, nil))
			assert.Equal(t, appointment.StatusConfirmed, a.Status())
			assert.True(t, a.OccupiesCalendar())
		}
	})
}

func TestTokenUsableAt(t *testing.T) {
	expiresAt := issuedAt.Add(24 * time.Hour)

	t.Run("usable until and including expiry", func(t *testing.T) {
		a := newAppointment(t, appointment.StatusPending)
		assert.True(t, a.TokenUsableAt(issuedAt))
		assert.True(t, a.TokenUsableAt(expiresAt))
		assert.False(t, a.TokenUsableAt(expiresAt.Add(time.Nanosecond)))
	})

	t.Run("monotonic in time", func(t *testing.T) {
		a := newAppointment(t, appointment.StatusConfirmed)
		expiredSeen := false
		for step := time.Duration(0); step <= 48*time.Hour; step += 30 * time.Minute {
			usable := a.TokenUsableAt(issuedAt.Add(step))
			if expiredSeen {
				assert.False(t, usable, "token became usable again at +%s", step)
			}
			if !usable {
				expiredSeen = true
			}
		}
		assert.True(t, expiredSeen)
	})

	t.Run("cancelled appointment disables the link before expiry", func(t *testing.T) {
		a := newAppointment(t, appointment.StatusPending)
		require.NoError(t, a.Cancel("x"))
		assert.False(t, a.TokenUsableAt(issuedAt))
	})

	t.Run("completed appointment disables the link", func(t *testing.T) {
		a := newAppointment(t, appointment.StatusCompleted)
		assert.False(t, a.TokenUsableAt(issuedAt))
	})
}

func TestManagementToken(t *testing.T) {
	raw := strings.Repeat("0f", 32)

	tok, err := appointment.NewManagementToken(raw, issuedAt)
	require.NoError(t, err)
	assert.Equal(t, raw, tok.Raw())
	assert.Equal(t, appointment.HashToken(raw), tok.Hash())
	assert.Len(t, tok.Hash(), 64)
	assert.NotEqual(t, raw, tok.Hash())

	stored := appointment.ReconstructToken(tok.Hash(), issuedAt)
	assert.Empty(t, stored.Raw())
	assert.False(t, stored.IsZero())

	for _, bad := range []string{"", "short", strings.Repeat("AB", 32), strings.Repeat("zz", 32), raw + "0"} {
		_, err := appointment.NewManagementToken(bad, issuedAt)
		assert.ErrorIs(t, err, appointment.ErrMalformedToken, bad)
	}
}

func TestOccupancyIsFree(t *testing.T) {
	own := uuid.New()
	occ := appointment.Occupancy{
		{AppointmentID: own, Slot: tenSlot},
	}

	assert.False(t, occ.IsFree(tenSlot, nil))
	assert.True(t, occ.IsFree(tenSlot, &own), "an appointment never conflicts with itself")

	other := uuid.New()
	assert.False(t, occ.IsFree(tenSlot, &other))

	backToBack := schedule.Interval{Start: tenSlot.End, End: tenSlot.End.Add(time.Hour)}
	assert.True(t, occ.IsFree(backToBack, nil))

	assert.True(t, appointment.Occupancy(nil).IsFree(tenSlot, nil))
}

func TestClone(t *testing.T) {
	a := newAppointment(t, appointment.StatusPending)
	c := a.Clone()
	require.NoError(t, c.Cancel("x"))

	assert.Equal(t, appointment.StatusPending, a.Status())
	assert.Nil(t, a.CancellationReason())
	assert.NotSame(t, a.ClientID(), c.ClientID())
}
