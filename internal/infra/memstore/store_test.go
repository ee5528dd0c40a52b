//go:build unit

package memstore_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"salon-scheduler/internal/domain/appointment"
	"salon-scheduler/internal/domain/client"
	"salon-scheduler/internal/domain/schedule"
	"salon-scheduler/internal/infra"
	"salon-scheduler/internal/infra/memstore"
	"salon-scheduler/internal/pkg/clock"
	"salon-scheduler/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	now     = time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	tenAM   = time.Date(2026, 2, 5, 13, 0, 0, 0, time.UTC)
	tenSlot = schedule.Interval{Start: tenAM, End: tenAM.Add(time.Hour)}
)

func pending(t *testing.T, businessID uuid.UUID, slot schedule.Interval, seed string) *appointment.Appointment {
	t.Helper()
	tok, err := appointment.NewManagementToken(strings.Repeat(seed, 32), now.Add(24*time.Hour))
	require.NoError(t, err)
	clientID := uuid.New()
	a, err := appointment.NewPending(uuid.New(), businessID, uuid.New(), &clientID, slot,
		appointment.ClientSnapshot{Name: "Ana"}, tok)
	require.NoError(t, err)
	return a
}

func TestStore_StagedWritesCommitOnSuccess(t *testing.T) {
	s := memstore.New(clock.NewMockClock(now))
	biz := uuid.New()
	a := pending(t, biz, tenSlot, "ab")

	err := s.WithinBusiness(context.Background(), biz, func(ctx context.Context, tx shared.Tx) error {
		require.NoError(t, tx.Appointments().Create(ctx, a))
		free, err := tx.Appointments().IsSlotFree(ctx, biz, tenSlot, nil)
		require.NoError(t, err)
		assert.False(t, free, "staged row must be visible inside the unit")
		return tx.Notifications().CreateJob(ctx, "WHATSAPP", "CONFIRMATION", []byte(`{}`), now)
	})
	require.NoError(t, err)

	assert.Len(t, s.Appointments(biz), 1)
	assert.Len(t, s.Jobs(), 1)

	view, err := s.FindViewByID(context.Background(), a.ID())
	require.NoError(t, err)
	assert.Equal(t, "PENDING", view.Status)
	assert.Equal(t, now, view.CreatedAt)
}

func TestStore_RollbackDiscardsStagedWrites(t *testing.T) {
	s := memstore.New(clock.NewMockClock(now))
	biz := uuid.New()
	boom := errors.New("boom")

	err := s.WithinBusiness(context.Background(), biz, func(ctx context.Context, tx shared.Tx) error {
		require.NoError(t, tx.Appointments().Create(ctx, pending(t, biz, tenSlot, "ab")))
		require.NoError(t, tx.Notifications().CreateJob(ctx, "WHATSAPP", "CONFIRMATION", nil, now))
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, s.Appointments(biz))
	assert.Empty(t, s.Jobs())
}

func TestStore_ExclusionAndUniqueness(t *testing.T) {
	s := memstore.New(clock.NewMockClock(now))
	biz := uuid.New()
	ctx := context.Background()

	first := pending(t, biz, tenSlot, "ab")
	require.NoError(t, s.WithinBusiness(ctx, biz, func(ctx context.Context, tx shared.Tx) error {
		return tx.Appointments().Create(ctx, first)
	}))

	t.Run("overlapping active appointment is a conflict", func(t *testing.T) {
		half := schedule.Interval{Start: tenAM.Add(30 * time.Minute), End: tenAM.Add(90 * time.Minute)}
		err := s.WithinBusiness(ctx, biz, func(ctx context.Context, tx shared.Tx) error {
			return tx.Appointments().Create(ctx, pending(t, biz, half, "cd"))
		})
		assert.True(t, infra.IsKind(err, infra.KindConflict))
	})

	t.Run("back-to-back is free", func(t *testing.T) {
		next := schedule.Interval{Start: tenSlot.End, End: tenSlot.End.Add(time.Hour)}
		err := s.WithinBusiness(ctx, biz, func(ctx context.Context, tx shared.Tx) error {
			return tx.Appointments().Create(ctx, pending(t, biz, next, "ef"))
		})
		assert.NoError(t, err)
	})

	t.Run("token hash is unique", func(t *testing.T) {
		other := schedule.Interval{Start: tenAM.Add(5 * time.Hour), End: tenAM.Add(6 * time.Hour)}
		err := s.WithinBusiness(ctx, biz, func(ctx context.Context, tx shared.Tx) error {
			return tx.Appointments().Create(ctx, pending(t, biz, other, "ab"))
		})
		assert.True(t, infra.IsKind(err, infra.KindDuplicateKey))
	})

	t.Run("other business is independent", func(t *testing.T) {
		otherBiz := uuid.New()
		err := s.WithinBusiness(ctx, otherBiz, func(ctx context.Context, tx shared.Tx) error {
			return tx.Appointments().Create(ctx, pending(t, otherBiz, tenSlot, "12"))
		})
		assert.NoError(t, err)
	})

	t.Run("cancelled appointment frees the slot", func(t *testing.T) {
		err := s.WithinBusiness(ctx, biz, func(ctx context.Context, tx shared.Tx) error {
			a, err := tx.Appointments().FindForUpdate(ctx, biz, first.ID())
			if err != nil {
				return err
			}
			if err := a.Cancel("no show"); err != nil {
				return err
			}
			return tx.Appointments().Save(ctx, a)
		})
		require.NoError(t, err)

		occ, err := s.FindOccupancy(ctx, biz, schedule.DayOf(tenAM, time.UTC))
		require.NoError(t, err)
		assert.True(t, occ.IsFree(tenSlot, nil))
	})
}

func TestStore_FindForUpdateIsBusinessScoped(t *testing.T) {
	s := memstore.New(clock.NewMockClock(now))
	biz := uuid.New()
	a := pending(t, biz, tenSlot, "ab")
	ctx := context.Background()
	require.NoError(t, s.WithinBusiness(ctx, biz, func(ctx context.Context, tx shared.Tx) error {
		return tx.Appointments().Create(ctx, a)
	}))

	other := uuid.New()
	err := s.WithinBusiness(ctx, other, func(ctx context.Context, tx shared.Tx) error {
		_, err := tx.Appointments().FindForUpdate(ctx, other, a.ID())
		return err
	})
	assert.True(t, infra.IsKind(err, infra.KindNotFound))
}

func TestStore_Clients(t *testing.T) {
	s := memstore.New(clock.NewMockClock(now))
	biz := uuid.New()
	ctx := context.Background()
	email, err := client.NewEmail("Ana@Example.com")
	require.NoError(t, err)

	err = s.WithinBusiness(ctx, biz, func(ctx context.Context, tx shared.Tx) error {
		_, err := tx.Clients().FindByEmail(ctx, biz, email)
		assert.True(t, infra.IsKind(err, infra.KindNotFound))

		c, err := client.NewClient(biz, "Ana", email, "", now)
		require.NoError(t, err)
		require.NoError(t, tx.Clients().Create(ctx, c))

		dup, err := client.NewClient(biz, "Ana B", email, "", now)
		require.NoError(t, err)
		assert.True(t, infra.IsKind(tx.Clients().Create(ctx, dup), infra.KindDuplicateKey))

		found, err := tx.Clients().FindByID(ctx, biz, c.ID())
		require.NoError(t, err)
		assert.Equal(t, "ana@example.com", found.Email().Value())
		return nil
	})
	require.NoError(t, err)
}

func TestStore_CancelledContext(t *testing.T) {
	s := memstore.New(clock.NewMockClock(now))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := s.WithinBusiness(ctx, uuid.New(), func(context.Context, shared.Tx) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}
