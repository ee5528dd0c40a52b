//go:build unit

package queries_test

import (
	"context"
	"testing"
	"time"

	"salon-scheduler/internal/domain/appointment"
	"salon-scheduler/internal/domain/user"
	"salon-scheduler/internal/pkg/clock"
	"salon-scheduler/internal/pkg/errs"
	"salon-scheduler/internal/usecase/queries"
	"salon-scheduler/internal/usecase/tokens"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAppointmentQueries(t *testing.T, f fixture, clk clock.Clock) queries.AppointmentQueries {
	t.Helper()
	issuer := tokens.NewIssuer(f.store.CommandReads(), clk, 24*time.Hour)
	return queries.NewAppointmentQueries(f.store, f.store, issuer, clk)
}

func staffOf(t *testing.T, businessID uuid.UUID) user.Actor {
	t.Helper()
	a, err := user.NewActor(uuid.New(), businessID, "STAFF")
	require.NoError(t, err)
	return a
}

func TestListByDay(t *testing.T) {
	f := newFixture(t, 60, nil, nil, nil)
	late := f.seed(t, "2026-02-05", "15:00", appointment.StatusConfirmed)
	early := f.seed(t, "2026-02-05", "09:00", appointment.StatusCancelled)
	f.seed(t, "2026-02-06", "09:00", appointment.StatusPending)
	today := f.seed(t, "2026-02-01", "11:00", appointment.StatusPending)

	q := newAppointmentQueries(t, f, clock.NewMockClock(now))
	actor := staffOf(t, f.business.ID())

	t.Run("explicit date lists every status in start order", func(t *testing.T) {
		views, err := q.ListByDay(context.Background(), actor, "2026-02-05")
		require.NoError(t, err)
		require.Len(t, views, 2)
		assert.Equal(t, early.ID(), views[0].ID)
		assert.Equal(t, "CANCELLED", views[0].Status)
		assert.Equal(t, late.ID(), views[1].ID)
		assert.Equal(t, "Corte", views[1].ServiceName)
		assert.Equal(t, 60, views[1].DurationMinutes)
	})

	t.Run("empty date means today in the business zone", func(t *testing.T) {
		views, err := q.ListByDay(context.Background(), actor, "")
		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.Equal(t, today.ID(), views[0].ID)
	})

	t.Run("invalid date", func(t *testing.T) {
		_, err := q.ListByDay(context.Background(), actor, "tomorrow")
		assert.True(t, errs.Is(err, errs.ErrInvalidInput), "got %v", err)
	})

	t.Run("unknown business", func(t *testing.T) {
		_, err := q.ListByDay(context.Background(), staffOf(t, uuid.New()), "2026-02-05")
		assert.True(t, errs.Is(err, errs.ErrNotFound), "got %v", err)
	})
}

func TestGetByToken(t *testing.T) {
	f := newFixture(t, 60, nil, nil, nil)
	active := f.seed(t, "2026-02-05", "10:00", appointment.StatusPending)
	cancelled := f.seed(t, "2026-02-05", "11:00", appointment.StatusCancelled)
	clk := clock.NewMockClock(now)
	q := newAppointmentQueries(t, f, clk)

	view, err := q.GetByToken(context.Background(), active.Token().Raw())
	require.NoError(t, err)
	assert.Equal(t, active.ID(), view.ID)
	assert.Equal(t, "Studio Bela", view.BusinessName)
	require.NotNil(t, view.TokenExpiresAt)
	assert.Equal(t, now.Add(24*time.Hour), *view.TokenExpiresAt)

	for name, raw := range map[string]string{
		"malformed": "abc",
		"unknown":   "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef",
		"cancelled": cancelled.Token().Raw(),
	} {
		_, err := q.GetByToken(context.Background(), raw)
		assert.True(t, errs.Is(err, errs.ErrNotFound), "%s: got %v", name, err)
	}

	clk.Add(25 * time.Hour)
	_, err = q.GetByToken(context.Background(), active.Token().Raw())
	assert.True(t, errs.Is(err, errs.ErrNotFound), "expired: got %v", err)
}

func TestGetByToken_UsesQueryClock(t *testing.T) {
	f := newFixture(t, 60, nil, nil, nil)
	active := f.seed(t, "2026-02-05", "10:00", appointment.StatusPending)
	issuer := tokens.NewIssuer(f.store.CommandReads(), clock.NewMockClock(now), 24*time.Hour)
	later := clock.NewMockClock(now.Add(25 * time.Hour))
	q := queries.NewAppointmentQueries(f.store, f.store, issuer, later)

	_, err := q.GetByToken(context.Background(), active.Token().Raw())
	assert.True(t, errs.Is(err, errs.ErrNotFound), "got %v", err)

	later.Set(now.Add(23 * time.Hour))
	view, err := q.GetByToken(context.Background(), active.Token().Raw())
	require.NoError(t, err)
	assert.Equal(t, active.ID(), view.ID)
}

func TestGetByID(t *testing.T) {
	f := newFixture(t, 60, nil, nil, nil)
	a := f.seed(t, "2026-02-05", "10:00", appointment.StatusConfirmed)
	q := newAppointmentQueries(t, f, clock.NewMockClock(now))

	view, err := q.GetByID(context.Background(), staffOf(t, f.business.ID()), a.ID())
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 2, 5, 13, 0, 0, 0, time.UTC), view.Start)

	_, err = q.GetByID(context.Background(), staffOf(t, uuid.New()), a.ID())
	assert.True(t, errs.Is(err, errs.ErrNotFound), "other business: got %v", err)

	_, err = q.GetByID(context.Background(), staffOf(t, f.business.ID()), uuid.New())
	assert.True(t, errs.Is(err, errs.ErrNotFound), "missing: got %v", err)
}
