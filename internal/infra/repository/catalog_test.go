//go:build unit

package repository_test

import (
	"context"
	"testing"
	"time"

	"salon-scheduler/internal/infra"
	"salon-scheduler/internal/infra/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestCatalogRepository_BusinessByID(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	cols := []string{"id", "name", "opening_time", "closing_time", "timezone", "whatsapp"}

	t.Run("success", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectQuery("FROM businesses").WithArgs(id).WillReturnRows(
			pgxmock.NewRows(cols).AddRow(id, "Studio Bela", strPtr("09:00"), strPtr("18:00"), "America/Sao_Paulo", "+5511988887777"))

		b, err := repository.NewCatalogRepository(mock).BusinessByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Studio Bela", b.Name())
		assert.Equal(t, "09:00", b.OpeningTime().String())
		assert.Equal(t, "18:00", b.ClosingTime().String())
		assert.Equal(t, "America/Sao_Paulo", b.Location().String())
	})

	t.Run("success: hours not configured", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectQuery("FROM businesses").WithArgs(id).WillReturnRows(
			pgxmock.NewRows(cols).AddRow(id, "Studio", nil, nil, "UTC", ""))

		b, err := repository.NewCatalogRepository(mock).BusinessByID(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, b.OpeningTime())
		assert.Equal(t, time.UTC, b.Location())
	})

	t.Run("error: unknown timezone", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectQuery("FROM businesses").WithArgs(id).WillReturnRows(
			pgxmock.NewRows(cols).AddRow(id, "Studio", nil, nil, "Mars/Olympus", ""))

		_, err := repository.NewCatalogRepository(mock).BusinessByID(ctx, id)
		assert.True(t, infra.IsKind(err, infra.KindDBFailure), "got %v", err)
	})

	t.Run("error: not found", func(t *testing.T) {
		mock := newMockPool(t)
		mock.ExpectQuery("FROM businesses").WithArgs(id).WillReturnError(pgx.ErrNoRows)

		_, err := repository.NewCatalogRepository(mock).BusinessByID(ctx, id)
		assert.True(t, infra.IsKind(err, infra.KindNotFound), "got %v", err)
	})
}

func TestCatalogRepository_ServiceByID(t *testing.T) {
	ctx := context.Background()
	id, businessID := uuid.New(), uuid.New()
	cols := []string{"id", "business_id", "name", "duration_minutes", "available_days", "start_time", "end_time"}

	mock := newMockPool(t)
	mock.ExpectQuery("FROM services").WithArgs(id).WillReturnRows(
		pgxmock.NewRows(cols).AddRow(id, businessID, "Corte", int32(45), []int16{1, 2, 3}, strPtr("10:00"), nil))

	svc, err := repository.NewCatalogRepository(mock).ServiceByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 45*time.Minute, svc.Duration())
	assert.Equal(t, []time.Weekday{time.Monday, time.Tuesday, time.Wednesday}, svc.AvailableDays())
	assert.Equal(t, "10:00", svc.StartTime().String())
	assert.Nil(t, svc.EndTime())
}
