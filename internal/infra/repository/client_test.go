//go:build unit

package repository_test

import (
	"context"
	"testing"
	"time"

	"salon-scheduler/internal/domain/client"
	"salon-scheduler/internal/infra"
	"salon-scheduler/internal/infra/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientRepository(t *testing.T) {
	ctx := context.Background()
	businessID := uuid.New()
	email, err := client.NewEmail("Ana@Example.com")
	require.NoError(t, err)
	cols := []string{"id", "business_id", "name", "email", "phone", "consent", "consent_at"}

	t.Run("find by email uses the normalized address", func(t *testing.T) {
		mock := newMockPool(t)
		id := uuid.New()
		mock.ExpectQuery("FROM clients").
			WithArgs(businessID, "ana@example.com").
			WillReturnRows(pgxmock.NewRows(cols).AddRow(id, businessID, "Ana", "ana@example.com", "", true, &createdAt))

		c, err := repository.NewClientRepository(mock).FindByEmail(ctx, businessID, email)
		require.NoError(t, err)
		assert.Equal(t, id, c.ID())
		assert.Equal(t, email, c.Email())
		assert.True(t, c.Consent())
	})

	t.Run("find by id not found", func(t *testing.T) {
		mock := newMockPool(t)
		id := uuid.New()
		mock.ExpectQuery("FROM clients").WithArgs(businessID, id).WillReturnError(pgx.ErrNoRows)

		_, err := repository.NewClientRepository(mock).FindByID(ctx, businessID, id)
		assert.True(t, infra.IsKind(err, infra.KindNotFound), "got %v", err)
	})

	t.Run("create", func(t *testing.T) {
		mock := newMockPool(t)
		c, err := client.NewClient(businessID, "Ana", email, "", time.Now())
		require.NoError(t, err)
		mock.ExpectExec("INSERT INTO clients").
			WithArgs(c.ID(), businessID, "Ana", "ana@example.com", "", true, c.ConsentAt()).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		assert.NoError(t, repository.NewClientRepository(mock).Create(ctx, c))
	})

	t.Run("create duplicate email keeps the transaction usable", func(t *testing.T) {
		mock := newMockPool(t)
		c, err := client.NewClient(businessID, "Ana", email, "", time.Now())
		require.NoError(t, err)
		mock.ExpectExec("ON CONFLICT").
			WithArgs(c.ID(), businessID, "Ana", "ana@example.com", "", true, c.ConsentAt()).
			WillReturnResult(pgxmock.NewResult("INSERT", 0))

		err = repository.NewClientRepository(mock).Create(ctx, c)
		assert.True(t, infra.IsKind(err, infra.KindDuplicateKey), "got %v", err)
	})

	t.Run("create failure", func(t *testing.T) {
		mock := newMockPool(t)
		c, err := client.NewClient(businessID, "Ana", email, "", time.Now())
		require.NoError(t, err)
		mock.ExpectExec("INSERT INTO clients").
			WithArgs(c.ID(), businessID, "Ana", "ana@example.com", "", true, c.ConsentAt()).
			WillReturnError(&pgconn.PgError{Code: "23503"})

		err = repository.NewClientRepository(mock).Create(ctx, c)
		assert.True(t, infra.IsKind(err, infra.KindForeignKeyViolated), "got %v", err)
	})
}

func TestNotificationRepository_CreateJob(t *testing.T) {
	mock := newMockPool(t)
	runAt := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectExec("INSERT INTO notification_jobs").
		WithArgs("WHATSAPP", "CONFIRMATION", []byte(`{"a":1}`), runAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := repository.NewNotificationRepository(mock).CreateJob(context.Background(), "WHATSAPP", "CONFIRMATION", []byte(`{"a":1}`), runAt)
	assert.NoError(t, err)
}
