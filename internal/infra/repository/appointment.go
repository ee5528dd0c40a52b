package repository

import (
	"context"
	"time"

	"salon-scheduler/internal/domain/appointment"
	"salon-scheduler/internal/domain/schedule"
	"salon-scheduler/internal/infra"
	"salon-scheduler/internal/infra/db"
	"salon-scheduler/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const appointmentColumns = `id, business_id, service_id, client_id, client_name, client_email, client_phone,
	status, start_at, end_at, cancellation_reason, token_hash, token_expires_at, created_at, updated_at`

const (
	queryIsSlotFree = `SELECT NOT EXISTS (
	SELECT 1 FROM appointments
	WHERE business_id = $1
	  AND status = ANY($2)
	  AND start_at < $4 AND end_at > $3
	  AND ($5::uuid IS NULL OR id <> $5)
)`

	queryCreateAppointment = `INSERT INTO appointments (
	id, business_id, service_id, client_id, client_name, client_email, client_phone,
	status, start_at, end_at, cancellation_reason, token_hash, token_expires_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	queryFindAppointmentForUpdate = `SELECT ` + appointmentColumns + `
FROM appointments WHERE business_id = $1 AND id = $2 FOR UPDATE`

	queryFindAppointmentByTokenHash = `SELECT ` + appointmentColumns + `
FROM appointments WHERE token_hash = $1`

	querySaveAppointment = `UPDATE appointments
SET status = $3, start_at = $4, end_at = $5, cancellation_reason = $6, updated_at = now()
WHERE business_id = $1 AND id = $2`
)

type AppointmentRepository struct {
	db db.DBTX
}

func NewAppointmentRepository(db db.DBTX) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

func (r *AppointmentRepository) IsSlotFree(ctx context.Context, businessID uuid.UUID, slot schedule.Interval, exclude *uuid.UUID) (bool, error) {
	var free bool
	err := r.db.QueryRow(ctx, queryIsSlotFree,
		businessID, appointment.ActiveStatusNames(), slot.Start, slot.End, exclude,
	).Scan(&free)
	if err != nil {
		return false, infra.WrapRepoErr("failed to check slot availability", err)
	}
	return free, nil
}

func (r *AppointmentRepository) Create(ctx context.Context, a *appointment.Appointment) error {
	tokenHash, tokenExpiresAt := tokenColumns(a.Token())
	snap := a.Client()

	_, err := r.db.Exec(ctx, queryCreateAppointment,
		a.ID(), a.BusinessID(), a.ServiceID(), a.ClientID(), snap.Name, snap.Email, snap.Phone,
		a.Status().String(), a.Slot().Start, a.Slot().End, a.CancellationReason(), tokenHash, tokenExpiresAt,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create appointment", err)
	}
	return nil
}

func (r *AppointmentRepository) FindForUpdate(ctx context.Context, businessID, id uuid.UUID) (*appointment.Appointment, error) {
	a, err := scanAppointment(r.db.QueryRow(ctx, queryFindAppointmentForUpdate, businessID, id))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to lock appointment", err)
	}
	return a, nil
}

func (r *AppointmentRepository) FindByTokenHash(ctx context.Context, hash string) (*appointment.Appointment, error) {
	a, err := scanAppointment(r.db.QueryRow(ctx, queryFindAppointmentByTokenHash, hash))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find appointment by token", err)
	}
	return a, nil
}

func (r *AppointmentRepository) Save(ctx context.Context, a *appointment.Appointment) error {
	tag, err := r.db.Exec(ctx, querySaveAppointment,
		a.BusinessID(), a.ID(), a.Status().String(), a.Slot().Start, a.Slot().End, a.CancellationReason(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to save appointment", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("appointment not found", nil, infra.KindNotFound)
	}
	return nil
}

func scanAppointment(row pgx.Row) (*appointment.Appointment, error) {
	var (
		id, businessID, serviceID uuid.UUID
		clientID                  pgtype.UUID
		name, email, phone        string
		status                    string
		start, end                time.Time
		reason, tokenHash         pgtype.Text
		tokenExpiresAt            pgtype.Timestamptz
		createdAt, updatedAt      time.Time
	)
	if err := row.Scan(
		&id, &businessID, &serviceID, &clientID, &name, &email, &phone,
		&status, &start, &end, &reason, &tokenHash, &tokenExpiresAt, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	var token appointment.ManagementToken
	if tokenHash.Valid && tokenExpiresAt.Valid {
		token = appointment.ReconstructToken(tokenHash.String, tokenExpiresAt.Time)
	}

	return appointment.Reconstruct(
		id, businessID, serviceID, pgconv.UUIDPtrFromPgtype(clientID),
		appointment.Status(status),
		schedule.Interval{Start: start, End: end},
		appointment.ClientSnapshot{Name: name, Email: email, Phone: phone},
		pgconv.StringPtrFromPgtype(reason), token, createdAt, updatedAt,
	), nil
}

func tokenColumns(t appointment.ManagementToken) (*string, *time.Time) {
	if t.IsZero() {
		return nil, nil
	}
	hash, expiresAt := t.Hash(), t.ExpiresAt()
	return &hash, &expiresAt
}
