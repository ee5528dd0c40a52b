package readstore

import (
	"context"

	"salon-scheduler/internal/domain/appointment"
	"salon-scheduler/internal/domain/schedule"
	"salon-scheduler/internal/infra"
	"salon-scheduler/internal/infra/db"
	"salon-scheduler/internal/pkg/pgconv"
	"salon-scheduler/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const appointmentViewSelect = `SELECT a.id, a.business_id, b.name, a.service_id, s.name, s.duration_minutes,
	a.client_id, a.client_name, a.client_email, a.client_phone, a.status, a.start_at, a.end_at,
	a.cancellation_reason, a.token_expires_at, a.created_at, a.updated_at
FROM appointments a
JOIN businesses b ON b.id = a.business_id
JOIN services s ON s.id = a.service_id`

const (
	queryAppointmentViewByID = appointmentViewSelect + `
WHERE a.id = $1`

	queryAppointmentViewsBetween = appointmentViewSelect + `
WHERE a.business_id = $1 AND a.start_at >= $2 AND a.start_at < $3
ORDER BY a.start_at, a.id`

	queryOccupancy = `SELECT id, start_at, end_at FROM appointments
WHERE business_id = $1 AND status = ANY($2) AND start_at < $4 AND end_at > $3
ORDER BY start_at`
)

type AppointmentReadStore struct {
	db db.DBTX
}

func NewAppointmentReadStore(db db.DBTX) *AppointmentReadStore {
	return &AppointmentReadStore{db: db}
}

func (s *AppointmentReadStore) FindViewByID(ctx context.Context, id uuid.UUID) (*queries.AppointmentView, error) {
	v, err := scanView(s.db.QueryRow(ctx, queryAppointmentViewByID, id))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to get appointment view", err)
	}
	return v, nil
}

func (s *AppointmentReadStore) ListByBusinessBetween(ctx context.Context, businessID uuid.UUID, window schedule.Interval) ([]*queries.AppointmentView, error) {
	rows, err := s.db.Query(ctx, queryAppointmentViewsBetween, businessID, window.Start, window.End)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list appointments", err)
	}
	defer rows.Close()

	views := []*queries.AppointmentView{}
	for rows.Next() {
		v, err := scanView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan appointment view", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate appointments", err)
	}
	return views, nil
}

func (s *AppointmentReadStore) FindOccupancy(ctx context.Context, businessID uuid.UUID, window schedule.Interval) (appointment.Occupancy, error) {
	rows, err := s.db.Query(ctx, queryOccupancy, businessID, appointment.ActiveStatusNames(), window.Start, window.End)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load occupancy", err)
	}
	defer rows.Close()

	var occ appointment.Occupancy
	for rows.Next() {
		var b appointment.Booking
		if err := rows.Scan(&b.AppointmentID, &b.Slot.Start, &b.Slot.End); err != nil {
			return nil, infra.WrapRepoErr("failed to scan occupancy", err)
		}
		occ = append(occ, b)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate occupancy", err)
	}
	return occ, nil
}

func scanView(row pgx.Row) (*queries.AppointmentView, error) {
	var (
		v              queries.AppointmentView
		duration       int32
		tokenExpiresAt pgtype.Timestamptz
	)
	err := row.Scan(
		&v.ID, &v.BusinessID, &v.BusinessName, &v.ServiceID, &v.ServiceName, &duration,
		&v.ClientID, &v.ClientName, &v.ClientEmail, &v.ClientPhone, &v.Status, &v.Start, &v.End,
		&v.CancellationReason, &tokenExpiresAt, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	v.DurationMinutes = int(duration)
	v.TokenExpiresAt = pgconv.TimePtrFromPgtype(tokenExpiresAt)
	v.Start, v.End = v.Start.UTC(), v.End.UTC()
	return &v, nil
}
