package repository

import (
	"context"
	"time"

	"salon-scheduler/internal/domain/catalog"
	"salon-scheduler/internal/domain/schedule"
	"salon-scheduler/internal/infra"
	"salon-scheduler/internal/infra/db"

	"github.com/google/uuid"
)

const (
	queryBusinessByID = `SELECT id, name, to_char(opening_time, 'HH24:MI'), to_char(closing_time, 'HH24:MI'), timezone, whatsapp
FROM businesses WHERE id = $1`

	queryServiceByID = `SELECT id, business_id, name, duration_minutes, available_days,
	to_char(start_time, 'HH24:MI'), to_char(end_time, 'HH24:MI')
FROM services WHERE id = $1`
)

// CatalogRepository reads the business and service configuration the
// scheduling core depends on. It never writes.
type CatalogRepository struct {
	db db.DBTX
}

func NewCatalogRepository(db db.DBTX) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) BusinessByID(ctx context.Context, id uuid.UUID) (*catalog.Business, error) {
	var (
		bizID            uuid.UUID
		name, tz, wa     string
		opening, closing *string
	)
	err := r.db.QueryRow(ctx, queryBusinessByID, id).Scan(&bizID, &name, &opening, &closing, &tz, &wa)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to get business", err)
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid business timezone", err, infra.KindDBFailure)
	}
	openAt, err := wallClock(opening)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid business opening time", err, infra.KindDBFailure)
	}
	closeAt, err := wallClock(closing)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid business closing time", err, infra.KindDBFailure)
	}

	b, err := catalog.NewBusiness(bizID, name, openAt, closeAt, loc, wa)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid business row", err, infra.KindDBFailure)
	}
	return b, nil
}

func (r *CatalogRepository) ServiceByID(ctx context.Context, id uuid.UUID) (*catalog.Service, error) {
	var (
		svcID, businessID uuid.UUID
		name              string
		duration          int32
		days              []int16
		start, end        *string
	)
	err := r.db.QueryRow(ctx, queryServiceByID, id).Scan(&svcID, &businessID, &name, &duration, &days, &start, &end)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to get service", err)
	}

	startAt, err := wallClock(start)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid service start time", err, infra.KindDBFailure)
	}
	endAt, err := wallClock(end)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid service end time", err, infra.KindDBFailure)
	}

	weekdays := make([]int, 0, len(days))
	for _, d := range days {
		weekdays = append(weekdays, int(d))
	}

	svc, err := catalog.NewService(svcID, businessID, name, int(duration), weekdays, startAt, endAt)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid service row", err, infra.KindDBFailure)
	}
	return svc, nil
}

func wallClock(s *string) (*schedule.WallClock, error) {
	if s == nil {
		return nil, nil
	}
	w, err := schedule.ParseWallClock(*s)
	if err != nil {
		return nil, err
	}
	return &w, nil
}
