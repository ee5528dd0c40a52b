package queries

//go:generate mockgen -source=slots.go -destination=../../../tests/mock/queries/slots.go -package=queriesmock

import (
	"context"
	"iter"
	"log/slog"
	"time"

	"salon-scheduler/internal/domain/catalog"
	"salon-scheduler/internal/domain/schedule"
	"salon-scheduler/internal/infra"
	"salon-scheduler/internal/pkg/errs"
	"salon-scheduler/internal/pkg/metrics"

	"github.com/google/uuid"
)

type SlotQueries interface {
	AvailableSlots(ctx context.Context, serviceID uuid.UUID, date string) (*SlotsResult, error)
}

type slotQueriesImpl struct {
	catalog   CatalogReadStore
	occupancy OccupancyReadStore
	metrics   *metrics.BookingMetrics
}

func NewSlotQueries(catalog CatalogReadStore, occupancy OccupancyReadStore, m *metrics.BookingMetrics) SlotQueries {
	return &slotQueriesImpl{catalog: catalog, occupancy: occupancy, metrics: m}
}

// GenerateSlots lazily yields the free candidate slots of svc on date in
// chronological order. Each range recomputes from scratch. Slots in the past
// are not filtered here.
func GenerateSlots(
	svc *catalog.Service,
	biz *catalog.Business,
	date time.Time,
	isAvailable func(schedule.Interval) bool,
) iter.Seq[schedule.Interval] {
	return func(yield func(schedule.Interval) bool) {
		window, ok := svc.EffectiveWindow(biz, date)
		if !ok {
			return
		}
		for slot := range schedule.Slots(window, svc.Duration()) {
			if !isAvailable(slot) {
				continue
			}
			if !yield(slot) {
				return
			}
		}
	}
}

func (q *slotQueriesImpl) AvailableSlots(ctx context.Context, serviceID uuid.UUID, date string) (*SlotsResult, error) {
	started := time.Now()
	result, err := q.availableSlots(ctx, serviceID, date)

	outcome := metrics.OutcomeSuccess
	offered := 0
	switch {
	case err == nil:
		offered = len(result.Slots)
	case errs.Is(err, errs.ErrInternal):
		outcome = metrics.OutcomeError
	default:
		outcome = metrics.OutcomeRejected
	}
	q.metrics.ObserveSlotGeneration(outcome, time.Since(started).Seconds(), offered)

	return result, err
}

func (q *slotQueriesImpl) availableSlots(ctx context.Context, serviceID uuid.UUID, date string) (*SlotsResult, error) {
	svc, biz, err := q.serviceWithBusiness(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	day, err := schedule.ParseDate(date, biz.Location())
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidInput)
	}

	result := &SlotsResult{Date: date, ServiceID: serviceID, Slots: []SlotView{}}

	window, ok := svc.EffectiveWindow(biz, day)
	if !ok {
		return result, nil
	}

	// One occupancy read covers every candidate of the window.
	occ, err := q.occupancy.FindOccupancy(ctx, biz.ID(), window)
	if err != nil {
		slog.Error("failed to load occupancy", "business_id", biz.ID(), "error", err)
		return nil, errs.Mark(err, errs.ErrInternal)
	}

	for slot := range GenerateSlots(svc, biz, day, func(s schedule.Interval) bool { return occ.IsFree(s, nil) }) {
		result.Slots = append(result.Slots, SlotView{Start: slot.Start.UTC(), End: slot.End.UTC()})
	}
	return result, nil
}

func (q *slotQueriesImpl) serviceWithBusiness(ctx context.Context, serviceID uuid.UUID) (*catalog.Service, *catalog.Business, error) {
	svc, err := q.catalog.FindService(ctx, serviceID)
	if err != nil {
		return nil, nil, mapReadErr(err)
	}
	biz, err := q.catalog.FindBusiness(ctx, svc.BusinessID())
	if err != nil {
		return nil, nil, mapReadErr(err)
	}
	return svc, biz, nil
}

func mapReadErr(err error) error {
	if infra.IsKind(err, infra.KindNotFound) {
		return errs.Mark(err, errs.ErrNotFound)
	}
	return errs.Mark(err, errs.ErrInternal)
}
