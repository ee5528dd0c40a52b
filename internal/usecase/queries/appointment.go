package queries

//go:generate mockgen -source=appointment.go -destination=../../../tests/mock/queries/appointment.go -package=queriesmock

import (
	"context"

	"salon-scheduler/internal/domain/schedule"
	"salon-scheduler/internal/domain/user"
	"salon-scheduler/internal/pkg/clock"
	"salon-scheduler/internal/pkg/errs"

	"github.com/google/uuid"
)

type AppointmentQueries interface {
	// ListByDay lists the actor's business calendar for a local date, today when empty.
	ListByDay(ctx context.Context, actor user.Actor, date string) ([]*AppointmentView, error)
	// GetByToken is the self-service view. Every token failure is ErrNotFound.
	GetByToken(ctx context.Context, token string) (*AppointmentView, error)
	GetByID(ctx context.Context, actor user.Actor, id uuid.UUID) (*AppointmentView, error)
}

type appointmentQueriesImpl struct {
	catalog CatalogReadStore
	repo    AppointmentReadStore
	tokens  TokenValidator
	clock   clock.Clock
}

func NewAppointmentQueries(
	catalog CatalogReadStore,
	repo AppointmentReadStore,
	tokens TokenValidator,
	clk clock.Clock,
) AppointmentQueries {
	return &appointmentQueriesImpl{
		catalog: catalog,
		repo:    repo,
		tokens:  tokens,
		clock:   clk,
	}
}

func (q *appointmentQueriesImpl) ListByDay(ctx context.Context, actor user.Actor, date string) ([]*AppointmentView, error) {
	biz, err := q.catalog.FindBusiness(ctx, actor.BusinessID)
	if err != nil {
		return nil, mapReadErr(err)
	}

	day := biz.Today(q.clock.Now())
	if date != "" {
		d, err := schedule.ParseDate(date, biz.Location())
		if err != nil {
			return nil, errs.Mark(err, errs.ErrInvalidInput)
		}
		day = schedule.DayOf(d, biz.Location())
	}

	views, err := q.repo.ListByBusinessBetween(ctx, biz.ID(), day)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInternal)
	}
	return views, nil
}

func (q *appointmentQueriesImpl) GetByToken(ctx context.Context, token string) (*AppointmentView, error) {
	appt, err := q.tokens.Validate(ctx, token, q.clock.Now())
	if err != nil {
		return nil, err
	}

	view, err := q.repo.FindViewByID(ctx, appt.ID())
	if err != nil {
		return nil, mapReadErr(err)
	}
	return view, nil
}

func (q *appointmentQueriesImpl) GetByID(ctx context.Context, actor user.Actor, id uuid.UUID) (*AppointmentView, error) {
	view, err := q.repo.FindViewByID(ctx, id)
	if err != nil {
		return nil, mapReadErr(err)
	}
	if !actor.CanOperate(view.BusinessID) {
		return nil, errs.ErrNotFound
	}
	return view, nil
}
