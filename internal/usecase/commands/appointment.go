package commands

//go:generate mockgen -source=appointment.go -destination=../../../tests/mock/commands/appointment.go -package=commandsmock

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"salon-scheduler/internal/domain/appointment"
	"salon-scheduler/internal/domain/catalog"
	"salon-scheduler/internal/domain/client"
	"salon-scheduler/internal/domain/schedule"
	"salon-scheduler/internal/domain/user"
	"salon-scheduler/internal/infra"
	"salon-scheduler/internal/pkg/clock"
	"salon-scheduler/internal/pkg/config"
	"salon-scheduler/internal/pkg/errs"
	"salon-scheduler/internal/pkg/metrics"
	"salon-scheduler/internal/usecase/notify"
	"salon-scheduler/internal/usecase/shared"

	"github.com/google/uuid"
)

const DefaultTokenCancelReason = "Cancelled by client via link"

var (
	errSlotTaken = errs.Mark(errs.New("slot overlaps an active appointment"), errs.ErrConflict)
	errPastSlot  = errs.Mark(errs.New("slot starts in the past"), errs.ErrInvalidInput)
	errNoName    = errs.Mark(errs.New("client name is required"), errs.ErrInvalidInput)
)

type PublicBookingInput struct {
	ServiceID   uuid.UUID
	Date        string
	Time        string
	ClientName  string
	ClientEmail string
	ClientPhone string
}

// StaffBookingInput carries no business id, it always comes from the actor.
type StaffBookingInput struct {
	ServiceID   uuid.UUID
	ClientID    *uuid.UUID
	Date        string
	Time        string
	ClientName  string
	ClientEmail string
	ClientPhone string
}

type RescheduleInput struct {
	Date string
	Time string
}

type StatusInput struct {
	Status             string
	CancellationReason *string
}

type BookingResult struct {
	ID              uuid.UUID
	Status          appointment.Status
	Start           time.Time
	End             time.Time
	ManagementToken string
	TokenExpiresAt  time.Time
}

type RescheduleResult struct {
	ID     uuid.UUID
	Status appointment.Status
	Start  time.Time
	End    time.Time
}

type StatusResult struct {
	ID                 uuid.UUID
	Status             appointment.Status
	CancellationReason *string
}

type TokenIssuer interface {
	Issue(appointmentID uuid.UUID) (appointment.ManagementToken, error)
	Validate(ctx context.Context, raw string, now time.Time) (*appointment.Appointment, error)
}

// AppointmentCommands is the only writer of appointment status and time windows.
type AppointmentCommands interface {
	CreatePublic(ctx context.Context, in PublicBookingInput) (*BookingResult, error)
	CreateByStaff(ctx context.Context, actor user.Actor, in StaffBookingInput) (*BookingResult, error)
	UpdateStatus(ctx context.Context, actor user.Actor, id uuid.UUID, in StatusInput) (*StatusResult, error)
	Reschedule(ctx context.Context, actor user.Actor, id uuid.UUID, in RescheduleInput) (*RescheduleResult, error)
	CancelByToken(ctx context.Context, token string, reason *string) error
	RescheduleByToken(ctx context.Context, token string, in RescheduleInput) (*RescheduleResult, error)
}

type appointmentCommandsImpl struct {
	uow             shared.UnitOfWork
	tokens          TokenIssuer
	clock           clock.Clock
	metrics         *metrics.BookingMetrics
	rejectPastSlots bool
}

func NewAppointmentCommands(
	uow shared.UnitOfWork,
	tokens TokenIssuer,
	clk clock.Clock,
	m *metrics.BookingMetrics,
	cfg config.Config,
) AppointmentCommands {
	return &appointmentCommandsImpl{
		uow:             uow,
		tokens:          tokens,
		clock:           clk,
		metrics:         m,
		rejectPastSlots: cfg.Booking.RejectPastSlots,
	}
}

func (c *appointmentCommandsImpl) CreatePublic(ctx context.Context, in PublicBookingInput) (*BookingResult, error) {
	res, err := c.createPublic(ctx, in)
	c.metrics.ObserveReservation(metrics.ChannelPublic, "create", outcomeOf(err))
	return res, err
}

func (c *appointmentCommandsImpl) createPublic(ctx context.Context, in PublicBookingInput) (*BookingResult, error) {
	name := strings.TrimSpace(in.ClientName)
	if name == "" {
		return nil, errNoName
	}
	email, err := client.NewEmail(in.ClientEmail)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidInput)
	}

	svc, biz, err := c.serviceWithBusiness(ctx, c.uow.CommandReads(), in.ServiceID)
	if err != nil {
		return nil, err
	}

	now := c.clock.Now()
	slot, err := c.requestedSlot(svc, biz, in.Date, in.Time, now, c.rejectPastSlots)
	if err != nil {
		return nil, err
	}

	id := uuid.New()
	token, err := c.tokens.Issue(id)
	if err != nil {
		return nil, err
	}

	var created *appointment.Appointment
	err = c.uow.WithinBusiness(ctx, biz.ID(), func(ctx context.Context, tx shared.Tx) error {
		if err := ensureFree(ctx, tx, biz.ID(), slot, nil); err != nil {
			return err
		}

		cl, err := resolveClient(ctx, tx, biz.ID(), name, email, in.ClientPhone, now)
		if err != nil {
			return err
		}

		snapshot := appointment.ClientSnapshot{Name: name, Email: email.Value(), Phone: in.ClientPhone}
		appt, err := appointment.NewPending(id, biz.ID(), svc.ID(), ptr(cl.ID()), slot, snapshot, token)
		if err != nil {
			return errs.Mark(err, errs.ErrInvalidInput)
		}
		if err := tx.Appointments().Create(ctx, appt); err != nil {
			return err
		}

		created = appt
		return enqueue(ctx, tx, notify.Compose(notify.TopicConfirmation, biz, svc.Name(), appt), now)
	})
	if err != nil {
		return nil, c.fail("public booking failed", err, "business_id", biz.ID(), "service_id", svc.ID())
	}

	slog.Info("appointment booked", "appointment_id", created.ID(), "business_id", biz.ID(), "status", created.Status())
	return bookingResult(created, token), nil
}

func (c *appointmentCommandsImpl) CreateByStaff(ctx context.Context, actor user.Actor, in StaffBookingInput) (*BookingResult, error) {
	res, err := c.createByStaff(ctx, actor, in)
	c.metrics.ObserveReservation(metrics.ChannelStaff, "create", outcomeOf(err))
	return res, err
}

func (c *appointmentCommandsImpl) createByStaff(ctx context.Context, actor user.Actor, in StaffBookingInput) (*BookingResult, error) {
	svc, biz, err := c.serviceWithBusiness(ctx, c.uow.CommandReads(), in.ServiceID)
	if err != nil {
		return nil, err
	}
	if !actor.CanOperate(biz.ID()) {
		return nil, errs.Mark(errs.New("service belongs to another business"), errs.ErrNotFound)
	}

	var email *client.Email
	if in.ClientEmail != "" {
		e, err := client.NewEmail(in.ClientEmail)
		if err != nil {
			return nil, errs.Mark(err, errs.ErrInvalidInput)
		}
		email = &e
	}

	now := c.clock.Now()
	slot, err := c.requestedSlot(svc, biz, in.Date, in.Time, now, false)
	if err != nil {
		return nil, err
	}

	id := uuid.New()
	token, err := c.tokens.Issue(id)
	if err != nil {
		return nil, err
	}

	var created *appointment.Appointment
	err = c.uow.WithinBusiness(ctx, biz.ID(), func(ctx context.Context, tx shared.Tx) error {
		if err := ensureFree(ctx, tx, biz.ID(), slot, nil); err != nil {
			return err
		}

		// An email alone links an existing client; creating one also needs a name.
		var linked *client.Client
		switch {
		case in.ClientID != nil:
			cl, err := tx.Clients().FindByID(ctx, biz.ID(), *in.ClientID)
			if err != nil {
				return notFoundOr(err)
			}
			linked = cl
		case email != nil && in.ClientName != "":
			cl, err := resolveClient(ctx, tx, biz.ID(), in.ClientName, *email, in.ClientPhone, now)
			if err != nil {
				return err
			}
			linked = cl
		case email != nil:
			cl, err := tx.Clients().FindByEmail(ctx, biz.ID(), *email)
			if err != nil && !infra.IsKind(err, infra.KindNotFound) {
				return err
			}
			linked = cl
		}

		var clientID *uuid.UUID
		if linked != nil {
			clientID = ptr(linked.ID())
		}
		snapshot := staffSnapshot(in, email, linked)

		appt, err := appointment.NewConfirmed(id, biz.ID(), svc.ID(), clientID, slot, snapshot, token)
		if err != nil {
			return errs.Mark(err, errs.ErrInvalidInput)
		}
		if err := tx.Appointments().Create(ctx, appt); err != nil {
			return err
		}

		created = appt
		return enqueue(ctx, tx, notify.Compose(notify.TopicConfirmation, biz, svc.Name(), appt), now)
	})
	if err != nil {
		return nil, c.fail("staff booking failed", err, "business_id", biz.ID(), "actor_id", actor.UserID)
	}

	slog.Info("appointment booked by staff", "appointment_id", created.ID(), "business_id", biz.ID(), "actor_id", actor.UserID)
	return bookingResult(created, token), nil
}

func (c *appointmentCommandsImpl) UpdateStatus(ctx context.Context, actor user.Actor, id uuid.UUID, in StatusInput) (*StatusResult, error) {
	target, err := appointment.ParseStatus(in.Status)
	if err != nil || !target.IsStaffTarget() {
		return nil, errs.Mark(errs.Wrapf(appointment.ErrStatusNotAllowed, "status %q", in.Status), errs.ErrInvalidStatus)
	}

	now := c.clock.Now()
	var result *StatusResult
	err = c.uow.WithinBusiness(ctx, actor.BusinessID, func(ctx context.Context, tx shared.Tx) error {
		appt, err := tx.Appointments().FindForUpdate(ctx, actor.BusinessID, id)
		if err != nil {
			return notFoundOr(err)
		}

		// Re-activating a cancelled or completed appointment puts it back on
		// the calendar, which must still be free.
		if !appt.OccupiesCalendar() && target.IsActive() {
			if err := ensureFree(ctx, tx, actor.BusinessID, appt.Slot(), ptr(appt.ID())); err != nil {
				return err
			}
		}

		if err := appt.ApplyStaffStatus(target, in.CancellationReason); err != nil {
			return errs.Mark(err, errs.ErrInvalidStatus)
		}
		if err := tx.Appointments().Save(ctx, appt); err != nil {
			return err
		}

		result = &StatusResult{ID: appt.ID(), Status: appt.Status(), CancellationReason: appt.CancellationReason()}
		if target != appointment.StatusCancelled {
			return nil
		}
		return c.enqueueFor(ctx, tx, notify.TopicCancellation, appt, now)
	})
	if err != nil {
		return nil, c.fail("status update failed", err, "appointment_id", id, "actor_id", actor.UserID)
	}

	c.metrics.ObserveTransition(metrics.ChannelStaff, target.String())
	slog.Info("appointment status updated", "appointment_id", id, "status", target, "actor_id", actor.UserID)
	return result, nil
}

func (c *appointmentCommandsImpl) Reschedule(ctx context.Context, actor user.Actor, id uuid.UUID, in RescheduleInput) (*RescheduleResult, error) {
	res, err := c.reschedule(ctx, actor.BusinessID, id, in, func(a *appointment.Appointment, _ time.Time) error {
		if a.Status().IsTerminal() {
			return errs.Mark(appointment.ErrTransitionRefused, errs.ErrInvalidStatus)
		}
		return nil
	}, false)
	c.metrics.ObserveReservation(metrics.ChannelStaff, "reschedule", outcomeOf(err))
	return res, err
}

func (c *appointmentCommandsImpl) CancelByToken(ctx context.Context, token string, reason *string) error {
	now := c.clock.Now()
	appt, err := c.tokens.Validate(ctx, token, now)
	if err != nil {
		return err
	}

	text := DefaultTokenCancelReason
	if reason != nil && *reason != "" {
		text = *reason
	}

	err = c.uow.WithinBusiness(ctx, appt.BusinessID(), func(ctx context.Context, tx shared.Tx) error {
		cur, err := tx.Appointments().FindForUpdate(ctx, appt.BusinessID(), appt.ID())
		if err != nil {
			return notFoundOr(err)
		}
		// Another request may have cancelled it since validation.
		if !cur.TokenUsableAt(now) {
			return errs.ErrNotFound
		}
		if err := cur.Cancel(text); err != nil {
			return errs.Mark(err, errs.ErrNotFound)
		}
		if err := tx.Appointments().Save(ctx, cur); err != nil {
			return err
		}
		return c.enqueueFor(ctx, tx, notify.TopicCancellation, cur, now)
	})
	if err != nil {
		return c.fail("cancel by token failed", err, "appointment_id", appt.ID())
	}

	c.metrics.ObserveTransition(metrics.ChannelToken, appointment.StatusCancelled.String())
	slog.Info("appointment cancelled via link", "appointment_id", appt.ID(), "business_id", appt.BusinessID())
	return nil
}

func (c *appointmentCommandsImpl) RescheduleByToken(ctx context.Context, token string, in RescheduleInput) (*RescheduleResult, error) {
	res, err := c.rescheduleByToken(ctx, token, in)
	c.metrics.ObserveReservation(metrics.ChannelToken, "reschedule", outcomeOf(err))
	return res, err
}

func (c *appointmentCommandsImpl) rescheduleByToken(ctx context.Context, token string, in RescheduleInput) (*RescheduleResult, error) {
	appt, err := c.tokens.Validate(ctx, token, c.clock.Now())
	if err != nil {
		return nil, err
	}
	return c.reschedule(ctx, appt.BusinessID(), appt.ID(), in, func(a *appointment.Appointment, now time.Time) error {
		if !a.TokenUsableAt(now) {
			return errs.ErrNotFound
		}
		return nil
	}, c.rejectPastSlots)
}

// reschedule is the shared check-and-move path. guard runs on the locked row.
func (c *appointmentCommandsImpl) reschedule(
	ctx context.Context,
	businessID, id uuid.UUID,
	in RescheduleInput,
	guard func(*appointment.Appointment, time.Time) error,
	rejectPast bool,
) (*RescheduleResult, error) {
	now := c.clock.Now()
	var result *RescheduleResult

	err := c.uow.WithinBusiness(ctx, businessID, func(ctx context.Context, tx shared.Tx) error {
		appt, err := tx.Appointments().FindForUpdate(ctx, businessID, id)
		if err != nil {
			return notFoundOr(err)
		}
		if err := guard(appt, now); err != nil {
			return err
		}

		svc, biz, err := c.serviceWithBusiness(ctx, tx.Reads(), appt.ServiceID())
		if err != nil {
			return err
		}
		slot, err := c.requestedSlot(svc, biz, in.Date, in.Time, now, rejectPast)
		if err != nil {
			return err
		}

		if err := ensureFree(ctx, tx, businessID, slot, ptr(appt.ID())); err != nil {
			return err
		}
		if err := appt.Reschedule(slot); err != nil {
			return errs.Mark(err, errs.ErrInvalidStatus)
		}
		if err := tx.Appointments().Save(ctx, appt); err != nil {
			return err
		}

		result = &RescheduleResult{ID: appt.ID(), Status: appt.Status(), Start: slot.Start.UTC(), End: slot.End.UTC()}
		return enqueue(ctx, tx, notify.Compose(notify.TopicRescheduled, biz, svc.Name(), appt), now)
	})
	if err != nil {
		return nil, c.fail("reschedule failed", err, "appointment_id", id, "business_id", businessID)
	}

	slog.Info("appointment rescheduled", "appointment_id", id, "business_id", businessID, "start", result.Start)
	return result, nil
}

func (c *appointmentCommandsImpl) serviceWithBusiness(ctx context.Context, reads shared.CommandReads, serviceID uuid.UUID) (*catalog.Service, *catalog.Business, error) {
	svc, err := reads.ServiceByID(ctx, serviceID)
	if err != nil {
		return nil, nil, notFoundOr(err)
	}
	biz, err := reads.BusinessByID(ctx, svc.BusinessID())
	if err != nil {
		return nil, nil, notFoundOr(err)
	}
	return svc, biz, nil
}

func (c *appointmentCommandsImpl) requestedSlot(
	svc *catalog.Service,
	biz *catalog.Business,
	date, clockTime string,
	now time.Time,
	rejectPast bool,
) (schedule.Interval, error) {
	slot, err := svc.SlotAt(biz, date, clockTime)
	if err != nil {
		return schedule.Interval{}, errs.Mark(err, errs.ErrInvalidInput)
	}
	if rejectPast && slot.Start.Before(now) {
		return schedule.Interval{}, errPastSlot
	}
	return slot, nil
}

func (c *appointmentCommandsImpl) enqueueFor(ctx context.Context, tx shared.Tx, topic notify.Topic, appt *appointment.Appointment, now time.Time) error {
	svc, biz, err := c.serviceWithBusiness(ctx, tx.Reads(), appt.ServiceID())
	if err != nil {
		return err
	}
	return enqueue(ctx, tx, notify.Compose(topic, biz, svc.Name(), appt), now)
}

// fail maps err onto the usecase taxonomy and logs it once.
func (c *appointmentCommandsImpl) fail(msg string, err error, attrs ...any) error {
	switch {
	case errs.Is(err, errs.ErrConflict), infra.IsKind(err, infra.KindConflict):
		slog.Warn(msg, append(attrs, "reason", "conflict")...)
		return errs.Mark(err, errs.ErrConflict)
	case errs.Is(err, errs.ErrNotFound), errs.Is(err, errs.ErrInvalidInput), errs.Is(err, errs.ErrInvalidStatus):
		slog.Warn(msg, append(attrs, "error", err.Error())...)
		return err
	default:
		slog.Error(msg, append(attrs, "error", err.Error())...)
		return errs.Mark(err, errs.ErrInternal)
	}
}

func ensureFree(ctx context.Context, tx shared.Tx, businessID uuid.UUID, slot schedule.Interval, exclude *uuid.UUID) error {
	free, err := tx.Appointments().IsSlotFree(ctx, businessID, slot, exclude)
	if err != nil {
		return err
	}
	if !free {
		return errSlotTaken
	}
	return nil
}

// resolveClient finds the client by (business, email) or creates one,
// recording consent.
func resolveClient(
	ctx context.Context,
	tx shared.Tx,
	businessID uuid.UUID,
	name string,
	email client.Email,
	phone string,
	now time.Time,
) (*client.Client, error) {
	existing, err := tx.Clients().FindByEmail(ctx, businessID, email)
	if err == nil {
		return existing, nil
	}
	if !infra.IsKind(err, infra.KindNotFound) {
		return nil, err
	}

	cl, err := client.NewClient(businessID, name, email, phone, now)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidInput)
	}
	if err := tx.Clients().Create(ctx, cl); err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return tx.Clients().FindByEmail(ctx, businessID, email)
		}
		return nil, err
	}
	return cl, nil
}

// staffSnapshot keeps the contact fields the staff typed in and fills the
// blanks from the linked client record.
func staffSnapshot(in StaffBookingInput, email *client.Email, linked *client.Client) appointment.ClientSnapshot {
	snap := appointment.ClientSnapshot{Name: in.ClientName, Phone: in.ClientPhone}
	if email != nil {
		snap.Email = email.Value()
	}
	if linked == nil {
		return snap
	}
	if snap.Name == "" {
		snap.Name = linked.Name()
	}
	if snap.Email == "" {
		snap.Email = linked.Email().Value()
	}
	if snap.Phone == "" {
		snap.Phone = linked.Phone()
	}
	return snap
}

func enqueue(ctx context.Context, tx shared.Tx, msg notify.Message, now time.Time) error {
	payload, err := msg.Payload()
	if err != nil {
		return errs.Wrap(err, "encode notification payload")
	}
	return tx.Notifications().CreateJob(ctx, notify.KindWhatsApp, string(msg.Topic), payload, now)
}

func notFoundOr(err error) error {
	if infra.IsKind(err, infra.KindNotFound) {
		return errs.Mark(err, errs.ErrNotFound)
	}
	return err
}

func bookingResult(a *appointment.Appointment, token appointment.ManagementToken) *BookingResult {
	return &BookingResult{
		ID:              a.ID(),
		Status:          a.Status(),
		Start:           a.Slot().Start.UTC(),
		End:             a.Slot().End.UTC(),
		ManagementToken: token.Raw(),
		TokenExpiresAt:  token.ExpiresAt().UTC(),
	}
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errs.Is(err, errs.ErrConflict):
		return metrics.OutcomeConflict
	case errs.Is(err, errs.ErrInternal):
		return metrics.OutcomeError
	default:
		return metrics.OutcomeRejected
	}
}

func ptr[T any](v T) *T {
	return &v
}
