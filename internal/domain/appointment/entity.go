package appointment

import (
	"errors"
	"time"

	"salon-scheduler/internal/domain/schedule"

	"github.com/google/uuid"
)

var ErrInvalidAppointment = errors.New("invalid appointment")

// ClientSnapshot is the contact data copied at booking time. It is kept even
// if the client record changes afterwards.
type ClientSnapshot struct {
	Name  string
	Email string
	Phone string
}

type Appointment struct {
	id                 uuid.UUID
	businessID         uuid.UUID
	clientID           *uuid.UUID
	serviceID          uuid.UUID
	status             Status
	slot               schedule.Interval
	client             ClientSnapshot
	cancellationReason *string
	token              ManagementToken
	createdAt          time.Time
	updatedAt          time.Time
}

// NewPending is the public self-service booking.
func NewPending(
	id, businessID, serviceID uuid.UUID,
	clientID *uuid.UUID,
	slot schedule.Interval,
	snapshot ClientSnapshot,
	token ManagementToken,
) (*Appointment, error) {
	if clientID == nil {
		return nil, ErrInvalidAppointment
	}
	return newAppointment(id, businessID, serviceID, clientID, slot, snapshot, token, StatusPending)
}

// NewConfirmed is the staff-initiated booking. clientID may be nil for walk-ins.
func NewConfirmed(
	id, businessID, serviceID uuid.UUID,
	clientID *uuid.UUID,
	slot schedule.Interval,
	snapshot ClientSnapshot,
	token ManagementToken,
) (*Appointment, error) {
	return newAppointment(id, businessID, serviceID, clientID, slot, snapshot, token, StatusConfirmed)
}

func newAppointment(
	id, businessID, serviceID uuid.UUID,
	clientID *uuid.UUID,
	slot schedule.Interval,
	snapshot ClientSnapshot,
	token ManagementToken,
	status Status,
) (*Appointment, error) {
	if id == uuid.Nil || businessID == uuid.Nil || serviceID == uuid.Nil || slot.IsEmpty() {
		return nil, ErrInvalidAppointment
	}
	return &Appointment{
		id:         id,
		businessID: businessID,
		clientID:   clientID,
		serviceID:  serviceID,
		status:     status,
		slot:       slot,
		client:     snapshot,
		token:      token,
	}, nil
}

func Reconstruct(
	id, businessID, serviceID uuid.UUID,
	clientID *uuid.UUID,
	status Status,
	slot schedule.Interval,
	snapshot ClientSnapshot,
	cancellationReason *string,
	token ManagementToken,
	createdAt, updatedAt time.Time,
) *Appointment {
	return &Appointment{
		id:                 id,
		businessID:         businessID,
		clientID:           clientID,
		serviceID:          serviceID,
		status:             status,
		slot:               slot,
		client:             snapshot,
		cancellationReason: cancellationReason,
		token:              token,
		createdAt:          createdAt,
		updatedAt:          updatedAt,
	}
}

func (a *Appointment) ID() uuid.UUID               { return a.id }
func (a *Appointment) BusinessID() uuid.UUID       { return a.businessID }
func (a *Appointment) ClientID() *uuid.UUID        { return a.clientID }
func (a *Appointment) ServiceID() uuid.UUID        { return a.serviceID }
func (a *Appointment) Status() Status              { return a.status }
func (a *Appointment) Slot() schedule.Interval     { return a.slot }
func (a *Appointment) Client() ClientSnapshot      { return a.client }
func (a *Appointment) CancellationReason() *string { return a.cancellationReason }
func (a *Appointment) Token() ManagementToken      { return a.token }
func (a *Appointment) CreatedAt() time.Time        { return a.createdAt }
func (a *Appointment) UpdatedAt() time.Time        { return a.updatedAt }
func (a *Appointment) OccupiesCalendar() bool      { return a.status.IsActive() }
func (a *Appointment) BelongsTo(id uuid.UUID) bool { return a.businessID == id }

// Reschedule moves the appointment and marks it RESCHEDULED. The token and its
// expiry are left untouched.
func (a *Appointment) Reschedule(slot schedule.Interval) error {
	if slot.IsEmpty() {
		return ErrInvalidAppointment
	}
	if !a.status.CanTransitionTo(StatusRescheduled) {
		return ErrTransitionRefused
	}
	a.slot = slot
	a.status = StatusRescheduled
	return nil
}

func (a *Appointment) Cancel(reason string) error {
	if !a.status.CanTransitionTo(StatusCancelled) {
		return ErrTransitionRefused
	}
	a.status = StatusCancelled
	a.cancellationReason = &reason
	return nil
}

// ApplyStaffStatus sets one of the staff targets. Apart from the target check
// there is no lifecycle guard: staff may confirm a cancelled or completed
// appointment again. The reason is only stored on cancellation.
func (a *Appointment) ApplyStaffStatus(target Status, reason *string) error {
	if !target.IsStaffTarget() {
		return ErrStatusNotAllowed
	}
	a.status = target
	if target == StatusCancelled {
		a.cancellationReason = reason
	}
	return nil
}

// TokenUsableAt reports whether the self-service link still grants access.
func (a *Appointment) TokenUsableAt(now time.Time) bool {
	return !a.token.IsZero() && !a.token.ExpiredAt(now) && a.status.IsActive()
}

func (a *Appointment) Clone() *Appointment {
	c := *a
	if a.clientID != nil {
		id := *a.clientID
		c.clientID = &id
	}
	if a.cancellationReason != nil {
		r := *a.cancellationReason
		c.cancellationReason = &r
	}
	return &c
}
