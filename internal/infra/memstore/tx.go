package memstore

import (
	"context"
	"time"

	"salon-scheduler/internal/domain/appointment"
	"salon-scheduler/internal/domain/client"
	"salon-scheduler/internal/domain/schedule"
	"salon-scheduler/internal/infra"
	"salon-scheduler/internal/usecase/shared"

	"github.com/google/uuid"
)

// memTx stages writes on top of the committed state.
type memTx struct {
	store        *Store
	appointments map[uuid.UUID]*appointment.Appointment
	clients      map[uuid.UUID]*client.Client
	jobs         []NotificationJob
}

func newTx(s *Store) *memTx {
	return &memTx{
		store:        s,
		appointments: map[uuid.UUID]*appointment.Appointment{},
		clients:      map[uuid.UUID]*client.Client{},
	}
}

func (t *memTx) Appointments() shared.AppointmentRepository { return (*appointmentRepo)(t) }
func (t *memTx) Clients() shared.ClientRepository           { return (*clientRepo)(t) }
func (t *memTx) Notifications() shared.NotificationRepository {
	return (*notificationRepo)(t)
}
func (t *memTx) Reads() shared.CommandReads { return &reads{store: t.store, tx: t} }

// visibleAppointments merges staged rows over committed rows.
func (t *memTx) visibleAppointments(businessID uuid.UUID) []*appointment.Appointment {
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()

	var out []*appointment.Appointment
	for id, a := range t.store.appointments {
		if _, staged := t.appointments[id]; staged || a.BusinessID() != businessID {
			continue
		}
		out = append(out, a)
	}
	for _, a := range t.appointments {
		if a.BusinessID() == businessID {
			out = append(out, a)
		}
	}
	return out
}

type appointmentRepo memTx

func (r *appointmentRepo) tx() *memTx { return (*memTx)(r) }

func (r *appointmentRepo) IsSlotFree(_ context.Context, businessID uuid.UUID, slot schedule.Interval, exclude *uuid.UUID) (bool, error) {
	var occ appointment.Occupancy
	for _, a := range r.tx().visibleAppointments(businessID) {
		if a.OccupiesCalendar() {
			occ = append(occ, appointment.Booking{AppointmentID: a.ID(), Slot: a.Slot()})
		}
	}
	return occ.IsFree(slot, exclude), nil
}

func (r *appointmentRepo) Create(ctx context.Context, a *appointment.Appointment) error {
	tx := r.tx()
	for _, other := range tx.visibleAppointments(a.BusinessID()) {
		if other.ID() == a.ID() {
			return infra.WrapRepoErr("failed to create appointment", nil, infra.KindDuplicateKey)
		}
	}
	if hash := a.Token().Hash(); hash != "" {
		if _, err := tx.Reads().AppointmentByTokenHash(ctx, hash); err == nil {
			return infra.WrapRepoErr("failed to create appointment", nil, infra.KindDuplicateKey)
		}
	}
	if err := r.checkExclusion(a); err != nil {
		return err
	}
	tx.appointments[a.ID()] = a.Clone()
	return nil
}

func (r *appointmentRepo) FindForUpdate(_ context.Context, businessID, id uuid.UUID) (*appointment.Appointment, error) {
	for _, a := range r.tx().visibleAppointments(businessID) {
		if a.ID() == id {
			return a.Clone(), nil
		}
	}
	return nil, infra.WrapRepoErr("appointment not found", nil, infra.KindNotFound)
}

func (r *appointmentRepo) Save(_ context.Context, a *appointment.Appointment) error {
	found := false
	for _, other := range r.tx().visibleAppointments(a.BusinessID()) {
		if other.ID() == a.ID() {
			found = true
			break
		}
	}
	if !found {
		return infra.WrapRepoErr("appointment not found", nil, infra.KindNotFound)
	}
	if err := r.checkExclusion(a); err != nil {
		return err
	}
	r.appointments[a.ID()] = a.Clone()
	return nil
}

// checkExclusion mirrors the database exclusion constraint.
func (r *appointmentRepo) checkExclusion(a *appointment.Appointment) error {
	if !a.OccupiesCalendar() {
		return nil
	}
	for _, other := range r.tx().visibleAppointments(a.BusinessID()) {
		if other.ID() != a.ID() && other.OccupiesCalendar() && other.Slot().Overlaps(a.Slot()) {
			return infra.WrapRepoErr("appointment overlaps an active appointment", nil, infra.KindConflict)
		}
	}
	return nil
}

type clientRepo memTx

func (r *clientRepo) find(match func(*client.Client) bool) *client.Client {
	for _, c := range r.clients {
		if match(c) {
			return c
		}
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, c := range r.store.clients {
		if match(c) {
			return c
		}
	}
	return nil
}

func (r *clientRepo) FindByEmail(_ context.Context, businessID uuid.UUID, email client.Email) (*client.Client, error) {
	c := r.find(func(c *client.Client) bool {
		return c.BusinessID() == businessID && c.Email() == email
	})
	if c == nil {
		return nil, infra.WrapRepoErr("client not found", nil, infra.KindNotFound)
	}
	return c, nil
}

func (r *clientRepo) FindByID(_ context.Context, businessID, id uuid.UUID) (*client.Client, error) {
	c := r.find(func(c *client.Client) bool {
		return c.BusinessID() == businessID && c.ID() == id
	})
	if c == nil {
		return nil, infra.WrapRepoErr("client not found", nil, infra.KindNotFound)
	}
	return c, nil
}

func (r *clientRepo) Create(ctx context.Context, c *client.Client) error {
	if _, err := r.FindByEmail(ctx, c.BusinessID(), c.Email()); err == nil {
		return infra.WrapRepoErr("failed to create client", nil, infra.KindDuplicateKey)
	}
	r.clients[c.ID()] = c
	return nil
}

type notificationRepo memTx

func (r *notificationRepo) CreateJob(_ context.Context, kind, topic string, payload []byte, runAt time.Time) error {
	r.jobs = append(r.jobs, NotificationJob{
		ID:      uuid.New(),
		Kind:    kind,
		Topic:   topic,
		Payload: payload,
		RunAt:   runAt,
		Status:  "queued",
	})
	return nil
}
