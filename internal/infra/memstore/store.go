package memstore

import (
	"context"
	"slices"
	"sync"
	"time"

	"salon-scheduler/internal/domain/appointment"
	"salon-scheduler/internal/domain/catalog"
	"salon-scheduler/internal/domain/client"
	"salon-scheduler/internal/domain/schedule"
	"salon-scheduler/internal/infra"
	"salon-scheduler/internal/pkg/clock"
	"salon-scheduler/internal/usecase/queries"
	"salon-scheduler/internal/usecase/shared"

	"github.com/google/uuid"
)

// NotificationJob mirrors a notification_jobs row.
type NotificationJob struct {
	ID      uuid.UUID
	Kind    string
	Topic   string
	Payload []byte
	RunAt   time.Time
	Status  string
}

// Store is an in-process implementation of the persistence ports. Writers
// of one business are serialized by a per-business mutex held for the whole
// unit; their changes are staged and applied only when the unit succeeds.
type Store struct {
	mu           sync.RWMutex
	businesses   map[uuid.UUID]*catalog.Business
	services     map[uuid.UUID]*catalog.Service
	clients      map[uuid.UUID]*client.Client
	appointments map[uuid.UUID]*appointment.Appointment
	createdAt    map[uuid.UUID]time.Time
	updatedAt    map[uuid.UUID]time.Time
	jobs         []NotificationJob

	locksMu sync.Mutex
	locks   map[uuid.UUID]*sync.Mutex

	clock clock.Clock
}

var (
	_ shared.UnitOfWork            = (*Store)(nil)
	_ queries.CatalogReadStore     = (*Store)(nil)
	_ queries.OccupancyReadStore   = (*Store)(nil)
	_ queries.AppointmentReadStore = (*Store)(nil)
)

func New(clk clock.Clock) *Store {
	return &Store{
		businesses:   map[uuid.UUID]*catalog.Business{},
		services:     map[uuid.UUID]*catalog.Service{},
		clients:      map[uuid.UUID]*client.Client{},
		appointments: map[uuid.UUID]*appointment.Appointment{},
		createdAt:    map[uuid.UUID]time.Time{},
		updatedAt:    map[uuid.UUID]time.Time{},
		locks:        map[uuid.UUID]*sync.Mutex{},
		clock:        clk,
	}
}

func (s *Store) AddBusiness(b *catalog.Business) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.businesses[b.ID()] = b
}

func (s *Store) AddService(svc *catalog.Service) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.services[svc.ID()] = svc
}

// Jobs returns a copy of every queued notification.
func (s *Store) Jobs() []NotificationJob {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.jobs)
}

// Appointments returns copies of the stored appointments of a business.
func (s *Store) Appointments(businessID uuid.UUID) []*appointment.Appointment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*appointment.Appointment
	for _, a := range s.appointments {
		if a.BusinessID() == businessID {
			out = append(out, a.Clone())
		}
	}
	slices.SortFunc(out, func(a, b *appointment.Appointment) int {
		return a.Slot().Start.Compare(b.Slot().Start)
	})
	return out
}

func (s *Store) businessLock(id uuid.UUID) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

func (s *Store) WithinBusiness(ctx context.Context, businessID uuid.UUID, fn func(ctx context.Context, tx shared.Tx) error) error {
	lock := s.businessLock(businessID)
	lock.Lock()
	defer lock.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	tx := newTx(s)
	if err := fn(ctx, tx); err != nil {
		return err
	}
	s.commit(tx)
	return nil
}

func (s *Store) CommandReads() shared.CommandReads {
	return &reads{store: s}
}

func (s *Store) commit(tx *memTx) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	for id, a := range tx.appointments {
		if _, exists := s.appointments[id]; !exists {
			s.createdAt[id] = now
		}
		s.appointments[id] = a
		s.updatedAt[id] = now
	}
	for id, c := range tx.clients {
		s.clients[id] = c
	}
	s.jobs = append(s.jobs, tx.jobs...)
}

// ---- read side ----

func (s *Store) FindService(_ context.Context, id uuid.UUID) (*catalog.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	svc, ok := s.services[id]
	if !ok {
		return nil, infra.WrapRepoErr("service not found", nil, infra.KindNotFound)
	}
	return svc, nil
}

func (s *Store) FindBusiness(_ context.Context, id uuid.UUID) (*catalog.Business, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.businesses[id]
	if !ok {
		return nil, infra.WrapRepoErr("business not found", nil, infra.KindNotFound)
	}
	return b, nil
}

func (s *Store) FindOccupancy(_ context.Context, businessID uuid.UUID, window schedule.Interval) (appointment.Occupancy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var occ appointment.Occupancy
	for _, a := range s.appointments {
		if a.BusinessID() == businessID && a.OccupiesCalendar() && a.Slot().Overlaps(window) {
			occ = append(occ, appointment.Booking{AppointmentID: a.ID(), Slot: a.Slot()})
		}
	}
	return occ, nil
}

func (s *Store) FindViewByID(_ context.Context, id uuid.UUID) (*queries.AppointmentView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.appointments[id]
	if !ok {
		return nil, infra.WrapRepoErr("appointment not found", nil, infra.KindNotFound)
	}
	return s.view(a), nil
}

func (s *Store) ListByBusinessBetween(_ context.Context, businessID uuid.UUID, window schedule.Interval) ([]*queries.AppointmentView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	views := []*queries.AppointmentView{}
	for _, a := range s.appointments {
		start := a.Slot().Start
		if a.BusinessID() != businessID || start.Before(window.Start) || !start.Before(window.End) {
			continue
		}
		views = append(views, s.view(a))
	}
	slices.SortFunc(views, func(a, b *queries.AppointmentView) int {
		return a.Start.Compare(b.Start)
	})
	return views, nil
}

// view requires s.mu held.
func (s *Store) view(a *appointment.Appointment) *queries.AppointmentView {
	v := &queries.AppointmentView{
		ID:                 a.ID(),
		BusinessID:         a.BusinessID(),
		ServiceID:          a.ServiceID(),
		ClientID:           a.ClientID(),
		ClientName:         a.Client().Name,
		ClientEmail:        a.Client().Email,
		ClientPhone:        a.Client().Phone,
		Status:             a.Status().String(),
		Start:              a.Slot().Start.UTC(),
		End:                a.Slot().End.UTC(),
		CancellationReason: a.CancellationReason(),
		CreatedAt:          s.createdAt[a.ID()],
		UpdatedAt:          s.updatedAt[a.ID()],
	}
	if b, ok := s.businesses[a.BusinessID()]; ok {
		v.BusinessName = b.Name()
	}
	if svc, ok := s.services[a.ServiceID()]; ok {
		v.ServiceName = svc.Name()
		v.DurationMinutes = svc.DurationMinutes()
	}
	if tok := a.Token(); !tok.IsZero() {
		exp := tok.ExpiresAt().UTC()
		v.TokenExpiresAt = &exp
	}
	return v
}

type reads struct {
	store *Store
	tx    *memTx
}

func (r *reads) ServiceByID(ctx context.Context, id uuid.UUID) (*catalog.Service, error) {
	return r.store.FindService(ctx, id)
}

func (r *reads) BusinessByID(ctx context.Context, id uuid.UUID) (*catalog.Business, error) {
	return r.store.FindBusiness(ctx, id)
}

func (r *reads) AppointmentByTokenHash(_ context.Context, hash string) (*appointment.Appointment, error) {
	if r.tx != nil {
		for _, a := range r.tx.appointments {
			if a.Token().Hash() == hash {
				return a.Clone(), nil
			}
		}
	}
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, a := range r.store.appointments {
		if a.Token().Hash() == hash {
			return a.Clone(), nil
		}
	}
	return nil, infra.WrapRepoErr("appointment not found", nil, infra.KindNotFound)
}
