package shared

import (
	"context"
	"time"

	"salon-scheduler/internal/domain/appointment"
	"salon-scheduler/internal/domain/catalog"
	"salon-scheduler/internal/domain/client"
	"salon-scheduler/internal/domain/schedule"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// WithinBusiness runs fn as one atomic unit. Units for the same business
	// never interleave, so a check followed by a write inside fn cannot race
	// another unit's check and write on that calendar.
	WithinBusiness(ctx context.Context, businessID uuid.UUID, fn func(ctx context.Context, tx Tx) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Appointments() AppointmentRepository
	Clients() ClientRepository
	Notifications() NotificationRepository
	Reads() CommandReads
}

type CommandReads interface {
	ServiceByID(ctx context.Context, id uuid.UUID) (*catalog.Service, error)
	BusinessByID(ctx context.Context, id uuid.UUID) (*catalog.Business, error)
	AppointmentByTokenHash(ctx context.Context, hash string) (*appointment.Appointment, error)
}

type AppointmentRepository interface {
	// IsSlotFree is the availability check: false iff an active appointment of
	// the business other than exclude overlaps slot.
	IsSlotFree(ctx context.Context, businessID uuid.UUID, slot schedule.Interval, exclude *uuid.UUID) (bool, error)
	Create(ctx context.Context, a *appointment.Appointment) error
	FindForUpdate(ctx context.Context, businessID, id uuid.UUID) (*appointment.Appointment, error)
	Save(ctx context.Context, a *appointment.Appointment) error
}

type ClientRepository interface {
	FindByEmail(ctx context.Context, businessID uuid.UUID, email client.Email) (*client.Client, error)
	FindByID(ctx context.Context, businessID, id uuid.UUID) (*client.Client, error)
	Create(ctx context.Context, c *client.Client) error
}

type NotificationRepository interface {
	CreateJob(ctx context.Context, kind, topic string, payload []byte, runAt time.Time) error
}
