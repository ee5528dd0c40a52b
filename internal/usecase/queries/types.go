package queries

//go:generate mockgen -source=types.go -destination=../../../tests/mock/queries/types.go -package=queriesmock

import (
	"context"
	"time"

	"salon-scheduler/internal/domain/appointment"
	"salon-scheduler/internal/domain/catalog"
	"salon-scheduler/internal/domain/schedule"

	"github.com/google/uuid"
)

// AppointmentView represents read-optimized appointment data joined with
// its service and business.
type AppointmentView struct {
	ID                 uuid.UUID  `json:"id"`
	BusinessID         uuid.UUID  `json:"business_id"`
	BusinessName       string     `json:"business_name"`
	ServiceID          uuid.UUID  `json:"service_id"`
	ServiceName        string     `json:"service_name"`
	DurationMinutes    int        `json:"duration_minutes"`
	ClientID           *uuid.UUID `json:"client_id,omitempty"`
	ClientName         string     `json:"client_name"`
	ClientEmail        string     `json:"client_email"`
	ClientPhone        string     `json:"client_phone"`
	Status             string     `json:"status"`
	Start              time.Time  `json:"start_datetime"`
	End                time.Time  `json:"end_datetime"`
	CancellationReason *string    `json:"cancellation_reason,omitempty"`
	TokenExpiresAt     *time.Time `json:"token_expires_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

type SlotView struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type SlotsResult struct {
	Date      string     `json:"date"`
	ServiceID uuid.UUID  `json:"service_id"`
	Slots     []SlotView `json:"slots"`
}

type CatalogReadStore interface {
	FindService(ctx context.Context, id uuid.UUID) (*catalog.Service, error)
	FindBusiness(ctx context.Context, id uuid.UUID) (*catalog.Business, error)
}

type OccupancyReadStore interface {
	// FindOccupancy returns active bookings of the business overlapping window.
	FindOccupancy(ctx context.Context, businessID uuid.UUID, window schedule.Interval) (appointment.Occupancy, error)
}

type AppointmentReadStore interface {
	FindViewByID(ctx context.Context, id uuid.UUID) (*AppointmentView, error)
	// ListByBusinessBetween lists appointments of any status starting inside window, ordered by start.
	ListByBusinessBetween(ctx context.Context, businessID uuid.UUID, window schedule.Interval) ([]*AppointmentView, error)
}

type TokenValidator interface {
	Validate(ctx context.Context, raw string, now time.Time) (*appointment.Appointment, error)
}
