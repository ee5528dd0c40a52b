package catalog

import (
	"errors"
	"time"

	"salon-scheduler/internal/domain/schedule"

	"github.com/google/uuid"
)

var (
	ErrInvalidBusinessHours = errors.New("opening time must be before closing time")
	ErrInvalidDuration      = errors.New("service duration must be positive")
	ErrInvalidWeekday       = errors.New("weekday must be between 0 (Sunday) and 6")
	ErrInvalidServiceHours  = errors.New("service start time must be before end time")
)

// Business is the salon owning one shared calendar.
type Business struct {
	id          uuid.UUID
	name        string
	openingTime *schedule.WallClock
	closingTime *schedule.WallClock
	location    *time.Location
	whatsapp    string
}

func NewBusiness(
	id uuid.UUID,
	name string,
	opening, closing *schedule.WallClock,
	location *time.Location,
	whatsapp string,
) (*Business, error) {
	if opening != nil && closing != nil && !opening.Before(*closing) {
		return nil, ErrInvalidBusinessHours
	}
	if location == nil {
		location = time.UTC
	}
	return &Business{
		id:          id,
		name:        name,
		openingTime: opening,
		closingTime: closing,
		location:    location,
		whatsapp:    whatsapp,
	}, nil
}

func (b *Business) ID() uuid.UUID                    { return b.id }
func (b *Business) Name() string                     { return b.name }
func (b *Business) OpeningTime() *schedule.WallClock { return b.openingTime }
func (b *Business) ClosingTime() *schedule.WallClock { return b.closingTime }
func (b *Business) Location() *time.Location         { return b.location }
func (b *Business) WhatsApp() string                 { return b.whatsapp }

// Today returns the business-local calendar day containing now.
func (b *Business) Today(now time.Time) schedule.Interval {
	return schedule.DayOf(now, b.location)
}
