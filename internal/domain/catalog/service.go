package catalog

import (
	"slices"
	"time"

	"salon-scheduler/internal/domain/schedule"

	"github.com/google/uuid"
)

// Service is a bookable offering. Optional hours narrow the business hours.
type Service struct {
	id            uuid.UUID
	businessID    uuid.UUID
	name          string
	duration      time.Duration
	availableDays []time.Weekday
	startTime     *schedule.WallClock
	endTime       *schedule.WallClock
}

func NewService(
	id, businessID uuid.UUID,
	name string,
	durationMinutes int,
	availableDays []int,
	start, end *schedule.WallClock,
) (*Service, error) {
	if durationMinutes <= 0 {
		return nil, ErrInvalidDuration
	}
	if start != nil && end != nil && !start.Before(*end) {
		return nil, ErrInvalidServiceHours
	}

	days := make([]time.Weekday, 0, len(availableDays))
	for _, d := range availableDays {
		if d < 0 || d > 6 {
			return nil, ErrInvalidWeekday
		}
		if !slices.Contains(days, time.Weekday(d)) {
			days = append(days, time.Weekday(d))
		}
	}

	return &Service{
		id:            id,
		businessID:    businessID,
		name:          name,
		duration:      time.Duration(durationMinutes) * time.Minute,
		availableDays: days,
		startTime:     start,
		endTime:       end,
	}, nil
}

func (s *Service) ID() uuid.UUID                  { return s.id }
func (s *Service) BusinessID() uuid.UUID          { return s.businessID }
func (s *Service) Name() string                   { return s.name }
func (s *Service) Duration() time.Duration        { return s.duration }
func (s *Service) StartTime() *schedule.WallClock { return s.startTime }
func (s *Service) EndTime() *schedule.WallClock   { return s.endTime }

func (s *Service) DurationMinutes() int {
	return int(s.duration / time.Minute)
}

func (s *Service) AvailableDays() []time.Weekday {
	return slices.Clone(s.availableDays)
}

// OffersOn reports weekday eligibility. No restriction means every day.
func (s *Service) OffersOn(day time.Weekday) bool {
	return len(s.availableDays) == 0 || slices.Contains(s.availableDays, day)
}

// EffectiveWindow intersects the service hours with the business hours on the
// given local date. ok is false when the weekday is excluded, when no start or
// no end bound exists on either side, or when the intersection is empty.
func (s *Service) EffectiveWindow(b *Business, date time.Time) (window schedule.Interval, ok bool) {
	loc := b.Location()
	local := date.In(loc)
	if !s.OffersOn(local.Weekday()) {
		return schedule.Interval{}, false
	}

	start := latest(s.startTime, b.openingTime)
	end := earliest(s.endTime, b.closingTime)
	if start == nil || end == nil {
		return schedule.Interval{}, false
	}

	window = schedule.Interval{Start: start.On(local, loc), End: end.On(local, loc)}
	if window.IsEmpty() {
		return schedule.Interval{}, false
	}
	return window, true
}

// CandidateSlots enumerates every duration-sized step of the effective window,
// ignoring occupancy.
func (s *Service) CandidateSlots(b *Business, date time.Time) []schedule.Interval {
	window, ok := s.EffectiveWindow(b, date)
	if !ok {
		return nil
	}
	return slices.Collect(schedule.Slots(window, s.duration))
}

// SlotAt builds the [start, start+duration) interval for a requested local date and time.
func (s *Service) SlotAt(b *Business, date, clock string) (schedule.Interval, error) {
	start, err := schedule.Combine(date, clock, b.Location())
	if err != nil {
		return schedule.Interval{}, err
	}
	return schedule.Span(start, s.duration)
}

func latest(a, b *schedule.WallClock) *schedule.WallClock {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case a.Before(*b):
		return b
	default:
		return a
	}
}

func earliest(a, b *schedule.WallClock) *schedule.WallClock {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case a.Before(*b):
		return a
	default:
		return b
	}
}
