package appointment

import (
	"salon-scheduler/internal/domain/schedule"

	"github.com/google/uuid"
)

// Booking is an occupied interval on a business calendar.
type Booking struct {
	AppointmentID uuid.UUID
	Slot          schedule.Interval
}

// Occupancy is the set of active bookings for one business over some window.
type Occupancy []Booking

// IsFree reports whether slot overlaps no booking, ignoring exclude when set.
func (o Occupancy) IsFree(slot schedule.Interval, exclude *uuid.UUID) bool {
	for _, b := range o {
		if exclude != nil && b.AppointmentID == *exclude {
			continue
		}
		if b.Slot.Overlaps(slot) {
			return false
		}
	}
	return true
}
