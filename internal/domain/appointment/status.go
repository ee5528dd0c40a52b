package appointment

import (
	"errors"
	"strings"
)

var (
	ErrInvalidStatus     = errors.New("invalid appointment status")
	ErrStatusNotAllowed  = errors.New("status not allowed for this operation")
	ErrTransitionRefused = errors.New("appointment status does not allow this change")
)

type Status string

const (
	StatusPending     Status = "PENDING"
	StatusConfirmed   Status = "CONFIRMED"
	StatusRescheduled Status = "RESCHEDULED"
	StatusCancelled   Status = "CANCELLED"
	StatusCompleted   Status = "COMPLETED"
)

// ActiveStatuses occupy the calendar.
var ActiveStatuses = []Status{StatusPending, StatusConfirmed, StatusRescheduled}

func ActiveStatusNames() []string {
	names := make([]string, 0, len(ActiveStatuses))
	for _, s := range ActiveStatuses {
		names = append(names, s.String())
	}
	return names
}

var transitions = map[Status][]Status{
	StatusPending:     {StatusConfirmed, StatusRescheduled, StatusCancelled, StatusCompleted},
	StatusConfirmed:   {StatusRescheduled, StatusCancelled, StatusCompleted},
	StatusRescheduled: {StatusConfirmed, StatusRescheduled, StatusCancelled, StatusCompleted},
	StatusCancelled:   nil,
	StatusCompleted:   nil,
}

// staffTargets are the statuses a staff member may set directly.
var staffTargets = map[Status]struct{}{
	StatusCancelled: {},
	StatusCompleted: {},
	StatusConfirmed: {},
}

func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", ErrInvalidStatus
	}
	return st, nil
}

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

func (s Status) IsActive() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusRescheduled:
		return true
	default:
		return false
	}
}

func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// CanTransitionTo follows the lifecycle table. Terminal statuses have no exits.
func (s Status) CanTransitionTo(target Status) bool {
	for _, t := range transitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// IsStaffTarget reports whether staff may set the status through the status operation.
func (s Status) IsStaffTarget() bool {
	_, ok := staffTargets[s]
	return ok
}
