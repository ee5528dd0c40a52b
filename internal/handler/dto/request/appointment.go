package request

import (
	"strings"

	"salon-scheduler/internal/usecase/commands"

	"github.com/google/uuid"
)

type AvailableSlotsQuery struct {
	ServiceID string `form:"service_id" binding:"required"`
	Date      string `form:"date" binding:"required"`
}

func (q AvailableSlotsQuery) ParsedServiceID() (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(q.ServiceID))
}

type PublicBookingRequest struct {
	ServiceID   uuid.UUID `json:"service_id" binding:"required"`
	Date        string    `json:"date" binding:"required"`
	Time        string    `json:"time" binding:"required"`
	ClientName  string    `json:"client_name" binding:"required,max=200"`
	ClientEmail string    `json:"client_email" binding:"required,max=320"`
	ClientPhone string    `json:"client_phone" binding:"max=40"`
}

func (r PublicBookingRequest) ToInput() commands.PublicBookingInput {
	return commands.PublicBookingInput{
		ServiceID:   r.ServiceID,
		Date:        r.Date,
		Time:        r.Time,
		ClientName:  r.ClientName,
		ClientEmail: r.ClientEmail,
		ClientPhone: r.ClientPhone,
	}
}

// StaffBookingRequest either references an existing client or describes a new one.
type StaffBookingRequest struct {
	ServiceID   uuid.UUID  `json:"service_id" binding:"required"`
	ClientID    *uuid.UUID `json:"client_id,omitempty"`
	Date        string     `json:"date" binding:"required"`
	Time        string     `json:"time" binding:"required"`
	ClientName  string     `json:"client_name" binding:"max=200"`
	ClientEmail string     `json:"client_email" binding:"max=320"`
	ClientPhone string     `json:"client_phone" binding:"max=40"`
}

func (r StaffBookingRequest) ToInput() commands.StaffBookingInput {
	return commands.StaffBookingInput{
		ServiceID:   r.ServiceID,
		ClientID:    r.ClientID,
		Date:        r.Date,
		Time:        r.Time,
		ClientName:  r.ClientName,
		ClientEmail: r.ClientEmail,
		ClientPhone: r.ClientPhone,
	}
}

type UpdateStatusRequest struct {
	Status             string  `json:"status" binding:"required"`
	CancellationReason *string `json:"cancellation_reason,omitempty"`
}

func (r UpdateStatusRequest) ToInput() commands.StatusInput {
	return commands.StatusInput{
		Status:             strings.ToUpper(strings.TrimSpace(r.Status)),
		CancellationReason: trimmedOrNil(r.CancellationReason),
	}
}

type RescheduleRequest struct {
	Date string `json:"date" binding:"required"`
	Time string `json:"time" binding:"required"`
}

func (r RescheduleRequest) ToInput() commands.RescheduleInput {
	return commands.RescheduleInput{Date: r.Date, Time: r.Time}
}

type CancelByTokenRequest struct {
	Token  string  `json:"token" binding:"required"`
	Reason *string `json:"reason,omitempty"`
}

// TrimmedReason drops blank reasons so the default one applies.
func (r CancelByTokenRequest) TrimmedReason() *string {
	return trimmedOrNil(r.Reason)
}

type RescheduleByTokenRequest struct {
	Token string `json:"token" binding:"required"`
	Date  string `json:"date" binding:"required"`
	Time  string `json:"time" binding:"required"`
}

func (r RescheduleByTokenRequest) ToInput() commands.RescheduleInput {
	return commands.RescheduleInput{Date: r.Date, Time: r.Time}
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
