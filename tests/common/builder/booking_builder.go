//go:build unit || e2e

package builder

import (
	reqdto "salon-scheduler/internal/handler/dto/request"

	"github.com/google/uuid"
)

type PublicBookingBuilder struct {
	ServiceID   uuid.UUID
	Date        string
	Time        string
	ClientName  string
	ClientEmail string
	ClientPhone string
}

func NewPublicBookingBuilder() *PublicBookingBuilder {
	return &PublicBookingBuilder{
		ServiceID:   uuid.New(),
		Date:        "2026-02-05",
		Time:        "10:00",
		ClientName:  "Maria Silva",
		ClientEmail: "maria@example.com",
		ClientPhone: "+55 11 91234-5678",
	}
}

func (b *PublicBookingBuilder) With(mutate func(*PublicBookingBuilder)) *PublicBookingBuilder {
	mutate(b)
	return b
}

func (b *PublicBookingBuilder) BuildDTO() reqdto.PublicBookingRequest {
	return reqdto.PublicBookingRequest{
		ServiceID:   b.ServiceID,
		Date:        b.Date,
		Time:        b.Time,
		ClientName:  b.ClientName,
		ClientEmail: b.ClientEmail,
		ClientPhone: b.ClientPhone,
	}
}

type StaffBookingBuilder struct {
	ServiceID  uuid.UUID
	ClientID   *uuid.UUID
	Date       string
	Time       string
	ClientName string
}

func NewStaffBookingBuilder() *StaffBookingBuilder {
	return &StaffBookingBuilder{
		ServiceID:  uuid.New(),
		Date:       "2026-02-05",
		Time:       "14:00",
		ClientName: "Walk-in",
	}
}

func (b *StaffBookingBuilder) With(mutate func(*StaffBookingBuilder)) *StaffBookingBuilder {
	mutate(b)
	return b
}

func (b *StaffBookingBuilder) BuildDTO() reqdto.StaffBookingRequest {
	return reqdto.StaffBookingRequest{
		ServiceID:  b.ServiceID,
		ClientID:   b.ClientID,
		Date:       b.Date,
		Time:       b.Time,
		ClientName: b.ClientName,
	}
}
