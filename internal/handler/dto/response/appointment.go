package response

import (
	"time"

	"salon-scheduler/internal/usecase/commands"
	"salon-scheduler/internal/usecase/queries"
)

type SlotResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type AvailableSlotsResponse struct {
	Date      string         `json:"date"`
	ServiceID string         `json:"service_id"`
	Slots     []SlotResponse `json:"slots"`
}

func FromSlotsResult(r *queries.SlotsResult) *AvailableSlotsResponse {
	slots := make([]SlotResponse, len(r.Slots))
	for i, s := range r.Slots {
		slots[i] = SlotResponse{Start: isoInstant(s.Start), End: isoInstant(s.End)}
	}
	return &AvailableSlotsResponse{
		Date:      r.Date,
		ServiceID: r.ServiceID.String(),
		Slots:     slots,
	}
}

type BookingResponse struct {
	ID              string `json:"id"`
	Status          string `json:"status"`
	StartDatetime   string `json:"start_datetime"`
	EndDatetime     string `json:"end_datetime"`
	ManagementToken string `json:"management_token"`
	TokenExpiresAt  string `json:"token_expires_at"`
}

func FromBookingResult(r *commands.BookingResult) *BookingResponse {
	return &BookingResponse{
		ID:              r.ID.String(),
		Status:          r.Status.String(),
		StartDatetime:   isoInstant(r.Start),
		EndDatetime:     isoInstant(r.End),
		ManagementToken: r.ManagementToken,
		TokenExpiresAt:  isoInstant(r.TokenExpiresAt),
	}
}

// StaffBookingResponse omits the management token, staff never handle it.
type StaffBookingResponse struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	StartDatetime string `json:"start_datetime"`
	EndDatetime   string `json:"end_datetime"`
}

func FromStaffBookingResult(r *commands.BookingResult) *StaffBookingResponse {
	return &StaffBookingResponse{
		ID:            r.ID.String(),
		Status:        r.Status.String(),
		StartDatetime: isoInstant(r.Start),
		EndDatetime:   isoInstant(r.End),
	}
}

type RescheduleResponse struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	StartDatetime string `json:"start_datetime"`
	EndDatetime   string `json:"end_datetime"`
}

func FromRescheduleResult(r *commands.RescheduleResult) *RescheduleResponse {
	return &RescheduleResponse{
		ID:            r.ID.String(),
		Status:        r.Status.String(),
		StartDatetime: isoInstant(r.Start),
		EndDatetime:   isoInstant(r.End),
	}
}

type StatusResponse struct {
	ID                 string  `json:"id"`
	Status             string  `json:"status"`
	CancellationReason *string `json:"cancellation_reason,omitempty"`
}

func FromStatusResult(r *commands.StatusResult) *StatusResponse {
	return &StatusResponse{
		ID:                 r.ID.String(),
		Status:             r.Status.String(),
		CancellationReason: r.CancellationReason,
	}
}

type AppointmentResponse struct {
	ID                 string  `json:"id"`
	BusinessName       string  `json:"business_name"`
	ServiceID          string  `json:"service_id"`
	ServiceName        string  `json:"service_name"`
	DurationMinutes    int     `json:"duration_minutes"`
	ClientName         string  `json:"client_name"`
	ClientEmail        string  `json:"client_email,omitempty"`
	ClientPhone        string  `json:"client_phone,omitempty"`
	Status             string  `json:"status"`
	StartDatetime      string  `json:"start_datetime"`
	EndDatetime        string  `json:"end_datetime"`
	CancellationReason *string `json:"cancellation_reason,omitempty"`
	CreatedAt          int64   `json:"created_at"`
}

func FromAppointmentView(v *queries.AppointmentView) *AppointmentResponse {
	return &AppointmentResponse{
		ID:                 v.ID.String(),
		BusinessName:       v.BusinessName,
		ServiceID:          v.ServiceID.String(),
		ServiceName:        v.ServiceName,
		DurationMinutes:    v.DurationMinutes,
		ClientName:         v.ClientName,
		ClientEmail:        v.ClientEmail,
		ClientPhone:        v.ClientPhone,
		Status:             v.Status,
		StartDatetime:      isoInstant(v.Start),
		EndDatetime:        isoInstant(v.End),
		CancellationReason: v.CancellationReason,
		CreatedAt:          v.CreatedAt.Unix(),
	}
}

// FromAppointmentViewPublic hides contact details on the token surface.
func FromAppointmentViewPublic(v *queries.AppointmentView) *AppointmentResponse {
	res := FromAppointmentView(v)
	res.ClientEmail = ""
	res.ClientPhone = ""
	return res
}

func FromAppointmentViews(vs []*queries.AppointmentView) []*AppointmentResponse {
	res := make([]*AppointmentResponse, len(vs))
	for i, v := range vs {
		res[i] = FromAppointmentView(v)
	}
	return res
}

func isoInstant(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
