package api

import (
	"net/http"
	"strings"

	reqdto "salon-scheduler/internal/handler/dto/request"
	resdto "salon-scheduler/internal/handler/dto/response"
	"salon-scheduler/internal/handler/httperr"
	"salon-scheduler/internal/usecase/commands"
	"salon-scheduler/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

// PublicBookingHandler serves anonymous clients. Management tokens are the
// only credential on these routes.
type PublicBookingHandler struct {
	cmds  commands.AppointmentCommands
	q     queries.AppointmentQueries
	slots queries.SlotQueries
}

func NewPublicBookingHandler(
	cmds commands.AppointmentCommands,
	q queries.AppointmentQueries,
	slots queries.SlotQueries,
) *PublicBookingHandler {
	return &PublicBookingHandler{cmds: cmds, q: q, slots: slots}
}

// AvailableSlots lists the free start times of a service on a local date.
// @Summary Available slots
// @Tags public
// @Produce json
// @Param service_id query string true "Service ID"
// @Param date query string true "Local date (YYYY-MM-DD)"
// @Success 200 {object} resdto.AvailableSlotsResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/appointments/available-slots [get]
func (h *PublicBookingHandler) AvailableSlots(c *gin.Context) {
	var query reqdto.AvailableSlotsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "service_id and date are required", nil)
		return
	}
	serviceID, err := query.ParsedServiceID()
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid service_id", nil)
		return
	}

	result, err := h.slots.AvailableSlots(c.Request.Context(), serviceID, query.Date)
	if err != nil {
		abortServiceLookup(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromSlotsResult(result))
}

// Create books a slot for an anonymous client and returns its management token.
// @Summary Create public booking
// @Tags public
// @Accept json
// @Produce json
// @Param request body reqdto.PublicBookingRequest true "Booking request"
// @Success 201 {object} resdto.BookingResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/appointments/public [post]
func (h *PublicBookingHandler) Create(c *gin.Context) {
	var req reqdto.PublicBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	result, err := h.cmds.CreatePublic(c.Request.Context(), req.ToInput())
	if err != nil {
		abortServiceLookup(c, err)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromBookingResult(result))
}

// GetByToken shows the appointment a management token grants access to.
// @Summary Get appointment by token
// @Tags public
// @Produce json
// @Param token query string true "Management token"
// @Success 200 {object} resdto.AppointmentResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/appointments/by-token [get]
func (h *PublicBookingHandler) GetByToken(c *gin.Context) {
	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		httperr.AbortWithError(c, http.StatusBadRequest, nil, "token is required", nil)
		return
	}

	view, err := h.q.GetByToken(c.Request.Context(), token)
	if err != nil {
		httperr.AbortWithPublicError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromAppointmentViewPublic(view))
}

// CancelByToken cancels through the self-service link.
// @Summary Cancel by token
// @Tags public
// @Accept json
// @Produce json
// @Param request body reqdto.CancelByTokenRequest true "Cancel request"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/appointments/cancel-by-token [post]
func (h *PublicBookingHandler) CancelByToken(c *gin.Context) {
	var req reqdto.CancelByTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "token is required", nil)
		return
	}

	if err := h.cmds.CancelByToken(c.Request.Context(), req.Token, req.TrimmedReason()); err != nil {
		httperr.AbortWithPublicError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Appointment cancelled"})
}

// RescheduleByToken moves the appointment through the self-service link.
// @Summary Reschedule by token
// @Tags public
// @Accept json
// @Produce json
// @Param request body reqdto.RescheduleByTokenRequest true "Reschedule request"
// @Success 200 {object} resdto.RescheduleResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /api/appointments/reschedule-by-token [post]
func (h *PublicBookingHandler) RescheduleByToken(c *gin.Context) {
	var req reqdto.RescheduleByTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "token, date and time are required", nil)
		return
	}

	result, err := h.cmds.RescheduleByToken(c.Request.Context(), req.Token, req.ToInput())
	if err != nil {
		httperr.AbortWithPublicError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromRescheduleResult(result))
}

// abortServiceLookup answers endpoints keyed by service id, where NotFound
// means the service rather than a token.
func abortServiceLookup(c *gin.Context, err error) {
	if httperr.StatusOf(err) == http.StatusNotFound {
		httperr.AbortWithError(c, http.StatusNotFound, err, "Service not found", nil)
		return
	}
	httperr.AbortWithPublicError(c, err)
}
