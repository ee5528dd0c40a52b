//go:build unit

package api_test

import (
	"net/http"
	"testing"
	"time"

	"salon-scheduler/internal/domain/appointment"
	"salon-scheduler/internal/domain/user"
	"salon-scheduler/internal/handler/api"
	resdto "salon-scheduler/internal/handler/dto/response"
	"salon-scheduler/internal/handler/middleware"
	"salon-scheduler/internal/pkg/errs"
	"salon-scheduler/internal/pkg/jwt"
	"salon-scheduler/internal/usecase/commands"
	"salon-scheduler/internal/usecase/queries"
	"salon-scheduler/tests/common/authtest"
	"salon-scheduler/tests/common/builder"
	"salon-scheduler/tests/common/httptest"
	"salon-scheduler/tests/common/testutil"
	commandsmock "salon-scheduler/tests/mock/commands"
	queriesmock "salon-scheduler/tests/mock/queries"
	usecasemock "salon-scheduler/tests/mock/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

const staffToken = "staff-access-token"

type AppointmentHandlerTestSuite struct {
	suite.Suite
	router        *gin.Engine
	mockCtrl      *gomock.Controller
	mockCommands  *commandsmock.MockAppointmentCommands
	mockQueries   *queriesmock.MockAppointmentQueries
	mockValidator *usecasemock.MockActorValidator
	actor         user.Actor
}

func (s *AppointmentHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockAppointmentCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockAppointmentQueries(s.mockCtrl)
	s.mockValidator = usecasemock.NewMockActorValidator(s.mockCtrl)
	s.actor = authtest.NewStaffActor(s.T())

	h := api.NewAppointmentHandler(s.mockCommands, s.mockQueries)
	staff := s.router.Group("/appointments")
	staff.Use(middleware.NewAuthMiddleware(s.mockValidator).RequireAuth())
	staff.GET("", h.List)
	staff.POST("", h.Create)
	staff.GET("/:id", h.Get)
	staff.PATCH("/:id/status", h.UpdateStatus)
	staff.POST("/:id/reschedule", h.Reschedule)
}

func (s *AppointmentHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestAppointmentHandlerSuite(t *testing.T) {
	suite.Run(t, new(AppointmentHandlerTestSuite))
}

func (s *AppointmentHandlerTestSuite) authenticated() {
	s.mockValidator.EXPECT().ValidateToken(staffToken).Return(s.actor, nil).Times(1)
}

func (s *AppointmentHandlerTestSuite) view(start time.Time, status string) *queries.AppointmentView {
	return &queries.AppointmentView{
		ID:              uuid.New(),
		BusinessID:      s.actor.BusinessID,
		BusinessName:    "Studio Bela",
		ServiceID:       uuid.New(),
		ServiceName:     "Corte",
		DurationMinutes: 60,
		ClientName:      "Maria Silva",
		ClientEmail:     "maria@example.com",
		Status:          status,
		Start:           start,
		End:             start.Add(time.Hour),
	}
}

func (s *AppointmentHandlerTestSuite) TestAuthentication() {
	s.Run("error: 401 without a token", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/appointments", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Access token required")
	})

	s.Run("error: 401 for an invalid token", func() {
		s.mockValidator.EXPECT().ValidateToken("bogus").Return(user.Actor{}, jwt.ErrInvalidToken).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/appointments", nil, "bogus")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Invalid or expired token")
	})

	s.Run("success: token is accepted from the access_token cookie", func() {
		s.authenticated()
		s.mockQueries.EXPECT().ListByDay(gomock.Any(), s.actor, "").Return(nil, nil).Times(1)

		cookies := []*http.Cookie{{Name: "access_token", Value: staffToken}}
		rec := httptest.PerformRequestWithCookies(s.T(), s.router, http.MethodGet, "/appointments", nil, cookies, "")
		s.Equal(http.StatusOK, rec.Code)
	})
}

func (s *AppointmentHandlerTestSuite) TestList() {
	s.Run("success: lists the actor's day in order", func() {
		first := s.view(slotStart, "CONFIRMED")
		second := s.view(slotStart.Add(time.Hour), "CANCELLED")
		s.authenticated()
		s.mockQueries.EXPECT().ListByDay(gomock.Any(), s.actor, "2026-02-05").
			Return([]*queries.AppointmentView{first, second}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/appointments?date=2026-02-05", nil, staffToken)

		var response struct {
			Appointments []resdto.AppointmentResponse `json:"appointments"`
		}
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Require().Len(response.Appointments, 2)
		s.Equal(first.ID.String(), response.Appointments[0].ID)
		s.Equal("maria@example.com", response.Appointments[0].ClientEmail)
		s.Equal("CANCELLED", response.Appointments[1].Status)
	})

	s.Run("error: 400 for a malformed date", func() {
		s.authenticated()
		s.mockQueries.EXPECT().ListByDay(gomock.Any(), s.actor, "05/02/2026").
			Return(nil, errs.Mark(errs.New("invalid date"), errs.ErrInvalidInput)).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/appointments?date=05/02/2026", nil, staffToken)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
		httptest.AssertErrorReason(s.T(), rec, http.StatusBadRequest, "invalid date")
	})
}

func (s *AppointmentHandlerTestSuite) TestGet() {
	s.Run("success", func() {
		v := s.view(slotStart, "PENDING")
		s.authenticated()
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.actor, v.ID).Return(v, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/appointments/"+v.ID.String(), nil, staffToken)

		var response resdto.AppointmentResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(v.ID.String(), response.ID)
	})

	s.Run("error: 400 for a malformed id", func() {
		s.authenticated()
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/appointments/not-a-uuid", nil, staffToken)
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("error: 404 for another business", func() {
		id := uuid.New()
		s.authenticated()
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.actor, id).Return(nil, errs.ErrNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/appointments/"+id.String(), nil, staffToken)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Appointment not found")
	})
}

func (s *AppointmentHandlerTestSuite) TestCreate() {
	dto := builder.NewStaffBookingBuilder().BuildDTO()

	s.Run("success: 201 without exposing the token", func() {
		s.authenticated()
		s.mockCommands.EXPECT().CreateByStaff(gomock.Any(), s.actor, dto.ToInput()).
			Return(&commands.BookingResult{
				ID:              uuid.New(),
				Status:          appointment.StatusConfirmed,
				Start:           slotStart,
				End:             slotStart.Add(time.Hour),
				ManagementToken: testToken,
			}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/appointments", dto, staffToken)

		var response resdto.StaffBookingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal("CONFIRMED", response.Status)
		s.NotContains(rec.Body.String(), testToken)
	})

	s.Run("error: 400 when service_id is missing", func() {
		s.authenticated()
		body := testutil.DtoMap(s.T(), dto, testutil.Field("service_id", nil))
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/appointments", body, staffToken)
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("error: 409 when the slot is taken", func() {
		s.authenticated()
		s.mockCommands.EXPECT().CreateByStaff(gomock.Any(), s.actor, gomock.Any()).
			Return(nil, errs.Mark(errs.New("overlap"), errs.ErrConflict)).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/appointments", dto, staffToken)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "Time slot unavailable")
	})
}

func (s *AppointmentHandlerTestSuite) TestUpdateStatus() {
	id := uuid.New()
	url := "/appointments/" + id.String() + "/status"

	s.Run("success: status is normalized to upper case", func() {
		reason := "No show"
		s.authenticated()
		s.mockCommands.EXPECT().
			UpdateStatus(gomock.Any(), s.actor, id, commands.StatusInput{Status: "CANCELLED", CancellationReason: &reason}).
			Return(&commands.StatusResult{ID: id, Status: appointment.StatusCancelled, CancellationReason: &reason}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url,
			map[string]any{"status": "cancelled", "cancellation_reason": "No show"}, staffToken)

		var response resdto.StatusResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal("CANCELLED", response.Status)
		s.Require().NotNil(response.CancellationReason)
		s.Equal("No show", *response.CancellationReason)
	})

	s.Run("error: 422 for a disallowed transition", func() {
		s.authenticated()
		s.mockCommands.EXPECT().UpdateStatus(gomock.Any(), s.actor, id, gomock.Any()).
			Return(nil, errs.Mark(errs.New("cannot transition from CANCELLED to COMPLETED"), errs.ErrInvalidStatus)).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, map[string]any{"status": "COMPLETED"}, staffToken)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnprocessableEntity, "Status transition not allowed")
		httptest.AssertErrorReason(s.T(), rec, http.StatusUnprocessableEntity, "CANCELLED to COMPLETED")
	})

	s.Run("error: 400 when status is missing", func() {
		s.authenticated()
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPatch, url, map[string]any{}, staffToken)
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *AppointmentHandlerTestSuite) TestReschedule() {
	id := uuid.New()
	url := "/appointments/" + id.String() + "/reschedule"
	body := map[string]any{"date": "2026-02-05", "time": "15:00"}

	s.Run("success", func() {
		s.authenticated()
		s.mockCommands.EXPECT().
			Reschedule(gomock.Any(), s.actor, id, commands.RescheduleInput{Date: "2026-02-05", Time: "15:00"}).
			Return(&commands.RescheduleResult{
				ID:     id,
				Status: appointment.StatusRescheduled,
				Start:  slotStart.Add(5 * time.Hour),
				End:    slotStart.Add(6 * time.Hour),
			}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, staffToken)

		var response resdto.RescheduleResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal("RESCHEDULED", response.Status)
		s.Equal("2026-02-05T18:00:00Z", response.StartDatetime)
	})

	s.Run("error: 422 for a closed appointment", func() {
		s.authenticated()
		s.mockCommands.EXPECT().Reschedule(gomock.Any(), s.actor, id, gomock.Any()).
			Return(nil, errs.ErrInvalidStatus).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, staffToken)
		s.Equal(http.StatusUnprocessableEntity, rec.Code)
	})
}
