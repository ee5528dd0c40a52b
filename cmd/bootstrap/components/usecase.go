package components

import (
	"salon-scheduler/internal/pkg/clock"
	"salon-scheduler/internal/pkg/config"
	"salon-scheduler/internal/pkg/metrics"
	"salon-scheduler/internal/usecase"
	"salon-scheduler/internal/usecase/commands"
	"salon-scheduler/internal/usecase/queries"
	"salon-scheduler/internal/usecase/shared"
	"salon-scheduler/internal/usecase/tokens"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	metrics.NewBookingMetrics,
	fx.Annotate(
		NewTokenIssuer,
		fx.As(new(commands.TokenIssuer)),
		fx.As(new(queries.TokenValidator)),
	),
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewAppointmentCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewSlotQueries,
		queries.NewAppointmentQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewActorValidator,
	),
)

func NewTokenIssuer(uow shared.UnitOfWork, clk clock.Clock, cfg config.Config) *tokens.Issuer {
	return tokens.NewIssuer(uow.CommandReads(), clk, cfg.Booking.TokenTTL)
}
