package components

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"salon-scheduler/internal/domain/catalog"
	"salon-scheduler/internal/domain/schedule"
	"salon-scheduler/internal/infra/db"
	"salon-scheduler/internal/infra/memstore"
	"salon-scheduler/internal/infra/readstore"
	"salon-scheduler/internal/infra/uow"
	"salon-scheduler/internal/pkg/clock"
	"salon-scheduler/internal/pkg/config"
	"salon-scheduler/internal/usecase/queries"
	"salon-scheduler/internal/usecase/shared"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewStores,
	),
)

// Demo catalog served by the memory driver.
var (
	DemoBusinessID = uuid.MustParse("8d7f3c1e-4b2a-4c9e-9f10-5a6b7c8d9e01")
	DemoHaircutID  = uuid.MustParse("8d7f3c1e-4b2a-4c9e-9f10-5a6b7c8d9e02")
	DemoColorID    = uuid.MustParse("8d7f3c1e-4b2a-4c9e-9f10-5a6b7c8d9e03")
)

// Stores binds every persistence port to one driver so reads and the unit of
// work always see the same data.
type Stores struct {
	fx.Out

	UnitOfWork   shared.UnitOfWork
	Catalog      queries.CatalogReadStore
	Occupancy    queries.OccupancyReadStore
	Appointments queries.AppointmentReadStore
}

func NewStores(lc fx.Lifecycle, cfg config.Config, clk clock.Clock, logger *slog.Logger) (Stores, error) {
	switch cfg.Booking.StoreDriver {
	case config.StoreDriverMemory:
		return newMemoryStores(cfg, clk, logger)
	case config.StoreDriverPostgres:
		return newPostgresStores(lc, cfg)
	default:
		return Stores{}, fmt.Errorf("unknown store driver %q", cfg.Booking.StoreDriver)
	}
}

func newPostgresStores(lc fx.Lifecycle, cfg config.Config) (Stores, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, cleanup, err := db.Connect(ctx, cfg.DB)
	if err != nil {
		return Stores{}, err
	}
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			cleanup()
			return nil
		},
	})

	appointments := readstore.NewAppointmentReadStore(pool)
	return Stores{
		UnitOfWork:   uow.NewPostgresUoW(pool),
		Catalog:      readstore.NewCatalogReadStore(pool),
		Occupancy:    appointments,
		Appointments: appointments,
	}, nil
}

func newMemoryStores(cfg config.Config, clk clock.Clock, logger *slog.Logger) (Stores, error) {
	store := memstore.New(clk)
	if err := seedDemoCatalog(store, cfg.Booking.DefaultTimeZone); err != nil {
		return Stores{}, err
	}
	logger.Warn("using in-memory store, data is lost on restart",
		"business_id", DemoBusinessID,
		"services", []string{DemoHaircutID.String(), DemoColorID.String()},
	)
	return Stores{
		UnitOfWork:   store,
		Catalog:      store,
		Occupancy:    store,
		Appointments: store,
	}, nil
}

func seedDemoCatalog(store *memstore.Store, timeZone string) error {
	loc, err := time.LoadLocation(timeZone)
	if err != nil {
		return fmt.Errorf("load demo time zone: %w", err)
	}
	opening, closing := schedule.MustWallClock("09:00"), schedule.MustWallClock("18:00")
	biz, err := catalog.NewBusiness(DemoBusinessID, "Demo Salon", &opening, &closing, loc, "+55 11 90000-0000")
	if err != nil {
		return err
	}
	haircut, err := catalog.NewService(DemoHaircutID, biz.ID(), "Haircut", 60, nil, nil, nil)
	if err != nil {
		return err
	}
	colorStart, colorEnd := schedule.MustWallClock("10:00"), schedule.MustWallClock("16:00")
	color, err := catalog.NewService(DemoColorID, biz.ID(), "Coloring", 90, []int{2, 3, 4, 5, 6}, &colorStart, &colorEnd)
	if err != nil {
		return err
	}
	store.AddBusiness(biz)
	store.AddService(haircut)
	store.AddService(color)
	return nil
}
