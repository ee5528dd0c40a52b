package components

import (
	"salon-scheduler/internal/handler"
	"salon-scheduler/internal/handler/api"
	"salon-scheduler/internal/handler/middleware"
	"salon-scheduler/internal/pkg/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewPublicBookingHandler,
		api.NewAppointmentHandler,
		middleware.NewAuthMiddleware,
		middleware.NewHTTPMetrics,
		NewRateLimiter,
	),
	fx.Invoke(handler.NewRouter),
)

// NewRateLimiter shares limits across instances through Redis when it is
// configured and falls back to a per-process token bucket otherwise.
func NewRateLimiter(cfg config.Config, rdb *redis.Client) handler.RateLimiter {
	if rdb != nil {
		return middleware.NewRedisRateLimiter(rdb, cfg.RateLimit.Limit, cfg.RateLimit.Window, "salon:rl:public", cfg.RateLimit.FailOpen)
	}
	return middleware.NewIPRateLimiter(cfg.RateLimit.PublicRPS, cfg.RateLimit.PublicBurst)
}
