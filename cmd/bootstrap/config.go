package bootstrap

import (
	"log/slog"

	"salon-scheduler/internal/pkg/config"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
	),
	fx.Invoke(logEffectiveConfig),
)

// secrets and credentials stay out of the log
func logEffectiveConfig(cfg config.Config, logger *slog.Logger) {
	logger.Info("configuration loaded",
		slog.String("port", cfg.Server.Port),
		slog.String("store_driver", cfg.Booking.StoreDriver),
		slog.String("default_timezone", cfg.Booking.DefaultTimeZone),
		slog.Duration("token_ttl", cfg.Booking.TokenTTL),
		slog.Bool("reject_past_slots", cfg.Booking.RejectPastSlots),
		slog.Bool("rate_limit_enabled", cfg.RateLimit.Enabled),
		slog.Bool("redis_configured", cfg.Redis.Addr != ""),
	)
}
