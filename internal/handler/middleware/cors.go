package middleware

import (
	"log/slog"
	"slices"

	"salon-scheduler/internal/pkg/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewCORSMiddleware serves the booking widget and the staff console.
// A lone "*" origin opens the public API to any site; credentials are then
// disabled because browsers refuse them with a wildcard origin.
func NewCORSMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	expose := slices.Concat(cfg.ExposeHeaders, []string{requestIDHeader, "Retry-After", "X-RateLimit-Remaining"})

	corsCfg := cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     cfg.AllowMethods,
		AllowHeaders:     cfg.AllowHeaders,
		ExposeHeaders:    slices.Compact(slices.Sorted(slices.Values(expose))),
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}
	if slices.Equal(cfg.AllowOrigins, []string{"*"}) {
		corsCfg.AllowOrigins = nil
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	}

	slog.Info("CORS middleware initialized",
		slog.Any("allow_origins", cfg.AllowOrigins),
		slog.Bool("allow_credentials", corsCfg.AllowCredentials),
	)
	return cors.New(corsCfg)
}
