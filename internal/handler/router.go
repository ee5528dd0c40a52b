package handler

import (
	"net/http"

	"salon-scheduler/internal/handler/api"
	"salon-scheduler/internal/handler/middleware"
	"salon-scheduler/internal/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

// RateLimiter guards the anonymous booking surface.
type RateLimiter interface {
	Middleware() gin.HandlerFunc
}

type RouterParams struct {
	fx.In

	Engine             *gin.Engine
	Config             config.Config
	Logger             *middleware.Logger
	HTTPMetrics        *middleware.HTTPMetrics
	Gatherer           prometheus.Gatherer
	PublicHandler      *api.PublicBookingHandler
	AppointmentHandler *api.AppointmentHandler
	AuthMiddleware     *middleware.AuthMiddleware
	RateLimiter        RateLimiter `optional:"true"`
}

func NewRouter(p RouterParams) {
	setupMiddleware(p)
	setupRoutes(p)
}

func setupMiddleware(p RouterParams) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	p.Engine.Use(middleware.CustomRecovery())
	p.Engine.Use(middleware.NewCORSMiddleware(p.Config.CORS))
	p.Engine.Use(p.Logger.LoggingMiddleware())
	if p.HTTPMetrics != nil {
		p.Engine.Use(p.HTTPMetrics.Middleware())
	}
	p.Engine.Use(middleware.ErrorHandler())
}

func setupRoutes(p RouterParams) {
	p.Engine.GET("/health", healthCheck)
	if p.Gatherer != nil {
		p.Engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(p.Gatherer, promhttp.HandlerOpts{})))
	}
	if gin.Mode() == gin.DebugMode {
		p.Engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	var publicMw []gin.HandlerFunc
	if p.Config.RateLimit.Enabled && p.RateLimiter != nil {
		publicMw = append(publicMw, p.RateLimiter.Middleware())
	}

	apiGroup := p.Engine.Group("/api")
	{
		public := apiGroup.Group("/appointments")
		addRoutes(public, []route{
			{Method: http.MethodGet, Path: "/available-slots", Handler: p.PublicHandler.AvailableSlots, Mw: publicMw},
			{Method: http.MethodPost, Path: "/public", Handler: p.PublicHandler.Create, Mw: publicMw},
			{Method: http.MethodGet, Path: "/by-token", Handler: p.PublicHandler.GetByToken, Mw: publicMw},
			{Method: http.MethodPost, Path: "/cancel-by-token", Handler: p.PublicHandler.CancelByToken, Mw: publicMw},
			{Method: http.MethodPost, Path: "/reschedule-by-token", Handler: p.PublicHandler.RescheduleByToken, Mw: publicMw},
		})

		staff := apiGroup.Group("/appointments")
		staff.Use(p.AuthMiddleware.RequireAuth())
		addRoutes(staff, []route{
			{Method: http.MethodGet, Path: "", Handler: p.AppointmentHandler.List},
			{Method: http.MethodPost, Path: "", Handler: p.AppointmentHandler.Create},
			{Method: http.MethodGet, Path: "/:id", Handler: p.AppointmentHandler.Get},
			{Method: http.MethodPatch, Path: "/:id/status", Handler: p.AppointmentHandler.UpdateStatus},
			{Method: http.MethodPost, Path: "/:id/reschedule", Handler: p.AppointmentHandler.Reschedule},
		})
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(append([]gin.HandlerFunc{}, r.Mw...), r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
