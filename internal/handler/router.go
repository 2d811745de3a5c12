package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"poorito-booking/internal/handler/api"
	"poorito-booking/internal/handler/middleware"
	"poorito-booking/internal/pkg/config"
)

type access int

const (
	public access = iota
	authenticated
	adminOnly
)

type route struct {
	Method  string
	Path    string
	Access  access
	Handler gin.HandlerFunc
}

type Handlers struct {
	Auth     *api.AuthHandler
	Mountain *api.MountainHandler
	Booking  *api.BookingHandler
}

func NewRouter(engine *gin.Engine, cfg config.Config, logger *middleware.Logger, handlers Handlers, authMiddleware *middleware.AuthMiddleware) {
	// Recovery must be outermost to catch panics from the rest of the chain.
	engine.Use(
		middleware.CustomRecovery(),
		middleware.NewCORSMiddleware(cfg.CORS),
		logger.LoggingMiddleware(),
		middleware.ErrorHandler(),
	)

	engine.GET("/health", healthCheck)
	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	register(engine.Group("/api"), apiRoutes(handlers), authMiddleware)
}

func apiRoutes(h Handlers) []route {
	return []route{
		{http.MethodPost, "/auth/login", public, h.Auth.Login},
		{http.MethodPost, "/auth/refresh", public, h.Auth.Refresh},
		{http.MethodPost, "/auth/logout", authenticated, h.Auth.Logout},
		{http.MethodGet, "/auth/me", authenticated, h.Auth.Me},

		{http.MethodGet, "/mountains", public, h.Mountain.ListMountains},
		{http.MethodGet, "/mountains/:id", public, h.Mountain.GetMountain},
		{http.MethodGet, "/mountains/:id/availability", public, h.Mountain.GetAvailability},
		{http.MethodGet, "/mountains/:id/pricing", public, h.Mountain.GetPricing},

		{http.MethodPost, "/bookings", authenticated, h.Booking.CreateBooking},
		{http.MethodGet, "/bookings", authenticated, h.Booking.ListMyBookings},
		{http.MethodGet, "/bookings/:id", authenticated, h.Booking.GetBooking},
		{http.MethodPatch, "/bookings/:id", adminOnly, h.Booking.UpdateBookingStatus},
		{http.MethodDelete, "/bookings/:id", authenticated, h.Booking.CancelBooking},
		{http.MethodGet, "/bookings/:id/receipt", authenticated, h.Booking.GetReceipt},
	}
}

func register(g *gin.RouterGroup, rs []route, authMiddleware *middleware.AuthMiddleware) {
	for _, r := range rs {
		var chain []gin.HandlerFunc
		switch r.Access {
		case authenticated:
			chain = append(chain, authMiddleware.RequireAuth())
		case adminOnly:
			chain = append(chain, authMiddleware.RequireAuth(), authMiddleware.RequireAdmin())
		}
		g.Handle(r.Method, r.Path, append(chain, r.Handler)...)
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
