package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"sensea-booking/internal/handler/api"
	"sensea-booking/internal/handler/middleware"
	"sensea-booking/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	authHandler *api.AuthHandler,
	availabilityHandler *api.AvailabilityHandler,
	bookingHandler *api.BookingHandler,
	adminHandler *api.AdminHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, authHandler, availabilityHandler, bookingHandler, adminHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(
	engine *gin.Engine,
	authHandler *api.AuthHandler,
	availabilityHandler *api.AvailabilityHandler,
	bookingHandler *api.BookingHandler,
	adminHandler *api.AdminHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		availability := apiGroup.Group("/availability")
		{
			addRoutes(availability, []route{
				{Method: http.MethodGet, Path: "/dates", Handler: availabilityHandler.GetDates},
				{Method: http.MethodGet, Path: "/slots", Handler: availabilityHandler.GetSlots},
				{Method: http.MethodGet, Path: "/schedule", Handler: availabilityHandler.GetSchedule},
			})
		}

		bookings := apiGroup.Group("/bookings")
		{
			addRoutes(bookings, []route{
				{Method: http.MethodPost, Path: "", Handler: bookingHandler.CreateBooking},
				// Confirmation is a GET: the token arrives as a link in the
				// confirmation email.
				{Method: http.MethodGet, Path: "/confirm/:token", Handler: bookingHandler.ConfirmBooking},
				{Method: http.MethodPost, Path: "/cancel/:token", Handler: bookingHandler.CancelBooking},
				{Method: http.MethodGet, Path: "/:token", Handler: bookingHandler.GetBooking},
				{Method: http.MethodGet, Path: "/:token/ics", Handler: bookingHandler.GetBookingICS},
			})
		}

		admin := apiGroup.Group("/admin")
		{
			addRoutes(admin, []route{
				{Method: http.MethodPost, Path: "/login", Handler: authHandler.Login},
			})

			authRequired := admin.Group("")
			authRequired.Use(authMiddleware.RequireAdmin())
			addRoutes(authRequired, []route{
				{Method: http.MethodGet, Path: "/bookings", Handler: adminHandler.ListBookings},
				{Method: http.MethodGet, Path: "/bookings/:id", Handler: adminHandler.GetBooking},
				{Method: http.MethodPost, Path: "/bookings/:id/cancel", Handler: adminHandler.CancelBooking},
				{Method: http.MethodPost, Path: "/bookings/:id/complete", Handler: adminHandler.CompleteBooking},
				{Method: http.MethodPost, Path: "/bookings/:id/no-show", Handler: adminHandler.MarkNoShow},
				{Method: http.MethodGet, Path: "/calendar", Handler: adminHandler.GetCalendar},
				{Method: http.MethodPost, Path: "/calendar/refresh", Handler: adminHandler.RefreshCalendar},
				{Method: http.MethodGet, Path: "/stats", Handler: adminHandler.GetStats},
				{Method: http.MethodGet, Path: "/settings", Handler: adminHandler.GetSettings},
				{Method: http.MethodPut, Path: "/settings", Handler: adminHandler.UpdateSettings},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
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
			h = chainHandlers(append(r.Mw, r.Handler)...)
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
