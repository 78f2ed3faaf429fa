package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // the Echo web framework handles routing

	"github.com/iliyamo/airline-event-booking/internal/handler"    // handlers implement the endpoint logic
	"github.com/iliyamo/airline-event-booking/internal/middleware" // middleware for admin and JWT authentication
)

// RegisterRoutes registers routes that require no authentication on the
// provided Echo instance.  Currently it exposes only a health check used
// by load balancers and monitoring systems.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterPublic registers the unauthenticated browse endpoints: the
// event roster, single events and per-event slot counts.  The optional
// cache middleware serves repeated reads from Redis; mutating routes are
// registered elsewhere and never pass through it.
func RegisterPublic(e *echo.Echo, ev *handler.EventHandler, bk *handler.BookingHandler, cache echo.MiddlewareFunc) {
	g := e.Group("/v1")
	if cache != nil {
		g.Use(cache)
	}
	g.GET("/events", ev.ListEvents)
	g.GET("/events/:id", ev.GetEvent)
	g.GET("/events/:id/slots", bk.SlotCounts)
}

// RegisterPilot registers the pilot-facing booking endpoints.  Pilots
// identify themselves by their network ID in the payload; there is no
// pilot account system.
func RegisterPilot(e *echo.Echo, bk *handler.BookingHandler) {
	e.POST("/v1/events/:id/bookings", bk.CreateBooking)
	e.DELETE("/v1/bookings/:id", bk.CancelBooking)
}

// RegisterStaff registers the staff portal session endpoints.  Login,
// refresh and logout exchange credentials for tokens and need no
// existing session; /v1/staff/me requires a valid access token.
func RegisterStaff(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/staff")
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1/staff")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.Use(middleware.RequireRole("STAFF"))
	auth.GET("/me", a.Me)
	auth.POST("/logout-all", a.LogoutAll)
}

// RegisterAdmin registers every administrative mutation behind the
// AdminAuth middleware: event lifecycle, staff records, picture uploads,
// ACARS dispatch and staff-initiated booking cancellation.
func RegisterAdmin(e *echo.Echo, ev *handler.EventHandler, st *handler.StaffHandler,
	up *handler.UploadHandler, dp *handler.DispatchHandler, bk *handler.BookingHandler,
	authz middleware.AdminAuthorizer) {
	g := e.Group("/v1/admin", middleware.AdminAuth(authz))
	g.POST("/events", ev.CreateEvent)
	g.PATCH("/events/:id/status", ev.UpdateEventStatus)
	g.GET("/events/:id/bookings", bk.ListEventBookings)
	g.POST("/staff", st.CreateStaff)
	g.POST("/uploads", up.Upload)
	g.POST("/dispatch", dp.SendMessage)
	g.DELETE("/bookings/:id", bk.CancelBooking)
}
