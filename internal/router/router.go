package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/andrea360/fitness-center-backend/internal/auth"       // role constants used for route guards
	"github.com/andrea360/fitness-center-backend/internal/handler"    // import the handlers that implement business logic
	"github.com/andrea360/fitness-center-backend/internal/middleware" // import middleware for JWT authentication and role enforcement
)

// Handlers bundles every handler the router needs.  Wiring them through a
// single struct keeps the registration functions readable and makes it
// obvious in cmd/server which pieces the HTTP layer depends on.
type Handlers struct {
	Auth         *handler.AuthHandler
	Catalog      *handler.CatalogHandler
	Members      *handler.MemberHandler
	Appointments *handler.AppointmentHandler
	Reservations *handler.ReservationHandler
	Purchases    *handler.PurchaseHandler
	Payments     *handler.PaymentHandler
}

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Map the GET request at path "/healthz" to the Health handler.  This
	// endpoint can be used by load balancers or monitoring systems to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies the
// necessary middleware.  Unauthenticated operations live under /v1/auth,
// while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	// Operations that do not require an existing session: self-service
	// registration, login and refresh-token rotation.
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	// Logout accepts a JSON body with a refresh_token and invalidates that
	// session.  An authenticated caller without a body has every session
	// revoked instead, so the route is registered both inside and outside
	// the protected group.
	g.POST("/logout", a.Logout)

	protected := e.Group("/v1")
	protected.Use(middleware.JWTAuth(jwtSecret))
	protected.GET("/me", a.Me)
	protected.POST("/logout", a.Logout)
	// Staff accounts (admins and employees) can only be created by an admin.
	protected.POST("/auth/staff", a.CreateStaff, middleware.RequireRole(auth.RoleAdmin))
}

// RegisterAPI registers the fitness-center domain routes.  Catalog reads are
// public so prospective members can browse locations and services without an
// account; everything else sits behind JWT authentication with role guards on
// the staff-only operations.  cacheMW, when non-nil, is applied to the
// read-heavy catalog endpoints.
func RegisterAPI(e *echo.Echo, h Handlers, jwtSecret string, cacheMW echo.MiddlewareFunc) {
	cached := func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	if cacheMW != nil {
		cached = cacheMW
	}

	// Public catalog reads.
	e.GET("/v1/locations", h.Catalog.ListLocations, cached)
	e.GET("/v1/locations/:id", h.Catalog.GetLocation, cached)
	e.GET("/v1/services", h.Catalog.ListServices, cached)
	e.GET("/v1/services/:id", h.Catalog.GetService, cached)

	// Payment provider callbacks.  The hosted checkout page redirects the
	// browser here with the opaque session reference; no JWT is available
	// at that point, the reference itself is the credential.
	e.POST("/v1/payments/confirm", h.Payments.ConfirmCheckout)
	e.POST("/v1/payments/fail", h.Payments.FailCheckout)

	v1 := e.Group("/v1")
	v1.Use(middleware.JWTAuth(jwtSecret))

	admin := middleware.RequireRole(auth.RoleAdmin)
	staff := middleware.RequireRole(auth.RoleAdmin, auth.RoleEmployee)

	// Catalog writes are an admin concern.
	v1.POST("/locations", h.Catalog.CreateLocation, admin)
	v1.POST("/services", h.Catalog.CreateService, admin)

	// Member profiles.  Members read their own profile through /members/me;
	// staff manage profiles for their location.
	v1.GET("/members/me", h.Members.Me)
	v1.GET("/members/:id", h.Members.Get)
	v1.POST("/members", h.Members.Create, staff)
	v1.PATCH("/members/:id/status", h.Members.UpdateStatus, staff)
	v1.GET("/locations/:id/members", h.Members.ListByLocation, staff)

	// Appointments.  Creation and cancellation are open to every role (the
	// service layer scopes members to their own location); completing or
	// deleting a slot is a staff action.
	v1.POST("/appointments", h.Appointments.Create)
	v1.GET("/appointments/:id", h.Appointments.Get)
	v1.PATCH("/appointments/:id", h.Appointments.Update)
	v1.POST("/appointments/:id/cancel", h.Appointments.Cancel)
	v1.POST("/appointments/:id/complete", h.Appointments.Complete, staff)
	v1.DELETE("/appointments/:id", h.Appointments.Delete, staff)
	v1.GET("/locations/:id/appointments", h.Appointments.ListByLocation)
	v1.GET("/locations/:id/appointments/available", h.Appointments.AvailableAtLocation)
	v1.GET("/locations/:id/appointments/load", h.Appointments.CapacityByHour)
	v1.GET("/members/:id/appointments", h.Appointments.ListByMember)
	v1.GET("/members/:id/appointments/available", h.Appointments.Available)

	// Reservations: the booking engine.  Listing is filtered per role inside
	// the service, so a single endpoint serves members, employees and admins.
	v1.POST("/reservations", h.Reservations.Create)
	v1.GET("/reservations", h.Reservations.List)
	v1.GET("/reservations/:id", h.Reservations.Get)
	v1.PATCH("/reservations/:id/status", h.Reservations.UpdateStatus, staff)
	v1.POST("/reservations/:id/swap-purchase", h.Reservations.SwapPurchase)
	v1.DELETE("/reservations/:id", h.Reservations.Delete, staff)
	v1.GET("/appointments/:id/capacity", h.Reservations.Capacity)

	// Session packages.  Manual sales and counter adjustments are staff
	// operations; members can read their own packages.
	v1.POST("/purchases", h.Purchases.Create, staff)
	v1.GET("/purchases/:id", h.Purchases.Get)
	v1.GET("/members/:id/purchases", h.Purchases.ListByMember)
	v1.POST("/purchases/:id/use", h.Purchases.UseSession, staff)
	v1.POST("/purchases/:id/refund", h.Purchases.RefundSession, staff)
	v1.POST("/purchases/:id/cancel", h.Purchases.Cancel, staff)

	// Online checkout.
	v1.POST("/payments/checkout", h.Payments.StartCheckout)
	v1.GET("/members/:id/transactions", h.Payments.ListTransactions)
	v1.GET("/transactions/:id", h.Payments.GetTransaction)
}
