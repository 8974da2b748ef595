package api

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/salesdesk/sales-management/internal/api/handler"
	"github.com/salesdesk/sales-management/internal/api/middleware"
	"github.com/salesdesk/sales-management/internal/core/domain"
	"github.com/salesdesk/sales-management/internal/core/ports"
	httpinfra "github.com/salesdesk/sales-management/internal/infrastructure/http"
	"github.com/salesdesk/sales-management/internal/infrastructure/http/handlers"
)

// Deps carries what every domain router needs besides its use cases.
type Deps struct {
	Logger   zerolog.Logger
	Verifier ports.TokenVerifier
	// Checks are pinged by GET /health/ready.
	Checks []handlers.Check
	// Registerer and Gatherer enable HTTP metrics; nil in tests.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

func newEcho(service, database string, d Deps) (*echo.Echo, *handlers.HealthHandler) {
	e := httpinfra.NewRouter(httpinfra.Options{
		Service:      service,
		Logger:       d.Logger,
		Validator:    handler.NewValidator(),
		ErrorHandler: NewHTTPErrorHandler(d.Logger),
		Registerer:   d.Registerer,
		Gatherer:     d.Gatherer,
	})
	health := httpinfra.RegisterHealthRoutes(e, service, database, d.Checks...)
	return e, health
}

// NewUserRouter builds the user service.
func NewUserRouter(users ports.UserService, d Deps) *echo.Echo {
	e, health := newEcho("user-service", "postgres", d)
	h := handler.NewUserHandler(users)
	auth := middleware.Auth(d.Verifier)

	g := e.Group("/api/users")
	g.GET("/health", health.Liveness)
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)

	g.GET("/profile", h.GetProfile, auth)
	g.PUT("/profile", h.UpdateProfile, auth)

	staff := middleware.RBAC(domain.RoleAdmin, domain.RoleManager)
	admin := middleware.RBAC(domain.RoleAdmin)
	g.GET("", h.List, auth, staff)
	g.GET("/:id", h.Get, auth, staff)
	g.PUT("/:id", h.Update, auth, admin)
	g.DELETE("/:id", h.Delete, auth, admin)

	return e
}

// NewCustomerRouter builds the customer service.
func NewCustomerRouter(customers ports.CustomerService, d Deps) *echo.Echo {
	e, health := newEcho("customer-service", "mongodb", d)
	h := handler.NewCustomerHandler(customers)

	e.GET("/api/customers/health", health.Liveness)

	g := e.Group("/api/customers", middleware.Auth(d.Verifier))
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/search", h.Search)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	g.POST("/:id/notes", h.AddNote)
	g.PUT("/:id/notes/:noteId", h.UpdateNote)
	g.DELETE("/:id/notes/:noteId", h.DeleteNote)

	return e
}

// NewSalesRouter builds the sales service.
func NewSalesRouter(sales ports.SaleService, d Deps) *echo.Echo {
	e, health := newEcho("sales-service", "mongodb", d)
	h := handler.NewSaleHandler(sales)

	e.GET("/api/sales/health", health.Liveness)

	g := e.Group("/api/sales", middleware.Auth(d.Verifier))
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/customer/:customerId", h.ByCustomer)
	g.GET("/user/:userId", h.ByUser)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)

	return e
}
