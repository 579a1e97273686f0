package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/tiffin-api/internal/application/analytics"
	"github.com/jhoicas/tiffin-api/internal/application/auth"
	appbilling "github.com/jhoicas/tiffin-api/internal/application/billing"
	"github.com/jhoicas/tiffin-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	CustomerUC  *usecase.CustomerUseCase
	MenuUC      *usecase.MenuUseCase
	ExtraUC     *usecase.ExtraUseCase
	AdvanceUC   *usecase.AdvanceUseCase
	SearchUC    *usecase.SearchUseCase
	InvoiceUC   *appbilling.InvoiceUseCase
	LifecycleUC *appbilling.LifecycleUseCase
	Scanner     *appbilling.DuesScanner
	DashboardUC *appanalytics.DashboardUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	protected.Get("/auth/me", authHandler.Me)
	protected.Put("/auth/profile", authHandler.UpdateProfile)
	protected.Post("/auth/admins", authHandler.CreateAdmin)

	// Búsqueda global
	protected.Get("/search", NewSearchHandler(deps.SearchUC).Search)

	// Customers
	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Update)
	customers.Post("/:id/archive", customerHandler.Archive)
	customers.Delete("/:id/cascade", customerHandler.CascadeDelete)
	customers.Delete("/:id", customerHandler.Delete)

	// Menu
	menu := protected.Group("/menu")
	menuHandler := NewMenuHandler(deps.MenuUC)
	menu.Post("/", menuHandler.Create)
	menu.Get("/", menuHandler.List)
	menu.Get("/:id", menuHandler.GetByID)
	menu.Put("/:id", menuHandler.Update)
	menu.Delete("/:id", menuHandler.Delete)

	// Daily extras
	extras := protected.Group("/extras")
	extraHandler := NewExtraHandler(deps.ExtraUC)
	extras.Post("/", extraHandler.Add)
	extras.Get("/", extraHandler.List)
	extras.Post("/delete-by-details", extraHandler.DeleteByDetails)
	extras.Delete("/:id", extraHandler.Delete)

	// Advance payments
	advances := protected.Group("/advances")
	advanceHandler := NewAdvanceHandler(deps.AdvanceUC)
	advances.Post("/", advanceHandler.Add)
	advances.Get("/", advanceHandler.List)
	advances.Delete("/:id", advanceHandler.Delete)

	// Facturas calculadas (sin persistir)
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.LifecycleUC, deps.Scanner)
	billingGroup := protected.Group("/billing")
	billingGroup.Get("/monthly", invoiceHandler.Monthly)
	billingGroup.Get("/monthly/pdf", invoiceHandler.MonthlyPDF)
	billingGroup.Get("/daily", invoiceHandler.Daily)
	billingGroup.Get("/daily/pdf", invoiceHandler.DailyPDF)

	// Facturas persistidas
	invoices := protected.Group("/invoices")
	invoices.Post("/", invoiceHandler.SaveAsPending)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/pending-by-customer", invoiceHandler.PendingByCustomer)
	invoices.Get("/paid", invoiceHandler.PaidHistory)
	invoices.Get("/export", invoiceHandler.Export)
	invoices.Post("/scan", invoiceHandler.Scan)
	invoices.Put("/:id/pay", invoiceHandler.Pay)
	invoices.Delete("/:id", invoiceHandler.Delete)

	// Dashboard
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard/stats", dashboardHandler.GetStats)
}
