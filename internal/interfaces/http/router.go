package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Facturacion-api/internal/application/accounting"
	"github.com/jhoicas/Facturacion-api/internal/application/auth"
	"github.com/jhoicas/Facturacion-api/internal/application/billing"
	"github.com/jhoicas/Facturacion-api/internal/application/company"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.Usecase
	CompanyUC    *company.Usecase
	ChartUC      *accounting.ChartUsecase
	JournalUC    *accounting.JournalUsecase
	Builder      *billing.DocumentBuilder
	Orchestrator *billing.SRIOrchestrator
	RIDE         billing.RIDEGenerator
	Documents    repository.DocumentRepository
	Companies    repository.CompanyRepository
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Companies (público: el alta de empresa precede al primer usuario)
	companies := api.Group("/companies")
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies.Get("/", companyHandler.List)
	companies.Post("/", companyHandler.Create)
	companies.Get("/:id", companyHandler.GetByID)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Comprobantes: emiten admin y facturador
	documents := protected.Group("/documents", RequireRole("admin", "facturador"))
	documentHandler := NewDocumentHandler(deps.Builder, deps.Orchestrator, deps.RIDE, deps.Documents, deps.Companies)
	documents.Post("/", documentHandler.Create)
	documents.Get("/", documentHandler.List)
	documents.Get("/:id", documentHandler.GetByID)
	documents.Post("/:id/submit", documentHandler.Submit)
	documents.Post("/:id/reconcile", documentHandler.Reconcile)
	documents.Get("/:id/xml", documentHandler.GetXML)
	documents.Get("/:id/ride", documentHandler.GetRIDE)

	// Plan de cuentas: solo admin y contador
	accounts := protected.Group("/accounts", RequireRole("admin", "contador"))
	accountHandler := NewAccountHandler(deps.ChartUC)
	accounts.Post("/", accountHandler.Create)
	accounts.Get("/", accountHandler.List)
	accounts.Get("/:code", accountHandler.GetByCode)
	accounts.Delete("/:code", accountHandler.Deactivate)

	// Libro diario: solo admin y contador
	journal := protected.Group("/journal", RequireRole("admin", "contador"))
	journalHandler := NewJournalHandler(deps.JournalUC)
	journal.Post("/", journalHandler.Post)
	journal.Get("/", journalHandler.List)
	journal.Get("/:id", journalHandler.GetByID)
}
