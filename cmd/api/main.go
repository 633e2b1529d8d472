package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Facturacion-api/internal/application/accounting"
	"github.com/jhoicas/Facturacion-api/internal/application/auth"
	"github.com/jhoicas/Facturacion-api/internal/application/billing"
	"github.com/jhoicas/Facturacion-api/internal/application/company"
	domainsri "github.com/jhoicas/Facturacion-api/internal/domain/sri"
	infrapdf "github.com/jhoicas/Facturacion-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Facturacion-api/internal/infrastructure/postgres"
	infrasri "github.com/jhoicas/Facturacion-api/internal/infrastructure/sri"
	httpRouter "github.com/jhoicas/Facturacion-api/internal/interfaces/http"
	"github.com/jhoicas/Facturacion-api/pkg/config"
	"github.com/jhoicas/Facturacion-api/pkg/logger"
	pkgsri "github.com/jhoicas/Facturacion-api/pkg/sri"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("sri_ambiente", cfg.SRI.Ambiente).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	txRunner := postgres.NewTxRunner(pool)
	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	documentRepo := postgres.NewDocumentRepository(pool, txRunner)
	sequenceRepo := postgres.NewSequenceRepository(pool)
	accountRepo := postgres.NewAccountRepository(pool)
	journalRepo := postgres.NewJournalRepository(pool, txRunner)

	zl := log.Zerolog()
	tarifas := pkgsri.DefaultTarifas()

	allocator := billing.NewSequenceAllocator(sequenceRepo, zl)
	builder := billing.NewDocumentBuilder(
		documentRepo, companyRepo, customerRepo, supplierRepo, productRepo,
		allocator,
		domainsri.NewClaveAccesoGenerator(),
		domainsri.NewTaxCalculator(tarifas),
		zl,
	)

	chartUC := accounting.NewChartUsecase(accountRepo, zl)
	journalUC := accounting.NewJournalUsecase(journalRepo, chartUC, cfg.Accounting, zl)
	companyUC := company.NewUsecase(companyRepo, zl)
	authUC := auth.NewUsecase(userRepo, companyRepo, cfg.JWT, zl)

	xmlBuilder := infrasri.NewXMLBuilderService(customerRepo, supplierRepo, productRepo, tarifas)

	// Firma y WS del SRI. En "dev" (o sin certificado) el ciclo completo se
	// simula en memoria: autoriza todo sin tocar la red.
	var signer billing.DocumentSigner
	var submitter billing.Submitter
	var authorizer billing.Authorizer
	if cfg.SRI.AppEnv == "dev" || cfg.SRI.CertPath == "" {
		log.Warn().Msg("modo dev: firma y WS del SRI simulados")
		signer = infrasri.SimulatedSigner{}
		simulated := infrasri.NewSimulatedClient(zl)
		submitter, authorizer = simulated, simulated
	} else {
		certSigner, err := infrasri.NewCertSigner(cfg.SRI)
		if err != nil {
			log.Fatal().Err(err).Msg("cargar certificado de firma")
		}
		soapClient, err := infrasri.NewSOAPSRIClient(cfg.SRI.Ambiente)
		if err != nil {
			log.Fatal().Err(err).Msg("cliente SOAP SRI")
		}
		signer = certSigner
		submitter, authorizer = soapClient, soapClient
	}

	orchestrator := billing.NewSRIOrchestrator(
		documentRepo, companyRepo, xmlBuilder, signer, submitter, authorizer,
		journalUC, cfg.SRI.MaxRetries, zl,
	)

	rideGenerator := infrapdf.NewRIDEGenerator(customerRepo, supplierRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Facturación API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		CompanyUC:    companyUC,
		ChartUC:      chartUC,
		JournalUC:    journalUC,
		Builder:      builder,
		Orchestrator: orchestrator,
		RIDE:         rideGenerator,
		Documents:    documentRepo,
		Companies:    companyRepo,
		JWTSecret:    cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
