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

	"github.com/jhoicas/devis-factures-api/internal/bootstrap"
	httpRouter "github.com/jhoicas/devis-factures-api/internal/interfaces/http"
	"github.com/jhoicas/devis-factures-api/pkg/config"
	"github.com/jhoicas/devis-factures-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Str("storage_driver", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es requerido")
	}

	ctx := context.Background()
	deps, err := bootstrap.New(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar dependencias")
	}
	defer deps.Close()

	if err := deps.EnsureAdmin(ctx, cfg.Auth, log); err != nil {
		log.Fatal().Err(err).Msg("administrador inicial")
	}

	httpLog := log.Component("http")
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    4 << 20,
		ErrorHandler: httpRouter.ErrorHandler(httpLog),
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(httpLog))

	// Swagger UI en local: http://localhost:<port>/docs (solo si existe docs/swagger.json)
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Devis & Factures API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ClientUC:   deps.Clients,
		QuoteUC:    deps.Quotes,
		InvoiceUC:  deps.Invoices,
		PaymentUC:  deps.Payments,
		DepositUC:  deps.Deposits,
		SettingsUC: deps.Settings,
		PrintUC:    deps.Print,
		ExportUC:   deps.Export,
		AuthUC:     deps.Auth,
		JWTSecret:  cfg.JWT.Secret,
		Log:        httpLog,
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
