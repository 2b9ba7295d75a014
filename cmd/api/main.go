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

	"github.com/jhoicas/glamstock-api/internal/application/inventory"
	"github.com/jhoicas/glamstock-api/internal/domain/repository"
	"github.com/jhoicas/glamstock-api/internal/infrastructure/cache"
	infrapdf "github.com/jhoicas/glamstock-api/internal/infrastructure/pdf"
	"github.com/jhoicas/glamstock-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/glamstock-api/internal/interfaces/http"
	"github.com/jhoicas/glamstock-api/pkg/config"
	"github.com/jhoicas/glamstock-api/pkg/logger"
	"github.com/jhoicas/glamstock-api/pkg/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	ctx := context.Background()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.App.Name, cfg.Telemetry)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar trazas")
	}

	store, err := storage.Open(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacenamiento")
	}
	defer store.Close()

	reasons, err := inventory.LoadReasonRegistry(ctx, store.Reasons)
	if err != nil {
		log.Fatal().Err(err).Msg("cargar catálogo de motivos")
	}
	log.Info().Int("reasons", len(reasons.Reasons())).Msg("catálogo de motivos cargado")

	// Sucursales: cache en Redis si REDIS_ADDR está definido
	var branches repository.BranchRepository = store.Branches
	if cfg.Redis.Addr != "" {
		rdb, err := cache.New(ctx, cfg.Redis.Addr)
		if err != nil {
			log.Warn().Err(err).Msg("redis no disponible, sucursales sin cache")
		} else {
			defer rdb.Close()
			branches = cache.NewBranchRepository(store.Branches, rdb, cfg.Redis.BranchCacheTTL, log)
		}
	}

	engine := inventory.NewLedgerEngine(store.TxRunner, reasons, log)
	queryUC := inventory.NewBranchInventoryUseCase(store.Stock, branches, infrapdf.NewInventoryReportGenerator(cfg.App.Name))
	historyUC := inventory.NewLedgerHistoryUseCase(store.Ledger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "GlamStock API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Engine:    engine,
		Query:     queryUC,
		History:   historyUC,
		Reasons:   reasons,
		Log:       log,
		JWTSecret: cfg.JWT.Secret,
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
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("vaciar trazas")
	}

	log.Info().Msg("aplicación detenida")
}
