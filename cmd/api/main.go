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
	"github.com/shopspring/decimal"

	appalerting "github.com/jhoicas/Mantenimiento-api/internal/application/alerting"
	domalerting "github.com/jhoicas/Mantenimiento-api/internal/domain/alerting"
	"github.com/jhoicas/Mantenimiento-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Mantenimiento-api/internal/interfaces/http"
	"github.com/jhoicas/Mantenimiento-api/pkg/config"
	"github.com/jhoicas/Mantenimiento-api/pkg/logger"
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
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	alertRepo := postgres.NewAlertRepository(pool)
	componentLedger := postgres.NewComponentLedgerRepository(pool)
	lotLedger := postgres.NewLotLedgerRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	classifier := domalerting.NewClassifier(domalerting.Thresholds{
		StockCriticalFloor:     decimal.NewFromFloat(cfg.Alerts.StockCriticalFloor),
		ExpirationCriticalDays: cfg.Alerts.ExpirationCriticalDays,
		ExpirationUpcomingDays: cfg.Alerts.ExpirationUpcomingDays,
	})
	summaryCache := appalerting.NewSummaryCache(
		time.Duration(cfg.Alerts.DashboardCacheSeconds) * time.Second,
	)
	scanWindow := time.Duration(cfg.Alerts.ScanWindowDays) * 24 * time.Hour

	generateUC := appalerting.NewGenerateAlertsUseCase(
		componentLedger, lotLedger, alertRepo, classifier, scanWindow, summaryCache,
	)
	resolveUC := appalerting.NewResolveAlertUseCase(txRunner, summaryCache)
	queryUC := appalerting.NewAlertQueryUseCase(alertRepo, summaryCache)

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
		Title:    "Mantenimiento API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		GenerateUC: generateUC,
		ResolveUC:  resolveUC,
		QueryUC:    queryUC,
		JWTSecret:  cfg.JWT.Secret,
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
