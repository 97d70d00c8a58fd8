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
	"github.com/tu-usuario/stock-ledger/internal/application/inventory"
	"github.com/tu-usuario/stock-ledger/internal/application/ports"
	"github.com/tu-usuario/stock-ledger/internal/application/query"
	"github.com/tu-usuario/stock-ledger/internal/application/reorder"
	"github.com/tu-usuario/stock-ledger/internal/application/usecase"
	infracatalog "github.com/tu-usuario/stock-ledger/internal/infrastructure/catalog"
	infraevents "github.com/tu-usuario/stock-ledger/internal/infrastructure/events"
	"github.com/tu-usuario/stock-ledger/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/stock-ledger/internal/interfaces/http"
	"github.com/tu-usuario/stock-ledger/pkg/config"
	"github.com/tu-usuario/stock-ledger/pkg/logger"
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

	locationRepo := postgres.NewLocationRepository(pool)
	levelRepo := postgres.NewStockLevelRepository(pool)
	adjRepo := postgres.NewAdjustmentRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	catalogClient := infracatalog.NewHTTPClient(cfg.Catalog)

	var publisher ports.AdjustmentPublisher = ports.NoopPublisher{}
	if cfg.Kafka.Enabled {
		kafkaPublisher := infraevents.NewKafkaPublisher(cfg.Kafka)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).
			Msg("publicación de ajustes en Kafka habilitada")
	}

	applyUC := inventory.NewApplyAdjustmentUseCase(
		txRunner, locationRepo, catalogClient, publisher, log,
		cfg.Inventory.DefaultMaxBackorder,
	)
	reserveUC := inventory.NewReserveStockUseCase(
		txRunner, locationRepo, catalogClient,
		cfg.Inventory.DefaultMaxBackorder,
	)
	ledgerUC := inventory.NewLedgerQueryUseCase(levelRepo, adjRepo)
	locationUC := usecase.NewLocationUseCase(locationRepo, levelRepo)
	reorderUC := reorder.NewReorderUseCase(levelRepo, catalogClient, ports.NoopPurchasing{})
	queryUC := query.NewInventoryQueryUseCase(
		levelRepo, adjRepo, catalogClient,
		cfg.Inventory.OverstockMultiple, cfg.Inventory.TurnoverWindowDays,
	)

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
		Title:    "Stock Ledger API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		LocationUC:  locationUC,
		ApplyUC:     applyUC,
		ReserveUC:   reserveUC,
		LedgerUC:    ledgerUC,
		ReorderUC:   reorderUC,
		InventoryQC: queryUC,
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
