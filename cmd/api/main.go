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
	"github.com/jhoicas/TallerPos-api/internal/application/auth"
	appevents "github.com/jhoicas/TallerPos-api/internal/application/events"
	"github.com/jhoicas/TallerPos-api/internal/application/inventory"
	"github.com/jhoicas/TallerPos-api/internal/application/jobs"
	"github.com/jhoicas/TallerPos-api/internal/application/purchasing"
	"github.com/jhoicas/TallerPos-api/internal/application/usecase"
	infraevents "github.com/jhoicas/TallerPos-api/internal/infrastructure/events"
	"github.com/jhoicas/TallerPos-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/TallerPos-api/internal/interfaces/http"
	"github.com/jhoicas/TallerPos-api/pkg/config"
	"github.com/jhoicas/TallerPos-api/pkg/logger"
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

	storeRepo := postgres.NewStoreRepository(pool)
	partRepo := postgres.NewPartRepository(pool)
	stockRepo := postgres.NewStockRecordRepository(pool)
	ledgerRepo := postgres.NewTransactionRepository(pool)
	jobRepo := postgres.NewJobRepository(pool)
	poRepo := postgres.NewPurchaseOrderRepository(pool)
	notifRepo := postgres.NewNotificationRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Fan-out de eventos a la UI en vivo; sin Redis los eventos se descartan.
	var publisher appevents.Publisher = appevents.Nop{}
	if cfg.Redis.Enabled {
		redisPub, err := infraevents.NewRedisPublisher(infraevents.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, log)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a Redis")
		}
		defer redisPub.Close()
		publisher = redisPub
	}

	jobUC := jobs.NewUseCase(txRunner, jobRepo, partRepo, storeRepo, customerRepo, publisher)
	inventoryUC := inventory.NewUseCase(txRunner, stockRepo, ledgerRepo, partRepo, storeRepo, jobRepo, publisher)
	purchasingUC := purchasing.NewUseCase(txRunner, poRepo, partRepo, storeRepo, supplierRepo, publisher)
	partUC := usecase.NewPartUseCase(partRepo)
	storeUC := usecase.NewStoreUseCase(storeRepo)
	supplierUC := usecase.NewSupplierUseCase(supplierRepo)
	customerUC := usecase.NewCustomerUseCase(customerRepo)
	notificationUC := usecase.NewNotificationUseCase(notifRepo)
	authUC := auth.NewUseCase(userRepo, storeRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

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
		Title:    "TallerPos API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		JobUC:          jobUC,
		InventoryUC:    inventoryUC,
		PurchasingUC:   purchasingUC,
		PartUC:         partUC,
		StoreUC:        storeUC,
		SupplierUC:     supplierUC,
		CustomerUC:     customerUC,
		NotificationUC: notificationUC,
		JWTSecret:      cfg.JWT.Secret,
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
