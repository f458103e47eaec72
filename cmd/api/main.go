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

	"github.com/jhoicas/Kardex-api/internal/application/backfill"
	"github.com/jhoicas/Kardex-api/internal/application/inventory"
	"github.com/jhoicas/Kardex-api/internal/application/shops"
	"github.com/jhoicas/Kardex-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Kardex-api/internal/infrastructure/shopify"
	httpRouter "github.com/jhoicas/Kardex-api/internal/interfaces/http"
	"github.com/jhoicas/Kardex-api/pkg/config"
	"github.com/jhoicas/Kardex-api/pkg/logger"
	"github.com/jhoicas/Kardex-api/pkg/security"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   "info",
		Service: cfg.App.Name,
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

	encKey, err := security.LoadKey(cfg.Shopify.TokenEncKey)
	if err != nil {
		log.Fatal().Err(err).Msg("clave de cifrado de tokens")
	}

	eventRepo := postgres.NewInventoryEventRepository(pool)
	shopRepo := postgres.NewShopRepository(pool)

	writer := backfill.NewEventWriter(eventRepo)
	shopsUC := shops.NewUseCase(shopRepo, encKey, cfg.Backfill.WindowDays, cfg.Backfill.PageSize)
	inventoryUC := inventory.NewUseCase(eventRepo)

	// Fuentes del Admin API por tienda: el handler recibe el token descifrado
	// y aquí se arma el cliente GraphQL con la versión configurada.
	sources := func(shopDomain, accessToken string) (backfill.OrderSource, backfill.RefundSource) {
		client := shopify.NewClient(shopDomain, cfg.Shopify.APIVersion, accessToken)
		return shopify.NewOrdersSource(client), shopify.NewRefundsSource(client)
	}
	ping := func(ctx context.Context, shopDomain, accessToken string) (string, error) {
		return shopify.NewClient(shopDomain, cfg.Shopify.APIVersion, accessToken).Ping(ctx)
	}

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
		Title:    "Kardex API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ShopsUC:          shopsUC,
		InventoryUC:      inventoryUC,
		Writer:           writer,
		Sources:          sources,
		Ping:             ping,
		Log:              log,
		ShopifyAPIKey:    cfg.Shopify.APIKey,
		ShopifyAPISecret: cfg.Shopify.APISecret,
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
