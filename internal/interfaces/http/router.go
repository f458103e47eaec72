package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Kardex-api/internal/application/backfill"
	"github.com/jhoicas/Kardex-api/internal/application/inventory"
	"github.com/jhoicas/Kardex-api/internal/application/shops"
	"github.com/jhoicas/Kardex-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ShopsUC     *shops.UseCase
	InventoryUC *inventory.UseCase
	Writer      *backfill.EventWriter
	Sources     SourceFactory
	Ping        Pinger
	Log         *logger.Logger

	// Credenciales de la app para validar session tokens.
	ShopifyAPIKey    string
	ShopifyAPISecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	shopHandler := NewShopHandler(deps.ShopsUC, deps.Ping, deps.Log)
	backfillHandler := NewBackfillHandler(deps.ShopsUC, deps.Writer, deps.Sources, deps.Log)
	inventoryHandler := NewInventoryHandler(deps.InventoryUC, deps.ShopsUC, deps.Log)

	// Registro de tiendas (público: ocurre durante la instalación)
	api.Post("/shops", shopHandler.Register)

	// Rutas protegidas (requieren session token de Shopify)
	protected := api.Group("/", AuthMiddleware(deps.ShopifyAPISecret, deps.ShopifyAPIKey))

	// Backfill (protegido)
	bf := protected.Group("/backfill")
	bf.Post("/orders", backfillHandler.RunOrders)
	bf.Post("/returns", backfillHandler.RunReturns)
	bf.Get("/preview", backfillHandler.Preview)

	// Kardex (protegido)
	inv := protected.Group("/inventory")
	inv.Get("/events", inventoryHandler.ListEvents)

	// Settings (protegido)
	protected.Get("/settings", shopHandler.GetSettings)
	protected.Put("/settings", shopHandler.UpdateSettings)

	// Conectividad con Shopify (protegido)
	protected.Get("/shopify/ping", shopHandler.Ping)
}
