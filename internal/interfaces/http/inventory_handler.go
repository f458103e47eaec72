package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/application/inventory"
	"github.com/jhoicas/Kardex-api/internal/application/shops"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/pkg/logger"
)

// InventoryHandler expone la consulta del kardex de la tienda autenticada.
type InventoryHandler struct {
	inventory *inventory.UseCase
	shops     *shops.UseCase
	log       *logger.Logger
}

// NewInventoryHandler crea el handler de consulta de eventos.
func NewInventoryHandler(inv *inventory.UseCase, shopsUC *shops.UseCase, log *logger.Logger) *InventoryHandler {
	return &InventoryHandler{inventory: inv, shops: shopsUC, log: log}
}

// ListEvents lista los asientos del kardex con filtros y paginación.
// GET /api/inventory/events
func (h *InventoryHandler) ListEvents(c *fiber.Ctx) error {
	shop, err := h.shops.Settings(c.Context(), GetShopDomain(c))
	if err != nil {
		if errors.Is(err, domain.ErrShopNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "SHOP_NOT_FOUND", Message: "la tienda no está registrada"})
		}
		h.log.Error().Err(err).Msg("error resolviendo la tienda")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL_ERROR", Message: "error interno"})
	}

	req := dto.ListEventsRequest{
		VariantID:   c.Query("variant_id"),
		EventType:   c.Query("event_type"),
		PageRequest: dto.PageRequest{Limit: c.QueryInt("limit"), Offset: c.QueryInt("offset")},
	}

	tenantID := "shopify://" + shop.Domain
	events, total, err := h.inventory.ListEvents(c.Context(), tenantID, req)
	if err != nil {
		h.log.Error().Err(err).Str("shop", shop.Domain).Msg("listado de eventos falló")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL_ERROR", Message: "error consultando el kardex"})
	}

	return c.JSON(fiber.Map{
		"events": events,
		"total":  total,
	})
}
