package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/application/shops"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/pkg/logger"
)

// Pinger verifica la conectividad con el Admin API de una tienda y devuelve
// el nombre de la tienda. cmd/api la conecta con el cliente GraphQL real.
type Pinger func(ctx context.Context, shopDomain, accessToken string) (string, error)

// ShopHandler expone el registro de tiendas, sus settings y el ping a Shopify.
type ShopHandler struct {
	shops *shops.UseCase
	ping  Pinger
	log   *logger.Logger
}

// NewShopHandler crea el handler de tiendas.
func NewShopHandler(shopsUC *shops.UseCase, ping Pinger, log *logger.Logger) *ShopHandler {
	return &ShopHandler{shops: shopsUC, ping: ping, log: log}
}

// Register da de alta una tienda con su access token. Ruta pública: se invoca
// durante la instalación, antes de que existan session tokens.
// POST /api/shops
func (h *ShopHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterShopRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo de la petición inválido"})
	}

	shop, err := h.shops.Register(c.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_INPUT", Message: err.Error()})
		}
		h.log.Error().Err(err).Str("shop", req.Domain).Msg("registro de tienda falló")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL_ERROR", Message: "error interno"})
	}

	return c.Status(fiber.StatusCreated).JSON(dto.ShopSettingsDTO{
		Domain:     shop.Domain,
		WindowDays: shop.WindowDays,
		PageSize:   shop.PageSize,
	})
}

// GetSettings devuelve los settings de backfill de la tienda autenticada.
// GET /api/settings
func (h *ShopHandler) GetSettings(c *fiber.Ctx) error {
	settings, err := h.shops.Settings(c.Context(), GetShopDomain(c))
	if err != nil {
		if errors.Is(err, domain.ErrShopNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "SHOP_NOT_FOUND", Message: "la tienda no está registrada"})
		}
		h.log.Error().Err(err).Msg("lectura de settings falló")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL_ERROR", Message: "error interno"})
	}
	return c.JSON(settings)
}

// UpdateSettings actualiza la ventana y el tamaño de página de la tienda.
// PUT /api/settings
func (h *ShopHandler) UpdateSettings(c *fiber.Ctx) error {
	var req dto.UpdateSettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo de la petición inválido"})
	}

	domainName := GetShopDomain(c)
	if err := h.shops.UpdateSettings(c.Context(), domainName, req); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_INPUT", Message: err.Error()})
		}
		if errors.Is(err, domain.ErrShopNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "SHOP_NOT_FOUND", Message: "la tienda no está registrada"})
		}
		h.log.Error().Err(err).Str("shop", domainName).Msg("actualización de settings falló")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL_ERROR", Message: "error interno"})
	}

	settings, err := h.shops.Settings(c.Context(), domainName)
	if err != nil {
		h.log.Error().Err(err).Str("shop", domainName).Msg("relectura de settings falló")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL_ERROR", Message: "error interno"})
	}
	return c.JSON(settings)
}

// Ping consulta el nombre de la tienda en el Admin API para verificar que el
// token guardado sigue vigente.
// GET /api/shopify/ping
func (h *ShopHandler) Ping(c *fiber.Ctx) error {
	shop, token, err := h.shops.Credentials(c.Context(), GetShopDomain(c))
	if err != nil {
		if errors.Is(err, domain.ErrShopNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "SHOP_NOT_FOUND", Message: "la tienda no está registrada"})
		}
		h.log.Error().Err(err).Msg("error resolviendo credenciales de la tienda")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL_ERROR", Message: "error interno"})
	}

	name, err := h.ping(c.Context(), shop.Domain, token)
	if err != nil {
		h.log.Warn().Err(err).Str("shop", shop.Domain).Msg("ping a Shopify falló")
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "SHOPIFY_UNREACHABLE", Message: "no se pudo contactar el Admin API"})
	}

	return c.JSON(fiber.Map{"ok": true, "shop_name": name})
}
