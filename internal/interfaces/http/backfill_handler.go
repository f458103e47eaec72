package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Kardex-api/internal/application/backfill"
	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/application/shops"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/pkg/logger"
)

// SourceFactory construye los extractores del Admin API para una tienda
// autenticada. cmd/api la conecta con el cliente GraphQL real; los tests
// inyectan fuentes en memoria.
type SourceFactory func(shopDomain, accessToken string) (backfill.OrderSource, backfill.RefundSource)

// BackfillHandler expone las operaciones de relleno histórico del kardex.
type BackfillHandler struct {
	shops   *shops.UseCase
	writer  *backfill.EventWriter
	sources SourceFactory
	log     *logger.Logger
}

// NewBackfillHandler crea el handler de backfill.
func NewBackfillHandler(shopsUC *shops.UseCase, writer *backfill.EventWriter, sources SourceFactory, log *logger.Logger) *BackfillHandler {
	return &BackfillHandler{shops: shopsUC, writer: writer, sources: sources, log: log}
}

// RunOrders ejecuta el backfill de pedidos históricos de la tienda autenticada.
// POST /api/backfill/orders
func (h *BackfillHandler) RunOrders(c *fiber.Ctx) error {
	shop, uc, err := h.useCaseFor(c)
	if err != nil {
		return h.shopError(c, err)
	}

	opts, err := h.optionsFor(c, shop.WindowDays, shop.PageSize)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo de la petición inválido"})
	}

	result, err := uc.RunOrders(c.Context(), shop.TenantID(), opts)
	if err != nil {
		h.log.Error().Err(err).Str("shop", shop.Domain).Msg("backfill de pedidos falló")
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "BACKFILL_FAILED", Message: "el backfill se detuvo por un error de E/S"})
	}
	return c.JSON(result)
}

// RunReturns ejecuta el backfill de devoluciones (refunds) de la tienda autenticada.
// POST /api/backfill/returns
func (h *BackfillHandler) RunReturns(c *fiber.Ctx) error {
	shop, uc, err := h.useCaseFor(c)
	if err != nil {
		return h.shopError(c, err)
	}

	opts, err := h.optionsFor(c, shop.WindowDays, shop.PageSize)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo de la petición inválido"})
	}

	result, err := uc.RunReturns(c.Context(), shop.TenantID(), opts)
	if err != nil {
		h.log.Error().Err(err).Str("shop", shop.Domain).Msg("backfill de devoluciones falló")
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "BACKFILL_FAILED", Message: "el backfill se detuvo por un error de E/S"})
	}
	return c.JSON(result)
}

// Preview devuelve la primera página de pedidos de la ventana sin escribir nada.
// GET /api/backfill/preview
func (h *BackfillHandler) Preview(c *fiber.Ctx) error {
	shop, uc, err := h.useCaseFor(c)
	if err != nil {
		return h.shopError(c, err)
	}

	opts := backfill.RunOptions{
		WindowDays: c.QueryInt("window_days"),
		PageSize:   c.QueryInt("page_size"),
	}
	opts.ApplyDefaults(shop.WindowDays, shop.PageSize)

	page, err := uc.FirstPage(c.Context(), opts)
	if err != nil {
		h.log.Error().Err(err).Str("shop", shop.Domain).Msg("preview de pedidos falló")
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "PREVIEW_FAILED", Message: "no se pudo consultar el Admin API"})
	}

	resp := dto.PreviewResponse{
		Orders:      make([]dto.OrderPreviewDTO, 0, len(page.Orders)),
		HasNextPage: page.HasNextPage,
		EndCursor:   page.EndCursor,
	}
	for _, o := range page.Orders {
		resp.Orders = append(resp.Orders, dto.NewOrderPreviewDTO(o))
	}
	return c.JSON(resp)
}

// useCaseFor resuelve la tienda autenticada, descifra su token y arma el caso
// de uso con fuentes frescas para esa tienda.
func (h *BackfillHandler) useCaseFor(c *fiber.Ctx) (*entity.Shop, *backfill.UseCase, error) {
	shop, token, err := h.shops.Credentials(c.Context(), GetShopDomain(c))
	if err != nil {
		return nil, nil, err
	}
	orders, refunds := h.sources(shop.Domain, token)
	return shop, backfill.NewUseCase(orders, refunds, h.writer, h.log), nil
}

func (h *BackfillHandler) optionsFor(c *fiber.Ctx, windowDays, pageSize int) (backfill.RunOptions, error) {
	var req dto.RunBackfillRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return backfill.RunOptions{}, err
		}
	}
	opts := backfill.RunOptions{WindowDays: req.WindowDays, PageSize: req.PageSize}
	opts.ApplyDefaults(windowDays, pageSize)
	return opts, nil
}

func (h *BackfillHandler) shopError(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrShopNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "SHOP_NOT_FOUND", Message: "la tienda no está registrada"})
	}
	if errors.Is(err, domain.ErrInvalidCipher) {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "TOKEN_UNREADABLE", Message: "no se pudo descifrar el token de acceso"})
	}
	h.log.Error().Err(err).Msg("error resolviendo credenciales de la tienda")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL_ERROR", Message: "error interno"})
}
