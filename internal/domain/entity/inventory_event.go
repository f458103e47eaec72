package entity

import (
	"fmt"
	"time"

	"github.com/jhoicas/Kardex-api/internal/domain"
)

// Tipos de evento del kardex (enumeración cerrada).
const (
	EventTypeSale               = "sale"
	EventTypeReturn             = "return"
	EventTypeRestock            = "restock"
	EventTypeAdjustment         = "adjustment"
	EventTypeTransferIn         = "transfer_in"
	EventTypeTransferOut        = "transfer_out"
	EventTypeFulfillmentCommit  = "fulfillment_commit"
	EventTypeFulfillmentRelease = "fulfillment_release"
)

var eventTypes = map[string]bool{
	EventTypeSale:               true,
	EventTypeReturn:             true,
	EventTypeRestock:            true,
	EventTypeAdjustment:         true,
	EventTypeTransferIn:         true,
	EventTypeTransferOut:        true,
	EventTypeFulfillmentCommit:  true,
	EventTypeFulfillmentRelease: true,
}

// ValidEventType indica si el tipo pertenece a la enumeración del kardex.
func ValidEventType(t string) bool { return eventTypes[t] }

// InventoryEvent es un asiento del kardex: registro inmutable y append-only de un
// cambio de cantidad para una variante, opcionalmente atribuido a una ubicación.
// SourceRef, cuando existe, es la clave natural de deduplicación: un mismo hecho
// de origen nunca produce dos asientos.
type InventoryEvent struct {
	ID            int64
	ShopID        string
	VariantID     string
	LocationID    *string
	EventType     string
	QuantityDelta int // con signo; las ventas siempre salen negativas
	EventTS       time.Time
	SourceRef     *string
	Meta          map[string]any
	CreatedAt     time.Time
}

// Validate verifica los invariantes del asiento antes de persistirlo.
func (e *InventoryEvent) Validate() error {
	if e.ShopID == "" {
		return fmt.Errorf("%w: shop_id requerido", domain.ErrInvalidInput)
	}
	if e.VariantID == "" {
		return fmt.Errorf("%w: variant_id requerido", domain.ErrInvalidInput)
	}
	if !ValidEventType(e.EventType) {
		return fmt.Errorf("%w: event_type %q desconocido", domain.ErrInvalidInput, e.EventType)
	}
	if e.QuantityDelta == 0 {
		return fmt.Errorf("%w: quantity_delta no puede ser cero", domain.ErrInvalidInput)
	}
	if e.EventTS.IsZero() {
		return fmt.Errorf("%w: event_ts requerido", domain.ErrInvalidInput)
	}
	return nil
}

// SaleSourceRef construye la clave de origen determinista de una venta:
// shopify:order:<orderID>:line_item:<lineItemID>.
func SaleSourceRef(orderID, lineItemID string) string {
	return fmt.Sprintf("shopify:order:%s:line_item:%s", orderID, lineItemID)
}

// ReturnSourceRef construye la clave de origen determinista de una devolución:
// shopify:refund:<refundID>:line_item:<lineItemID>.
func ReturnSourceRef(refundID, lineItemID string) string {
	return fmt.Sprintf("shopify:refund:%s:line_item:%s", refundID, lineItemID)
}
