package backfill

import (
	"time"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// MapOrdersToEvents es la normalización pura de pedidos históricos a asientos de
// venta del kardex. Nunca falla: la entrada malformada degrada a "saltar la línea".
//
// Por cada línea de cada pedido:
//   - timestamp de negocio: processedAt, si no createdAt, si no ahora;
//   - cantidad cero o ausente → se salta la línea;
//   - sin variante → se salta la línea;
//   - emite un evento "sale" con quantity_delta = -abs(q): las ventas salen del
//     inventario sin importar el signo que traiga el origen.
//
// location_id queda en nil: la atribución por fulfillment se difiere (carencia
// documentada, ver DESIGN.md).
func MapOrdersToEvents(orders []entity.OrderRecord, shopID string) []entity.InventoryEvent {
	events := make([]entity.InventoryEvent, 0, len(orders))
	for _, o := range orders {
		when := resolveTimestamp(o.ProcessedAt, o.CreatedAt)
		for _, li := range o.LineItems {
			if li.Quantity == 0 || li.VariantID == "" {
				continue
			}
			ref := entity.SaleSourceRef(o.ID, li.ID)
			events = append(events, entity.InventoryEvent{
				ShopID:        shopID,
				VariantID:     li.VariantID,
				LocationID:    nil,
				EventType:     entity.EventTypeSale,
				QuantityDelta: -abs(li.Quantity),
				EventTS:       when,
				SourceRef:     &ref,
				Meta:          map[string]any{},
			})
		}
	}
	return events
}

// MapRefundsToEvents normaliza reembolsos históricos a asientos "return" (entrada
// al inventario, delta positivo). Mismas reglas de descarte que las ventas.
func MapRefundsToEvents(refunds []entity.RefundRecord, shopID string) []entity.InventoryEvent {
	events := make([]entity.InventoryEvent, 0, len(refunds))
	for _, r := range refunds {
		when := resolveTimestamp(r.CreatedAt, nil)
		for _, li := range r.LineItems {
			if li.Quantity == 0 || li.VariantID == "" {
				continue
			}
			ref := entity.ReturnSourceRef(r.ID, li.LineItemID)
			events = append(events, entity.InventoryEvent{
				ShopID:        shopID,
				VariantID:     li.VariantID,
				LocationID:    nil,
				EventType:     entity.EventTypeReturn,
				QuantityDelta: abs(li.Quantity),
				EventTS:       when,
				SourceRef:     &ref,
				Meta:          map[string]any{},
			})
		}
	}
	return events
}

func resolveTimestamp(primary, fallback *time.Time) time.Time {
	if primary != nil {
		return *primary
	}
	if fallback != nil {
		return *fallback
	}
	return time.Now().UTC()
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
