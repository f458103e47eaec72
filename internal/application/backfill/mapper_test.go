package backfill

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

const testShopID = "shopify://tienda-test.myshopify.com"

func tsPtr(t time.Time) *time.Time { return &t }

// ──────────────────────────────────────────────────────────────────────────────
// Tests MapOrdersToEvents
// ──────────────────────────────────────────────────────────────────────────────

// Caso 1: pedido con una línea vendible y una línea en cero → solo la vendible
// produce asiento, con delta negativo y source_ref determinista.
func TestMapOrdersToEvents_LineaEnCeroSeSalta(t *testing.T) {
	processed := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	orders := []entity.OrderRecord{
		{
			ID:          "O1",
			ProcessedAt: tsPtr(processed),
			LineItems: []entity.OrderLineItem{
				{ID: "L1", Quantity: 2, VariantID: "V1"},
				{ID: "L2", Quantity: 0, VariantID: "V2"},
			},
		},
	}

	events := MapOrdersToEvents(orders, testShopID)

	require.Len(t, events, 1, "solo la línea con cantidad debe producir asiento")
	e := events[0]
	assert.Equal(t, testShopID, e.ShopID)
	assert.Equal(t, "V1", e.VariantID)
	assert.Equal(t, entity.EventTypeSale, e.EventType)
	assert.Equal(t, -2, e.QuantityDelta)
	assert.Equal(t, processed, e.EventTS)
	assert.Nil(t, e.LocationID)
	require.NotNil(t, e.SourceRef)
	assert.Equal(t, "shopify:order:O1:line_item:L1", *e.SourceRef)
	assert.NotNil(t, e.Meta)
	assert.Empty(t, e.Meta)
}

// Caso 2: el signo del origen es irrelevante, las ventas siempre salen negativas.
func TestMapOrdersToEvents_NormalizaSigno(t *testing.T) {
	now := time.Now().UTC()
	orders := []entity.OrderRecord{
		{
			ID:          "O2",
			ProcessedAt: tsPtr(now),
			LineItems: []entity.OrderLineItem{
				{ID: "L1", Quantity: 3, VariantID: "V1"},
				{ID: "L2", Quantity: -5, VariantID: "V2"},
			},
		},
	}

	events := MapOrdersToEvents(orders, testShopID)

	require.Len(t, events, 2)
	assert.Equal(t, -3, events[0].QuantityDelta)
	assert.Equal(t, -5, events[1].QuantityDelta)
}

// Caso 3: línea sin variante (producto borrado) → se salta sin fallar.
func TestMapOrdersToEvents_SinVarianteSeSalta(t *testing.T) {
	now := time.Now().UTC()
	orders := []entity.OrderRecord{
		{
			ID:          "O3",
			ProcessedAt: tsPtr(now),
			LineItems: []entity.OrderLineItem{
				{ID: "L1", Quantity: 1, VariantID: ""},
				{ID: "L2", Quantity: 1, VariantID: "V9"},
			},
		},
	}

	events := MapOrdersToEvents(orders, testShopID)

	require.Len(t, events, 1)
	assert.Equal(t, "V9", events[0].VariantID)
}

// Caso 4: cadena de fallback del timestamp de negocio.
func TestMapOrdersToEvents_FallbackDeTimestamp(t *testing.T) {
	processed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	created := time.Date(2023, 12, 25, 8, 0, 0, 0, time.UTC)
	li := []entity.OrderLineItem{{ID: "L1", Quantity: 1, VariantID: "V1"}}

	// processedAt presente → gana processedAt.
	events := MapOrdersToEvents([]entity.OrderRecord{
		{ID: "O1", ProcessedAt: tsPtr(processed), CreatedAt: tsPtr(created), LineItems: li},
	}, testShopID)
	require.Len(t, events, 1)
	assert.Equal(t, processed, events[0].EventTS)

	// processedAt ausente → createdAt.
	events = MapOrdersToEvents([]entity.OrderRecord{
		{ID: "O2", CreatedAt: tsPtr(created), LineItems: li},
	}, testShopID)
	require.Len(t, events, 1)
	assert.Equal(t, created, events[0].EventTS)

	// Ambos ausentes → momento actual (nunca cero).
	before := time.Now().UTC()
	events = MapOrdersToEvents([]entity.OrderRecord{
		{ID: "O3", LineItems: li},
	}, testShopID)
	after := time.Now().UTC()
	require.Len(t, events, 1)
	assert.False(t, events[0].EventTS.Before(before))
	assert.False(t, events[0].EventTS.After(after))
}

// Caso 5: pedido sin líneas vendibles no aporta asientos pero no interrumpe el lote.
func TestMapOrdersToEvents_PedidoVacio(t *testing.T) {
	now := time.Now().UTC()
	orders := []entity.OrderRecord{
		{ID: "O1", ProcessedAt: tsPtr(now)},
		{ID: "O2", ProcessedAt: tsPtr(now), LineItems: []entity.OrderLineItem{
			{ID: "L1", Quantity: 4, VariantID: "V1"},
		}},
	}

	events := MapOrdersToEvents(orders, testShopID)

	require.Len(t, events, 1)
	assert.Equal(t, "shopify:order:O2:line_item:L1", *events[0].SourceRef)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests MapRefundsToEvents
// ──────────────────────────────────────────────────────────────────────────────

// Las devoluciones entran al inventario: delta positivo y source_ref de refund.
func TestMapRefundsToEvents_DeltaPositivo(t *testing.T) {
	created := time.Date(2024, 5, 2, 12, 0, 0, 0, time.UTC)
	refunds := []entity.RefundRecord{
		{
			ID:        "R1",
			OrderID:   "O1",
			CreatedAt: tsPtr(created),
			LineItems: []entity.RefundLineItem{
				{LineItemID: "L1", Quantity: -2, VariantID: "V1"},
				{LineItemID: "L2", Quantity: 0, VariantID: "V2"},
				{LineItemID: "L3", Quantity: 1, VariantID: ""},
			},
		},
	}

	events := MapRefundsToEvents(refunds, testShopID)

	require.Len(t, events, 1, "cantidad cero y variante ausente se saltan")
	e := events[0]
	assert.Equal(t, entity.EventTypeReturn, e.EventType)
	assert.Equal(t, 2, e.QuantityDelta, "el signo del origen no importa, la devolución suma")
	assert.Equal(t, created, e.EventTS)
	require.NotNil(t, e.SourceRef)
	assert.Equal(t, "shopify:refund:R1:line_item:L1", *e.SourceRef)
}
