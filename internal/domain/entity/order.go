package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLineItem es una línea de pedido ya validada en la frontera de extracción.
// VariantID vacío significa que la línea no referencia ninguna variante (la línea
// se descarta durante el mapeo, nunca es un error).
type OrderLineItem struct {
	ID        string
	Quantity  int
	VariantID string
}

// OrderRecord es el pedido transitorio que llega del Admin API: se consume por el
// mapper página a página y no se retiene. ProcessedAt y CreatedAt son opcionales;
// la prioridad del timestamp de negocio es processedAt > createdAt > ahora.
type OrderRecord struct {
	ID          string
	ProcessedAt *time.Time
	CreatedAt   *time.Time
	LineItems   []OrderLineItem

	// Solo informativos (vista previa); el mapper los ignora.
	TotalAmount *decimal.Decimal
	Currency    string
}

// RefundLineItem es una línea reembolsada dentro de un refund de Shopify.
type RefundLineItem struct {
	LineItemID string
	Quantity   int
	VariantID  string
}

// RefundRecord es un reembolso transitorio asociado a un pedido, usado por el
// backfill de devoluciones.
type RefundRecord struct {
	ID        string
	OrderID   string
	CreatedAt *time.Time
	LineItems []RefundLineItem
}
