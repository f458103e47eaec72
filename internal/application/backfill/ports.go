package backfill

import (
	"context"
	"time"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// PageQuery parámetros de una petición de página contra el Admin API.
// After nil = primera página; en las siguientes lleva el endCursor anterior.
type PageQuery struct {
	ProcessedAtMin time.Time
	PageSize       int
	After          *string
}

// OrderPage una página de pedidos ya validados más el estado de paginación upstream.
type OrderPage struct {
	Orders      []entity.OrderRecord
	HasNextPage bool
	EndCursor   *string
}

// RefundPage una página de reembolsos ya validados más el estado de paginación upstream.
type RefundPage struct {
	Refunds     []entity.RefundRecord
	HasNextPage bool
	EndCursor   *string
}

// OrderSource extrae páginas de pedidos históricos de la tienda autenticada.
// El extractor es dueño del cursor durante una corrida; el orquestador solo lo
// transporta de una respuesta a la siguiente petición.
type OrderSource interface {
	FetchOrdersPage(ctx context.Context, q PageQuery) (OrderPage, error)
}

// RefundSource extrae páginas de reembolsos históricos de la tienda autenticada.
type RefundSource interface {
	FetchRefundsPage(ctx context.Context, q PageQuery) (RefundPage, error)
}
