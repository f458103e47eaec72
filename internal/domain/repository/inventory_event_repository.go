package repository

import (
	"context"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// EventFilter filtros para listar asientos del kardex.
type EventFilter struct {
	ShopID    string
	VariantID string // vacío = todas
	EventType string // vacío = todos
	Limit     int
	Offset    int
}

// InventoryEventRepository acceso al kardex (append-only).
// Insert devuelve el id asignado por el store, o nil si el asiento fue suprimido
// por deduplicación (source_ref ya existente). Un duplicado NUNCA es un error.
type InventoryEventRepository interface {
	Insert(ctx context.Context, e *entity.InventoryEvent) (*int64, error)
	List(ctx context.Context, f EventFilter) ([]*entity.InventoryEvent, error)
	Count(ctx context.Context, f EventFilter) (int64, error)
}
