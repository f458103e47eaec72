// Package inventory expone la lectura del kardex para la UI embebida. Solo
// listados: la agregación de niveles de inventario es responsabilidad de otro
// sistema aguas abajo.
package inventory

import (
	"context"

	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// UseCase consultas de solo lectura sobre el kardex.
type UseCase struct {
	events repository.InventoryEventRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(events repository.InventoryEventRepository) *UseCase {
	return &UseCase{events: events}
}

// ListEvents lista asientos de una tienda con filtros opcionales y devuelve
// también el total para la paginación de la tabla.
func (uc *UseCase) ListEvents(ctx context.Context, tenantID string, in dto.ListEventsRequest) ([]dto.InventoryEventDTO, int64, error) {
	in.DefaultPage()
	filter := repository.EventFilter{
		ShopID:    tenantID,
		VariantID: in.VariantID,
		EventType: in.EventType,
		Limit:     in.Limit,
		Offset:    in.Offset,
	}

	events, err := uc.events.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := uc.events.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	out := make([]dto.InventoryEventDTO, 0, len(events))
	for _, e := range events {
		out = append(out, dto.InventoryEventDTO{
			ID:            e.ID,
			ShopID:        e.ShopID,
			VariantID:     e.VariantID,
			LocationID:    e.LocationID,
			EventType:     e.EventType,
			QuantityDelta: e.QuantityDelta,
			EventTS:       e.EventTS,
			SourceRef:     e.SourceRef,
			Meta:          e.Meta,
			CreatedAt:     e.CreatedAt,
		})
	}
	return out, total, nil
}
