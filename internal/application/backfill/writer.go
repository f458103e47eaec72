package backfill

import (
	"context"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

// WriteStats resultado contable de escribir un lote de eventos.
type WriteStats struct {
	Attempted int
	Inserted  int
	Skipped   int
}

// EventWriter persiste eventos uno a uno con semántica idempotente. Cada evento
// es una operación independiente: una corrida puede re-ejecutarse sobre ventanas
// solapadas sin producir asientos duplicados.
type EventWriter struct {
	events repository.InventoryEventRepository
}

// NewEventWriter construye el writer con el repositorio del kardex (el handle al
// store se adquiere una vez por proceso y se inyecta aquí).
func NewEventWriter(events repository.InventoryEventRepository) *EventWriter {
	return &EventWriter{events: events}
}

// WriteBatch intenta insertar cada evento en orden. Attempted se incrementa antes
// de conocer el resultado; id asignado cuenta como Inserted, supresión por
// duplicado como Skipped. Un error del store aborta el resto del lote y se
// propaga sin traducir; los parciales acumulados quedan en el WriteStats devuelto.
func (w *EventWriter) WriteBatch(ctx context.Context, events []entity.InventoryEvent) (WriteStats, error) {
	var st WriteStats
	for i := range events {
		st.Attempted++
		id, err := w.events.Insert(ctx, &events[i])
		if err != nil {
			return st, err
		}
		if id != nil {
			st.Inserted++
		} else {
			st.Skipped++
		}
	}
	return st, nil
}
