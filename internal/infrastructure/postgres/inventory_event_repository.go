package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var _ repository.InventoryEventRepository = (*InventoryEventRepo)(nil)

// InventoryEventRepo kardex sobre PostgreSQL (usable con pool o tx).
// La deduplicación es un índice único parcial sobre source_ref: el INSERT usa
// ON CONFLICT ... DO NOTHING, de modo que un duplicado se suprime atómicamente
// en el intento, sin locking de nivel superior.
type InventoryEventRepo struct {
	q Querier
}

// NewInventoryEventRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryEventRepository(q Querier) *InventoryEventRepo {
	return &InventoryEventRepo{q: q}
}

// Insert intenta asentar el evento. Devuelve el id asignado, o nil si una fila
// con el mismo source_ref ya existía (RETURNING sin filas). El duplicado no es
// un error: es el mecanismo que hace seguras las re-corridas.
func (r *InventoryEventRepo) Insert(ctx context.Context, e *entity.InventoryEvent) (*int64, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	meta := e.Meta
	if meta == nil {
		meta = map[string]any{}
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("serializar meta: %w", err)
	}

	query := `
		INSERT INTO inventory_events
			(shop_id, variant_id, location_id, event_type, quantity_delta, event_ts, source_ref, meta)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (source_ref) WHERE source_ref IS NOT NULL DO NOTHING
		RETURNING id`

	var id int64
	err = r.q.QueryRow(ctx, query,
		e.ShopID, e.VariantID, e.LocationID, e.EventType,
		e.QuantityDelta, e.EventTS, e.SourceRef, metaJSON,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Insert suprimido por el índice único: duplicado.
			return nil, nil
		}
		return nil, fmt.Errorf("insert inventory event: %w", err)
	}
	return &id, nil
}

// List lista asientos de una tienda, más recientes primero.
func (r *InventoryEventRepo) List(ctx context.Context, f repository.EventFilter) ([]*entity.InventoryEvent, error) {
	query := `
		SELECT id, shop_id, variant_id, location_id, event_type, quantity_delta, event_ts, source_ref, meta, created_at
		FROM inventory_events WHERE shop_id = $1`
	args := []any{f.ShopID}
	pos := 2
	if f.VariantID != "" {
		query += fmt.Sprintf(" AND variant_id = $%d", pos)
		args = append(args, f.VariantID)
		pos++
	}
	if f.EventType != "" {
		query += fmt.Sprintf(" AND event_type = $%d", pos)
		args = append(args, f.EventType)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY event_ts DESC, id DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list inventory events: %w", err)
	}
	defer rows.Close()

	var list []*entity.InventoryEvent
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

// Count total de asientos que matchean el filtro (sin limit/offset).
func (r *InventoryEventRepo) Count(ctx context.Context, f repository.EventFilter) (int64, error) {
	query := `SELECT COUNT(*) FROM inventory_events WHERE shop_id = $1`
	args := []any{f.ShopID}
	pos := 2
	if f.VariantID != "" {
		query += fmt.Sprintf(" AND variant_id = $%d", pos)
		args = append(args, f.VariantID)
		pos++
	}
	if f.EventType != "" {
		query += fmt.Sprintf(" AND event_type = $%d", pos)
		args = append(args, f.EventType)
	}
	var total int64
	if err := r.q.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count inventory events: %w", err)
	}
	return total, nil
}

func scanEvent(rows pgx.Rows) (*entity.InventoryEvent, error) {
	var e entity.InventoryEvent
	var metaJSON []byte
	if err := rows.Scan(&e.ID, &e.ShopID, &e.VariantID, &e.LocationID, &e.EventType,
		&e.QuantityDelta, &e.EventTS, &e.SourceRef, &metaJSON, &e.CreatedAt); err != nil {
		return nil, fmt.Errorf("scan inventory event: %w", err)
	}
	if len(metaJSON) > 0 {
		if err := json.Unmarshal(metaJSON, &e.Meta); err != nil {
			return nil, fmt.Errorf("deserializar meta: %w", err)
		}
	}
	if e.Meta == nil {
		e.Meta = map[string]any{}
	}
	return &e, nil
}
