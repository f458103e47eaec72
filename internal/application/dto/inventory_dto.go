package dto

import "time"

// ListEventsRequest query params para GET /api/inventory/events.
type ListEventsRequest struct {
	VariantID string `query:"variant_id"`
	EventType string `query:"event_type"`
	PageRequest
}

// InventoryEventDTO asiento del kardex en respuestas HTTP.
type InventoryEventDTO struct {
	ID            int64          `json:"id"`
	ShopID        string         `json:"shop_id"`
	VariantID     string         `json:"variant_id"`
	LocationID    *string        `json:"location_id"`
	EventType     string         `json:"event_type"`
	QuantityDelta int            `json:"quantity_delta"`
	EventTS       time.Time      `json:"event_ts"`
	SourceRef     *string        `json:"source_ref,omitempty"`
	Meta          map[string]any `json:"meta"`
	CreatedAt     time.Time      `json:"created_at"`
}
