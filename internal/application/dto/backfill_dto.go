package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// RunBackfillRequest body opcional para POST /api/backfill/{orders,returns}.
// Campos en cero usan los settings de la tienda.
type RunBackfillRequest struct {
	WindowDays int `json:"window_days,omitempty"`
	PageSize   int `json:"page_size,omitempty"`
}

// OrderPreviewDTO resumen de un pedido para la vista previa (solo lectura).
type OrderPreviewDTO struct {
	ID          string           `json:"id"`
	ProcessedAt *string          `json:"processed_at,omitempty"`
	CreatedAt   *string          `json:"created_at,omitempty"`
	LineItems   int              `json:"line_items"`
	TotalAmount *decimal.Decimal `json:"total_amount,omitempty"`
	Currency    string           `json:"currency,omitempty"`
}

// NewOrderPreviewDTO arma el resumen de un pedido extraído.
func NewOrderPreviewDTO(o entity.OrderRecord) OrderPreviewDTO {
	return OrderPreviewDTO{
		ID:          o.ID,
		ProcessedAt: formatTime(o.ProcessedAt),
		CreatedAt:   formatTime(o.CreatedAt),
		LineItems:   len(o.LineItems),
		TotalAmount: o.TotalAmount,
		Currency:    o.Currency,
	}
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

// PreviewResponse primera página de pedidos de la ventana, sin mapear ni escribir.
type PreviewResponse struct {
	Orders      []OrderPreviewDTO `json:"orders"`
	HasNextPage bool              `json:"has_next_page"`
	EndCursor   *string           `json:"end_cursor,omitempty"`
}
