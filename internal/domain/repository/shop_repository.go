package repository

import (
	"context"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// ShopRepository acceso a las tiendas instaladas.
// GetByDomain devuelve (nil, nil) si la tienda no existe.
type ShopRepository interface {
	Upsert(ctx context.Context, s *entity.Shop) error
	GetByDomain(ctx context.Context, domain string) (*entity.Shop, error)
	UpdateSettings(ctx context.Context, domain string, windowDays, pageSize int) error
}
