package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
)

var _ repository.ShopRepository = (*ShopRepo)(nil)

// ShopRepo tiendas instaladas sobre PostgreSQL.
type ShopRepo struct {
	q Querier
}

// NewShopRepository construye el adaptador.
func NewShopRepository(q Querier) *ShopRepo {
	return &ShopRepo{q: q}
}

// Upsert inserta la tienda o, si el dominio ya existe (re-instalación), reemplaza
// el token y la fecha de instalación conservando sus settings.
func (r *ShopRepo) Upsert(ctx context.Context, s *entity.Shop) error {
	query := `
		INSERT INTO shops (id, domain, access_token, window_days, page_size, installed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (domain) DO UPDATE
			SET access_token = EXCLUDED.access_token,
			    installed_at = EXCLUDED.installed_at`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.Domain, s.AccessToken, s.WindowDays, s.PageSize, s.InstalledAt)
	if err != nil {
		return fmt.Errorf("upsert shop: %w", err)
	}
	return nil
}

// GetByDomain devuelve la tienda o nil si no existe.
func (r *ShopRepo) GetByDomain(ctx context.Context, domain string) (*entity.Shop, error) {
	query := `
		SELECT id, domain, access_token, window_days, page_size, installed_at
		FROM shops WHERE domain = $1`
	var s entity.Shop
	err := r.q.QueryRow(ctx, query, domain).Scan(
		&s.ID, &s.Domain, &s.AccessToken, &s.WindowDays, &s.PageSize, &s.InstalledAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get shop: %w", err)
	}
	return &s, nil
}

// UpdateSettings actualiza los defaults de backfill de la tienda.
func (r *ShopRepo) UpdateSettings(ctx context.Context, domain string, windowDays, pageSize int) error {
	query := `UPDATE shops SET window_days = $2, page_size = $3 WHERE domain = $1`
	tag, err := r.q.Exec(ctx, query, domain, windowDays, pageSize)
	if err != nil {
		return fmt.Errorf("update shop settings: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update shop settings: tienda %q no encontrada", domain)
	}
	return nil
}
