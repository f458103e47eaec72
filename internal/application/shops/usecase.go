// Package shops administra las tiendas instaladas y sus settings de backfill.
// La obtención del access token (OAuth) es externa: aquí llega ya emitido y se
// guarda cifrado en reposo.
package shops

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/internal/domain"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
	"github.com/jhoicas/Kardex-api/internal/domain/repository"
	"github.com/jhoicas/Kardex-api/pkg/security"
)

// UseCase registro y settings de tiendas.
type UseCase struct {
	repo   repository.ShopRepository
	encKey []byte

	defaultWindowDays int
	defaultPageSize   int
}

// NewUseCase construye el caso de uso. encKey es la clave AES-256 para cifrar
// access tokens; los defaults globales siembran los settings de tiendas nuevas.
func NewUseCase(repo repository.ShopRepository, encKey []byte, defaultWindowDays, defaultPageSize int) *UseCase {
	return &UseCase{
		repo:              repo,
		encKey:            encKey,
		defaultWindowDays: defaultWindowDays,
		defaultPageSize:   defaultPageSize,
	}
}

// Register da de alta (o re-instala) una tienda. Upsert por dominio: una
// re-instalación reemplaza el token sin duplicar la fila.
func (uc *UseCase) Register(ctx context.Context, in dto.RegisterShopRequest) (*entity.Shop, error) {
	domainName := strings.ToLower(strings.TrimSpace(in.Domain))
	if domainName == "" || !strings.HasSuffix(domainName, ".myshopify.com") {
		return nil, fmt.Errorf("%w: dominio debe terminar en .myshopify.com", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(in.AccessToken) == "" {
		return nil, fmt.Errorf("%w: access_token requerido", domain.ErrInvalidInput)
	}

	enc, err := security.Encrypt(uc.encKey, in.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("cifrar access token: %w", err)
	}

	shop := &entity.Shop{
		ID:          uuid.New().String(),
		Domain:      domainName,
		AccessToken: enc,
		WindowDays:  uc.defaultWindowDays,
		PageSize:    uc.defaultPageSize,
		InstalledAt: time.Now().UTC(),
	}
	if err := uc.repo.Upsert(ctx, shop); err != nil {
		return nil, err
	}
	return shop, nil
}

// Credentials devuelve la tienda y su access token descifrado, listo para
// construir el cliente del Admin API.
func (uc *UseCase) Credentials(ctx context.Context, domainName string) (*entity.Shop, string, error) {
	shop, err := uc.repo.GetByDomain(ctx, domainName)
	if err != nil {
		return nil, "", err
	}
	if shop == nil {
		return nil, "", domain.ErrShopNotFound
	}
	token, err := security.Decrypt(uc.encKey, shop.AccessToken)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", domain.ErrInvalidCipher, err)
	}
	return shop, token, nil
}

// Settings devuelve los settings de backfill de la tienda.
func (uc *UseCase) Settings(ctx context.Context, domainName string) (dto.ShopSettingsDTO, error) {
	shop, err := uc.repo.GetByDomain(ctx, domainName)
	if err != nil {
		return dto.ShopSettingsDTO{}, err
	}
	if shop == nil {
		return dto.ShopSettingsDTO{}, domain.ErrShopNotFound
	}
	return dto.ShopSettingsDTO{
		Domain:     shop.Domain,
		WindowDays: shop.WindowDays,
		PageSize:   shop.PageSize,
	}, nil
}

// UpdateSettings actualiza la ventana y el tamaño de página por defecto.
func (uc *UseCase) UpdateSettings(ctx context.Context, domainName string, in dto.UpdateSettingsRequest) error {
	if in.WindowDays <= 0 || in.WindowDays > 365 {
		return fmt.Errorf("%w: window_days fuera de rango (1-365)", domain.ErrInvalidInput)
	}
	if in.PageSize <= 0 || in.PageSize > 250 {
		return fmt.Errorf("%w: page_size fuera de rango (1-250)", domain.ErrInvalidInput)
	}
	shop, err := uc.repo.GetByDomain(ctx, domainName)
	if err != nil {
		return err
	}
	if shop == nil {
		return domain.ErrShopNotFound
	}
	return uc.repo.UpdateSettings(ctx, domainName, in.WindowDays, in.PageSize)
}
