package entity

import "time"

// Shop es una tienda Shopify instalada (tenant). AccessToken se guarda cifrado
// con AES-GCM y codificado base64url; nunca se persiste en claro.
type Shop struct {
	ID          string
	Domain      string // ej. mi-tienda.myshopify.com
	AccessToken string // cifrado
	WindowDays  int    // ventana por defecto del backfill
	PageSize    int    // tamaño de página por defecto del backfill
	InstalledAt time.Time
}

// TenantID devuelve el identificador de tenant con el que se asientan los eventos
// en el kardex (shopify://<dominio>).
func (s *Shop) TenantID() string {
	return "shopify://" + s.Domain
}
