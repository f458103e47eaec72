package dto

// RegisterShopRequest body para POST /api/shops. El access token llega ya emitido
// por el flujo OAuth externo; aquí solo se guarda (cifrado).
type RegisterShopRequest struct {
	Domain      string `json:"domain"`
	AccessToken string `json:"access_token"`
}

// ShopSettingsDTO settings de backfill por tienda.
type ShopSettingsDTO struct {
	Domain     string `json:"domain"`
	WindowDays int    `json:"window_days"`
	PageSize   int    `json:"page_size"`
}

// UpdateSettingsRequest body para PUT /api/settings.
type UpdateSettingsRequest struct {
	WindowDays int `json:"window_days"`
	PageSize   int `json:"page_size"`
}
