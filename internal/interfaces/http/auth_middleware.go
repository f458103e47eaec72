package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Kardex-api/internal/application/dto"
	"github.com/jhoicas/Kardex-api/pkg/sessiontoken"
)

// Locals keys para la tienda y el usuario autenticados en Fiber.
const (
	LocalShopDomain = "shop_domain"
	LocalUserID     = "user_id"
)

// AuthMiddleware valida el session token de Shopify (Bearer) y deja el dominio
// de la tienda y el usuario en c.Locals. Las rutas protegidas asumen que el
// token ya probó a qué tienda pertenece la petición.
func AuthMiddleware(apiSecret, apiKey string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		shopDomain, userID, err := sessiontoken.Verify(apiSecret, apiKey, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "session token inválido o expirado"})
		}
		c.Locals(LocalShopDomain, shopDomain)
		c.Locals(LocalUserID, userID)
		return c.Next()
	}
}

// GetShopDomain devuelve el dominio de la tienda del contexto (después del middleware).
func GetShopDomain(c *fiber.Ctx) string {
	v := c.Locals(LocalShopDomain)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// GetUserID devuelve el UserID del contexto (después del middleware).
func GetUserID(c *fiber.Ctx) string {
	v := c.Locals(LocalUserID)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
