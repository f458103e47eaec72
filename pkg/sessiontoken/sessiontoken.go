// Package sessiontoken valida los session tokens de apps embebidas de Shopify.
// Son JWT HS256 firmados con el API secret de la app; el claim dest identifica
// la tienda (https://<dominio>) y sub al usuario del admin.
package sessiontoken

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims incluye los claims estándar JWT más los propios del session token de Shopify.
type Claims struct {
	jwt.RegisteredClaims
	Dest string `json:"dest"`          // https://<dominio de la tienda>
	Sid  string `json:"sid,omitempty"` // id de sesión del admin
}

// Verify valida firma, expiración y audiencia (debe ser el API key de la app) y
// devuelve el dominio de la tienda y el id de usuario del token.
func Verify(apiSecret, apiKey, tokenString string) (shopDomain, userID string, err error) {
	if apiSecret == "" {
		return "", "", fmt.Errorf("sessiontoken: API secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(apiSecret), nil
	})
	if err != nil {
		return "", "", err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", "", fmt.Errorf("claims inválidos")
	}
	if apiKey != "" && !audienceContains(claims.Audience, apiKey) {
		return "", "", fmt.Errorf("audiencia no corresponde a la app")
	}
	shopDomain = shopFromDest(claims.Dest)
	if shopDomain == "" {
		return "", "", fmt.Errorf("claim dest ausente o inválido")
	}
	return shopDomain, claims.Subject, nil
}

// Issue genera un session token firmado (para tests y herramientas locales).
func Issue(apiSecret, apiKey, shopDomain, userID string, ttl time.Duration) (string, error) {
	if apiSecret == "" {
		return "", fmt.Errorf("sessiontoken: API secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    fmt.Sprintf("https://%s/admin", shopDomain),
			Subject:   userID,
			Audience:  jwt.ClaimStrings{apiKey},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Dest: "https://" + shopDomain,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(apiSecret))
}

func audienceContains(aud jwt.ClaimStrings, apiKey string) bool {
	for _, a := range aud {
		if a == apiKey {
			return true
		}
	}
	return false
}

func shopFromDest(dest string) string {
	d := strings.TrimPrefix(strings.TrimSpace(dest), "https://")
	d = strings.TrimSuffix(d, "/")
	if d == "" || strings.Contains(d, "/") {
		return ""
	}
	return d
}
