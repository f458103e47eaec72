// Package shopify es el adaptador al GraphQL Admin API. Valida y estrecha los
// payloads crudos en esta frontera: las capas de aplicación solo ven entidades
// canónicas ya tipadas.
package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client cliente autenticado del Admin API de una tienda.
type Client struct {
	baseURL     string // sobreescribible en tests
	shopDomain  string
	apiVersion  string
	accessToken string
	httpClient  *http.Client
}

// NewClient construye el cliente para una tienda con un token ya emitido.
func NewClient(shopDomain, apiVersion, accessToken string) *Client {
	return &Client{
		baseURL:     fmt.Sprintf("https://%s", shopDomain),
		shopDomain:  shopDomain,
		apiVersion:  apiVersion,
		accessToken: accessToken,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
	}
}

// NewClientWithBaseURL igual que NewClient pero apuntando a otro host (tests).
func NewClientWithBaseURL(baseURL, shopDomain, apiVersion, accessToken string) *Client {
	c := NewClient(shopDomain, apiVersion, accessToken)
	c.baseURL = strings.TrimSuffix(baseURL, "/")
	return c
}

// graphQLError un error reportado por el Admin API dentro de una respuesta 200.
type graphQLError struct {
	Message    string `json:"message"`
	Extensions struct {
		Code string `json:"code,omitempty"`
	} `json:"extensions,omitempty"`
}

// graphQLEnvelope sobre { data, errors } del Admin API.
type graphQLEnvelope[T any] struct {
	Data   T              `json:"data"`
	Errors []graphQLError `json:"errors"`
}

// postGraphQL envía una query al endpoint /admin/api/<versión>/graphql.json.
// Cualquier fallo (transporte, status no-200, errors en el sobre) se devuelve
// con el detalle crudo del upstream; el caller decide qué hacer, este paquete
// no reintenta.
func postGraphQL[T any](ctx context.Context, c *Client, query string, variables map[string]any) (*T, error) {
	endpoint := fmt.Sprintf("%s/admin/api/%s/graphql.json", c.baseURL, c.apiVersion)

	body, err := json.Marshal(map[string]any{
		"query":     query,
		"variables": variables,
	})
	if err != nil {
		return nil, fmt.Errorf("shopify: serializar petición: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("shopify: construir petición: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", c.accessToken)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("shopify: %s: %w", c.shopDomain, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("shopify: leer respuesta: %w", err)
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("shopify: %s respondió %d: %s", c.shopDomain, res.StatusCode, truncate(raw, 512))
	}

	var out graphQLEnvelope[T]
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("shopify: deserializar respuesta: %w", err)
	}
	if len(out.Errors) > 0 {
		msgs := make([]string, 0, len(out.Errors))
		for _, e := range out.Errors {
			msgs = append(msgs, e.Message)
		}
		return nil, fmt.Errorf("shopify: graphql errors: %s", strings.Join(msgs, "; "))
	}
	return &out.Data, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

// parseTime estrecha un timestamp opcional del Admin API; formato inválido
// degrada a nil, nunca a error.
func parseTime(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}
