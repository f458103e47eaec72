package shopify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Kardex-api/internal/application/backfill"
)

const (
	testShop    = "tienda-test.myshopify.com"
	testVersion = "2024-10"
	testToken   = "shpat_test"
)

// graphQLRequest cuerpo tal como lo envía el cliente.
type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// newGraphQLServer levanta un Admin API falso que verifica la petición y
// responde con el JSON dado.
func newGraphQLServer(t *testing.T, status int, response string, capture *graphQLRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/admin/api/"+testVersion+"/graphql.json", r.URL.Path)
		assert.Equal(t, testToken, r.Header.Get("X-Shopify-Access-Token"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		if capture != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(capture))
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
}

func testClient(baseURL string) *Client {
	return NewClientWithBaseURL(baseURL, testShop, testVersion, testToken)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests FetchOrdersPage
// ──────────────────────────────────────────────────────────────────────────────

func TestFetchOrdersPage_EstrechaElPayload(t *testing.T) {
	response := `{
	  "data": {
	    "orders": {
	      "pageInfo": {"hasNextPage": true, "endCursor": "c-123"},
	      "edges": [
	        {"node": {
	          "id": "gid://shopify/Order/1",
	          "processedAt": "2024-03-15T10:30:00Z",
	          "createdAt": "2024-03-15T10:29:00Z",
	          "currentTotalPriceSet": {"shopMoney": {"amount": "149.90", "currencyCode": "COP"}},
	          "lineItems": {"edges": [
	            {"node": {"id": "gid://shopify/LineItem/11", "quantity": 2, "variant": {"id": "gid://shopify/ProductVariant/7"}}},
	            {"node": {"id": "gid://shopify/LineItem/12", "quantity": 1, "variant": null}},
	            {"node": {"id": "gid://shopify/LineItem/13", "quantity": null, "variant": {"id": "gid://shopify/ProductVariant/8"}}}
	          ]}
	        }}
	      ]
	    }
	  }
	}`
	var captured graphQLRequest
	srv := newGraphQLServer(t, http.StatusOK, response, &captured)
	defer srv.Close()

	source := NewOrdersSource(testClient(srv.URL))
	since := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	page, err := source.FetchOrdersPage(context.Background(), backfill.PageQuery{
		ProcessedAtMin: since,
		PageSize:       100,
	})
	require.NoError(t, err)

	// Variables de la query: ventana, tamaño y cursor nulo en la primera página.
	assert.Equal(t, float64(100), captured.Variables["first"])
	assert.Equal(t, "processed_at:>=2024-01-01T00:00:00Z", captured.Variables["q"])
	assert.Nil(t, captured.Variables["after"])
	assert.Contains(t, captured.Query, "sortKey: PROCESSED_AT")

	assert.True(t, page.HasNextPage)
	require.NotNil(t, page.EndCursor)
	assert.Equal(t, "c-123", *page.EndCursor)

	require.Len(t, page.Orders, 1)
	o := page.Orders[0]
	assert.Equal(t, "gid://shopify/Order/1", o.ID)
	require.NotNil(t, o.ProcessedAt)
	assert.Equal(t, time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC), *o.ProcessedAt)
	require.NotNil(t, o.TotalAmount)
	assert.Equal(t, "149.9", o.TotalAmount.String())
	assert.Equal(t, "COP", o.Currency)

	// El estrechamiento no filtra: variante nil y cantidad nil quedan en cero
	// para que el mapper aplique las reglas de descarte.
	require.Len(t, o.LineItems, 3)
	assert.Equal(t, 2, o.LineItems[0].Quantity)
	assert.Equal(t, "gid://shopify/ProductVariant/7", o.LineItems[0].VariantID)
	assert.Empty(t, o.LineItems[1].VariantID)
	assert.Zero(t, o.LineItems[2].Quantity)
}

func TestFetchOrdersPage_CursorEnPaginasSiguientes(t *testing.T) {
	var captured graphQLRequest
	srv := newGraphQLServer(t, http.StatusOK,
		`{"data": {"orders": {"pageInfo": {"hasNextPage": false, "endCursor": null}, "edges": []}}}`,
		&captured)
	defer srv.Close()

	source := NewOrdersSource(testClient(srv.URL))
	after := "c-previo"

	page, err := source.FetchOrdersPage(context.Background(), backfill.PageQuery{
		ProcessedAtMin: time.Now().UTC(),
		PageSize:       50,
		After:          &after,
	})
	require.NoError(t, err)

	assert.Equal(t, "c-previo", captured.Variables["after"])
	assert.False(t, page.HasNextPage)
	assert.Nil(t, page.EndCursor)
	assert.Empty(t, page.Orders)
}

func TestFetchOrdersPage_TimestampInvalidoDegradaANil(t *testing.T) {
	srv := newGraphQLServer(t, http.StatusOK, `{
	  "data": {"orders": {"pageInfo": {"hasNextPage": false}, "edges": [
	    {"node": {"id": "O1", "processedAt": "ayer", "createdAt": null,
	      "lineItems": {"edges": []}}}
	  ]}}
	}`, nil)
	defer srv.Close()

	page, err := NewOrdersSource(testClient(srv.URL)).
		FetchOrdersPage(context.Background(), backfill.PageQuery{ProcessedAtMin: time.Now(), PageSize: 10})
	require.NoError(t, err)
	require.Len(t, page.Orders, 1)
	assert.Nil(t, page.Orders[0].ProcessedAt)
	assert.Nil(t, page.Orders[0].CreatedAt)
}

func TestFetchOrdersPage_StatusNo200(t *testing.T) {
	srv := newGraphQLServer(t, http.StatusTooManyRequests, `{"errors": "Throttled"}`, nil)
	defer srv.Close()

	_, err := NewOrdersSource(testClient(srv.URL)).
		FetchOrdersPage(context.Background(), backfill.PageQuery{ProcessedAtMin: time.Now(), PageSize: 10})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestFetchOrdersPage_ErroresEnElSobre(t *testing.T) {
	srv := newGraphQLServer(t, http.StatusOK,
		`{"data": null, "errors": [{"message": "query inválida"}, {"message": "campo desconocido"}]}`, nil)
	defer srv.Close()

	_, err := NewOrdersSource(testClient(srv.URL)).
		FetchOrdersPage(context.Background(), backfill.PageQuery{ProcessedAtMin: time.Now(), PageSize: 10})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "query inválida")
	assert.Contains(t, err.Error(), "campo desconocido")
}
