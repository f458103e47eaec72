package shopify

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Kardex-api/internal/application/backfill"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// Misma forma de query que la página de pedidos original del admin: orden
// estable ascendente por processed_at para que una corrida interrumpida avance
// determinísticamente al reanudarse desde afuera.
const ordersPageQuery = `
query OrdersPage($first: Int!, $q: String!, $after: String) {
  orders(first: $first, after: $after, query: $q, sortKey: PROCESSED_AT, reverse: false) {
    pageInfo { hasNextPage endCursor }
    edges {
      node {
        id
        processedAt
        createdAt
        currentTotalPriceSet { shopMoney { amount currencyCode } }
        lineItems(first: 100) {
          edges { node { id quantity variant { id } } }
        }
      }
    }
  }
}`

// DTOs crudos del GraphQL: todo opcional como puntero; el estrechamiento a
// entity.OrderRecord pasa por aquí y solo por aquí.
type ordersPageData struct {
	Orders struct {
		PageInfo pageInfo `json:"pageInfo"`
		Edges    []struct {
			Node orderNode `json:"node"`
		} `json:"edges"`
	} `json:"orders"`
}

type pageInfo struct {
	HasNextPage bool    `json:"hasNextPage"`
	EndCursor   *string `json:"endCursor"`
}

type orderNode struct {
	ID                   string    `json:"id"`
	ProcessedAt          *string   `json:"processedAt"`
	CreatedAt            *string   `json:"createdAt"`
	CurrentTotalPriceSet *moneyBag `json:"currentTotalPriceSet"`
	LineItems            struct {
		Edges []struct {
			Node lineItemNode `json:"node"`
		} `json:"edges"`
	} `json:"lineItems"`
}

type lineItemNode struct {
	ID       string `json:"id"`
	Quantity *int   `json:"quantity"`
	Variant  *struct {
		ID *string `json:"id"`
	} `json:"variant"`
}

type moneyBag struct {
	ShopMoney *struct {
		Amount       *string `json:"amount"`
		CurrencyCode *string `json:"currencyCode"`
	} `json:"shopMoney"`
}

var _ backfill.OrderSource = (*OrdersSource)(nil)

// OrdersSource implementa backfill.OrderSource contra el Admin API.
type OrdersSource struct {
	client *Client
}

// NewOrdersSource construye el extractor de pedidos para una tienda autenticada.
func NewOrdersSource(c *Client) *OrdersSource {
	return &OrdersSource{client: c}
}

// FetchOrdersPage pide una página de pedidos con processed_at dentro de la
// ventana. Timestamps ausentes, variantes faltantes, cantidades en cero y
// páginas vacías no son errores: se estrechan tal cual y el mapper decide.
func (s *OrdersSource) FetchOrdersPage(ctx context.Context, q backfill.PageQuery) (backfill.OrderPage, error) {
	vars := map[string]any{
		"first": q.PageSize,
		"q":     processedAtFilter(q.ProcessedAtMin),
		"after": q.After,
	}
	data, err := postGraphQL[ordersPageData](ctx, s.client, ordersPageQuery, vars)
	if err != nil {
		return backfill.OrderPage{}, err
	}

	orders := make([]entity.OrderRecord, 0, len(data.Orders.Edges))
	for _, edge := range data.Orders.Edges {
		orders = append(orders, narrowOrder(edge.Node))
	}
	return backfill.OrderPage{
		Orders:      orders,
		HasNextPage: data.Orders.PageInfo.HasNextPage,
		EndCursor:   data.Orders.PageInfo.EndCursor,
	}, nil
}

func narrowOrder(n orderNode) entity.OrderRecord {
	o := entity.OrderRecord{
		ID:          n.ID,
		ProcessedAt: parseTime(n.ProcessedAt),
		CreatedAt:   parseTime(n.CreatedAt),
	}
	if n.CurrentTotalPriceSet != nil && n.CurrentTotalPriceSet.ShopMoney != nil {
		sm := n.CurrentTotalPriceSet.ShopMoney
		if sm.Amount != nil {
			if amt, err := decimal.NewFromString(*sm.Amount); err == nil {
				o.TotalAmount = &amt
			}
		}
		if sm.CurrencyCode != nil {
			o.Currency = *sm.CurrencyCode
		}
	}
	for _, li := range n.LineItems.Edges {
		item := entity.OrderLineItem{ID: li.Node.ID}
		if li.Node.Quantity != nil {
			item.Quantity = *li.Node.Quantity
		}
		if li.Node.Variant != nil && li.Node.Variant.ID != nil {
			item.VariantID = *li.Node.Variant.ID
		}
		o.LineItems = append(o.LineItems, item)
	}
	return o
}

func processedAtFilter(min time.Time) string {
	return fmt.Sprintf("processed_at:>=%s", min.UTC().Format(time.RFC3339))
}
