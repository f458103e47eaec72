package shopify

import (
	"context"

	"github.com/jhoicas/Kardex-api/internal/application/backfill"
	"github.com/jhoicas/Kardex-api/internal/domain/entity"
)

// Los refunds viven anidados en los pedidos, así que el backfill de devoluciones
// pagina los mismos pedidos de la ventana y aplana sus refunds.
const refundsPageQuery = `
query RefundsPage($first: Int!, $q: String!, $after: String) {
  orders(first: $first, after: $after, query: $q, sortKey: PROCESSED_AT, reverse: false) {
    pageInfo { hasNextPage endCursor }
    edges {
      node {
        id
        refunds {
          id
          createdAt
          refundLineItems(first: 100) {
            edges {
              node {
                quantity
                lineItem { id variant { id } }
              }
            }
          }
        }
      }
    }
  }
}`

type refundsPageData struct {
	Orders struct {
		PageInfo pageInfo `json:"pageInfo"`
		Edges    []struct {
			Node struct {
				ID      string       `json:"id"`
				Refunds []refundNode `json:"refunds"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"orders"`
}

type refundNode struct {
	ID              string  `json:"id"`
	CreatedAt       *string `json:"createdAt"`
	RefundLineItems struct {
		Edges []struct {
			Node struct {
				Quantity *int `json:"quantity"`
				LineItem *struct {
					ID      string `json:"id"`
					Variant *struct {
						ID *string `json:"id"`
					} `json:"variant"`
				} `json:"lineItem"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"refundLineItems"`
}

var _ backfill.RefundSource = (*RefundsSource)(nil)

// RefundsSource implementa backfill.RefundSource contra el Admin API.
type RefundsSource struct {
	client *Client
}

// NewRefundsSource construye el extractor de devoluciones para una tienda autenticada.
func NewRefundsSource(c *Client) *RefundsSource {
	return &RefundsSource{client: c}
}

// FetchRefundsPage pide una página de pedidos y estrecha sus refunds anidados.
// Pedidos sin refunds simplemente no aportan registros.
func (s *RefundsSource) FetchRefundsPage(ctx context.Context, q backfill.PageQuery) (backfill.RefundPage, error) {
	vars := map[string]any{
		"first": q.PageSize,
		"q":     processedAtFilter(q.ProcessedAtMin),
		"after": q.After,
	}
	data, err := postGraphQL[refundsPageData](ctx, s.client, refundsPageQuery, vars)
	if err != nil {
		return backfill.RefundPage{}, err
	}

	var refunds []entity.RefundRecord
	for _, edge := range data.Orders.Edges {
		for _, rn := range edge.Node.Refunds {
			refunds = append(refunds, narrowRefund(edge.Node.ID, rn))
		}
	}
	return backfill.RefundPage{
		Refunds:     refunds,
		HasNextPage: data.Orders.PageInfo.HasNextPage,
		EndCursor:   data.Orders.PageInfo.EndCursor,
	}, nil
}

func narrowRefund(orderID string, n refundNode) entity.RefundRecord {
	r := entity.RefundRecord{
		ID:        n.ID,
		OrderID:   orderID,
		CreatedAt: parseTime(n.CreatedAt),
	}
	for _, e := range n.RefundLineItems.Edges {
		item := entity.RefundLineItem{}
		if e.Node.Quantity != nil {
			item.Quantity = *e.Node.Quantity
		}
		if e.Node.LineItem != nil {
			item.LineItemID = e.Node.LineItem.ID
			if e.Node.LineItem.Variant != nil && e.Node.LineItem.Variant.ID != nil {
				item.VariantID = *e.Node.LineItem.Variant.ID
			}
		}
		r.LineItems = append(r.LineItems, item)
	}
	return r
}
