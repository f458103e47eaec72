package shopify

import "context"

const pingQuery = `{ shop { name } }`

type pingData struct {
	Shop struct {
		Name string `json:"name"`
	} `json:"shop"`
}

// Ping verifica que el Admin API sea alcanzable con el token de la tienda y
// devuelve el nombre de la tienda.
func (c *Client) Ping(ctx context.Context) (string, error) {
	data, err := postGraphQL[pingData](ctx, c, pingQuery, nil)
	if err != nil {
		return "", err
	}
	return data.Shop.Name, nil
}
