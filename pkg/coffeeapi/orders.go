package coffeeapi

import (
	"context"
	"net/http"
)

// OrderSubmission is the outbound order payload. It is built only from the
// cart snapshot and discount selection frozen at the moment checkout is
// confirmed.
type OrderSubmission struct {
	UserID     string      `json:"userId"`
	Items      []OrderItem `json:"items"`
	DiscountID string      `json:"discountId,omitempty"`
}

type OrderItem struct {
	ProductName string       `json:"productName"`
	Price       float64      `json:"price"`
	Addons      []OrderAddon `json:"addons"`
}

type OrderAddon struct {
	AddonName string  `json:"addonName"`
	Price     float64 `json:"price"`
}

// OrderResponse carries the server-assigned order identifier.
type OrderResponse struct {
	ID string `json:"_id"`
}

// CreateOrder submits the order and returns the accepted order's identifier.
func (c *Client) CreateOrder(ctx context.Context, submission OrderSubmission) (*OrderResponse, error) {
	var resp OrderResponse
	if err := c.do(ctx, http.MethodPost, "/orders", submission, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
