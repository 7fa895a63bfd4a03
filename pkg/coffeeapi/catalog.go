package coffeeapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Product is a catalog entry as served by the upstream API.
type Product struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	BasePrice   float64   `json:"basePrice"`
	Category    *Category `json:"category,omitempty"`
}

type Category struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// Addon is an optional product extra, either category-scoped or global.
type Addon struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Discount is a promotional rule. Percentage is a fraction, not a percent
// literal (0.1 means 10% off).
type Discount struct {
	ID         string  `json:"_id"`
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
}

// Products lists the storefront catalog.
func (c *Client) Products(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := c.do(ctx, http.MethodGet, "/products", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// CategoryAddons lists the addons available for one product category.
func (c *Client) CategoryAddons(ctx context.Context, categoryID string) ([]Addon, error) {
	if categoryID == "" {
		return nil, fmt.Errorf("category id is required")
	}
	var addons []Addon
	path := "/categories/" + url.PathEscape(categoryID) + "/addons"
	if err := c.do(ctx, http.MethodGet, path, nil, &addons); err != nil {
		return nil, err
	}
	return addons, nil
}

// GlobalAddons lists the addons offered with every product.
func (c *Client) GlobalAddons(ctx context.Context) ([]Addon, error) {
	var addons []Addon
	if err := c.do(ctx, http.MethodGet, "/addons/global", nil, &addons); err != nil {
		return nil, err
	}
	return addons, nil
}

// Discounts fetches the current discount catalog.
func (c *Client) Discounts(ctx context.Context) ([]Discount, error) {
	var discounts []Discount
	if err := c.do(ctx, http.MethodGet, "/discounts", nil, &discounts); err != nil {
		return nil, err
	}
	return discounts, nil
}
