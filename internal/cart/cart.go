package cart

import (
	"github.com/google/uuid"
	"github.com/maxicoffee/storefront/internal/pricing"
)

// Item is one cart line. Product and addon data is denormalized at the moment
// the item is added so that later catalog edits never reprice a cart the
// shopper has already seen.
type Item struct {
	CartItemID  string `json:"cartItemId"`
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`

	BasePriceCents int64   `json:"basePriceCents"`
	Addons         []Addon `json:"addons,omitempty"`
}

// Addon is a selected extra on a cart item, snapshotted by name and price.
type Addon struct {
	Name       string `json:"name"`
	PriceCents int64  `json:"priceCents"`
}

// NewItemID mints the identity used to target a single cart line for removal.
func NewItemID() string {
	return uuid.NewString()
}

// LineTotalCents is the item's base price plus all of its addons.
func (i Item) LineTotalCents() int64 {
	addons := make([]int64, 0, len(i.Addons))
	for _, addon := range i.Addons {
		addons = append(addons, addon.PriceCents)
	}
	return pricing.LineTotal(i.BasePriceCents, addons)
}

// SubtotalCents sums the line totals of every item.
func SubtotalCents(items []Item) int64 {
	lines := make([]int64, 0, len(items))
	for _, item := range items {
		lines = append(lines, item.LineTotalCents())
	}
	return pricing.Subtotal(lines)
}
