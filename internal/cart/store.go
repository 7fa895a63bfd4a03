package cart

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/maxicoffee/storefront/pkg/kv"
	"github.com/maxicoffee/storefront/pkg/logger"
	"github.com/maxicoffee/storefront/pkg/metrics"
)

// Store persists each shopper's cart as a whole document in a durable slot.
// Every mutation is read-modify-write on the full cart, so the slot always
// holds a complete, decodable snapshot.
type Store interface {
	Load(ctx context.Context, userID string) ([]Item, error)
	Add(ctx context.Context, userID string, item Item) ([]Item, error)
	Remove(ctx context.Context, userID, cartItemID string) ([]Item, error)
	Reset(ctx context.Context, userID string) error
}

type store struct {
	slot    kv.Slot
	prefix  string
	logger  *logger.Logger
	metrics *metrics.StorefrontMetrics
}

// NewStore builds a cart store over the provided slot backend.
func NewStore(slot kv.Slot, keyPrefix string, logg *logger.Logger, m *metrics.StorefrontMetrics) (Store, error) {
	if slot == nil {
		return nil, fmt.Errorf("slot backend required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if keyPrefix == "" {
		keyPrefix = "cart"
	}
	return &store{slot: slot, prefix: keyPrefix, logger: logg, metrics: m}, nil
}

func (s *store) slotKey(userID string) string {
	return fmt.Sprintf("mxc:%s:%s", s.prefix, userID)
}

// Load returns the shopper's cart. A missing slot is an empty cart. A slot
// holding bytes that no longer decode is treated the same way: the shopper
// gets a fresh cart instead of a wedged session, and the corruption is logged.
func (s *store) Load(ctx context.Context, userID string) ([]Item, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id required")
	}
	payload, present, err := s.slot.Get(ctx, s.slotKey(userID))
	if err != nil {
		return nil, fmt.Errorf("loading cart for %s: %w", userID, err)
	}
	if !present || len(payload) == 0 {
		return []Item{}, nil
	}

	var items []Item
	if err := json.Unmarshal(payload, &items); err != nil {
		s.logger.Warn(ctx, fmt.Sprintf("cart slot for %s held undecodable payload, resetting: %v", userID, err))
		if delErr := s.slot.Delete(ctx, s.slotKey(userID)); delErr != nil {
			return nil, fmt.Errorf("clearing corrupt cart for %s: %w", userID, delErr)
		}
		return []Item{}, nil
	}
	if items == nil {
		items = []Item{}
	}
	return items, nil
}

// Add appends the item to the cart and persists the whole document. The item
// gets a fresh cart line id if the caller did not set one.
func (s *store) Add(ctx context.Context, userID string, item Item) ([]Item, error) {
	items, err := s.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if item.CartItemID == "" {
		item.CartItemID = NewItemID()
	}
	items = append(items, item)
	if err := s.save(ctx, userID, items); err != nil {
		return nil, err
	}
	s.metrics.IncCartMutation("add")
	return items, nil
}

// Remove drops the line with the given cart item id. Removing an id that is
// not present leaves the cart as it stands; the write is skipped entirely.
func (s *store) Remove(ctx context.Context, userID, cartItemID string) ([]Item, error) {
	items, err := s.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	kept := make([]Item, 0, len(items))
	for _, item := range items {
		if item.CartItemID != cartItemID {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(items) {
		return items, nil
	}
	if err := s.save(ctx, userID, kept); err != nil {
		return nil, err
	}
	s.metrics.IncCartMutation("remove")
	return kept, nil
}

// Reset clears the shopper's cart slot. Resetting an absent slot succeeds.
func (s *store) Reset(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("user id required")
	}
	if err := s.slot.Delete(ctx, s.slotKey(userID)); err != nil {
		return fmt.Errorf("resetting cart for %s: %w", userID, err)
	}
	s.metrics.IncCartMutation("reset")
	return nil
}

func (s *store) save(ctx context.Context, userID string, items []Item) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encoding cart for %s: %w", userID, err)
	}
	if err := s.slot.Set(ctx, s.slotKey(userID), payload); err != nil {
		return fmt.Errorf("saving cart for %s: %w", userID, err)
	}
	return nil
}
