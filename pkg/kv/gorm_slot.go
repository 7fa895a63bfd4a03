package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/maxicoffee/storefront/pkg/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartSlotRecord is the relational representation of one persisted slot.
type CartSlotRecord struct {
	SlotKey   string    `gorm:"column:slot_key;primaryKey"`
	Payload   string    `gorm:"column:payload;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (CartSlotRecord) TableName() string {
	return "cart_slots"
}

// GormSlot persists slot documents in a single relational table, one row per
// key, replaced wholesale on every write.
type GormSlot struct {
	client *db.Client
}

func NewGormSlot(client *db.Client) (*GormSlot, error) {
	if client == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &GormSlot{client: client}, nil
}

func (s *GormSlot) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var record CartSlotRecord
	err := s.client.DB().WithContext(ctx).First(&record, "slot_key = ?", key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading slot %s: %w", key, err)
	}
	return []byte(record.Payload), true, nil
}

func (s *GormSlot) Set(ctx context.Context, key string, payload []byte) error {
	record := CartSlotRecord{SlotKey: key, Payload: string(payload)}
	err := s.client.DB().WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slot_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
		}).
		Create(&record).Error
	if err != nil {
		return fmt.Errorf("writing slot %s: %w", key, err)
	}
	return nil
}

func (s *GormSlot) Delete(ctx context.Context, key string) error {
	err := s.client.DB().WithContext(ctx).
		Delete(&CartSlotRecord{}, "slot_key = ?", key).Error
	if err != nil {
		return fmt.Errorf("deleting slot %s: %w", key, err)
	}
	return nil
}
