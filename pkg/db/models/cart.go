package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefront-cart/pkg/enums"
)

// Cart ties an anonymous browser session to its line items through UniqueCartID.
type Cart struct {
	ID           uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	UniqueCartID string           `gorm:"column:unique_cart_id;not null;uniqueIndex:idx_carts_unique_cart_id"`
	Status       enums.CartStatus `gorm:"column:status;type:cart_status;not null;default:'open';index:idx_carts_status_updated,priority:1"`
	Items        []CartItem       `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time        `gorm:"column:updated_at;autoUpdateTime;index:idx_carts_status_updated,priority:2"`
}

func (c *Cart) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Status == "" {
		c.Status = enums.CartStatusOpen
	}
	return nil
}
