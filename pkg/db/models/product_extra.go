package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductExtra is one selectable option. Exactly one of GroupID or
// MenuItemID is set: grouped extras belong to an ExtraGroup, legacy
// ungrouped extras hang directly off a menu item and never enter
// group resolution.
type ProductExtra struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	GroupID      *uuid.UUID      `gorm:"column:group_id;type:uuid"`
	MenuItemID   *uuid.UUID      `gorm:"column:menu_item_id;type:uuid"`
	Name         string          `gorm:"column:name;not null"`
	Price        decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	IsAvailable  bool            `gorm:"column:is_available;not null;default:true"`
	IsDefault    bool            `gorm:"column:is_default;not null;default:false"`
	DisplayOrder int             `gorm:"column:display_order;not null;default:0"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
