package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MenuItem is a sellable product on a store's menu.
type MenuItem struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID      uuid.UUID       `gorm:"column:store_id;type:uuid;not null"`
	CategoryID   *uuid.UUID      `gorm:"column:category_id;type:uuid"`
	Name         string          `gorm:"column:name;not null"`
	Description  *string         `gorm:"column:description"`
	Price        decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	IsAvailable  bool            `gorm:"column:is_available;not null;default:true"`
	DisplayOrder int             `gorm:"column:display_order;not null;default:0"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
