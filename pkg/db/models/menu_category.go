package models

import (
	"time"

	"github.com/google/uuid"
)

// MenuCategory groups menu items for display and for category-level
// extra group inheritance.
type MenuCategory struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID      uuid.UUID `gorm:"column:store_id;type:uuid;not null"`
	Name         string    `gorm:"column:name;not null"`
	DisplayOrder int       `gorm:"column:display_order;not null;default:0"`
	IsActive     bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
