package models

import (
	"time"

	"github.com/google/uuid"
)

// ProductGroupOverride lets one menu item opt out of (or back into) a
// category-inherited group. Absence of a row means the inherited
// default: enabled. Upserts are last-write-wins on (product, group).
type ProductGroupOverride struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_override_product_group"`
	GroupID   uuid.UUID `gorm:"column:group_id;type:uuid;not null;uniqueIndex:idx_override_product_group"`
	IsEnabled bool      `gorm:"column:is_enabled;not null;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
