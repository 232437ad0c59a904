package models

import (
	"time"

	"github.com/google/uuid"
)

// ProductGroupAssignment maps an extra group directly onto a specific
// menu item. Only groups without a category apply through this table;
// switching a group to category mode clears its assignments.
type ProductGroupAssignment struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_assignment_product_group"`
	GroupID   uuid.UUID `gorm:"column:group_id;type:uuid;not null;uniqueIndex:idx_assignment_product_group"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName overrides the default pluralization to match the schema.
func (ProductGroupAssignment) TableName() string {
	return "product_extra_group_assignments"
}
