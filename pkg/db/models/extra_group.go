package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/menuvivo/menuvivo-backend/pkg/enums"
)

// ExtraGroup is a named collection of related extras with shared
// cardinality rules. A non-nil CategoryID makes the group inheritable
// by every menu item in that category; a nil CategoryID makes it
// assignable to individual products instead.
type ExtraGroup struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID       uuid.UUID           `gorm:"column:store_id;type:uuid;not null"`
	CategoryID    *uuid.UUID          `gorm:"column:category_id;type:uuid"`
	Name          string              `gorm:"column:name;not null"`
	Description   *string             `gorm:"column:description"`
	SelectionType enums.SelectionType `gorm:"column:selection_type;type:selection_type;not null"`
	IsRequired    bool                `gorm:"column:is_required;not null;default:false"`
	MinSelections int                 `gorm:"column:min_selections;not null;default:0"`
	MaxSelections *int                `gorm:"column:max_selections"`
	DisplayOrder  int                 `gorm:"column:display_order;not null;default:0"`
	IsActive      bool                `gorm:"column:is_active;not null;default:true"`
	Extras        []ProductExtra      `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// EffectiveMax returns the selection ceiling: always 1 for single
// groups regardless of MaxSelections, nil means unbounded.
func (g ExtraGroup) EffectiveMax() *int {
	if g.SelectionType == enums.SelectionTypeSingle {
		one := 1
		return &one
	}
	return g.MaxSelections
}
