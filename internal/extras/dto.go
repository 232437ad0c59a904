package extras

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateGroupInput carries the fields accepted when creating a group.
type CreateGroupInput struct {
	StoreID       uuid.UUID
	CategoryID    *uuid.UUID
	Name          string
	Description   *string
	SelectionType string
	IsRequired    bool
	MinSelections int
	MaxSelections *int
	DisplayOrder  int
}

// UpdateGroupInput carries partial updates; nil fields are untouched.
// ClearMaxSelections removes the ceiling and wins over MaxSelections.
type UpdateGroupInput struct {
	Name               *string
	Description        *string
	SelectionType      *string
	IsRequired         *bool
	MinSelections      *int
	MaxSelections      *int
	ClearMaxSelections bool
	DisplayOrder       *int
	IsActive           *bool
}

// SetOverrideInput toggles a category-inherited group for one menu item.
type SetOverrideInput struct {
	ProductID uuid.UUID
	GroupID   uuid.UUID
	IsEnabled bool
}

// CreateExtraInput carries the fields accepted when creating an extra.
// Exactly one of GroupID or MenuItemID must be set.
type CreateExtraInput struct {
	GroupID      *uuid.UUID
	MenuItemID   *uuid.UUID
	Name         string
	Price        decimal.Decimal
	IsAvailable  bool
	IsDefault    bool
	DisplayOrder int
}

// UpdateExtraInput carries partial updates; nil fields are untouched.
type UpdateExtraInput struct {
	Name         *string
	Price        *decimal.Decimal
	IsAvailable  *bool
	IsDefault    *bool
	DisplayOrder *int
}
