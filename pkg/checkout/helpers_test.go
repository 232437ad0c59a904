package checkout

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/menuvivo/menuvivo-backend/pkg/db/models"
	"github.com/menuvivo/menuvivo-backend/pkg/enums"
)

type testGroupOpts struct {
	selectionType enums.SelectionType
	isRequired    bool
	minSelections int
	maxSelections *int
	displayOrder  int
}

func newTestGroup(name string, opts testGroupOpts) models.ExtraGroup {
	if opts.selectionType == "" {
		opts.selectionType = enums.SelectionTypeMultiple
	}
	return models.ExtraGroup{
		ID:            uuid.New(),
		StoreID:       uuid.New(),
		Name:          name,
		SelectionType: opts.selectionType,
		IsRequired:    opts.isRequired,
		MinSelections: opts.minSelections,
		MaxSelections: opts.maxSelections,
		DisplayOrder:  opts.displayOrder,
		IsActive:      true,
	}
}

func newTestExtra(groupID uuid.UUID, name string, price string, order int, isDefault bool) models.ProductExtra {
	gid := groupID
	return models.ProductExtra{
		ID:           uuid.New(),
		GroupID:      &gid,
		Name:         name,
		Price:        decimal.RequireFromString(price),
		IsAvailable:  true,
		IsDefault:    isDefault,
		DisplayOrder: order,
	}
}

func grouped(group models.ExtraGroup, extras ...models.ProductExtra) GroupedExtras {
	return GroupedExtras{
		Group:     group,
		Extras:    extras,
		Source:    enums.GroupSourceCategory,
		IsEnabled: true,
	}
}

func intPtr(v int) *int {
	return &v
}
