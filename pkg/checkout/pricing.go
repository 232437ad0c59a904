package checkout

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Total sums the price of every selected extra across all groups. A
// selected id with no match in its group contributes zero: stale ids
// are the validator's problem, pricing must never fail mid-checkout.
func Total(selection Selection, groups []GroupedExtras) decimal.Decimal {
	total := decimal.Zero

	for _, grouped := range groups {
		selected := selectedSet(selection[grouped.Group.ID])
		if len(selected) == 0 {
			continue
		}
		for _, extra := range grouped.Extras {
			if _, ok := selected[extra.ID]; ok {
				total = total.Add(extra.Price)
			}
		}
	}

	return total
}

// Expand flattens the selection into line items for display and order
// persistence. Output order follows group display order then extra
// display order, keeping persisted order records deterministic.
func Expand(selection Selection, groups []GroupedExtras) []LineItem {
	var items []LineItem

	for _, grouped := range groups {
		selected := selectedSet(selection[grouped.Group.ID])
		if len(selected) == 0 {
			continue
		}
		for _, extra := range grouped.Extras {
			if _, ok := selected[extra.ID]; !ok {
				continue
			}
			items = append(items, LineItem{
				ID:        extra.ID,
				Name:      extra.Name,
				Price:     extra.Price,
				GroupID:   grouped.Group.ID,
				GroupName: grouped.Group.Name,
			})
		}
	}

	return items
}

func selectedSet(ids []uuid.UUID) map[uuid.UUID]struct{} {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
