package checkout

import (
	"github.com/google/uuid"

	"github.com/menuvivo/menuvivo-backend/pkg/enums"
)

// ComposeDefaults derives the initial selection from each group's
// default-flagged extras. Every resolved group gets an entry, possibly
// empty, so callers can assume total coverage. Single-choice groups
// keep only the first default; multiple-choice groups keep up to
// max_selections defaults, silently truncating any merchant-authored
// excess so defaults can never block rendering.
func ComposeDefaults(groups []GroupedExtras) Selection {
	selection := make(Selection, len(groups))

	for _, grouped := range groups {
		group := grouped.Group

		var defaults []uuid.UUID
		for _, extra := range grouped.Extras {
			if extra.IsDefault {
				defaults = append(defaults, extra.ID)
			}
		}

		switch {
		case len(defaults) == 0:
			selection[group.ID] = []uuid.UUID{}
		case group.SelectionType == enums.SelectionTypeSingle:
			selection[group.ID] = defaults[:1]
		default:
			limit := len(defaults)
			if group.MaxSelections != nil && *group.MaxSelections > 0 && *group.MaxSelections < limit {
				limit = *group.MaxSelections
			}
			selection[group.ID] = defaults[:limit]
		}
	}

	return selection
}
