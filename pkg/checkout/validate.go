package checkout

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/menuvivo/menuvivo-backend/pkg/db/models"
	"github.com/menuvivo/menuvivo-backend/pkg/enums"
)

// ValidateSelection checks the customer's selection against every
// resolved group's rules and reports all violations at once. Each group
// contributes at most one error: the first failing rule wins so the
// customer never sees contradictory messages for the same group.
//
// Rule order per group:
//  1. required group with fewer than min_selections picks
//  2. partially filled group below min_selections
//  3. picks above max_selections
//  4. more than one pick in a single-choice group
//  5. a picked id that is not in the group's current extras
//
// A non-required group with zero picks is always valid regardless of
// min_selections; only required-ness makes an empty group a blocker.
func ValidateSelection(selection Selection, groups []GroupedExtras) ValidationResult {
	var errs []ValidationError

	for _, grouped := range groups {
		group := grouped.Group
		selected := selection[group.ID]
		count := len(selected)

		if group.IsRequired && count < group.MinSelections {
			errs = append(errs, newViolation(group, RuleRequired, requiredMessage(group.MinSelections)))
			continue
		}

		if count > 0 && count < group.MinSelections {
			errs = append(errs, newViolation(group, RuleBelowMinimum,
				fmt.Sprintf("select at least %d options", group.MinSelections)))
			continue
		}

		if max := group.MaxSelections; max != nil && *max > 0 && count > *max {
			errs = append(errs, newViolation(group, RuleAboveMaximum,
				fmt.Sprintf("you cannot select more than %d options", *max)))
			continue
		}

		if group.SelectionType == enums.SelectionTypeSingle && count > 1 {
			errs = append(errs, newViolation(group, RuleSingleChoice, "only one option can be selected"))
			continue
		}

		if hasUnknownSelection(selected, grouped.Extras) {
			errs = append(errs, newViolation(group, RuleUnknownExtra, "selection references an unavailable option"))
		}
	}

	return ValidationResult{IsValid: len(errs) == 0, Errors: errs}
}

func requiredMessage(minSelections int) string {
	if minSelections <= 1 {
		return "you must select an option"
	}
	return fmt.Sprintf("you must select at least %d options", minSelections)
}

func newViolation(group models.ExtraGroup, rule Rule, message string) ValidationError {
	return ValidationError{
		GroupID:   group.ID,
		GroupName: group.Name,
		Rule:      rule,
		Message:   message,
	}
}

func hasUnknownSelection(selected []uuid.UUID, extras []models.ProductExtra) bool {
	if len(selected) == 0 {
		return false
	}
	known := make(map[uuid.UUID]struct{}, len(extras))
	for _, extra := range extras {
		known[extra.ID] = struct{}{}
	}
	for _, id := range selected {
		if _, ok := known[id]; !ok {
			return true
		}
	}
	return false
}
