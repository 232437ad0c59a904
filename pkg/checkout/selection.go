package checkout

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/menuvivo/menuvivo-backend/pkg/db/models"
	"github.com/menuvivo/menuvivo-backend/pkg/enums"
)

// Selection maps a group id to the extra ids the customer picked from
// that group. It is held transiently during checkout and never persisted.
type Selection map[uuid.UUID][]uuid.UUID

// GroupedExtras is one effective extra group for a product: the group's
// rules plus only its purchasable extras, tagged with how the group
// reached the product. Recomputed per resolution, never persisted.
type GroupedExtras struct {
	Group     models.ExtraGroup     `json:"group"`
	Extras    []models.ProductExtra `json:"extras"`
	Source    enums.GroupSource     `json:"source"`
	IsEnabled bool                  `json:"is_enabled"`
}

// Rule identifies which cardinality rule a selection violated.
type Rule string

const (
	RuleRequired     Rule = "required"
	RuleBelowMinimum Rule = "below_minimum"
	RuleAboveMaximum Rule = "above_maximum"
	RuleSingleChoice Rule = "single_choice"
	RuleUnknownExtra Rule = "unknown_extra"
)

// ValidationError describes one group's violated rule. At most one
// error is reported per group so the customer sees a single actionable
// message instead of a cascade.
type ValidationError struct {
	GroupID   uuid.UUID `json:"group_id"`
	GroupName string    `json:"group_name"`
	Rule      Rule      `json:"rule"`
	Message   string    `json:"message"`
}

// ValidationResult is the complete outcome of validating a selection.
// Violations are data, not errors: checkout decides what to do with them.
type ValidationResult struct {
	IsValid bool              `json:"is_valid"`
	Errors  []ValidationError `json:"errors"`
}

// LineItem is one selected extra flattened for display and order
// persistence.
type LineItem struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	GroupID   uuid.UUID       `json:"group_id"`
	GroupName string          `json:"group_name"`
}
