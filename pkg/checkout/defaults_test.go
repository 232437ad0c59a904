package checkout

import (
	"testing"

	"github.com/menuvivo/menuvivo-backend/pkg/enums"
)

func TestComposeDefaultsCoversEveryGroup(t *testing.T) {
	t.Parallel()

	withDefault := newTestGroup("Sauce", testGroupOpts{})
	bare := newTestGroup("Extras", testGroupOpts{})
	hot := newTestExtra(withDefault.ID, "Hot", "0.25", 0, true)
	groups := []GroupedExtras{
		grouped(withDefault, hot),
		grouped(bare, newTestExtra(bare.ID, "Bacon", "1.50", 0, false)),
	}

	selection := ComposeDefaults(groups)
	if len(selection) != 2 {
		t.Fatalf("expected an entry per group, got %d", len(selection))
	}
	if got := selection[withDefault.ID]; len(got) != 1 || got[0] != hot.ID {
		t.Fatalf("unexpected defaults for sauce group: %v", got)
	}
	if got, ok := selection[bare.ID]; !ok || len(got) != 0 {
		t.Fatalf("group without defaults should map to an empty entry, got %v (present=%v)", got, ok)
	}
}

func TestComposeDefaultsSingleKeepsFirstOnly(t *testing.T) {
	t.Parallel()

	group := newTestGroup("Size", testGroupOpts{selectionType: enums.SelectionTypeSingle})
	first := newTestExtra(group.ID, "Small", "0.00", 0, true)
	second := newTestExtra(group.ID, "Large", "1.00", 1, true)
	groups := []GroupedExtras{grouped(group, first, second)}

	selection := ComposeDefaults(groups)
	got := selection[group.ID]
	if len(got) != 1 || got[0] != first.ID {
		t.Fatalf("single group should keep only the first default, got %v", got)
	}
}

func TestComposeDefaultsTruncatesToMax(t *testing.T) {
	t.Parallel()

	group := newTestGroup("Toppings", testGroupOpts{maxSelections: intPtr(2)})
	a := newTestExtra(group.ID, "A", "0.10", 0, true)
	b := newTestExtra(group.ID, "B", "0.10", 1, true)
	c := newTestExtra(group.ID, "C", "0.10", 2, true)
	groups := []GroupedExtras{grouped(group, a, b, c)}

	selection := ComposeDefaults(groups)
	got := selection[group.ID]
	if len(got) != 2 || got[0] != a.ID || got[1] != b.ID {
		t.Fatalf("excess defaults should truncate silently in display order, got %v", got)
	}
}

func TestComposeDefaultsUnboundedKeepsAll(t *testing.T) {
	t.Parallel()

	group := newTestGroup("Toppings", testGroupOpts{})
	a := newTestExtra(group.ID, "A", "0.10", 0, true)
	b := newTestExtra(group.ID, "B", "0.10", 1, true)
	groups := []GroupedExtras{grouped(group, a, b)}

	selection := ComposeDefaults(groups)
	if got := selection[group.ID]; len(got) != 2 {
		t.Fatalf("nil max should keep every default, got %v", got)
	}
}

func TestComposeDefaultsAlwaysValidates(t *testing.T) {
	t.Parallel()

	size := newTestGroup("Size", testGroupOpts{
		selectionType: enums.SelectionTypeSingle,
		isRequired:    true,
		minSelections: 1,
	})
	toppings := newTestGroup("Toppings", testGroupOpts{maxSelections: intPtr(2)})
	groups := []GroupedExtras{
		grouped(size, newTestExtra(size.ID, "Small", "0.00", 0, true)),
		grouped(toppings,
			newTestExtra(toppings.ID, "A", "0.10", 0, true),
			newTestExtra(toppings.ID, "B", "0.10", 1, true),
			newTestExtra(toppings.ID, "C", "0.10", 2, true),
		),
	}

	res := ValidateSelection(ComposeDefaults(groups), groups)
	if !res.IsValid {
		t.Fatalf("composed defaults must always pass validation, got %+v", res.Errors)
	}
}
