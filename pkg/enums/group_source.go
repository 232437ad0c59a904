package enums

import "fmt"

// GroupSource records how a resolved extra group reached a product.
type GroupSource string

const (
	GroupSourceCategory GroupSource = "category"
	GroupSourceProduct  GroupSource = "product"
)

var validGroupSources = []GroupSource{
	GroupSourceCategory,
	GroupSourceProduct,
}

// String implements fmt.Stringer.
func (g GroupSource) String() string {
	return string(g)
}

// IsValid reports whether the value is a known GroupSource.
func (g GroupSource) IsValid() bool {
	for _, candidate := range validGroupSources {
		if candidate == g {
			return true
		}
	}
	return false
}

// ParseGroupSource converts raw input into a GroupSource.
func ParseGroupSource(value string) (GroupSource, error) {
	for _, candidate := range validGroupSources {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid group source %q", value)
}
