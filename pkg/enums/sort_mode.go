package enums

import "fmt"

// SortMode orders a product listing on the client.
type SortMode string

const (
	SortModeDefault   SortMode = ""
	SortModePriceAsc  SortMode = "price-asc"
	SortModePriceDesc SortMode = "price-desc"
	SortModeDateDesc  SortMode = "date-desc"
	SortModeDateAsc   SortMode = "date-asc"
)

var validSortModes = []SortMode{
	SortModeDefault,
	SortModePriceAsc,
	SortModePriceDesc,
	SortModeDateDesc,
	SortModeDateAsc,
}

func (m SortMode) String() string {
	if m == SortModeDefault {
		return "default"
	}
	return string(m)
}

func (m SortMode) IsValid() bool {
	for _, candidate := range validSortModes {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseSortMode accepts the mode names plus "default" for the unsorted order.
func ParseSortMode(value string) (SortMode, error) {
	if value == "default" {
		return SortModeDefault, nil
	}
	for _, candidate := range validSortModes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid sort mode %q", value)
}
