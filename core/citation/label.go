package citation

import (
	"strconv"
	"strings"
)

// LabelGenerator renders a list of 1-based positions as a display label.
// A single position is passed as a one-element slice. Implementations
// must be pure and must render an empty position list as "".
type LabelGenerator interface {
	Label(positions []int) string
}

// NumericStyle renders positions as bare comma-joined numbers: "1", "2,3".
type NumericStyle struct{}

// Label renders positions in their given order, without sorting.
func (NumericStyle) Label(positions []int) string {
	if len(positions) == 0 {
		return ""
	}
	parts := make([]string, len(positions))
	for i, p := range positions {
		parts[i] = strconv.Itoa(p)
	}
	return strings.Join(parts, ",")
}
