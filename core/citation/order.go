package citation

// Result holds one recompute pass over the in-scope markers.
type Result struct {
	// Order maps each referenced identifier to its 1-based position,
	// assigned in order of first citation.
	Order map[string]int

	// MarkerLabels maps marker node id to the marker's rendered label.
	MarkerLabels map[string]string

	// EntryLabels maps referenced identifier to its entry label.
	EntryLabels map[string]string
}

// ComputeOrder walks markers in document order and assigns each referenced
// identifier a first-seen position, starting at 1. Identifiers within one
// marker keep the marker's own listed order; duplicates inside a marker are
// preserved, not deduplicated. Labels are rendered through gen.
//
// Single pass, O(total rid occurrences).
func ComputeOrder(markers []Marker, gen LabelGenerator) Result {
	res := Result{
		Order:        make(map[string]int),
		MarkerLabels: make(map[string]string),
		EntryLabels:  make(map[string]string),
	}

	pos := 1
	for _, marker := range markers {
		positions := make([]int, 0, len(marker.RIDs))
		for _, rid := range marker.RIDs {
			p, seen := res.Order[rid]
			if !seen {
				p = pos
				pos++
				res.Order[rid] = p
				res.EntryLabels[rid] = gen.Label([]int{p})
			}
			positions = append(positions, p)
		}
		res.MarkerLabels[marker.ID] = gen.Label(positions)
	}

	return res
}
