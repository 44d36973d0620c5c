package domain

import (
	"cmp"
	"slices"
)

// SortRecords orders records by (state, name), keeping the relative order of
// equal keys.
func SortRecords(records []StationRecord) {
	slices.SortStableFunc(records, func(a, b StationRecord) int {
		if c := cmp.Compare(a.State, b.State); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
}
