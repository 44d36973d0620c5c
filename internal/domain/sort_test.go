package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortRecords(t *testing.T) {
	records := []StationRecord{
		{SiteNo: "4", State: "MO", Name: "b"},
		{SiteNo: "1", State: "CO", Name: "Z"},
		{SiteNo: "3", State: "MO", Name: "B"},
		{SiteNo: "2", State: "CO", Name: "A"},
		{SiteNo: "5", State: "MO", Name: "B"},
	}

	SortRecords(records)

	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.SiteNo
	}
	// Byte-wise comparison: upper case sorts before lower case; ties keep input order.
	assert.Equal(t, []string{"2", "1", "3", "5", "4"}, ids)
}
