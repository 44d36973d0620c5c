package domain

// Index is the deduplicated station collection built during a run. The first
// record added for a site_no wins; later ones are discarded. Index is not
// safe for concurrent use.
type Index struct {
	bySite map[string]StationRecord
	order  []string
}

// NewIndex returns an empty Index.
func NewIndex() *Index {
	return &Index{bySite: make(map[string]StationRecord)}
}

// Add inserts rec unless its site_no is already present. It reports whether
// rec was inserted.
func (x *Index) Add(rec StationRecord) bool {
	if _, ok := x.bySite[rec.SiteNo]; ok {
		return false
	}
	x.bySite[rec.SiteNo] = rec
	x.order = append(x.order, rec.SiteNo)
	return true
}

// Get returns the record stored for siteNo.
func (x *Index) Get(siteNo string) (StationRecord, bool) {
	rec, ok := x.bySite[siteNo]
	return rec, ok
}

// Len returns the number of distinct stations.
func (x *Index) Len() int {
	return len(x.order)
}

// Records returns the stations in insertion order. The slice is a copy.
func (x *Index) Records() []StationRecord {
	out := make([]StationRecord, 0, len(x.order))
	for _, id := range x.order {
		out = append(out, x.bySite[id])
	}
	return out
}
