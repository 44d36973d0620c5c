package domain

// RDB column names read from the site service.
const (
	ColSiteNo   = "site_no"
	ColName     = "station_nm"
	ColLat      = "dec_lat_va"
	ColLon      = "dec_long_va"
	ColCountyCd = "county_cd"
)

// RawStationRow is one data line of an RDB listing, keyed by header name.
// Columns missing from the listing are absent from the map.
type RawStationRow map[string]string

// CountyMap resolves a state's county codes to display names.
type CountyMap map[string]string

// StationRecord is the published form of a gage-height station.
// Field order matches the emitted JSON.
type StationRecord struct {
	SiteNo     string  `json:"site_no"`
	Name       string  `json:"name"`
	State      string  `json:"state"`
	City       string  `json:"city"`
	CountyName string  `json:"county_name"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
}
