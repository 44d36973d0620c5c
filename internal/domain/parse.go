package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Reasons a row does not become a record.
var (
	ErrMissingSiteNo  = errors.New("missing site_no")
	ErrMissingName    = errors.New("missing station name")
	ErrBadCoordinates = errors.New("unparsable coordinates")
)

// ParseStationRow validates one RDB row listed under state and builds its
// StationRecord. The city comes from [ExtractCity]; the county name is looked
// up in counties and left empty when the code is missing or unknown.
func ParseStationRow(row RawStationRow, state string, counties CountyMap) (StationRecord, error) {
	siteNo := strings.TrimSpace(row[ColSiteNo])
	if siteNo == "" {
		return StationRecord{}, ErrMissingSiteNo
	}
	name := strings.TrimSpace(row[ColName])
	if name == "" {
		return StationRecord{}, ErrMissingName
	}

	lat, err := parseCoordinate(row[ColLat])
	if err != nil {
		return StationRecord{}, fmt.Errorf("%w: lat: %w", ErrBadCoordinates, err)
	}
	lon, err := parseCoordinate(row[ColLon])
	if err != nil {
		return StationRecord{}, fmt.Errorf("%w: lon: %w", ErrBadCoordinates, err)
	}

	return StationRecord{
		SiteNo:     siteNo,
		Name:       name,
		State:      state,
		City:       ExtractCity(name, state),
		CountyName: counties[strings.TrimSpace(row[ColCountyCd])],
		Lat:        lat,
		Lon:        lon,
	}, nil
}

// parseCoordinate accepts finite decimal degrees only.
func parseCoordinate(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite value %q", s)
	}
	return v, nil
}
