// Package domain models USGS monitoring stations that report gage height.
//
// # Data Source
//
// Station listings come from the USGS NWIS site service in RDB format
// (tab-delimited, "#" comment preamble, one header row), requested per state
// with parameterCd=00065 (gage height). County names come from a separate
// USGS code lookup that maps a state's county codes to display names. The
// adapters in internal/adapter/usgs turn both into [RawStationRow] and
// [CountyMap] values; everything in this package is pure.
//
// # Station Naming Conventions
//
// USGS station names loosely follow "<waterway> AT|NEAR <place>[, ST]":
//
//	"MISSISSIPPI RIVER AT ST LOUIS, MO"   ->  St Louis
//	"CLEAR CREEK NEAR GOLDEN, CO"         ->  Golden
//	"SOMETHING NEAR BUFFALO CREEK"        ->  "" (place is itself a waterway)
//
// Markers: AT, NEAR, NR, ABOVE, BELOW (whole words, any case). The text after
// the first marker up to the next comma is the candidate place. Trailing
// state codes, state names and structural words (CO, COUNTY, RES, RESERVOIR,
// DAM, GATE, DIVERSION, GAGING STATION) are stripped. Candidates that still
// name a hydrological feature (RIVER, CREEK, CRK, FORK, BRANCH, BAYOU, CANAL,
// SLOUGH, BROOK, LAKE, WASH) are rejected: precision is preferred over recall.
//
// Without a marker, a "<place>, ST" tail is used instead. See [ExtractCity].
//
// # Identity
//
// site_no is the primary key. [Index] keeps the first record seen for a
// site_no and discards later ones, so state iteration order decides which
// record wins a collision.
package domain
