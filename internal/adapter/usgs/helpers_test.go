package usgs

import (
	"io"
	"log/slog"
	"time"

	"github.com/couchcryptid/usgs-station-index/internal/config"
	"github.com/couchcryptid/usgs-station-index/internal/observability"
)

const (
	testUserAgent = "usgs-station-index-test/1.0"

	// sampleRDB mimics the NWIS site service: comment preamble, header,
	// column-width line, data rows.
	sampleRDB = "#\n" +
		"# US Geological Survey\n" +
		"# retrieved: 2024-04-26\n" +
		"#\n" +
		"agency_cd\tsite_no\tstation_nm\tdec_lat_va\tdec_long_va\tcounty_cd\n" +
		"5s\t15s\t50s\t16s\t16s\t3s\n" +
		"USGS\t07010000\tMISSISSIPPI RIVER AT ST. LOUIS, MO\t38.6289\t-90.1797\t510\n" +
		"USGS\t06934500\tMISSOURI RIVER AT HERMANN, MO\t38.7098\t-91.4385\t073\n" +
		"USGS\t0700000\tTRUNCATED ROW\n"
)

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		SiteURL:     baseURL,
		CountyURL:   baseURL,
		ParameterCd: "00065",
		UserAgent:   testUserAgent,
		HTTPTimeout: 5 * time.Second,
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testMetrics() *observability.Metrics {
	return observability.NewMetrics()
}
