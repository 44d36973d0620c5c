package usgs

import (
	"bytes"
	"context"
	"errors"
	"net/url"

	"github.com/couchcryptid/usgs-station-index/internal/config"
	"github.com/couchcryptid/usgs-station-index/internal/domain"
	"github.com/couchcryptid/usgs-station-index/internal/observability"
)

// SiteClient lists a state's stations from the NWIS site service.
type SiteClient struct {
	fetcher
	baseURL     string
	parameterCd string
}

// NewSiteClient creates a site service client from cfg.
func NewSiteClient(cfg *config.Config, metrics *observability.Metrics) *SiteClient {
	return &SiteClient{
		fetcher:     newFetcher(cfg.HTTPTimeout, cfg.UserAgent, metrics),
		baseURL:     cfg.SiteURL,
		parameterCd: cfg.ParameterCd,
	}
}

// FetchRows returns the RDB rows of every station in state reporting the
// configured parameter. A state with no matching sites yields no rows and
// no error.
func (c *SiteClient) FetchRows(ctx context.Context, state string) ([]domain.RawStationRow, error) {
	params := url.Values{
		"format":      {"rdb"},
		"stateCd":     {state},
		"parameterCd": {c.parameterCd},
		"siteOutput":  {"expanded"},
	}

	body, err := c.get(ctx, c.baseURL+"?"+params.Encode(), serviceSites)
	if errors.Is(err, errNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	_, rows, err := ParseRDB(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	return rows, nil
}
