package usgs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/couchcryptid/usgs-station-index/internal/config"
	"github.com/couchcryptid/usgs-station-index/internal/domain"
	"github.com/couchcryptid/usgs-station-index/internal/observability"
)

// CountyClient resolves county codes through the USGS code lookup service.
type CountyClient struct {
	fetcher
	baseURL string
	logger  *slog.Logger
}

// NewCountyClient creates a county lookup client from cfg.
func NewCountyClient(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) *CountyClient {
	return &CountyClient{
		fetcher: newFetcher(cfg.HTTPTimeout, cfg.UserAgent, metrics),
		baseURL: cfg.CountyURL,
		logger:  logger,
	}
}

// CountyMap returns the county code -> name mapping for state. Enrichment is
// best-effort: any failure yields an empty, non-nil map.
func (c *CountyClient) CountyMap(ctx context.Context, state string) domain.CountyMap {
	m, err := c.fetchCounties(ctx, state)
	if err != nil {
		c.logger.Debug("county lookup unavailable", "state", state, "error", err)
		return domain.CountyMap{}
	}
	return m
}

func (c *CountyClient) fetchCounties(ctx context.Context, state string) (domain.CountyMap, error) {
	params := url.Values{
		"fmt":      {"json"},
		"state_cd": {state},
	}
	body, err := c.get(ctx, c.baseURL+"?"+params.Encode(), serviceCounties)
	if err != nil {
		return nil, err
	}

	var resp countyResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode county response: %w", err)
	}

	m := make(domain.CountyMap, len(resp.Codes))
	for _, code := range resp.Codes {
		if code.Value == "" || code.Name == "" {
			continue
		}
		m[code.Value] = code.Name
	}
	return m, nil
}

// County lookup response types.

type countyResponse struct {
	Codes []countyCode `json:"codes"`
}

type countyCode struct {
	Value string `json:"value"`
	Name  string `json:"name"`
}
