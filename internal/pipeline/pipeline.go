// Package pipeline drives an index build: a county pass over every state,
// then a station pass that parses, deduplicates and indexes each listing,
// then the loaders that emit the finished index.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/usgs-station-index/internal/domain"
	"github.com/couchcryptid/usgs-station-index/internal/observability"
	"github.com/couchcryptid/usgs-station-index/internal/throttle"
)

// CountySource resolves county codes for a state. It never fails; an
// unavailable lookup yields an empty map.
type CountySource interface {
	CountyMap(ctx context.Context, state string) domain.CountyMap
}

// SiteSource fetches the raw station listing of a state.
type SiteSource interface {
	FetchRows(ctx context.Context, state string) ([]domain.RawStationRow, error)
}

// Loader writes the sorted station list to a destination.
type Loader interface {
	Load(ctx context.Context, records []domain.StationRecord) error
}

// Pacing holds the throttles waited on after county and station requests.
type Pacing struct {
	County  throttle.Throttle
	Station throttle.Throttle
}

// Builder orchestrates the two fetch passes. It is single-use per Build and
// not safe for concurrent use.
type Builder struct {
	counties CountySource
	sites    SiteSource
	pacing   Pacing
	logger   *slog.Logger
	metrics  *observability.Metrics
	progress io.Writer
	clock    clockwork.Clock
}

// New creates a Builder. Progress lines are written to progress; nil
// throttles in pacing disable pausing.
func New(counties CountySource, sites SiteSource, pacing Pacing, logger *slog.Logger, metrics *observability.Metrics, progress io.Writer) *Builder {
	if pacing.County == nil {
		pacing.County = throttle.None
	}
	if pacing.Station == nil {
		pacing.Station = throttle.None
	}
	if progress == nil {
		progress = io.Discard
	}
	return &Builder{
		counties: counties,
		sites:    sites,
		pacing:   pacing,
		logger:   logger,
		metrics:  metrics,
		progress: progress,
		clock:    clockwork.NewRealClock(),
	}
}

// SetClock replaces the clock used for build timing.
func (b *Builder) SetClock(c clockwork.Clock) {
	b.clock = c
}

// Build fetches all county maps, then all station listings, and returns the
// deduplicated index. A state whose listing fails is logged and skipped.
// Build returns an error only when ctx is cancelled.
func (b *Builder) Build(ctx context.Context, states []string) (*domain.Index, error) {
	b.logger.Info("build started", "states", len(states))

	b.printf("Building county maps…\n")
	countyMaps := make(map[string]domain.CountyMap, len(states))
	for _, st := range states {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cm := b.counties.CountyMap(ctx, st)
		countyMaps[st] = cm
		b.metrics.CountyCodes.WithLabelValues(st).Set(float64(len(cm)))
		if err := b.pacing.County.Wait(ctx); err != nil {
			return nil, err
		}
	}

	b.printf("Fetching stations…\n")
	idx := domain.NewIndex()
	for _, st := range states {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rows, err := b.sites.FetchRows(ctx, st)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			b.logger.Error("station fetch failed", "state", st, "error", err)
			b.metrics.FetchFailures.WithLabelValues(st).Inc()
		} else {
			added := b.indexRows(idx, rows, st, countyMaps[st])
			b.printf("[%s] +%d (total %d)\n", st, added, idx.Len())
		}
		if err := b.pacing.Station.Wait(ctx); err != nil {
			return nil, err
		}
	}

	return idx, nil
}

// indexRows parses rows listed under state and adds the valid ones to idx.
// It returns the number of records added.
func (b *Builder) indexRows(idx *domain.Index, rows []domain.RawStationRow, state string, counties domain.CountyMap) int {
	added := 0
	for _, row := range rows {
		b.metrics.RowsRead.Inc()
		rec, err := domain.ParseStationRow(row, state, counties)
		if err != nil {
			b.metrics.RowsSkipped.WithLabelValues(skipReason(err)).Inc()
			continue
		}
		if !idx.Add(rec) {
			b.metrics.DuplicateSites.Inc()
			kept, _ := idx.Get(rec.SiteNo)
			b.logger.Debug("duplicate site discarded",
				"site_no", rec.SiteNo, "state", state, "kept_state", kept.State)
			continue
		}
		added++
	}
	b.metrics.RecordsAdded.WithLabelValues(state).Add(float64(added))
	return added
}

// Run builds the index for states, sorts it by (state, name) and hands it to
// each loader in order. It returns the number of stations emitted. Any
// loader failure aborts the run.
func (b *Builder) Run(ctx context.Context, states []string, loaders ...Loader) (int, error) {
	start := b.clock.Now()

	idx, err := b.Build(ctx, states)
	if err != nil {
		return 0, fmt.Errorf("build index: %w", err)
	}

	records := idx.Records()
	domain.SortRecords(records)

	for _, l := range loaders {
		if err := l.Load(ctx, records); err != nil {
			b.logger.Error("load failed", "error", err, "stations", len(records))
			return 0, err
		}
	}

	now := b.clock.Now()
	b.metrics.Stations.Set(float64(len(records)))
	b.metrics.BuildDuration.Set(now.Sub(start).Seconds())
	b.metrics.LastSuccess.Set(float64(now.Unix()))
	b.logger.Info("build complete", "stations", len(records), "duration", now.Sub(start))
	b.printf("Done: %d stations\n", len(records))
	return len(records), nil
}

func (b *Builder) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(b.progress, format, args...)
}

func skipReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrMissingSiteNo):
		return "missing_site_no"
	case errors.Is(err, domain.ErrMissingName):
		return "missing_name"
	case errors.Is(err, domain.ErrBadCoordinates):
		return "bad_coordinates"
	default:
		return "other"
	}
}
