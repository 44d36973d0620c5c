package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/usgs-station-index/internal/adapter/jsonfile"
	"github.com/couchcryptid/usgs-station-index/internal/domain"
)

func sampleRecords() []domain.StationRecord {
	return []domain.StationRecord{
		{SiteNo: "07010000", Name: "MISSISSIPPI RIVER AT ST. LOUIS, MO", State: "MO", City: "St. Louis", Lat: 38.6289, Lon: -90.1797},
		{SiteNo: "06892350", Name: "KANSAS RIVER AT DESOTO, KS", State: "KS", City: "Desoto", Lat: 38.9836, Lon: -94.9647},
	}
}

func failed(phases []*phase) []string {
	var names []string
	for _, p := range phases {
		if !p.passed() {
			names = append(names, p.name)
		}
	}
	return names
}

func TestValidate_EncodedOutputPasses(t *testing.T) {
	pretty, minified, err := jsonfile.Encode(sampleRecords())
	require.NoError(t, err)

	phases, n := validate(pretty, minified)
	assert.Empty(t, failed(phases))
	assert.Equal(t, 2, n)
}

func TestValidate_UndecodableFile(t *testing.T) {
	pretty, _, err := jsonfile.Encode(sampleRecords())
	require.NoError(t, err)

	phases, _ := validate(pretty, []byte("{not json"))
	require.Len(t, phases, 1)
	assert.False(t, phases[0].passed())
}

func TestValidate_MismatchedFiles(t *testing.T) {
	pretty, _, err := jsonfile.Encode(sampleRecords())
	require.NoError(t, err)
	_, otherMin, err := jsonfile.Encode(sampleRecords()[:1])
	require.NoError(t, err)

	phases, _ := validate(pretty, otherMin)
	assert.Equal(t, []string{"Phase 2: Pretty/minified equivalence"}, failed(phases))
}

func TestValidate_PrettyBytesAsMinifiedFails(t *testing.T) {
	pretty, _, err := jsonfile.Encode(sampleRecords())
	require.NoError(t, err)

	phases, _ := validate(pretty, pretty)
	assert.Equal(t, []string{"Phase 2: Pretty/minified equivalence"}, failed(phases))
}

func TestValidateOrdering(t *testing.T) {
	assert.False(t, validateOrdering(sampleRecords()).passed())

	recs := sampleRecords()
	recs[0], recs[1] = recs[1], recs[0]
	assert.True(t, validateOrdering(recs).passed())
}

func TestValidateRecords(t *testing.T) {
	recs := append(sampleRecords(),
		domain.StationRecord{SiteNo: "07010000", Name: "DUPLICATE", State: "MO"},
		domain.StationRecord{SiteNo: "15304000", Name: "KUSKOKWIM R AT CROOKED CREEK AK", State: "AK"},
	)

	p := validateRecords(recs)
	require.Len(t, p.errors, 2)
	assert.Contains(t, p.errors[0], "duplicates record 0")
	assert.Contains(t, p.errors[1], `unknown state "AK"`)
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	w := jsonfile.NewWriter(dir)
	require.NoError(t, w.Load(t.Context(), sampleRecords()))

	assert.Equal(t, 0, run(dir))
	require.NoError(t, os.Remove(filepath.Join(dir, jsonfile.MinifiedFile)))
	assert.Equal(t, 1, run(dir))
}
