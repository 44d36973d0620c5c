package observability

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics_IndependentRegistries(t *testing.T) {
	a := NewMetrics()
	b := NewMetrics()

	a.RowsRead.Add(3)
	assert.InDelta(t, 3.0, testutil.ToFloat64(a.RowsRead), 1e-9)
	assert.InDelta(t, 0.0, testutil.ToFloat64(b.RowsRead), 1e-9)
}

func TestMetrics_WriteTextfile(t *testing.T) {
	m := NewMetrics()
	m.Stations.Set(42)
	m.RecordsAdded.WithLabelValues("MO").Add(2)

	path := filepath.Join(t.TempDir(), "station_index.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "station_index_stations 42")
	assert.Contains(t, string(data), `station_index_records_added_total{state="MO"} 2`)
	assert.NotContains(t, string(data), "go_goroutines")
}

func TestMetrics_WriteTextfile_BadPath(t *testing.T) {
	m := NewMetrics()
	err := m.WriteTextfile(filepath.Join(t.TempDir(), "missing", "x.prom"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write metrics textfile")
}
