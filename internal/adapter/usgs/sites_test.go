package usgs

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSiteClient_FetchRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, testUserAgent, r.Header.Get("User-Agent"))
		q := r.URL.Query()
		assert.Equal(t, "rdb", q.Get("format"))
		assert.Equal(t, "MO", q.Get("stateCd"))
		assert.Equal(t, "00065", q.Get("parameterCd"))
		assert.Equal(t, "expanded", q.Get("siteOutput"))

		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte(sampleRDB))
	}))
	defer srv.Close()

	metrics := testMetrics()
	c := NewSiteClient(testConfig(srv.URL+"/nwis/site/"), metrics)

	rows, err := c.FetchRows(context.Background(), "MO")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "07010000", rows[1]["site_no"])
	assert.InDelta(t, 1.0, testutil.ToFloat64(metrics.Requests.WithLabelValues(serviceSites, "success")), 1e-9)
}

func TestSiteClient_NoSitesFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "No sites found matching all criteria", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewSiteClient(testConfig(srv.URL), testMetrics())
	rows, err := c.FetchRows(context.Background(), "RI")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestSiteClient_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	metrics := testMetrics()
	c := NewSiteClient(testConfig(srv.URL), metrics)
	_, err := c.FetchRows(context.Background(), "MO")
	require.ErrorIs(t, err, ErrUpstreamStatus)
	assert.Contains(t, err.Error(), "503")
	assert.Contains(t, err.Error(), "maintenance")
	assert.InDelta(t, 1.0, testutil.ToFloat64(metrics.Requests.WithLabelValues(serviceSites, "error")), 1e-9)
}

func TestSiteClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.HTTPTimeout = 50 * time.Millisecond
	c := NewSiteClient(cfg, testMetrics())

	_, err := c.FetchRows(context.Background(), "MO")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sites request")
}

func TestSiteClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewSiteClient(testConfig(url), testMetrics())
	_, err := c.FetchRows(context.Background(), "MO")
	require.Error(t, err)
}
