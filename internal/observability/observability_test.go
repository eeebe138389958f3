package observability

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padasch/french-nfi-dashboard/internal/config"
	"github.com/padasch/french-nfi-dashboard/internal/model"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("chatty"))
}

func TestNewLoggerWritesRotatingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "nfi-dash.log")
	cfg := config.Defaults().Log
	cfg.File = path
	cfg.Format = "json"

	logger, closeFn, err := NewLogger(cfg, false)
	require.NoError(t, err)

	logger.Info("resolved", "status", "found")
	logger.Debug("hidden")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"resolved"`)
	assert.NotContains(t, string(data), "hidden")
}

func TestVerboseForcesDebug(t *testing.T) {
	logger, closeFn, err := NewLogger(config.LogConfig{Level: "error"}, true)
	require.NoError(t, err)
	defer closeFn()
	assert.True(t, logger.Enabled(t.Context(), slog.LevelDebug))
}

func TestObserveResolution(t *testing.T) {
	m := NewMetricsForTesting()
	m.ObserveResolution(model.Resolution{
		Primary: model.Asset{Facet: model.Facet{Type: model.FacetMain}, Status: model.StatusNotFound},
		Companions: []model.Asset{
			{Facet: model.Facet{Type: model.FacetRegionMap}, Status: model.StatusFound},
		},
	})
	m.ObserveInvalid()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Resolutions.WithLabelValues("not_found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Resolutions.WithLabelValues("invalid")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AssetLookups.WithLabelValues("region_map", "found")))
}
