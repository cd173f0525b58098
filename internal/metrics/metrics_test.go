package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterIsRepeatable(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, Register(reg))
	require.NoError(t, Register(reg))
}

func TestTrackerSizeGauge(t *testing.T) {
	reg := prometheus.NewRegistry()
	size := 42
	require.NoError(t, RegisterTrackerSize(reg, func() int { return size }))

	families, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, families, 1)
	assert.Equal(t, "sentiment_tracker_entries", families[0].GetName())
	assert.Equal(t, 42.0, families[0].GetMetric()[0].GetGauge().GetValue())
}

func TestHandlerServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, Register(reg))
	Analyses.WithLabelValues("text", "positive").Inc()

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "sentiment_analyses_total")
}

func TestStatus(t *testing.T) {
	assert.Equal(t, "success", Status(nil))
	assert.Equal(t, "error", Status(errors.New("x")))
}
