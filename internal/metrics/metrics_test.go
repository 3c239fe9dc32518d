package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch_parser/internal/dispatch"
)

func TestCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewCollector(reg)
	require.NoError(t, err)

	c.ObserveParse("keyword", dispatch.StateSuccess, 5*time.Millisecond)
	c.ObserveParse("keyword", dispatch.StateSuccess, 2*time.Millisecond)
	c.ObserveParse("keyword", dispatch.StateDegraded, time.Millisecond)
	c.ObserveFallback("invalid_response")
	c.ObserveValidationFailure([]string{"pickup_date", "delivery_company"})

	assert.Equal(t, 2.0, testutil.ToFloat64(c.parseTotal.WithLabelValues("keyword", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.parseTotal.WithLabelValues("keyword", "degraded")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.fallbackTotal.WithLabelValues("invalid_response")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.validationFailures.WithLabelValues("delivery_company")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.parseDuration))
}

func TestNewCollectorDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewCollector(reg)
	require.NoError(t, err)

	_, err = NewCollector(reg)
	assert.Error(t, err)
}
