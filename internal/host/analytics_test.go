package host

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/GriffinCanCode/framebridge/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/framebridge/internal/protocol"
	tu "github.com/GriffinCanCode/framebridge/internal/testutil"
	"github.com/GriffinCanCode/framebridge/internal/tracking"
)

func TestAnalyticsForwardsInteractions(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	m := monitoring.NewMetrics(prometheus.NewRegistry())
	r := NewRouter(tu.NewMockPort(t))
	a := NewAnalytics(zap.New(core), m)
	a.Watch(r, "embed-1")

	utm := tracking.New(tracking.Pair{Key: "utm_source", Value: "google"})
	r.Deliver(tu.EncodeEvent(t, "embed-1", protocol.CTAClick{Href: "https://x.test/buy", Tracking: utm}))
	r.Deliver(tu.EncodeEvent(t, "embed-1", protocol.CardVisibility{Card: "pro", Visible: true, Ratio: 0.75}))
	r.Deliver(tu.EncodeEvent(t, "embed-1", protocol.Resize{Height: 10}))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "cta-click", entries[0].ContextMap()["kind"])
	assert.Equal(t, "https://x.test/buy", entries[0].ContextMap()["href"])
	assert.Equal(t, "pro", entries[1].ContextMap()["card"])

	assert.Equal(t, 1.0, testutil.ToFloat64(m.AnalyticsEvents.WithLabelValues("cta-click")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AnalyticsEvents.WithLabelValues("card-visibility")))
}
