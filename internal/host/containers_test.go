package host

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/framebridge/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/framebridge/internal/protocol"
	"github.com/GriffinCanCode/framebridge/internal/shared/id"
	tu "github.com/GriffinCanCode/framebridge/internal/testutil"
	"github.com/GriffinCanCode/framebridge/internal/tracking"
)

func TestContainersFollowHeights(t *testing.T) {
	m := monitoring.NewMetrics(prometheus.NewRegistry())
	r := NewRouter(tu.NewMockPort(t))
	cs := NewContainers(m)

	unwatch := cs.Watch(r, "embed-1")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ContainersTracked))

	c, ok := cs.Get("embed-1")
	require.True(t, ok)
	assert.False(t, c.Ready)

	utm := tracking.New(tracking.Pair{Key: "utm_source", Value: "google"})
	r.Deliver(tu.EncodeEvent(t, "embed-1", protocol.Ready{Height: 528, Tracking: utm}))
	c, _ = cs.Get("embed-1")
	assert.True(t, c.Ready)
	assert.Equal(t, 528, c.Height)
	assert.True(t, c.Tracking.Equal(utm))

	r.Deliver(tu.EncodeEvent(t, "embed-1", protocol.Resize{Height: 612}))
	r.Deliver(tu.EncodeEvent(t, "embed-1", protocol.CardVisibility{Card: "pro", Visible: true, Ratio: 0.5}))
	r.Deliver(tu.EncodeEvent(t, "embed-1", protocol.SectionVisibility{Visible: true, Ratio: 1}))
	r.Deliver(tu.EncodeEvent(t, "embed-1", protocol.VisibilityChange{Hidden: true}))

	c, _ = cs.Get("embed-1")
	assert.Equal(t, 612, c.Height)
	assert.Equal(t, Visibility{Visible: true, Ratio: 0.5}, c.CardVisibility["pro"])
	assert.Equal(t, Visibility{Visible: true, Ratio: 1}, c.Section)
	assert.True(t, c.Hidden)

	unwatch()
	_, ok = cs.Get("embed-1")
	assert.False(t, ok)
	assert.False(t, r.Registered("embed-1"))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.ContainersTracked))
}

func TestContainersInfo(t *testing.T) {
	r := NewRouter(tu.NewMockPort(t))
	cs := NewContainers(nil)
	cs.Watch(r, "embed-1")

	r.Deliver(tu.EncodeEvent(t, "embed-1", protocol.Info{Height: 300, URL: "https://x.test/?gclid=1"}))
	c, _ := cs.Get("embed-1")
	assert.Equal(t, 300, c.Height)
	assert.Equal(t, "https://x.test/?gclid=1", c.URL)
}

func TestContainersSnapshotsAreIndependent(t *testing.T) {
	r := NewRouter(tu.NewMockPort(t))
	cs := NewContainers(nil)
	cs.Watch(r, "b")
	cs.Watch(r, "a")

	r.Deliver(tu.EncodeEvent(t, "a", protocol.CardVisibility{Card: "x", Visible: true, Ratio: 1}))

	list := cs.List()
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].Identifier)
	assert.Equal(t, "b", list[1].Identifier)

	list[0].CardVisibility["x"] = Visibility{}
	c, _ := cs.Get("a")
	assert.Equal(t, Visibility{Visible: true, Ratio: 1}, c.CardVisibility["x"])
}

func TestContainersUpdatedAt(t *testing.T) {
	r := NewRouter(tu.NewMockPort(t))
	cs := NewContainers(nil)
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cs.now = func() time.Time { return at }
	cs.Watch(r, "a")

	at = at.Add(time.Minute)
	r.Deliver(tu.EncodeEvent(t, "a", protocol.Resize{Height: 5}))
	c, _ := cs.Get("a")
	assert.Equal(t, at, c.UpdatedAt)

	cs.Handle(Event{Identifier: "unwatched", Kind: protocol.KindResize, Payload: protocol.Resize{Height: 9}})
	_, ok := cs.Get("unwatched")
	assert.False(t, ok)
}

func TestContainersIssuedAt(t *testing.T) {
	r := NewRouter(tu.NewMockPort(t))
	cs := NewContainers(nil)

	generated := id.NewInstanceID().String()
	cs.Watch(r, generated)
	cs.Watch(r, "embed-1")

	c, ok := cs.Get(generated)
	require.True(t, ok)
	require.NotNil(t, c.IssuedAt)
	assert.WithinDuration(t, time.Now(), *c.IssuedAt, time.Minute)

	c, ok = cs.Get("embed-1")
	require.True(t, ok)
	assert.Nil(t, c.IssuedAt)
}
