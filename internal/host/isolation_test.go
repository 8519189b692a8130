package host

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/framebridge/internal/component"
	"github.com/GriffinCanCode/framebridge/internal/component/height"
	"github.com/GriffinCanCode/framebridge/internal/protocol"
	"github.com/GriffinCanCode/framebridge/internal/transport/memory"
)

// counted reports a fixed height and counts how often it was measured.
type counted struct {
	h     atomic.Int64
	calls atomic.Int64
}

func newCounted(h int) *counted {
	c := &counted{}
	c.h.Store(int64(h))
	return c
}

func (c *counted) Measure() (int, error) {
	c.calls.Add(1)
	return int(c.h.Load()), nil
}

// events collects the events delivered to one identifier.
type events struct {
	mu  sync.Mutex
	got []Event
}

func (e *events) handle(ev Event) {
	e.mu.Lock()
	e.got = append(e.got, ev)
	e.mu.Unlock()
}

func (e *events) all() []Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]Event(nil), e.got...)
}

func (e *events) kinds() []protocol.Kind {
	var kinds []protocol.Kind
	for _, ev := range e.all() {
		kinds = append(kinds, ev.Kind)
	}
	return kinds
}

func TestInstancesOnSharedBusStayIsolated(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := memory.NewBus(64)
	router := NewRouter(bus.Host())
	go router.Run(ctx)

	heightA, heightB := newCounted(300), newCounted(500)
	a := component.New(component.Config{Identifier: "a", Content: heightA}, bus.Attach())
	b := component.New(component.Config{Identifier: "b", Content: heightB}, bus.Attach())
	go a.Run(ctx)
	go b.Run(ctx)

	var gotA, gotB events
	router.On("a", gotA.handle)
	router.On("b", gotB.handle)

	a.Start()
	b.Start()
	require.Eventually(t, func() bool {
		return len(gotA.all()) == 1 && len(gotB.all()) == 1
	}, time.Second, 5*time.Millisecond)

	measuredA := heightA.calls.Load()

	// Both components read every command. a's own get-info follows the
	// command for b on a's FIFO inbox, so its reply proves a has already
	// seen and discarded the command for b.
	require.NoError(t, router.Send("b", protocol.KindGetHeight, nil))
	require.NoError(t, router.Send("a", protocol.KindGetInfo, nil))

	require.Eventually(t, func() bool {
		return len(gotA.all()) == 2 && len(gotB.all()) == 2
	}, time.Second, 5*time.Millisecond)

	heightB.h.Store(640)
	b.Remeasure()
	require.Eventually(t, func() bool { return len(gotB.all()) == 3 }, time.Second, 5*time.Millisecond)

	assert.Equal(t, []protocol.Kind{protocol.KindReady, protocol.KindInfo}, gotA.kinds())
	assert.Equal(t, []protocol.Kind{protocol.KindReady, protocol.KindResize, protocol.KindResize}, gotB.kinds())
	for _, ev := range gotA.all() {
		assert.Equal(t, "a", ev.Identifier)
	}
	for _, ev := range gotB.all() {
		assert.Equal(t, "b", ev.Identifier)
	}
	assert.Equal(t, protocol.Resize{Height: 500}, gotB.all()[1].Payload)
	assert.Equal(t, protocol.Resize{Height: 640}, gotB.all()[2].Payload)

	// get-info peeks once; the command for b never measured a.
	assert.Equal(t, measuredA+1, heightA.calls.Load())
	last, ok := a.Height().Last()
	assert.True(t, ok)
	assert.Equal(t, 300, last)
	assert.Equal(t, height.StateReported, a.Height().State())
}
