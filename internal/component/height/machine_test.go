package height

import (
	"errors"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/framebridge/internal/testutil"
)

type report struct {
	height  int
	initial bool
}

type recorder struct {
	mu      sync.Mutex
	reports []report
}

func (r *recorder) ReportHeight(height int, initial bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, report{height, initial})
}

func (r *recorder) all() []report {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]report(nil), r.reports...)
}

// content is a settable measurer.
type content struct {
	mu     sync.Mutex
	height int
	err    error
}

func (c *content) set(h int) {
	c.mu.Lock()
	c.height = h
	c.mu.Unlock()
}

func (c *content) Measure() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.height, c.err
}

func TestInitialReportAlwaysEmitted(t *testing.T) {
	src := &content{height: 0}
	rec := &recorder{}
	m := New(src, rec)

	assert.Equal(t, StateIdle, m.State())
	_, ok := m.Last()
	assert.False(t, ok)

	h, emitted := m.Measure()
	assert.Equal(t, 0, h)
	assert.True(t, emitted, "zero height is still the first report")
	assert.Equal(t, []report{{0, true}}, rec.all())
	assert.Equal(t, StateReported, m.State())
}

func TestMeasureIsIdempotent(t *testing.T) {
	src := &content{height: 528}
	rec := &recorder{}
	m := New(src, rec)

	m.Measure()
	_, emitted := m.Measure()
	assert.False(t, emitted)
	assert.Len(t, rec.all(), 1)
}

func TestChangeThenNoChange(t *testing.T) {
	src := &content{height: 528}
	rec := &recorder{}
	m := New(src, rec)

	m.Measure()
	m.Measure()
	src.set(612)
	m.Measure()
	src.set(528)
	m.Measure()

	assert.Equal(t, []report{{528, true}, {612, false}, {528, false}}, rec.all())
	last, ok := m.Last()
	assert.True(t, ok)
	assert.Equal(t, 528, last)
}

func TestForceBypassesDedup(t *testing.T) {
	src := &content{height: 612}
	rec := &recorder{}
	m := New(src, rec)

	m.Measure()
	h, ok := m.Force()
	require.True(t, ok)
	assert.Equal(t, 612, h)
	m.Force()

	assert.Equal(t, []report{{612, true}, {612, false}, {612, false}}, rec.all())
}

func TestForceRepeatsLastHeightWhenMeasurementFails(t *testing.T) {
	gone := errors.New("content detached")
	src := new(testutil.MockMeasurer)
	src.On("Measure").Return(528, nil).Once()
	src.On("Measure").Return(0, gone)
	fallback := new(testutil.MockMeasurer)
	fallback.On("Measure").Return(0, gone)

	sink := new(testutil.MockSink)
	sink.On("ReportHeight", 528, true).Return().Once()
	sink.On("ReportHeight", 528, false).Return().Once()

	m := New(src, sink, WithFallback(fallback))
	h, emitted := m.Measure()
	require.True(t, emitted)
	require.Equal(t, 528, h)

	h, ok := m.Force()
	assert.True(t, ok)
	assert.Equal(t, 528, h)
	sink.AssertExpectations(t)

	last, ok := m.Last()
	assert.True(t, ok)
	assert.Equal(t, 528, last)
	assert.Equal(t, StateReported, m.State())

	_, emitted = m.Measure()
	assert.False(t, emitted)
	sink.AssertNumberOfCalls(t, "ReportHeight", 2)
}

func TestForceFromIdleWithoutMeasurementIsSilent(t *testing.T) {
	src := new(testutil.MockMeasurer)
	src.On("Measure").Return(0, errors.New("no content element"))
	sink := testutil.NewMockSink(t)

	_, ok := New(src, sink).Force()
	assert.False(t, ok)
	sink.AssertNotCalled(t, "ReportHeight", mock.Anything, mock.Anything)
}

func TestForceFromIdleIsInitial(t *testing.T) {
	rec := &recorder{}
	m := New(&content{height: 90}, rec)

	m.Force()
	m.Measure()
	assert.Equal(t, []report{{90, true}}, rec.all())
}

func TestPeekLeavesStateAlone(t *testing.T) {
	src := &content{height: 300}
	rec := &recorder{}
	m := New(src, rec)

	h, ok := m.Peek()
	assert.True(t, ok)
	assert.Equal(t, 300, h)
	assert.Equal(t, StateIdle, m.State())
	assert.Empty(t, rec.all())
}

func TestFallbackMeasurement(t *testing.T) {
	primary := MeasurerFunc(func() (int, error) { return 0, errors.New("no content element") })
	fallback := MeasurerFunc(func() (int, error) { return 800, nil })
	rec := &recorder{}

	m := New(primary, rec, WithFallback(fallback))
	h, emitted := m.Measure()
	assert.True(t, emitted)
	assert.Equal(t, 800, h)
}

func TestNoMeasurementNoReport(t *testing.T) {
	failing := MeasurerFunc(func() (int, error) { return 0, errors.New("gone") })
	rec := &recorder{}

	m := New(failing, rec)
	_, emitted := m.Measure()
	assert.False(t, emitted)
	_, ok := m.Force()
	assert.False(t, ok)
	assert.Equal(t, StateIdle, m.State())

	m = New(failing, rec, WithFallback(failing))
	_, emitted = m.Measure()
	assert.False(t, emitted)
	assert.Empty(t, rec.all())
}

func TestNegativeHeightClamped(t *testing.T) {
	rec := &recorder{}
	m := New(MeasurerFunc(func() (int, error) { return -5, nil }), rec)
	m.Measure()
	assert.Equal(t, []report{{0, true}}, rec.all())
}

func TestEmissionCountMatchesChanges(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 50; round++ {
		src := &content{}
		rec := &recorder{}
		m := New(src, rec)

		var (
			changes  int
			forced   int
			reported = -1
		)
		for i := 0; i < 200; i++ {
			h := rng.Intn(4) * 100
			src.set(h)
			if rng.Intn(10) == 0 {
				m.Force()
				forced++
			} else {
				m.Measure()
				if reported >= 0 && h != reported {
					changes++
				}
			}
			if reported < 0 && forced > 0 {
				// the initial report came from a forced request
				forced--
			}
			reported = h
		}

		assert.Len(t, rec.all(), 1+changes+forced, "round %d", round)
	}
}

func TestEmissionCountWithoutForce(t *testing.T) {
	heights := []int{528, 528, 612, 612, 612, 400, 528, 528}
	src := &content{}
	rec := &recorder{}
	m := New(src, rec)

	for _, h := range heights {
		src.set(h)
		m.Measure()
	}
	// one initial plus four strict changes
	assert.Len(t, rec.all(), 5)
}

func TestConcurrentTriggersDoNotDoubleEmit(t *testing.T) {
	src := &content{height: 700}
	rec := &recorder{}
	m := New(src, rec)

	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Measure()
		}()
	}
	wg.Wait()

	assert.Equal(t, []report{{700, true}}, rec.all())
}
