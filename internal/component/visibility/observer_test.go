package visibility

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBucket(t *testing.T) {
	tests := []struct {
		ratio float64
		want  int
	}{
		{0, 0},
		{0.1, 0},
		{0.25, 1},
		{0.4, 1},
		{0.5, 2},
		{0.6, 2},
		{0.749, 2},
		{0.75, 3},
		{0.99, 3},
		{1, 4},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Bucket(tt.ratio), "ratio %v", tt.ratio)
	}
}

func TestCrossingFrom40To60Percent(t *testing.T) {
	var got []Crossing
	o := New(func(c Crossing) { got = append(got, c) })

	o.Observe("pro", 0.40)
	got = nil

	for _, r := range []float64{0.42, 0.45, 0.49, 0.51, 0.55, 0.58, 0.60} {
		o.Observe("pro", r)
	}

	assert.Equal(t, []Crossing{{Target: "pro", Visible: true, Ratio: 0.5}}, got)
}

func TestFluctuationWithinBucketIsSilent(t *testing.T) {
	count := 0
	o := New(func(Crossing) { count++ })

	o.Observe("card", 0.3)
	for i := 0; i < 1000; i++ {
		o.Observe("card", 0.26+0.2*math.Abs(math.Sin(float64(i))))
	}
	assert.Equal(t, 1, count)
}

func TestEventsEqualBucketChanges(t *testing.T) {
	samples := []float64{0, 0, 0.1, 0.2, 0.3, 0.26, 0.6, 0.8, 1, 1, 0.9, 0.3, 0, 0}

	var got []Crossing
	o := New(func(c Crossing) { got = append(got, c) })
	for _, s := range samples {
		o.Observe("card", s)
	}

	want := []Crossing{
		{Target: "card", Visible: false, Ratio: 0},
		{Target: "card", Visible: true, Ratio: 0},
		{Target: "card", Visible: true, Ratio: 0.25},
		{Target: "card", Visible: true, Ratio: 0.5},
		{Target: "card", Visible: true, Ratio: 0.75},
		{Target: "card", Visible: true, Ratio: 1},
		{Target: "card", Visible: true, Ratio: 0.75},
		{Target: "card", Visible: true, Ratio: 0.25},
		{Target: "card", Visible: false, Ratio: 0},
	}
	assert.Equal(t, want, got)
}

func TestTargetsAreIndependent(t *testing.T) {
	o := New(nil)

	_, ok := o.Observe("starter", 0.5)
	assert.True(t, ok)
	_, ok = o.Observe("pro", 0.5)
	assert.True(t, ok, "same bucket on another target still crosses")
	_, ok = o.Observe("starter", 0.55)
	assert.False(t, ok)
	assert.Equal(t, 2, o.Targets())
}

func TestObserversAreIndependent(t *testing.T) {
	cards := New(nil)
	section := New(nil)

	cards.Observe("", 0.5)
	_, ok := section.Observe("", 0.5)
	assert.True(t, ok)
}

func TestInvalidSamples(t *testing.T) {
	o := New(nil)

	_, ok := o.Observe("card", math.NaN())
	assert.False(t, ok)
	assert.Equal(t, 0, o.Targets())

	c, ok := o.Observe("card", 7)
	assert.True(t, ok)
	assert.Equal(t, 1.0, c.Ratio)

	c, ok = o.Observe("card", -2)
	assert.True(t, ok)
	assert.False(t, c.Visible)
	assert.Equal(t, 0.0, c.Ratio)
}

func TestForget(t *testing.T) {
	o := New(nil)
	o.Observe("card", 0.5)
	o.Forget("card")

	_, ok := o.Observe("card", 0.5)
	assert.True(t, ok)
}
