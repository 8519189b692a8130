// Package visibility turns continuous intersection ratios into discrete
// threshold-crossing events.
package visibility

import (
	"math"
	"sync"
)

// Thresholds are the quantization points, in ascending order.
var Thresholds = []float64{0, 0.25, 0.5, 0.75, 1.0}

// Crossing is one emitted threshold crossing.
type Crossing struct {
	Target  string
	Visible bool
	Ratio   float64
}

// record is the last emitted state of one target.
type record struct {
	bucket  int
	visible bool
}

// Observer tracks any number of targets independently. The zero value is not
// usable; call New.
type Observer struct {
	mu      sync.Mutex
	records map[string]record
	emit    func(Crossing)
}

// New creates an observer. emit, when non-nil, is called for every crossing
// while the observer's lock is held, so crossings of one observer are
// delivered in order.
func New(emit func(Crossing)) *Observer {
	return &Observer{
		records: make(map[string]record),
		emit:    emit,
	}
}

// Observe feeds one ratio sample for target. Ratios are clamped to [0,1] and
// NaN samples are ignored. A crossing is returned, and emitted, only when the
// quantized bucket or the visible flag differs from the last emission; the
// first sample of a target always crosses. Within bucket 0 the visible
// flag flipping (0 to 0.1, or back) counts as a crossing of its own.
func (o *Observer) Observe(target string, ratio float64) (Crossing, bool) {
	if math.IsNaN(ratio) {
		return Crossing{}, false
	}
	ratio = math.Max(0, math.Min(1, ratio))

	next := record{bucket: Bucket(ratio), visible: ratio > 0}

	o.mu.Lock()
	defer o.mu.Unlock()

	if prev, seen := o.records[target]; seen && prev == next {
		return Crossing{}, false
	}
	o.records[target] = next

	c := Crossing{
		Target:  target,
		Visible: next.visible,
		Ratio:   round2(Thresholds[next.bucket]),
	}
	if o.emit != nil {
		o.emit(c)
	}
	return c, true
}

// Forget drops the record of target; its next sample crosses again.
func (o *Observer) Forget(target string) {
	o.mu.Lock()
	delete(o.records, target)
	o.mu.Unlock()
}

// Targets returns the number of targets with a record.
func (o *Observer) Targets() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.records)
}

// Bucket returns the index of the largest threshold not above ratio.
func Bucket(ratio float64) int {
	idx := 0
	for i, th := range Thresholds {
		if ratio >= th {
			idx = i
		}
	}
	return idx
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
