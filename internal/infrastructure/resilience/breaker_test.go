package resilience

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errFetch = errors.New("fetch failed")

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newBreaker(threshold int, cooldown time.Duration) (*Breaker, *clock) {
	c := &clock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	b := New("test", Settings{Threshold: threshold, Cooldown: cooldown})
	b.now = c.now
	return b, c
}

func fail() error    { return errFetch }
func succeed() error { return nil }

func TestBreakerStateTransitions(t *testing.T) {
	tests := []struct {
		name      string
		requests  []bool // true = success, false = failure
		wantState State
	}{
		{"stays closed on successes", []bool{true, true, true}, StateClosed},
		{"stays closed below threshold", []bool{false, false}, StateClosed},
		{"opens at threshold", []bool{false, false, false}, StateOpen},
		{"success resets the run", []bool{false, false, true, false, false}, StateClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, _ := newBreaker(3, time.Minute)
			for _, ok := range tt.requests {
				fn := fail
				if ok {
					fn = succeed
				}
				_ = b.Do(fn)
			}
			assert.Equal(t, tt.wantState, b.State())
		})
	}
}

func TestBreakerFailsFastWhileOpen(t *testing.T) {
	b, _ := newBreaker(1, time.Minute)
	require.ErrorIs(t, b.Do(fail), errFetch)

	called := false
	err := b.Do(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrOpen)
	assert.False(t, called)
}

func TestBreakerProbe(t *testing.T) {
	b, c := newBreaker(1, time.Minute)
	_ = b.Do(fail)

	c.advance(time.Minute)
	assert.Equal(t, StateHalfOpen, b.State())

	// failed probe re-opens
	require.ErrorIs(t, b.Do(fail), errFetch)
	assert.Equal(t, StateOpen, b.State())

	c.advance(time.Minute)
	require.NoError(t, b.Do(succeed))
	assert.Equal(t, StateClosed, b.State())
	assert.Equal(t, 0, b.Failures())
}

func TestBreakerSingleProbe(t *testing.T) {
	b, c := newBreaker(1, time.Minute)
	_ = b.Do(fail)
	c.advance(time.Minute)

	release := make(chan struct{})
	started := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = b.Do(func() error {
			close(started)
			<-release
			return nil
		})
	}()

	<-started
	assert.ErrorIs(t, b.Do(succeed), ErrOpen)
	close(release)
	wg.Wait()
	assert.Equal(t, StateClosed, b.State())
}

func TestBreakerStateChangeCallback(t *testing.T) {
	var changes []string
	b := New("doc", Settings{
		Threshold: 1,
		Cooldown:  time.Minute,
		OnStateChange: func(name string, from, to State) {
			changes = append(changes, name+":"+from.String()+"->"+to.String())
		},
	})
	c := &clock{t: time.Now()}
	b.now = c.now

	_ = b.Do(fail)
	c.advance(time.Minute)
	_ = b.Do(succeed)

	assert.Equal(t, []string{
		"doc:closed->open",
		"doc:open->half-open",
		"doc:half-open->closed",
	}, changes)
}

func TestBreakerPanicCountsAsFailure(t *testing.T) {
	b, _ := newBreaker(1, time.Minute)
	assert.Panics(t, func() {
		_ = b.Do(func() error { panic("boom") })
	})
	assert.Equal(t, StateOpen, b.State())
}

func TestBreakerDefaults(t *testing.T) {
	b := New("defaults", Settings{})
	assert.Equal(t, 5, b.settings.Threshold)
	assert.Equal(t, 30*time.Second, b.settings.Cooldown)
	assert.Equal(t, "defaults", b.Name())
	assert.Equal(t, StateClosed, b.State())
}
