package component

import (
	"context"
	"sync"
)

// Subscription is a running trigger source bound to a component. It ends
// when its context is cancelled, its channel closes, or Close is called.
type Subscription struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

func subscribe(ctx context.Context, loop func(ctx context.Context), onEnd func()) *Subscription {
	ctx, cancel := context.WithCancel(ctx)
	s := &Subscription{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(s.done)
		defer cancel()
		loop(ctx)
		if onEnd != nil {
			onEnd()
		}
	}()
	return s
}

// Close stops the subscription and waits for it to finish.
func (s *Subscription) Close() {
	s.once.Do(s.cancel)
	<-s.done
}

// Done is closed when the subscription has ended.
func (s *Subscription) Done() <-chan struct{} { return s.done }

// WatchResize re-measures on every signal, covering document and viewport
// resize notifications.
func (c *Component) WatchResize(ctx context.Context, signals <-chan struct{}) *Subscription {
	return subscribe(ctx, func(ctx context.Context) {
		for {
			select {
			case _, ok := <-signals:
				if !ok {
					return
				}
				c.Remeasure()
			case <-ctx.Done():
				return
			}
		}
	}, nil)
}

// WatchCard feeds ratio samples for one card. When the subscription ends
// the card's record is dropped.
func (c *Component) WatchCard(ctx context.Context, card string, ratios <-chan float64) *Subscription {
	return subscribe(ctx, ratioLoop(ratios, func(r float64) { c.ObserveCard(card, r) }), func() {
		c.cards.Forget(card)
	})
}

// WatchSection feeds ratio samples for the whole section.
func (c *Component) WatchSection(ctx context.Context, ratios <-chan float64) *Subscription {
	return subscribe(ctx, ratioLoop(ratios, c.ObserveSection), func() {
		c.section.Forget(SectionTarget)
	})
}

func ratioLoop(ratios <-chan float64, observe func(float64)) func(context.Context) {
	return func(ctx context.Context) {
		for {
			select {
			case r, ok := <-ratios:
				if !ok {
					return
				}
				observe(r)
			case <-ctx.Done():
				return
			}
		}
	}
}
