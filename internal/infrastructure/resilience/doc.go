/*
Package resilience provides a circuit breaker for calls to remote sources.

# Overview

The component runner periodically re-fetches its document. When the source
keeps failing, the breaker opens and further fetches fail fast until a
cooldown has passed; a single probe is then let through and its outcome
closes or re-opens the circuit.

# Usage

	b := resilience.New("document", resilience.Settings{
		Threshold: 5,
		Cooldown:  30 * time.Second,
	})
	err := b.Do(func() error { return fetch(ctx) })
	if errors.Is(err, resilience.ErrOpen) {
		// skipped, keep the last document
	}
*/
package resilience
