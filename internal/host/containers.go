package host

import (
	"sort"
	"sync"
	"time"

	"github.com/GriffinCanCode/framebridge/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/framebridge/internal/protocol"
	"github.com/GriffinCanCode/framebridge/internal/shared/id"
	"github.com/GriffinCanCode/framebridge/internal/tracking"
)

// Visibility is the last reported visibility of a card or section.
type Visibility struct {
	Visible bool    `json:"visible"`
	Ratio   float64 `json:"ratio"`
}

// Container is the host's record of one embedded component.
type Container struct {
	Identifier     string                `json:"identifier"`
	Height         int                   `json:"height"`
	Ready          bool                  `json:"ready"`
	Tracking       tracking.Mapping      `json:"tracking"`
	URL            string                `json:"url,omitempty"`
	CardVisibility map[string]Visibility `json:"cards"`
	Section        Visibility            `json:"section"`
	Hidden         bool                  `json:"hidden"`
	IssuedAt       *time.Time            `json:"issued_at,omitempty"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

func (c Container) clone() Container {
	cards := make(map[string]Visibility, len(c.CardVisibility))
	for k, v := range c.CardVisibility {
		cards[k] = v
	}
	c.CardVisibility = cards
	if c.IssuedAt != nil {
		ts := *c.IssuedAt
		c.IssuedAt = &ts
	}
	return c
}

// Containers keeps each embedded container sized to its component.
type Containers struct {
	mu      sync.RWMutex
	records map[string]*Container
	metrics *monitoring.Metrics
	now     func() time.Time
}

// NewContainers creates an empty container set.
func NewContainers(metrics *monitoring.Metrics) *Containers {
	return &Containers{
		records: make(map[string]*Container),
		metrics: metrics,
		now:     time.Now,
	}
}

// Watch creates the record for identifier and registers the container
// handler on r. The returned function unregisters it and drops the record.
func (cs *Containers) Watch(r *Router, identifier string) (unwatch func()) {
	cs.mu.Lock()
	if _, ok := cs.records[identifier]; !ok {
		c := &Container{
			Identifier:     identifier,
			CardVisibility: make(map[string]Visibility),
			UpdatedAt:      cs.now(),
		}
		// Generated identifiers carry the instance's creation time.
		if ts, ok := id.InstanceIssued(identifier); ok {
			c.IssuedAt = &ts
		}
		cs.records[identifier] = c
	}
	n := len(cs.records)
	cs.mu.Unlock()
	cs.metrics.SetContainersTracked(n)

	off := r.On(identifier, cs.Handle)
	return func() {
		off()
		cs.Forget(identifier)
	}
}

// Forget drops the record of identifier.
func (cs *Containers) Forget(identifier string) {
	cs.mu.Lock()
	delete(cs.records, identifier)
	n := len(cs.records)
	cs.mu.Unlock()
	cs.metrics.SetContainersTracked(n)
}

// Handle applies one event to its container record. Events for identifiers
// that are not watched are ignored.
func (cs *Containers) Handle(ev Event) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	c, ok := cs.records[ev.Identifier]
	if !ok {
		return
	}

	switch p := ev.Payload.(type) {
	case protocol.Ready:
		c.Height = p.Height
		c.Ready = true
		c.Tracking = p.Tracking
	case protocol.Resize:
		c.Height = p.Height
	case protocol.Info:
		c.Height = p.Height
		c.Tracking = p.Tracking
		c.URL = p.URL
	case protocol.CardVisibility:
		c.CardVisibility[p.Card] = Visibility{Visible: p.Visible, Ratio: p.Ratio}
	case protocol.SectionVisibility:
		c.Section = Visibility{Visible: p.Visible, Ratio: p.Ratio}
	case protocol.VisibilityChange:
		c.Hidden = p.Hidden
	default:
		return
	}
	c.UpdatedAt = cs.now()
}

// Get returns a snapshot of the container for identifier.
func (cs *Containers) Get(identifier string) (Container, bool) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	c, ok := cs.records[identifier]
	if !ok {
		return Container{}, false
	}
	return c.clone(), true
}

// List returns snapshots of every container ordered by identifier.
func (cs *Containers) List() []Container {
	cs.mu.RLock()
	out := make([]Container, 0, len(cs.records))
	for _, c := range cs.records {
		out = append(out, c.clone())
	}
	cs.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Identifier < out[j].Identifier })
	return out
}
