package component

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/framebridge/internal/component/height"
	"github.com/GriffinCanCode/framebridge/internal/component/layout"
	"github.com/GriffinCanCode/framebridge/internal/component/visibility"
	"github.com/GriffinCanCode/framebridge/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/framebridge/internal/protocol"
	"github.com/GriffinCanCode/framebridge/internal/shared/id"
	"github.com/GriffinCanCode/framebridge/internal/tracking"
	"github.com/GriffinCanCode/framebridge/internal/transport"
)

// SectionTarget is the observer key of the section-level record.
const SectionTarget = "section"

var (
	outbound = protocol.Outbound.String()
	inbound  = protocol.Inbound.String()
)

// Config holds component configuration.
type Config struct {
	Identifier string // Peer identifier; generated when empty
	URL        string // The component's own address
	Content    height.Measurer
	Fallback   height.Measurer
	Logger     *zap.Logger
	Metrics    *monitoring.Metrics
}

// Component is one embedded instance.
type Component struct {
	id      string
	url     string
	port    transport.Port
	logger  *zap.Logger
	metrics *monitoring.Metrics

	height     *height.Machine
	cards      *visibility.Observer
	section    *visibility.Observer
	dispatcher *Dispatcher
}

// New creates a component posting to port.
func New(cfg Config, port transport.Port) *Component {
	if cfg.Identifier == "" {
		cfg.Identifier = id.NewInstanceID().String()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Component{
		id:      cfg.Identifier,
		url:     cfg.URL,
		port:    port,
		logger:  logger.With(zap.String("component", cfg.Identifier)),
		metrics: cfg.Metrics,
	}

	opts := []height.Option{height.WithLogger(c.logger)}
	if cfg.Fallback != nil {
		opts = append(opts, height.WithFallback(cfg.Fallback))
	}
	c.height = height.New(cfg.Content, c, opts...)
	c.cards = visibility.New(c.emitCard)
	c.section = visibility.New(c.emitSection)
	c.dispatcher = NewDispatcher(c.height, c.Info, c.emit, c.logger)
	return c
}

// DocumentMeasurers returns the content measurer for selector and the
// whole-document fallback of doc.
func DocumentMeasurers(doc *layout.Document, selector string) (content, fallback height.Measurer) {
	if selector == "" {
		selector = layout.DefaultSelector
	}
	content = height.MeasurerFunc(func() (int, error) { return doc.ContentHeight(selector) })
	fallback = height.MeasurerFunc(doc.DocumentHeight)
	return content, fallback
}

// ID returns the peer identifier.
func (c *Component) ID() string { return c.id }

// URL returns the component's own address.
func (c *Component) URL() string { return c.url }

// Height returns the height negotiation machine.
func (c *Component) Height() *height.Machine { return c.height }

// Tracking derives a fresh tracking mapping from the component address.
func (c *Component) Tracking() tracking.Mapping {
	return tracking.FromURL(c.url)
}

// Start performs the initial measurement, which announces the component
// with a ready event.
func (c *Component) Start() {
	c.height.Measure()
}

// Remeasure handles a document or viewport resize.
func (c *Component) Remeasure() {
	c.height.Measure()
}

// ObserveCard feeds an intersection ratio sample for one card.
func (c *Component) ObserveCard(card string, ratio float64) {
	c.cards.Observe(card, ratio)
}

// ObserveSection feeds an intersection ratio sample for the whole section.
func (c *Component) ObserveSection(ratio float64) {
	c.section.Observe(SectionTarget, ratio)
}

// SetHidden reports the component document being hidden or shown.
func (c *Component) SetHidden(hidden bool) {
	c.emit(protocol.VisibilityChange{Hidden: hidden})
}

// ClickCTA reports a call-to-action activation.
func (c *Component) ClickCTA(href string) {
	c.emit(protocol.CTAClick{Href: href, Tracking: c.Tracking()})
}

// Info builds the diagnostic snapshot answered to get-info.
func (c *Component) Info() protocol.Info {
	h, ok := c.height.Peek()
	if !ok {
		h, _ = c.height.Last()
	}
	return protocol.Info{
		Height:   h,
		Tracking: c.Tracking(),
		URL:      c.url,
	}
}

// ReportHeight implements height.Sink.
func (c *Component) ReportHeight(h int, initial bool) {
	if initial {
		c.metrics.RecordHeightReport(string(protocol.KindReady))
		c.emit(protocol.Ready{Height: h, Tracking: c.Tracking()})
		return
	}
	c.metrics.RecordHeightReport(string(protocol.KindResize))
	c.emit(protocol.Resize{Height: h})
}

func (c *Component) emitCard(x visibility.Crossing) {
	c.metrics.RecordCrossing("card")
	c.emit(protocol.CardVisibility{Card: x.Target, Visible: x.Visible, Ratio: x.Ratio})
}

func (c *Component) emitSection(x visibility.Crossing) {
	c.metrics.RecordCrossing("section")
	c.emit(protocol.SectionVisibility{Visible: x.Visible, Ratio: x.Ratio})
}

// emit posts an outbound event. Failures are logged and otherwise ignored:
// the channel is fire-and-forget.
func (c *Component) emit(p protocol.Payload) {
	raw, err := protocol.Encode(protocol.Outbound, c.id, p.Kind(), p)
	if err != nil {
		c.logger.Warn("Failed to encode event", zap.String("kind", p.Kind().String()), zap.Error(err))
		return
	}
	if err := c.port.Post(raw); err != nil {
		c.metrics.RecordDropped(outbound, monitoring.ReasonQueueFull)
		c.logger.Debug("Event not posted", zap.String("kind", p.Kind().String()), zap.Error(err))
		return
	}
	c.metrics.RecordSent(outbound, p.Kind().String())
}

// HandleRaw processes one inbound message and reports whether it was
// dispatched.
func (c *Component) HandleRaw(raw []byte) bool {
	env, err := protocol.Decode(raw, protocol.Inbound)
	if err != nil {
		c.metrics.RecordDropped(inbound, monitoring.ReasonMalformed)
		return false
	}
	if !protocol.Accepts(env, c.id, protocol.Inbound) {
		c.metrics.RecordDropped(inbound, monitoring.ReasonIdentity)
		return false
	}
	if !env.Known() {
		c.metrics.RecordDropped(inbound, monitoring.ReasonUnknownKind)
		c.logger.Debug("Ignoring unknown command", zap.String("kind", env.Kind.String()))
		return false
	}

	c.metrics.RecordReceived(inbound, env.Kind.String())
	c.dispatcher.Dispatch(env)
	return true
}

// Run handles inbound messages until ctx ends or the port closes.
func (c *Component) Run(ctx context.Context) error {
	inbox := c.port.Inbox()
	for {
		select {
		case raw, ok := <-inbox:
			if !ok {
				return transport.ErrClosed
			}
			c.HandleRaw(raw)
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		}
	}
}
