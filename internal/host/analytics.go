package host

import (
	"go.uber.org/zap"

	"github.com/GriffinCanCode/framebridge/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/framebridge/internal/protocol"
)

// Analytics forwards user interaction events to the analytics log.
type Analytics struct {
	logger  *zap.Logger
	metrics *monitoring.Metrics
}

// NewAnalytics creates an analytics forwarder.
func NewAnalytics(logger *zap.Logger, metrics *monitoring.Metrics) *Analytics {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analytics{logger: logger.Named("analytics"), metrics: metrics}
}

// Watch registers the forwarder for identifier on r.
func (a *Analytics) Watch(r *Router, identifier string) (unwatch func()) {
	return r.On(identifier, a.Handle)
}

// Handle forwards interaction and visibility events. Height events are not
// analytics and are ignored.
func (a *Analytics) Handle(ev Event) {
	fields := []zap.Field{
		zap.String("identifier", ev.Identifier),
		zap.String("kind", ev.Kind.String()),
	}

	switch p := ev.Payload.(type) {
	case protocol.CTAClick:
		fields = append(fields,
			zap.String("href", p.Href),
			zap.Any("tracking", p.Tracking))
	case protocol.CardVisibility:
		fields = append(fields,
			zap.String("card", p.Card),
			zap.Bool("visible", p.Visible),
			zap.Float64("ratio", p.Ratio))
	case protocol.SectionVisibility:
		fields = append(fields,
			zap.Bool("visible", p.Visible),
			zap.Float64("ratio", p.Ratio))
	case protocol.VisibilityChange:
		fields = append(fields, zap.Bool("hidden", p.Hidden))
	default:
		return
	}

	a.metrics.RecordAnalytics(ev.Kind.String())
	a.logger.Info("Component event", fields...)
}
