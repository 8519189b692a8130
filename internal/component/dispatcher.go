package component

import (
	"go.uber.org/zap"

	"github.com/GriffinCanCode/framebridge/internal/protocol"
)

// Heights is the part of the height machine the dispatcher drives.
type Heights interface {
	Force() (int, bool)
	Peek() (int, bool)
}

// Dispatcher routes accepted host commands to their responders.
type Dispatcher struct {
	heights Heights
	info    func() protocol.Info
	reply   func(protocol.Payload)
	logger  *zap.Logger
}

// NewDispatcher creates a dispatcher. info builds the diagnostic snapshot and
// reply sends an outbound payload.
func NewDispatcher(heights Heights, info func() protocol.Info, reply func(protocol.Payload), logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		heights: heights,
		info:    info,
		reply:   reply,
		logger:  logger,
	}
}

// Dispatch handles one envelope that already passed identity filtering.
// get-height produces exactly one height report even when the height is
// unchanged; get-info produces one info event. Anything else is ignored.
func (d *Dispatcher) Dispatch(env protocol.Envelope) {
	switch env.Payload.(type) {
	case protocol.GetHeight:
		if _, ok := d.heights.Force(); !ok {
			d.logger.Debug("get-height: no measurement available")
		}
	case protocol.GetInfo:
		d.reply(d.info())
	default:
		d.logger.Debug("Ignoring command", zap.String("kind", env.Kind.String()))
	}
}
