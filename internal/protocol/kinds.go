package protocol

// Direction tells which way an envelope travels and therefore which field
// carries its identifier.
type Direction int

const (
	// Outbound envelopes travel component → host and carry "source".
	Outbound Direction = iota
	// Inbound envelopes travel host → component and carry "target".
	Inbound
)

// String returns the string representation of the direction
func (d Direction) String() string {
	switch d {
	case Outbound:
		return "outbound"
	case Inbound:
		return "inbound"
	default:
		return "unknown"
	}
}

// IdentifierField returns the wire field naming the peer for this direction.
func (d Direction) IdentifierField() string {
	if d == Inbound {
		return "target"
	}
	return "source"
}

// Kind names the type of an envelope.
type Kind string

// Events (component → host)
const (
	KindReady             Kind = "ready"
	KindResize            Kind = "resize"
	KindCTAClick          Kind = "cta-click"
	KindCardVisibility    Kind = "card-visibility"
	KindSectionVisibility Kind = "section-visibility"
	KindVisibilityChange  Kind = "visibility-change"
	KindInfo              Kind = "info"
)

// Commands (host → component)
const (
	KindGetHeight Kind = "get-height"
	KindGetInfo   Kind = "get-info"
)

var (
	eventKinds   = []Kind{KindReady, KindResize, KindCTAClick, KindCardVisibility, KindSectionVisibility, KindVisibilityChange, KindInfo}
	commandKinds = []Kind{KindGetHeight, KindGetInfo}
)

// Events returns the closed set of component → host kinds.
func Events() []Kind {
	return append([]Kind(nil), eventKinds...)
}

// Commands returns the closed set of host → component kinds.
func Commands() []Kind {
	return append([]Kind(nil), commandKinds...)
}

// Valid reports whether k belongs to the enumeration for dir.
func (k Kind) Valid(dir Direction) bool {
	set := eventKinds
	if dir == Inbound {
		set = commandKinds
	}
	for _, known := range set {
		if k == known {
			return true
		}
	}
	return false
}

// IsCommand reports whether k is a host → component command.
func (k Kind) IsCommand() bool {
	return k.Valid(Inbound)
}

func (k Kind) String() string { return string(k) }
