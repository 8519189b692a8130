package protocol

import (
	"bytes"
	"fmt"

	"github.com/bytedance/sonic"

	"github.com/GriffinCanCode/framebridge/internal/tracking"
)

var api = sonic.ConfigStd

// Envelope is one message unit crossing the boundary.
type Envelope struct {
	Direction  Direction
	Identifier string
	Kind       Kind
	Payload    Payload
}

// NewEnvelope builds an envelope value. It does not validate; Encode does.
func NewEnvelope(dir Direction, identifier string, kind Kind, payload Payload) Envelope {
	return Envelope{Direction: dir, Identifier: identifier, Kind: kind, Payload: payload}
}

// Known reports whether the envelope carries a kind this build understands.
func (e Envelope) Known() bool {
	return e.Payload != nil
}

// MarshalJSON encodes the envelope in its flat wire shape.
func (e Envelope) MarshalJSON() ([]byte, error) {
	return Encode(e.Direction, e.Identifier, e.Kind, e.Payload)
}

// Encode produces the wire form of an envelope. Commands may pass a nil
// payload; every other kind requires one matching kind.
func Encode(dir Direction, identifier string, kind Kind, payload Payload) ([]byte, error) {
	if identifier == "" {
		return nil, ErrNoIdentifier
	}
	if !kind.Valid(dir) {
		return nil, fmt.Errorf("%w: %q (%s)", ErrUnknownKind, kind, dir)
	}
	if payload == nil {
		switch kind {
		case KindGetHeight:
			payload = GetHeight{}
		case KindGetInfo:
			payload = GetInfo{}
		default:
			return nil, fmt.Errorf("%w: %s", ErrMissingPayload, kind)
		}
	}
	if payload.Kind() != kind {
		return nil, fmt.Errorf("%w: %s carries %s", ErrKindMismatch, kind, payload.Kind())
	}
	if err := payload.validate(); err != nil {
		return nil, fmt.Errorf("encode %s: %w", kind, err)
	}

	id, err := api.Marshal(identifier)
	if err != nil {
		return nil, fmt.Errorf("encode identifier: %w", err)
	}
	body, err := api.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", kind, err)
	}

	var buf bytes.Buffer
	buf.Grow(len(id) + len(body) + len(kind) + 32)
	buf.WriteString(`{"`)
	buf.WriteString(dir.IdentifierField())
	buf.WriteString(`":`)
	buf.Write(id)
	buf.WriteString(`,"kind":"`)
	buf.WriteString(string(kind))
	buf.WriteByte('"')
	// body is a JSON object; splice its members after the header
	if inner := bytes.TrimSpace(body[1 : len(body)-1]); len(inner) > 0 {
		buf.WriteByte(',')
		buf.Write(inner)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

type header struct {
	Source *string `json:"source"`
	Target *string `json:"target"`
	Kind   *string `json:"kind"`
}

type fields struct {
	Height   *int              `json:"height"`
	Tracking *tracking.Mapping `json:"tracking"`
	Href     *string           `json:"href"`
	Card     *string           `json:"card"`
	Visible  *bool             `json:"visible"`
	Ratio    *float64          `json:"ratio"`
	Hidden   *bool             `json:"hidden"`
	URL      *string           `json:"url"`
}

// Decode parses raw as an envelope travelling in dir. Any structural
// problem yields an error wrapping ErrMalformed. Unknown kinds are returned
// with a nil Payload and no error.
func Decode(raw []byte, dir Direction) (Envelope, error) {
	var h header
	if err := api.Unmarshal(raw, &h); err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	id := h.Source
	if dir == Inbound {
		id = h.Target
	}
	if id == nil {
		return Envelope{}, fmt.Errorf("%w: missing %q", ErrMalformed, dir.IdentifierField())
	}
	if h.Kind == nil {
		return Envelope{}, fmt.Errorf("%w: missing \"kind\"", ErrMalformed)
	}

	env := Envelope{Direction: dir, Identifier: *id, Kind: Kind(*h.Kind)}
	if !env.Kind.Valid(dir) {
		return env, nil
	}

	payload, err := decodePayload(raw, env.Kind)
	if err != nil {
		return Envelope{}, fmt.Errorf("%w: %s: %v", ErrMalformed, env.Kind, err)
	}
	env.Payload = payload
	return env, nil
}

func decodePayload(raw []byte, kind Kind) (Payload, error) {
	var f fields
	if err := api.Unmarshal(raw, &f); err != nil {
		return nil, err
	}

	var p Payload
	switch kind {
	case KindReady:
		if f.Height == nil {
			return nil, missing("height")
		}
		p = Ready{Height: *f.Height, Tracking: f.mapping()}
	case KindResize:
		if f.Height == nil {
			return nil, missing("height")
		}
		p = Resize{Height: *f.Height}
	case KindCTAClick:
		if f.Href == nil {
			return nil, missing("href")
		}
		p = CTAClick{Href: *f.Href, Tracking: f.mapping()}
	case KindCardVisibility:
		if f.Card == nil || f.Visible == nil || f.Ratio == nil {
			return nil, missing("card, visible, ratio")
		}
		p = CardVisibility{Card: *f.Card, Visible: *f.Visible, Ratio: *f.Ratio}
	case KindSectionVisibility:
		if f.Visible == nil || f.Ratio == nil {
			return nil, missing("visible, ratio")
		}
		p = SectionVisibility{Visible: *f.Visible, Ratio: *f.Ratio}
	case KindVisibilityChange:
		if f.Hidden == nil {
			return nil, missing("hidden")
		}
		p = VisibilityChange{Hidden: *f.Hidden}
	case KindInfo:
		if f.Height == nil || f.URL == nil {
			return nil, missing("height, url")
		}
		p = Info{Height: *f.Height, Tracking: f.mapping(), URL: *f.URL}
	case KindGetHeight:
		p = GetHeight{}
	case KindGetInfo:
		p = GetInfo{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (f fields) mapping() tracking.Mapping {
	if f.Tracking == nil {
		return tracking.Mapping{}
	}
	return *f.Tracking
}

func missing(name string) error {
	return fmt.Errorf("%w: %s", ErrMissingField, name)
}
