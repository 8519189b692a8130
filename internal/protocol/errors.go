package protocol

import "errors"

var (
	ErrMalformed      = errors.New("protocol: malformed envelope")
	ErrNoIdentifier   = errors.New("protocol: empty identifier")
	ErrUnknownKind    = errors.New("protocol: unknown kind")
	ErrKindMismatch   = errors.New("protocol: payload does not match kind")
	ErrMissingPayload = errors.New("protocol: missing payload")
	ErrInvalidHeight  = errors.New("protocol: height must be non-negative")
	ErrInvalidRatio   = errors.New("protocol: ratio must be within [0,1]")
	ErrMissingField   = errors.New("protocol: missing required field")
)
