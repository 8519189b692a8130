// Package protocol defines the envelope that crosses the frame boundary.
//
// Every message exchanged between a component and its host is a single flat
// JSON object carrying an identifier, a kind and kind-specific fields:
//
//	{"source": "embed_01J...", "kind": "resize", "height": 612}
//	{"target": "embed_01J...", "kind": "get-height"}
//
// Outbound envelopes (component → host) name their sender in "source".
// Inbound envelopes (host → component) name their recipient in "target".
//
// Decoding never panics. Anything that is not a structurally valid envelope
// yields an error wrapping ErrMalformed and must be dropped by the caller.
// Unknown kinds decode successfully with a nil payload so that an older peer
// can ignore messages introduced by a newer one.
//
// Example Usage:
//
//	raw, _ := protocol.Encode(protocol.Outbound, id, protocol.KindResize, protocol.Resize{Height: 612})
//	env, err := protocol.Decode(raw, protocol.Outbound)
//	if err != nil || !protocol.Accepts(env, id, protocol.Outbound) {
//		return
//	}
package protocol
