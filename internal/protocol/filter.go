package protocol

// Accepts reports whether env is addressed to (inbound) or sent by
// (outbound) the peer named expected. It is the only isolation between
// component instances sharing one physical channel and must run before any
// other processing. An empty expected identifier accepts nothing.
func Accepts(env Envelope, expected string, dir Direction) bool {
	if expected == "" || env.Direction != dir {
		return false
	}
	return env.Identifier == expected
}

// AcceptsRaw decodes raw and applies Accepts. Malformed input is never
// accepted.
func AcceptsRaw(raw []byte, expected string, dir Direction) bool {
	env, err := Decode(raw, dir)
	if err != nil {
		return false
	}
	return Accepts(env, expected, dir)
}
