// Package host is the embedding page's side of the bridge.
//
// A Router receives component events from a transport port, drops anything
// malformed or addressed from an unregistered identifier, and fans the rest
// out to the handlers registered for that identifier. Commands travel the
// other way through Router.Send.
//
// Containers and Analytics are the stock handlers: the first keeps each
// embedded container sized to its component, the second forwards user
// interaction events to the analytics log.
package host
