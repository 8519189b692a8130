// Package height implements height negotiation between a component and its
// host.
//
// A Machine owns the last height reported across the boundary. It starts
// Idle and moves to Reported(h) on the first successful measurement, which is
// always emitted as the initial report. Later measurements emit only when the
// value changes; Force emits unconditionally for explicit host requests.
//
// The primary Measurer must size the designated content element, never the
// document: once the host applies the reported height to its container the
// document extent cannot shrink below it, and a document-based report would
// only ever grow. The fallback Measurer is consulted only when the primary
// one fails.
//
// Every transition, including the call into the Sink, runs under one lock so
// concurrent triggers never interleave. Sinks must not call back into the
// Machine synchronously.
package height
