/*
Package component is the embedded side of the bridge.

# Overview

A Component owns everything one embedded instance reports across the frame
boundary: its height negotiation machine, one visibility observer for all
cards and one for the section, and a Dispatcher for host commands. All
outbound traffic goes through a single transport.Port.

Inbound handling runs in a fixed order:

 1. Decode (malformed input is dropped)
 2. Identity filter on "target" (foreign traffic is dropped)
 3. Dispatch on the closed command set (unknown kinds are ignored)

Nothing in this package blocks on the peer. A host waiting for an answer to
get-info registers a handler and receives the info event whenever it
arrives.

# Triggers

Measurement triggers (document resize, viewport resize, host request) and
visibility samples can be driven directly (Remeasure, ObserveCard) or from
channels through subscriptions with an explicit lifetime:

	sub := c.WatchResize(ctx, resizes)
	defer sub.Close()
*/
package component
