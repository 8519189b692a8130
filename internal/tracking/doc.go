// Package tracking derives attribution parameters from a component address.
//
// The mapping is ordered: well-known campaign and click identifiers come
// first in a fixed priority order, followed by every other query parameter
// in the order it first appears. Each key appears once; when a key repeats
// in the query string the first value wins.
//
//	m := tracking.Extract("?gclid=abc123&ref=nav&utm_source=google")
//	m.Keys() // [utm_source gclid ref]
package tracking
