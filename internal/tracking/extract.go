package tracking

import (
	"net/url"
	"strings"
)

// WellKnown lists the attribution parameters extracted first, in priority
// order.
var WellKnown = []string{
	"utm_source",
	"utm_medium",
	"utm_campaign",
	"utm_term",
	"utm_content",
	"utm_id",
	"gclid",
	"gbraid",
	"wbraid",
	"fbclid",
	"msclkid",
	"ttclid",
	"twclid",
	"li_fat_id",
	"dclid",
}

// Extract derives the tracking mapping from a query string, with or without
// the leading '?'. It never fails; an empty or unparsable query yields an
// empty mapping. Every call returns an independent mapping.
func Extract(query string) Mapping {
	entries := parseQuery(strings.TrimPrefix(query, "?"))

	var m Mapping
	for _, key := range WellKnown {
		for _, e := range entries {
			if e.Key == key {
				m.add(e.Key, e.Value)
				break
			}
		}
	}
	for _, e := range entries {
		m.add(e.Key, e.Value)
	}
	return m
}

// FromURL extracts the tracking mapping of a full address. Only the query
// component is significant.
func FromURL(rawURL string) Mapping {
	_, query, ok := strings.Cut(rawURL, "?")
	if !ok {
		return Mapping{}
	}
	query, _, _ = strings.Cut(query, "#")
	return Extract(query)
}

// parseQuery splits a query string into entries in source order, repeats
// included. net/url.ParseQuery is not used because it loses ordering.
func parseQuery(query string) []Pair {
	var entries []Pair
	for _, part := range strings.Split(query, "&") {
		if part == "" {
			continue
		}
		key, value, _ := strings.Cut(part, "=")
		key = unescape(key)
		if key == "" {
			continue
		}
		entries = append(entries, Pair{Key: key, Value: unescape(value)})
	}
	return entries
}

func unescape(s string) string {
	if out, err := url.QueryUnescape(s); err == nil {
		return out
	}
	return s
}
