package layout

import (
	"math"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// box holds the vertical box-model values of one element.
type box struct {
	height       float64
	hasHeight    bool
	marginTop    float64
	marginBottom float64
	padTop       float64
	padBottom    float64
	hidden       bool
}

var skipped = map[string]bool{
	"head":     true,
	"script":   true,
	"style":    true,
	"template": true,
	"noscript": true,
	"meta":     true,
	"link":     true,
	"title":    true,
}

func boxOf(s *goquery.Selection) box {
	var b box
	if skipped[goquery.NodeName(s)] {
		b.hidden = true
		return b
	}
	if _, ok := s.Attr("hidden"); ok {
		b.hidden = true
		return b
	}

	if v, ok := s.Attr("data-height"); ok {
		if h, ok := parsePx(v); ok {
			b.height, b.hasHeight = h, true
		}
	}

	style, _ := s.Attr("style")
	for _, decl := range strings.Split(style, ";") {
		prop, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		value = strings.ToLower(strings.TrimSpace(value))

		switch prop {
		case "display":
			if value == "none" {
				b.hidden = true
			}
		case "height":
			if h, ok := parsePx(value); ok {
				b.height, b.hasHeight = h, true
			}
		case "margin":
			b.marginTop, b.marginBottom = shorthand(value)
		case "margin-top":
			b.marginTop, _ = parsePx(value)
		case "margin-bottom":
			b.marginBottom, _ = parsePx(value)
		case "padding":
			b.padTop, b.padBottom = shorthand(value)
		case "padding-top":
			b.padTop, _ = parsePx(value)
		case "padding-bottom":
			b.padBottom, _ = parsePx(value)
		}
	}
	return b
}

// shorthand returns the top and bottom values of a 1-4 value box shorthand.
func shorthand(value string) (top, bottom float64) {
	parts := strings.Fields(value)
	switch len(parts) {
	case 0:
		return 0, 0
	case 1, 2:
		top, _ = parsePx(parts[0])
		return top, top
	default:
		top, _ = parsePx(parts[0])
		bottom, _ = parsePx(parts[2])
		return top, bottom
	}
}

// maxPx bounds a single length. Larger values are treated as invalid.
const maxPx = math.MaxInt32

func parsePx(value string) (float64, bool) {
	value = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(value), "px"))
	v, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(v) || v < 0 || v > maxPx {
		return 0, false
	}
	return v, true
}
