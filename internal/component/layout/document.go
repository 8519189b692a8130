package layout

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
)

// DefaultSelector names the designated content element.
const DefaultSelector = "[data-embed-content]"

var ErrContentUnavailable = errors.New("layout: content element not found")

// Document is a measurable component document.
type Document struct {
	mu       sync.RWMutex
	doc      *goquery.Document
	viewport int
}

// Parse reads a component document.
func Parse(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	return &Document{doc: doc}, nil
}

// ParseString reads a component document from a string.
func ParseString(html string) (*Document, error) {
	return Parse(strings.NewReader(html))
}

// Replace swaps the document content, keeping the viewport.
func (d *Document) Replace(r io.Reader) error {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return fmt.Errorf("failed to parse document: %w", err)
	}
	d.mu.Lock()
	d.doc = doc
	d.mu.Unlock()
	return nil
}

// SetViewport records the height the host applied to the container.
func (d *Document) SetViewport(height int) {
	if height < 0 {
		height = 0
	}
	d.mu.Lock()
	d.viewport = height
	d.mu.Unlock()
}

// Viewport returns the last applied container height.
func (d *Document) Viewport() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.viewport
}

// ContentHeight measures the first element matching selector from its own
// content flow. It returns ErrContentUnavailable when nothing matches.
func (d *Document) ContentHeight(selector string) (int, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	sel, err := d.find(selector)
	if err != nil {
		return 0, err
	}
	sel = sel.First()
	if sel.Length() == 0 {
		return 0, fmt.Errorf("%w: %s", ErrContentUnavailable, selector)
	}
	b := boxOf(sel)
	if b.hidden {
		return 0, nil
	}
	return round(inner(sel, b) + b.padTop + b.padBottom), nil
}

// DocumentHeight measures the whole document the way a scrollable extent
// would: never less than the viewport.
func (d *Document) DocumentHeight() (int, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	body := d.doc.Find("body").First()
	flow := 0.0
	if body.Length() > 0 {
		b := boxOf(body)
		flow = inner(body, b) + b.padTop + b.padBottom + b.marginTop + b.marginBottom
	}
	return int(math.Max(float64(round(flow)), float64(d.viewport))), nil
}

// find resolves a CSS selector, or an XPath expression when selector starts
// with '/' or '('.
func (d *Document) find(selector string) (*goquery.Selection, error) {
	if !isXPath(selector) {
		return d.doc.Find(selector), nil
	}
	if len(d.doc.Nodes) == 0 {
		return d.doc.Selection, nil
	}
	nodes, err := htmlquery.QueryAll(d.doc.Nodes[0], selector)
	if err != nil {
		return nil, fmt.Errorf("invalid xpath %q: %w", selector, err)
	}
	return d.doc.FindNodes(nodes...), nil
}

func isXPath(selector string) bool {
	return strings.HasPrefix(selector, "/") || strings.HasPrefix(selector, "(")
}

// CTAs returns the href of every call-to-action anchor in document order.
func (d *Document) CTAs() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var hrefs []string
	d.doc.Find("a[data-cta]").Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok && href != "" {
			hrefs = append(hrefs, href)
		}
	})
	return hrefs
}

// Cards returns the logical tag of every card element in document order.
func (d *Document) Cards() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var tags []string
	d.doc.Find("[data-card]").Each(func(_ int, s *goquery.Selection) {
		if tag := strings.TrimSpace(s.AttrOr("data-card", "")); tag != "" {
			tags = append(tags, tag)
		}
	})
	return tags
}

// inner is the content height of s: its explicit height, or the stacked
// outer heights of its visible children.
func inner(s *goquery.Selection, b box) float64 {
	if b.hasHeight {
		return b.height
	}
	total := 0.0
	s.Children().Each(func(_ int, c *goquery.Selection) {
		cb := boxOf(c)
		if cb.hidden {
			return
		}
		total += inner(c, cb) + cb.padTop + cb.padBottom + cb.marginTop + cb.marginBottom
	})
	return total
}

func round(v float64) int {
	switch {
	case math.IsNaN(v) || v <= 0:
		return 0
	case v >= maxPx:
		return maxPx
	}
	return int(math.Ceil(v - 1e-9))
}
