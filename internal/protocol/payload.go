package protocol

import (
	"github.com/GriffinCanCode/framebridge/internal/tracking"
)

// Payload is the kind-specific part of an envelope.
type Payload interface {
	Kind() Kind
	validate() error
}

// Ready is the first height report of a component instance.
type Ready struct {
	Height   int              `json:"height"`
	Tracking tracking.Mapping `json:"tracking"`
}

// Resize reports a changed (or explicitly requested) content height.
type Resize struct {
	Height int `json:"height"`
}

// CTAClick reports a call-to-action activation.
type CTAClick struct {
	Href     string           `json:"href"`
	Tracking tracking.Mapping `json:"tracking"`
}

// CardVisibility reports a threshold crossing of a single card.
type CardVisibility struct {
	Card    string  `json:"card"`
	Visible bool    `json:"visible"`
	Ratio   float64 `json:"ratio"`
}

// SectionVisibility reports a threshold crossing of the whole section.
type SectionVisibility struct {
	Visible bool    `json:"visible"`
	Ratio   float64 `json:"ratio"`
}

// VisibilityChange reports the component document being hidden or shown.
type VisibilityChange struct {
	Hidden bool `json:"hidden"`
}

// Info is the diagnostic reply to get-info.
type Info struct {
	Height   int              `json:"height"`
	Tracking tracking.Mapping `json:"tracking"`
	URL      string           `json:"url"`
}

// GetHeight asks a component to report its height.
type GetHeight struct{}

// GetInfo asks a component for a diagnostic snapshot.
type GetInfo struct{}

func (Ready) Kind() Kind             { return KindReady }
func (Resize) Kind() Kind            { return KindResize }
func (CTAClick) Kind() Kind          { return KindCTAClick }
func (CardVisibility) Kind() Kind    { return KindCardVisibility }
func (SectionVisibility) Kind() Kind { return KindSectionVisibility }
func (VisibilityChange) Kind() Kind  { return KindVisibilityChange }
func (Info) Kind() Kind              { return KindInfo }
func (GetHeight) Kind() Kind         { return KindGetHeight }
func (GetInfo) Kind() Kind           { return KindGetInfo }

func (p Ready) validate() error             { return validHeight(p.Height) }
func (p Resize) validate() error            { return validHeight(p.Height) }
func (p CTAClick) validate() error          { return nil }
func (p CardVisibility) validate() error    { return validRatio(p.Ratio) }
func (p SectionVisibility) validate() error { return validRatio(p.Ratio) }
func (p VisibilityChange) validate() error  { return nil }
func (p Info) validate() error              { return validHeight(p.Height) }
func (GetHeight) validate() error           { return nil }
func (GetInfo) validate() error             { return nil }

func validHeight(h int) error {
	if h < 0 {
		return ErrInvalidHeight
	}
	return nil
}

func validRatio(r float64) error {
	// NaN fails both comparisons
	if !(r >= 0 && r <= 1) {
		return ErrInvalidRatio
	}
	return nil
}
