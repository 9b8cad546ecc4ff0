// Package tracker models the chapter sidebar's scroll behaviour.
//
// The browser script shipped with every chapter page (tracker.js) implements
// the same state machines. Each page owns one instance of each and drives it
// from scroll and intersection callbacks on a single thread, so none of the
// types here lock. Config is the source of the data-* parameters rendered
// into the page.
package tracker

import (
	"fmt"
	"strconv"
)

// Default tracker parameters.
const (
	DefaultNearTop       = 100
	DefaultHeaderOffset  = 100
	DefaultTopMargin     = 100
	DefaultBottomPercent = 80
	DefaultThreshold     = 0.1
)

// Config holds the tracker parameters. Zero fields fall back to defaults.
type Config struct {
	NearTop       int     // scroll offset below which the sidebar is always shown
	HeaderOffset  int     // pixels subtracted from a heading's position when jumping to it
	TopMargin     int     // observer root margin, top, in pixels
	BottomPercent int     // observer root margin, bottom, in percent of the viewport
	Threshold     float64 // intersection ratio that counts as visible
}

// DefaultConfig returns the stock tracker parameters.
func DefaultConfig() Config {
	return Config{
		NearTop:       DefaultNearTop,
		HeaderOffset:  DefaultHeaderOffset,
		TopMargin:     DefaultTopMargin,
		BottomPercent: DefaultBottomPercent,
		Threshold:     DefaultThreshold,
	}
}

// WithDefaults returns c with zero fields replaced by defaults.
func (c Config) WithDefaults() Config {
	d := DefaultConfig()
	if c.NearTop == 0 {
		c.NearTop = d.NearTop
	}
	if c.HeaderOffset == 0 {
		c.HeaderOffset = d.HeaderOffset
	}
	if c.TopMargin == 0 {
		c.TopMargin = d.TopMargin
	}
	if c.BottomPercent == 0 {
		c.BottomPercent = d.BottomPercent
	}
	if c.Threshold == 0 {
		c.Threshold = d.Threshold
	}
	return c
}

// RootMargin formats the observer root margin, e.g. "-100px 0px -80% 0px".
func (c Config) RootMargin() string {
	return fmt.Sprintf("-%dpx 0px -%d%% 0px", c.TopMargin, c.BottomPercent)
}

// Attr is one data-* attribute of the sidebar element.
type Attr struct {
	Name  string
	Value string
}

// DataAttributes returns the attributes tracker.js reads its parameters from.
func (c Config) DataAttributes() []Attr {
	return []Attr{
		{Name: "data-near-top", Value: strconv.Itoa(c.NearTop)},
		{Name: "data-header-offset", Value: strconv.Itoa(c.HeaderOffset)},
		{Name: "data-root-margin", Value: c.RootMargin()},
		{Name: "data-threshold", Value: strconv.FormatFloat(c.Threshold, 'f', -1, 64)},
	}
}

// ScrollTarget returns the document offset to scroll to so that a heading
// whose viewport-relative top is top lands just below the page header.
func (c Config) ScrollTarget(top, pageOffset float64) float64 {
	return top + pageOffset - float64(c.HeaderOffset)
}

// ---------------------------------------------------------------------------
// Visibility
// ---------------------------------------------------------------------------

// Visibility decides whether the floating sidebar is shown from successive
// vertical scroll samples. It starts visible at offset 0.
type Visibility struct {
	nearTop float64
	visible bool
	lastY   float64
}

// NewVisibility creates a visibility state machine for cfg.
func NewVisibility(cfg Config) *Visibility {
	return &Visibility{nearTop: float64(cfg.WithDefaults().NearTop), visible: true}
}

// Observe feeds one scroll sample and reports the resulting visibility and
// whether it changed. Near the top the sidebar is shown; otherwise scrolling
// down hides it and scrolling up shows it. An unchanged offset keeps the
// current state.
func (v *Visibility) Observe(y float64) (visible, changed bool) {
	next := v.visible
	switch {
	case y < v.nearTop:
		next = true
	case y > v.lastY:
		next = false
	case y < v.lastY:
		next = true
	}
	v.lastY = y
	changed = next != v.visible
	v.visible = next
	return v.visible, changed
}

// Visible reports the current state.
func (v *Visibility) Visible() bool { return v.visible }

// ---------------------------------------------------------------------------
// Active section
// ---------------------------------------------------------------------------

// Entry is one intersection observation for a section heading.
type Entry struct {
	ID           string
	Intersecting bool
}

// Active tracks the section currently highlighted in the sidebar.
type Active struct {
	id string
}

// Update applies one batch of observations. Entries are processed in
// order and the last intersecting one wins. It returns the active id and
// whether it changed.
func (a *Active) Update(entries []Entry) (id string, changed bool) {
	prev := a.id
	for _, e := range entries {
		if e.Intersecting {
			a.id = e.ID
		}
	}
	return a.id, a.id != prev
}

// ID returns the active section id, empty before the first intersection.
func (a *Active) ID() string { return a.id }

// ---------------------------------------------------------------------------
// Mobile dock
// ---------------------------------------------------------------------------

// Dock is the collapsible section list shown on narrow viewports.
type Dock struct {
	collapsed bool
}

// Toggle flips the collapsed state and returns it.
func (d *Dock) Toggle() bool {
	d.collapsed = !d.collapsed
	return d.collapsed
}

// Select records that an entry was chosen; the list collapses.
func (d *Dock) Select() { d.collapsed = true }

// Collapsed reports whether the list is collapsed.
func (d *Dock) Collapsed() bool { return d.collapsed }
