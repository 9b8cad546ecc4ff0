// Package theme defines the sidebar presentation variants.
package theme

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownTheme is returned when a theme name is not registered.
var ErrUnknownTheme = errors.New("unknown theme")

// Default is the theme used when none is configured.
const Default = "clean"

// Layout is how the section list is placed on the page.
type Layout string

const (
	LayoutFloating Layout = "floating" // fixed rail that slides away while reading
	LayoutDrawer   Layout = "drawer"   // off-canvas panel opened by a toggle button
	LayoutSticky   Layout = "sticky"   // always-visible column next to the article
)

// Theme parameterizes the single sidebar component.
type Theme struct {
	Name   string
	Layout Layout

	AutoHide bool // hide while scrolling down, show while scrolling up
	Overlay  bool // dim the page while the drawer is open on mobile
	Tracking bool // highlight the section in view
	Hint     bool // show the "click to jump" hint under the heading
	Numbered bool // prefix entries with their position
	Folded   bool // section list starts collapsed on small screens
	Heading  LabelKey
}

// LabelKey selects which configured label titles the sidebar.
type LabelKey string

const (
	HeadingContents        LabelKey = "contents"
	HeadingSectionContents LabelKey = "sectionContents"
)

// Stylesheet returns the embedded stylesheet name for the theme.
func (t Theme) Stylesheet() string { return t.Name }

// Class returns the CSS class set on the sidebar root element.
func (t Theme) Class() string {
	return "sidebar sidebar-" + t.Name + " sidebar-" + string(t.Layout)
}

var registry = map[string]Theme{
	"clean": {
		Name:     "clean",
		Layout:   LayoutFloating,
		AutoHide: true,
		Tracking: true,
		Heading:  HeadingContents,
	},
	"collapsible": {
		Name:     "collapsible",
		Layout:   LayoutDrawer,
		Overlay:  true,
		Tracking: true,
		Folded:   true,
		Heading:  HeadingContents,
	},
	"playful": {
		Name:     "playful",
		Layout:   LayoutDrawer,
		Overlay:  true,
		Tracking: true,
		Hint:     true,
		Numbered: true,
		Folded:   true,
		Heading:  HeadingContents,
	},
	"classic": {
		Name:     "classic",
		Layout:   LayoutSticky,
		Tracking: true,
		Folded:   true,
		Heading:  HeadingSectionContents,
	},
}

// Get looks up a theme by name. Names are case-insensitive and an empty
// name selects Default.
func Get(name string) (Theme, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = Default
	}
	t, ok := registry[key]
	if !ok {
		return Theme{}, fmt.Errorf("%w: %q (available: %s)", ErrUnknownTheme, name, strings.Join(Names(), ", "))
	}
	return t, nil
}

// Names returns the registered theme names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
