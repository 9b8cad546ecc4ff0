package assets

import (
	"fmt"
	"strings"
)

// Built-in asset names.
const (
	BaseStyleName = "base"
	TrackerScript = "tracker"
	CopyScript    = "copy"
)

// TemplateNames lists the page templates in parse order. Each file defines
// the named templates the others reference.
var TemplateNames = []string{"layout", "sidebar", "footer", "home", "chapter"}

// TemplateSet holds the raw page templates.
type TemplateSet struct {
	Layout  string
	Sidebar string
	Footer  string
	Home    string
	Chapter string
}

// LoadTemplateSet loads every page template from loader.
func LoadTemplateSet(loader AssetLoader) (*TemplateSet, error) {
	got := make(map[string]string, len(TemplateNames))
	for _, name := range TemplateNames {
		content, err := loader.LoadTemplate(name)
		if err != nil {
			return nil, err
		}
		got[name] = content
	}
	return &TemplateSet{
		Layout:  got["layout"],
		Sidebar: got["sidebar"],
		Footer:  got["footer"],
		Home:    got["home"],
		Chapter: got["chapter"],
	}, nil
}

// SiteStylesheet concatenates the base stylesheet, the theme stylesheet and
// any extra CSS (such as generated highlight rules) into one file.
func SiteStylesheet(loader AssetLoader, themeName string, extra ...string) (string, error) {
	base, err := loader.LoadStyle(BaseStyleName)
	if err != nil {
		return "", err
	}
	themed, err := loader.LoadStyle(themeName)
	if err != nil {
		return "", fmt.Errorf("theme %q: %w", themeName, err)
	}

	var b strings.Builder
	b.WriteString(base)
	b.WriteString("\n")
	b.WriteString(themed)
	for _, css := range extra {
		if css == "" {
			continue
		}
		b.WriteString("\n")
		b.WriteString(css)
	}
	return b.String(), nil
}
