package textbook

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/alnah/go-textbook/internal/assets"
	"github.com/alnah/go-textbook/internal/theme"
	"github.com/alnah/go-textbook/internal/tracker"
)

// pageData is the value every page template executes against.
type pageData struct {
	Lang        string
	Title       string
	Description string
	Root        string // prefix that reaches the site root: "", "../" or the base URL
	Stylesheet  string
	Scripts     []string
	Site        SiteInfo
	Labels      Labels
	Theme       theme.Theme
	Home        *homeData
	Chapter     *chapterData
}

type homeData struct {
	Title  string
	Stages []stageData
	Cards  []cardData
}

type stageData struct {
	Number int
	Name   string
	Weeks  []string
}

type cardData struct {
	URL        string
	Number     string
	Title      string
	CodeBlocks int
}

type chapterData struct {
	Title          string
	SidebarHeading string
	Sections       []sectionLink
	Body           template.HTML
	TrackerAttrs   template.HTMLAttr
	Collapsed      bool
	Prev           *navLink
	Next           *navLink
}

type sectionLink struct {
	ID     string
	Number int
	Title  string
}

type navLink struct {
	URL   string
	Title string
}

// parseTemplates parses the page templates into one set. Each file defines
// named templates; "layout" is the entry point.
func parseTemplates(ts *assets.TemplateSet) (*template.Template, error) {
	tmpl := template.New("site")
	sources := []struct {
		name string
		src  string
	}{
		{"layout", ts.Layout},
		{"sidebar", ts.Sidebar},
		{"footer", ts.Footer},
		{"home", ts.Home},
		{"chapter", ts.Chapter},
	}
	for _, s := range sources {
		if _, err := tmpl.Parse(s.src); err != nil {
			return nil, fmt.Errorf("%w: parsing %s: %v", ErrTemplateRender, s.name, err)
		}
	}
	for _, s := range sources {
		if tmpl.Lookup(s.name) == nil {
			return nil, fmt.Errorf("%w: template %q is not defined", ErrTemplateRender, s.name)
		}
	}
	return tmpl, nil
}

// execute renders the layout with data.
func (b *Builder) execute(data *pageData) ([]byte, error) {
	var buf bytes.Buffer
	if err := b.templates.ExecuteTemplate(&buf, "layout", data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplateRender, err)
	}
	return buf.Bytes(), nil
}

// root returns the prefix from a page depth levels below the site root.
func (b *Builder) root(depth int) string {
	if b.cfg.baseURL != "" {
		if strings.HasSuffix(b.cfg.baseURL, "/") {
			return b.cfg.baseURL
		}
		return b.cfg.baseURL + "/"
	}
	return strings.Repeat("../", depth)
}

// chapterURL is a chapter page URL relative to the site root.
func chapterURL(ch Chapter) string {
	return ch.Slug() + "/"
}

// siteTitle is the configured title, falling back to the syllabus title.
func (b *Builder) siteTitle(idx *Index) string {
	if b.cfg.site.Title != "" {
		return b.cfg.site.Title
	}
	return idx.Syllabus.Title
}

// basePage fills the fields shared by every page.
func (b *Builder) basePage(idx *Index, depth int) *pageData {
	return &pageData{
		Lang:        b.cfg.site.Lang,
		Title:       b.siteTitle(idx),
		Description: b.cfg.site.Description,
		Root:        b.root(depth),
		Stylesheet:  b.bundle.Stylesheet.Path,
		Site:        b.cfg.site,
		Labels:      b.cfg.labels,
		Theme:       b.theme,
	}
}

// homePage builds the landing page data.
func (b *Builder) homePage(idx *Index) *pageData {
	data := b.basePage(idx, 0)

	home := &homeData{Title: idx.Syllabus.Title}
	if home.Title == "" {
		home.Title = data.Title
	}
	for i, st := range idx.Syllabus.Stages {
		home.Stages = append(home.Stages, stageData{Number: i + 1, Name: st.Name, Weeks: st.Weeks})
	}
	for _, ch := range idx.Chapters {
		home.Cards = append(home.Cards, cardData{
			URL:        chapterURL(ch),
			Number:     ch.Number(),
			Title:      ch.DisplayTitle(),
			CodeBlocks: ch.CodeBlocks,
		})
	}
	data.Home = home
	return data
}

// chapterPage builds the data of chapter i around its rendered body.
func (b *Builder) chapterPage(idx *Index, i int, sections []Section, body string) *pageData {
	ch := idx.Chapters[i]
	data := b.basePage(idx, 1)
	if site := data.Title; site != "" && site != ch.Title {
		data.Title = ch.Title + " | " + site
	} else {
		data.Title = ch.Title
	}
	data.Scripts = b.bundle.scriptPaths()

	links := make([]sectionLink, len(sections))
	for j, s := range sections {
		links[j] = sectionLink{ID: s.ID(), Number: s.Index + 1, Title: s.Title}
	}

	prev, next := Neighbors(idx.Chapters, i)
	data.Chapter = &chapterData{
		Title:          ch.Title,
		SidebarHeading: b.cfg.labels.heading(b.theme.Heading),
		Sections:       links,
		Body:           template.HTML(body), // #nosec G203 -- goldmark output, raw HTML disabled
		TrackerAttrs:   trackerAttrs(b.cfg.tracker),
		Collapsed:      b.theme.Folded,
		Prev:           toNavLink(prev),
		Next:           toNavLink(next),
	}
	return data
}

// trackerAttrs renders the data-* attributes tracker.js reads its
// parameters from.
func trackerAttrs(cfg tracker.Config) template.HTMLAttr {
	attrs := cfg.DataAttributes()
	parts := make([]string, len(attrs))
	for i, a := range attrs {
		parts[i] = a.Name + `="` + template.HTMLEscapeString(a.Value) + `"`
	}
	return template.HTMLAttr(strings.Join(parts, " ")) // #nosec G203 -- fixed names, escaped values
}

func toNavLink(ch *Chapter) *navLink {
	if ch == nil {
		return nil
	}
	return &navLink{URL: chapterURL(*ch), Title: ch.DisplayTitle()}
}
