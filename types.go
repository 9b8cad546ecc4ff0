package textbook

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/alnah/go-textbook/internal/pipeline"
)

// weekPrefix matches the "Week N：" / "Week N:" prefix of chapter titles.
var weekPrefix = regexp.MustCompile(`^Week\s*\d+\s*[：:]\s*`)

// Chapter is one lesson of the course. Chapters are immutable once the index
// is loaded and their order in the index is the reading order.
type Chapter struct {
	Week       string   `json:"week"`        // identifier, e.g. "02"
	Title      string   `json:"title"`       // full title, e.g. "Week 02：变量与类型"
	File       string   `json:"file"`        // Markdown path relative to the content root
	Sections   []string `json:"sections"`    // cached level-2 titles; rendering re-extracts them
	CodeBlocks int      `json:"code_blocks"` // cached fenced block count shown on the landing page
}

// DisplayTitle returns the title without its leading "Week N：" prefix.
func (c Chapter) DisplayTitle() string {
	t := weekPrefix.ReplaceAllString(c.Title, "")
	if t == "" {
		return c.Title
	}
	return t
}

// Number returns the week identifier left-padded to two digits.
func (c Chapter) Number() string {
	if len(c.Week) >= 2 {
		return c.Week
	}
	return strings.Repeat("0", 2-len(c.Week)) + c.Week
}

// Slug returns the chapter's URL path segment, e.g. "week-02".
func (c Chapter) Slug() string {
	return "week-" + c.Week
}

// Section is a second-level heading of a chapter. Identity is positional:
// the i-th extracted title owns anchor "section-i".
type Section struct {
	Index int
	Title string
}

// ID returns the anchor id of the section.
func (s Section) ID() string {
	return pipeline.SectionID(s.Index)
}

// SectionsOf numbers extracted titles in document order.
func SectionsOf(titles []string) []Section {
	out := make([]Section, len(titles))
	for i, t := range titles {
		out[i] = Section{Index: i, Title: t}
	}
	return out
}

// Stage is a named group of weeks on the syllabus.
type Stage struct {
	Name  string   `json:"name"`
	Weeks []string `json:"weeks"`
}

// Syllabus describes the course. It is display data only.
type Syllabus struct {
	Title  string  `json:"title"`
	Stages []Stage `json:"stages"`
}

// Index is the structural index: the syllabus plus the ordered chapter list.
type Index struct {
	Syllabus Syllabus  `json:"syllabus"`
	Chapters []Chapter `json:"chapters"`
}

// Validate checks the index invariants: at least one chapter, unique
// non-empty week identifiers and relative chapter files. The syllabus is
// display data and is not checked here; see UnknownStageWeeks.
func (idx *Index) Validate() error {
	if idx == nil || len(idx.Chapters) == 0 {
		return fmt.Errorf("%w: no chapters", ErrMalformedIndex)
	}

	seen := make(map[string]int, len(idx.Chapters))
	for i, ch := range idx.Chapters {
		week := strings.TrimSpace(ch.Week)
		switch {
		case week == "":
			return fmt.Errorf("%w: chapter %d has no week", ErrMalformedIndex, i)
		case week != ch.Week || strings.ContainsAny(week, `/\`):
			return fmt.Errorf("%w: chapter %d has invalid week %q", ErrMalformedIndex, i, ch.Week)
		}
		if prev, dup := seen[week]; dup {
			return fmt.Errorf("%w: week %q used by chapters %d and %d", ErrMalformedIndex, week, prev, i)
		}
		seen[week] = i

		if strings.TrimSpace(ch.File) == "" {
			return fmt.Errorf("%w: week %q has no file", ErrMalformedIndex, week)
		}
		clean := path.Clean(strings.ReplaceAll(ch.File, `\`, "/"))
		if path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") {
			return fmt.Errorf("%w: week %q file %q escapes the content root", ErrMalformedIndex, week, ch.File)
		}
	}
	return nil
}

// UnknownStageWeeks lists stage week identifiers that have no chapter,
// such as weeks planned but not yet written.
func (idx *Index) UnknownStageWeeks() []string {
	var out []string
	for _, st := range idx.Syllabus.Stages {
		for _, w := range st.Weeks {
			if idx.Find(w) < 0 {
				out = append(out, w)
			}
		}
	}
	return out
}

// Find returns the position of the chapter with the given week, or -1.
func (idx *Index) Find(week string) int {
	for i, ch := range idx.Chapters {
		if ch.Week == week {
			return i
		}
	}
	return -1
}
