package textbook

import "github.com/alnah/go-textbook/internal/theme"

// Labels are the user-facing strings of the generated pages.
type Labels struct {
	Contents        string // sidebar heading
	SectionContents string // sidebar heading of the classic theme
	Home            string // back-to-home link
	Prev            string // previous chapter card
	Next            string // next chapter card
	Copy            string // copy button
	Copied          string // copy button after a successful copy
	Hint            string // sidebar hint line
	Week            string // prefix of week chips on the syllabus
	Stages          string // syllabus section heading
	Chapters        string // chapter grid heading
}

// DefaultLabels returns the built-in Simplified Chinese labels.
func DefaultLabels() Labels {
	return Labels{
		Contents:        "目录",
		SectionContents: "本节目录",
		Home:            "返回首页",
		Prev:            "上一章",
		Next:            "下一章",
		Copy:            "复制",
		Copied:          "已复制",
		Hint:            "点击跳转到对应内容",
		Week:            "Week",
		Stages:          "学习路径",
		Chapters:        "课程章节",
	}
}

// Merge returns l with every non-empty field of over applied.
func (l Labels) Merge(over Labels) Labels {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&l.Contents, over.Contents)
	set(&l.SectionContents, over.SectionContents)
	set(&l.Home, over.Home)
	set(&l.Prev, over.Prev)
	set(&l.Next, over.Next)
	set(&l.Copy, over.Copy)
	set(&l.Copied, over.Copied)
	set(&l.Hint, over.Hint)
	set(&l.Week, over.Week)
	set(&l.Stages, over.Stages)
	set(&l.Chapters, over.Chapters)
	return l
}

// heading returns the label a theme titles its sidebar with.
func (l Labels) heading(key theme.LabelKey) string {
	if key == theme.HeadingSectionContents {
		return l.SectionContents
	}
	return l.Contents
}

// SiteInfo is the descriptive text of the landing page and document head.
type SiteInfo struct {
	Title       string   // falls back to the syllabus title
	Lang        string   // html lang attribute
	Tagline     string   // badge above the landing title
	Description string   // lead paragraph and meta description
	Highlights  []string // feature chips under the lead
	FooterTitle string
	FooterNote  string
}
