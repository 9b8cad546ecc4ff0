package textbook

// Notes:
// - NewBuilder: tests option resolution and construction failures
// - RenderChapter: tests anchors, sidebar, copy buttons, navigation and themes
//   by parsing the generated document with goquery
// - RenderHome: tests syllabus stages and the chapter grid
// - Build: tests written files, media copying, cleaning and the
//   all-or-nothing guarantee on failure

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/alnah/go-textbook/internal/assets"
	"github.com/alnah/go-textbook/internal/theme"
	"github.com/alnah/go-textbook/internal/tracker"
)

const chapterOne = "# 起步\n\n" +
	"<!-- 作者备注：这一段不应出现 -->\n\n" +
	"开始之前先安装解释器。\n\n" +
	"## 安装 Python\n\n" +
	"```python\nprint(\"你好\")\n```\n\n" +
	"## 运行 `hello.py`\n\n" +
	"```bash\npython hello.py\n```\n\n" +
	"![标志](images/logo.png)\n"

const chapterTwo = "# 变量\n\n## 赋值\n\n```python\nx = 1\n```\n\n## 类型\n\n```python\ntype(x)\n```\n"

const chapterThree = "# 函数\n\n没有二级标题的章节。\n"

// writeCourse lays out a three-chapter course and returns its content root.
func writeCourse(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeTestFile(t, filepath.Join(root, DefaultIndexName), sampleIndex)
	writeTestFile(t, filepath.Join(root, "week_01", "CHAPTER.md"), chapterOne)
	writeTestFile(t, filepath.Join(root, "week_01", "images", "logo.png"), "png")
	writeTestFile(t, filepath.Join(root, "week_02", "CHAPTER.md"), chapterTwo)
	writeTestFile(t, filepath.Join(root, "week_03", "CHAPTER.md"), chapterThree)
	return root
}

func mustIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := ParseIndex(strings.NewReader(sampleIndex))
	if err != nil {
		t.Fatalf("ParseIndex() error: %v", err)
	}
	return idx
}

func mustBuilder(t *testing.T, opts ...Option) *Builder {
	t.Helper()
	b, err := NewBuilder(opts...)
	if err != nil {
		t.Fatalf("NewBuilder() error: %v", err)
	}
	return b
}

func mustDoc(t *testing.T, html []byte) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		t.Fatalf("parsing HTML: %v", err)
	}
	return doc
}

func renderChapterDoc(t *testing.T, b *Builder, i int, md string) (*ChapterPage, *goquery.Document) {
	t.Helper()
	page, err := b.RenderChapter(context.Background(), mustIndex(t), i, md)
	if err != nil {
		t.Fatalf("RenderChapter() error: %v", err)
	}
	return page, mustDoc(t, page.HTML)
}

// ---------------------------------------------------------------------------
// TestNewBuilder - Construction
// ---------------------------------------------------------------------------

func TestNewBuilder(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		b := mustBuilder(t)
		if b.Theme().Name != theme.Default {
			t.Errorf("Theme() = %q, want %q", b.Theme().Name, theme.Default)
		}
		if !strings.HasPrefix(b.bundle.Stylesheet.Path, "assets/site.") {
			t.Errorf("stylesheet path = %q", b.bundle.Stylesheet.Path)
		}
		if len(b.bundle.Scripts) != 2 {
			t.Errorf("len(Scripts) = %d, want 2", len(b.bundle.Scripts))
		}
		css := string(b.bundle.Stylesheet.Content)
		if !strings.Contains(css, ".chroma") {
			t.Error("stylesheet should include highlight classes")
		}
	})

	t.Run("theme name is case-insensitive", func(t *testing.T) {
		t.Parallel()

		b := mustBuilder(t, WithTheme("Playful"))
		if b.Theme().Name != "playful" {
			t.Errorf("Theme() = %q, want playful", b.Theme().Name)
		}
	})

	t.Run("unknown theme", func(t *testing.T) {
		t.Parallel()

		_, err := NewBuilder(WithTheme("neon"))
		if !errors.Is(err, ErrUnknownTheme) {
			t.Errorf("NewBuilder() error = %v, want ErrUnknownTheme", err)
		}
	})

	t.Run("invalid asset path", func(t *testing.T) {
		t.Parallel()

		_, err := NewBuilder(WithAssetPath(filepath.Join(t.TempDir(), "missing")))
		if !errors.Is(err, ErrInvalidAssetPath) {
			t.Errorf("NewBuilder() error = %v, want ErrInvalidAssetPath", err)
		}
	})

	t.Run("custom stylesheet overrides embedded", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeTestFile(t, filepath.Join(dir, "styles", "clean.css"), "/* custom clean */")

		b := mustBuilder(t, WithAssetPath(dir))
		if !strings.Contains(string(b.bundle.Stylesheet.Content), "/* custom clean */") {
			t.Error("custom theme stylesheet not used")
		}
	})
}

// ---------------------------------------------------------------------------
// TestRenderChapter - Chapter Pages
// ---------------------------------------------------------------------------

func TestRenderChapter_Anchors(t *testing.T) {
	t.Parallel()

	page, doc := renderChapterDoc(t, mustBuilder(t), 0, chapterOne)

	wantTitles := []string{"安装 Python", "运行 `hello.py`"}
	if len(page.Sections) != len(wantTitles) {
		t.Fatalf("Sections = %+v, want %d", page.Sections, len(wantTitles))
	}
	for i, s := range page.Sections {
		if s.Title != wantTitles[i] {
			t.Errorf("Sections[%d].Title = %q, want %q", i, s.Title, wantTitles[i])
		}
	}

	h2 := doc.Find("article.prose h2")
	if h2.Length() != 2 {
		t.Fatalf("found %d h2, want 2", h2.Length())
	}
	h2.Each(func(i int, s *goquery.Selection) {
		id, _ := s.Attr("id")
		if want := page.Sections[i].ID(); id != want {
			t.Errorf("h2[%d] id = %q, want %q", i, id, want)
		}
	})

	links := doc.Find("nav.sidebar a[data-section]")
	if links.Length() != len(page.Sections) {
		t.Fatalf("sidebar has %d links, want %d", links.Length(), len(page.Sections))
	}
	links.Each(func(i int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if want := "#" + page.Sections[i].ID(); href != want {
			t.Errorf("link[%d] href = %q, want %q", i, href, want)
		}
		if got := strings.TrimSpace(s.Find(".sidebar-title").Text()); got != wantTitles[i] {
			t.Errorf("link[%d] text = %q, want %q", i, got, wantTitles[i])
		}
	})

	if len(page.Dead) != 0 || len(page.Misses) != 0 {
		t.Errorf("Dead = %v, Misses = %v, want none", page.Dead, page.Misses)
	}
}

func TestRenderChapter_DuplicateHeadings(t *testing.T) {
	t.Parallel()

	md := "## 练习\n\n一\n\n## 练习\n\n二\n"
	page, doc := renderChapterDoc(t, mustBuilder(t), 1, md)

	if len(page.Anchors) != 2 || page.Anchors[0] != "section-0" || page.Anchors[1] != "section-1" {
		t.Errorf("Anchors = %v, want [section-0 section-1]", page.Anchors)
	}
	if doc.Find("#section-1").Length() != 1 {
		t.Error("second duplicate heading should own section-1")
	}
}

func TestRenderChapter_SetextHeadingIsMiss(t *testing.T) {
	t.Parallel()

	md := "## 第一节\n\n正文\n\n第二节\n------\n"
	page, _ := renderChapterDoc(t, mustBuilder(t), 1, md)

	if len(page.Sections) != 1 {
		t.Errorf("Sections = %+v, want 1", page.Sections)
	}
	if len(page.Misses) != 1 || page.Misses[0] != "第二节" {
		t.Errorf("Misses = %v, want [第二节]", page.Misses)
	}
	if len(page.Dead) != 0 {
		t.Errorf("Dead = %v, want none", page.Dead)
	}
}

func TestRenderChapter_CodeBlocks(t *testing.T) {
	t.Parallel()

	page, doc := renderChapterDoc(t, mustBuilder(t), 0, chapterOne)

	if page.CodeBlocks != 2 {
		t.Errorf("CodeBlocks = %d, want 2", page.CodeBlocks)
	}

	buttons := doc.Find("button.code-copy")
	if buttons.Length() != 1 {
		t.Fatalf("found %d copy buttons, want 1 (python only)", buttons.Length())
	}
	if got := strings.TrimSpace(buttons.Text()); got != "复制" {
		t.Errorf("button text = %q, want 复制", got)
	}
	if got, _ := buttons.Attr("data-copied-label"); got != "已复制" {
		t.Errorf("data-copied-label = %q, want 已复制", got)
	}
	if got := doc.Find(".code-block code").Text(); !strings.Contains(got, `print("你好")`) {
		t.Errorf("python block text = %q", got)
	}

	plain := doc.Find(`pre[data-lang="bash"]`)
	if plain.Length() != 1 {
		t.Fatalf("found %d bash blocks, want 1", plain.Length())
	}
	if plain.Find("button").Length() != 0 {
		t.Error("plain block should have no copy button")
	}
}

func TestRenderChapter_CustomTargetAndLabels(t *testing.T) {
	t.Parallel()

	b := mustBuilder(t, WithTargetLanguage("bash"), WithLabels(Labels{Copy: "Copy", Copied: "Copied!"}))
	_, doc := renderChapterDoc(t, b, 0, chapterOne)

	buttons := doc.Find("button.code-copy")
	if buttons.Length() != 1 {
		t.Fatalf("found %d copy buttons, want 1", buttons.Length())
	}
	if got := buttons.Closest(".code-block").AttrOr("data-lang", ""); got != "bash" {
		t.Errorf("copy block language = %q, want bash", got)
	}
	if got := strings.TrimSpace(buttons.Text()); got != "Copy" {
		t.Errorf("button text = %q, want Copy", got)
	}
}

func TestRenderChapter_Document(t *testing.T) {
	t.Parallel()

	b := mustBuilder(t)
	page, doc := renderChapterDoc(t, b, 0, chapterOne)

	if page.Path != "week-01/index.html" {
		t.Errorf("Path = %q", page.Path)
	}
	if got := doc.Find("title").Text(); got != "Week 01：起步 | Python 程序设计" {
		t.Errorf("title = %q", got)
	}
	if got := doc.Find("html").AttrOr("lang", ""); got != "zh-CN" {
		t.Errorf("lang = %q, want zh-CN", got)
	}
	if got := doc.Find("link[rel=stylesheet]").AttrOr("href", ""); got != "../"+b.bundle.Stylesheet.Path {
		t.Errorf("stylesheet href = %q", got)
	}
	if got := doc.Find("script[src]").Length(); got != 2 {
		t.Errorf("found %d scripts, want 2", got)
	}
	if !doc.Find("body").HasClass("page-chapter") {
		t.Error("body should have class page-chapter")
	}
	if strings.Contains(string(page.HTML), "作者备注") {
		t.Error("authoring comment leaked into the page")
	}
	if got := doc.Find("a.back-link").AttrOr("href", "-"); got != "../" {
		t.Errorf("back link = %q, want ../", got)
	}
	if len(page.Media) != 1 || page.Media[0] != "images/logo.png" {
		t.Errorf("Media = %v", page.Media)
	}

	nav := doc.Find("nav.sidebar")
	attrs := map[string]string{
		"data-tracker":       "clean",
		"data-auto-hide":     "true",
		"data-near-top":      "100",
		"data-header-offset": "100",
		"data-root-margin":   "-100px 0px -80% 0px",
		"data-threshold":     "0.1",
	}
	for name, want := range attrs {
		if got := nav.AttrOr(name, ""); got != want {
			t.Errorf("%s = %q, want %q", name, got, want)
		}
	}
}

func TestRenderChapter_CustomTracker(t *testing.T) {
	t.Parallel()

	b := mustBuilder(t, WithTracker(tracker.Config{HeaderOffset: 64, BottomPercent: 60}))
	_, doc := renderChapterDoc(t, b, 0, chapterOne)

	nav := doc.Find("nav.sidebar")
	if got := nav.AttrOr("data-header-offset", ""); got != "64" {
		t.Errorf("data-header-offset = %q, want 64", got)
	}
	if got := nav.AttrOr("data-root-margin", ""); got != "-100px 0px -60% 0px" {
		t.Errorf("data-root-margin = %q", got)
	}
	if got := nav.AttrOr("data-near-top", ""); got != "100" {
		t.Errorf("data-near-top = %q, want default 100", got)
	}
}

// TestRenderChapter_TrackerAttributes keeps the sidebar's data-* attributes,
// the tracker parameters and the keys tracker.js reads in step.
func TestRenderChapter_TrackerAttributes(t *testing.T) {
	t.Parallel()

	cfg := tracker.Config{NearTop: 40, HeaderOffset: 72, TopMargin: 56, BottomPercent: 70, Threshold: 0.25}
	b := mustBuilder(t, WithTracker(cfg))
	_, doc := renderChapterDoc(t, b, 0, chapterOne)

	script, err := assets.LoadScript(assets.TrackerScript)
	if err != nil {
		t.Fatalf("LoadScript() error: %v", err)
	}

	nav := doc.Find("nav.sidebar")
	for _, attr := range cfg.DataAttributes() {
		if got, ok := nav.Attr(attr.Name); !ok || got != attr.Value {
			t.Errorf("%s = %q, want %q", attr.Name, got, attr.Value)
		}
		if key := "data." + datasetKey(attr.Name); !strings.Contains(script, key) {
			t.Errorf("tracker.js never reads %s (for %s)", key, attr.Name)
		}
	}
}

func TestRenderChapter_StaleCachedSections(t *testing.T) {
	t.Parallel()

	const msg = "cached sections differ from content"

	tests := []struct {
		name     string
		sections []string
		want     int
	}{
		{"index out of date", []string{"安装", "运行"}, 1},
		{"index matches content", []string{"安装 Python", "运行 `hello.py`"}, 0},
		{"index without sections", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			core, logs := observer.New(zap.DebugLevel)
			b := mustBuilder(t, WithLogger(zap.New(core)))
			idx := mustIndex(t)
			idx.Chapters[0].Sections = tt.sections

			if _, err := b.RenderChapter(context.Background(), idx, 0, chapterOne); err != nil {
				t.Fatalf("RenderChapter() error: %v", err)
			}
			if got := logs.FilterMessage(msg).Len(); got != tt.want {
				t.Errorf("%q logged %d times, want %d", msg, got, tt.want)
			}
		})
	}
}

// datasetKey converts a data-* attribute name to its DOM dataset key.
func datasetKey(name string) string {
	parts := strings.Split(strings.TrimPrefix(name, "data-"), "-")
	for i := 1; i < len(parts); i++ {
		if parts[i] != "" {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}
	return strings.Join(parts, "")
}

func TestRenderChapter_Navigation(t *testing.T) {
	t.Parallel()

	b := mustBuilder(t)

	tests := []struct {
		name     string
		i        int
		md       string
		wantPrev string
		wantNext string
	}{
		{"first", 0, chapterOne, "", "../week-02/"},
		{"middle", 1, chapterTwo, "../week-01/", "../week-03/"},
		{"last", 2, chapterThree, "../week-02/", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, doc := renderChapterDoc(t, b, tt.i, tt.md)

			prev := doc.Find(`a[rel="prev"]`)
			next := doc.Find(`a[rel="next"]`)
			if got := prev.AttrOr("href", ""); got != tt.wantPrev {
				t.Errorf("prev href = %q, want %q", got, tt.wantPrev)
			}
			if got := next.AttrOr("href", ""); got != tt.wantNext {
				t.Errorf("next href = %q, want %q", got, tt.wantNext)
			}
			wantSpacers := 0
			if tt.wantPrev == "" {
				wantSpacers++
			}
			if tt.wantNext == "" {
				wantSpacers++
			}
			if got := doc.Find(".chapter-nav-spacer").Length(); got != wantSpacers {
				t.Errorf("found %d spacers, want %d", got, wantSpacers)
			}
		})
	}
}

func TestRenderChapter_NavigationTitles(t *testing.T) {
	t.Parallel()

	_, doc := renderChapterDoc(t, mustBuilder(t), 1, chapterTwo)

	if got := strings.TrimSpace(doc.Find(`a[rel="prev"] .chapter-nav-title`).Text()); got != "起步" {
		t.Errorf("prev title = %q, want 起步", got)
	}
	if got := strings.TrimSpace(doc.Find(`a[rel="next"] .chapter-nav-title`).Text()); got != "函数" {
		t.Errorf("next title = %q, want 函数", got)
	}
}

func TestRenderChapter_NoSections(t *testing.T) {
	t.Parallel()

	page, doc := renderChapterDoc(t, mustBuilder(t), 2, chapterThree)

	if len(page.Sections) != 0 {
		t.Errorf("Sections = %+v, want none", page.Sections)
	}
	if doc.Find("nav.sidebar").Length() != 1 {
		t.Error("sidebar should still render")
	}
	if got := doc.Find("nav.sidebar li").Length(); got != 0 {
		t.Errorf("sidebar has %d entries, want 0", got)
	}
}

func TestRenderChapter_Themes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		theme       string
		heading     string
		wantHint    bool
		wantNumbers bool
		wantOverlay bool
		wantFolded  bool
	}{
		{"clean", "目录", false, false, false, false},
		{"collapsible", "目录", false, false, true, true},
		{"playful", "目录", true, true, true, true},
		{"classic", "本节目录", false, false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.theme, func(t *testing.T) {
			t.Parallel()

			_, doc := renderChapterDoc(t, mustBuilder(t, WithTheme(tt.theme)), 0, chapterOne)

			if !doc.Find("body").HasClass("theme-" + tt.theme) {
				t.Errorf("body missing class theme-%s", tt.theme)
			}
			nav := doc.Find("nav.sidebar")
			if !nav.HasClass("sidebar-" + tt.theme) {
				t.Errorf("sidebar missing class sidebar-%s", tt.theme)
			}
			if got := strings.TrimSpace(nav.Find(".sidebar-heading").Text()); got != tt.heading {
				t.Errorf("heading = %q, want %q", got, tt.heading)
			}
			if got := nav.Find(".sidebar-hint").Length() == 1; got != tt.wantHint {
				t.Errorf("hint present = %v, want %v", got, tt.wantHint)
			}
			if got := nav.Find(".sidebar-number").Length() > 0; got != tt.wantNumbers {
				t.Errorf("numbers present = %v, want %v", got, tt.wantNumbers)
			}
			if got := doc.Find("[data-dock-overlay]").Length() == 1; got != tt.wantOverlay {
				t.Errorf("overlay present = %v, want %v", got, tt.wantOverlay)
			}
			if got := nav.HasClass("is-collapsed"); got != tt.wantFolded {
				t.Errorf("collapsed = %v, want %v", got, tt.wantFolded)
			}
			wantExpanded := "true"
			if tt.wantFolded {
				wantExpanded = "false"
			}
			if got := nav.Find("[data-dock-toggle]").AttrOr("aria-expanded", ""); got != wantExpanded {
				t.Errorf("aria-expanded = %q, want %q", got, wantExpanded)
			}
		})
	}
}

func TestRenderChapter_Errors(t *testing.T) {
	t.Parallel()

	b := mustBuilder(t)
	idx := mustIndex(t)

	for _, i := range []int{-1, 3} {
		_, err := b.RenderChapter(context.Background(), idx, i, chapterOne)
		if !errors.Is(err, ErrChapterOutOfRange) {
			t.Errorf("RenderChapter(%d) error = %v, want ErrChapterOutOfRange", i, err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := b.RenderChapter(ctx, idx, 0, chapterOne)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("RenderChapter(cancelled) error = %v, want context.Canceled", err)
	}
}

func TestRenderChapter_BaseURL(t *testing.T) {
	t.Parallel()

	b := mustBuilder(t, WithBaseURL("https://example.com/course"))
	_, doc := renderChapterDoc(t, b, 1, chapterTwo)

	if got := doc.Find(`a[rel="next"]`).AttrOr("href", ""); got != "https://example.com/course/week-03/" {
		t.Errorf("next href = %q", got)
	}
	if got := doc.Find("link[rel=stylesheet]").AttrOr("href", ""); !strings.HasPrefix(got, "https://example.com/course/assets/") {
		t.Errorf("stylesheet href = %q", got)
	}
}

// ---------------------------------------------------------------------------
// TestRenderHome - Landing Page
// ---------------------------------------------------------------------------

func TestRenderHome(t *testing.T) {
	t.Parallel()

	b := mustBuilder(t, WithSiteInfo(SiteInfo{
		Tagline:     "零基础",
		Description: "十六周入门课程",
		Highlights:  []string{"练习", "项目"},
		FooterNote:  "© 2026",
	}))
	html, err := b.RenderHome(mustIndex(t))
	if err != nil {
		t.Fatalf("RenderHome() error: %v", err)
	}
	doc := mustDoc(t, html)

	if got := doc.Find("title").Text(); got != "Python 程序设计" {
		t.Errorf("title = %q", got)
	}
	if got := doc.Find(".hero h1").Text(); got != "Python 程序设计" {
		t.Errorf("hero title = %q", got)
	}
	if got := doc.Find(".hero-badge").Text(); got != "零基础" {
		t.Errorf("tagline = %q", got)
	}
	if got := doc.Find(".hero-highlights li").Length(); got != 2 {
		t.Errorf("found %d highlights, want 2", got)
	}
	if got := doc.Find(`meta[name="description"]`).AttrOr("content", ""); got != "十六周入门课程" {
		t.Errorf("meta description = %q", got)
	}
	if doc.Find("script").Length() != 0 {
		t.Error("landing page should not load chapter scripts")
	}

	stages := doc.Find(".stage")
	if stages.Length() != 2 {
		t.Fatalf("found %d stages, want 2", stages.Length())
	}
	if got := stages.First().Find(".stage-weeks li").Length(); got != 2 {
		t.Errorf("first stage lists %d weeks, want 2", got)
	}
	if got := stages.First().Find(".stage-weeks li").First().Text(); got != "Week 01" {
		t.Errorf("week chip = %q, want %q", got, "Week 01")
	}

	cards := doc.Find("a.chapter-card")
	if cards.Length() != 3 {
		t.Fatalf("found %d cards, want 3", cards.Length())
	}
	wantHrefs := []string{"week-01/", "week-02/", "week-03/"}
	wantTitles := []string{"起步", "变量", "函数"}
	cards.Each(func(i int, s *goquery.Selection) {
		if got := s.AttrOr("href", ""); got != wantHrefs[i] {
			t.Errorf("card[%d] href = %q, want %q", i, got, wantHrefs[i])
		}
		if got := strings.TrimSpace(s.Find("h3").Text()); got != wantTitles[i] {
			t.Errorf("card[%d] title = %q, want %q", i, got, wantTitles[i])
		}
	})
	if got := cards.First().Find(".chapter-code").Text(); got != "3" {
		t.Errorf("code block count = %q, want 3", got)
	}
	if cards.Eq(1).Find(".chapter-code").Length() != 0 {
		t.Error("chapter without code blocks should not show a count")
	}
}

func TestRenderHome_SiteTitleOverridesSyllabus(t *testing.T) {
	t.Parallel()

	b := mustBuilder(t, WithSiteInfo(SiteInfo{Title: "我的课程", Lang: "en"}))
	html, err := b.RenderHome(mustIndex(t))
	if err != nil {
		t.Fatalf("RenderHome() error: %v", err)
	}
	doc := mustDoc(t, html)

	if got := doc.Find("title").Text(); got != "我的课程" {
		t.Errorf("title = %q, want 我的课程", got)
	}
	if got := doc.Find("html").AttrOr("lang", ""); got != "en" {
		t.Errorf("lang = %q, want en", got)
	}
}

func TestRenderHome_InvalidIndex(t *testing.T) {
	t.Parallel()

	_, err := mustBuilder(t).RenderHome(&Index{})
	if !errors.Is(err, ErrMalformedIndex) {
		t.Errorf("RenderHome() error = %v, want ErrMalformedIndex", err)
	}
}

// ---------------------------------------------------------------------------
// TestBuild - Site Output
// ---------------------------------------------------------------------------

func TestBuild(t *testing.T) {
	t.Parallel()

	content := writeCourse(t)
	out := filepath.Join(t.TempDir(), "site")

	result, err := mustBuilder(t, WithWorkers(2)).Build(context.Background(), Site{
		ContentDir: content,
		OutputDir:  out,
	})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	if len(result.Pages) != 3 {
		t.Errorf("len(Pages) = %d, want 3", len(result.Pages))
	}
	for i, p := range result.Pages {
		if p.Chapter.Week != result.Index.Chapters[i].Week {
			t.Errorf("Pages[%d] is week %q, want index order", i, p.Chapter.Week)
		}
	}

	for _, rel := range []string{
		"index.html",
		"week-01/index.html",
		"week-02/index.html",
		"week-03/index.html",
		"week-01/images/logo.png",
	} {
		if _, err := os.Stat(filepath.Join(out, filepath.FromSlash(rel))); err != nil {
			t.Errorf("missing %s: %v", rel, err)
		}
	}

	assets, err := os.ReadDir(filepath.Join(out, assetDir))
	if err != nil {
		t.Fatalf("reading assets: %v", err)
	}
	if len(assets) != 3 {
		t.Errorf("found %d assets, want 3", len(assets))
	}
	if result.Warnings != 0 {
		t.Errorf("Warnings = %d, want 0", result.Warnings)
	}
}

func TestBuild_MissingMediaIsWarning(t *testing.T) {
	t.Parallel()

	content := writeCourse(t)
	if err := os.Remove(filepath.Join(content, "week_01", "images", "logo.png")); err != nil {
		t.Fatal(err)
	}

	result, err := mustBuilder(t).Build(context.Background(), Site{
		ContentDir: content,
		OutputDir:  filepath.Join(t.TempDir(), "site"),
	})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if result.Warnings != 1 {
		t.Errorf("Warnings = %d, want 1", result.Warnings)
	}
}

func TestBuild_Clean(t *testing.T) {
	t.Parallel()

	content := writeCourse(t)
	out := t.TempDir()
	writeTestFile(t, filepath.Join(out, "week-99", "index.html"), "stale")
	writeTestFile(t, filepath.Join(out, "CNAME"), "example.com")

	_, err := mustBuilder(t).Build(context.Background(), Site{
		ContentDir: content,
		OutputDir:  out,
		Clean:      true,
	})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(out, "week-99")); !os.IsNotExist(err) {
		t.Error("stale chapter directory should be removed")
	}
	if _, err := os.Stat(filepath.Join(out, "CNAME")); err != nil {
		t.Error("unrelated files should be kept")
	}
}

func TestBuild_FailureWritesNothing(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(t *testing.T, content string)
		wantErr error
	}{
		{
			name: "missing chapter",
			mutate: func(t *testing.T, content string) {
				if err := os.Remove(filepath.Join(content, "week_02", "CHAPTER.md")); err != nil {
					t.Fatal(err)
				}
			},
			wantErr: ErrChapterNotFound,
		},
		{
			name: "missing index",
			mutate: func(t *testing.T, content string) {
				if err := os.Remove(filepath.Join(content, DefaultIndexName)); err != nil {
					t.Fatal(err)
				}
			},
			wantErr: ErrIndexNotFound,
		},
		{
			name: "malformed index",
			mutate: func(t *testing.T, content string) {
				writeTestFile(t, filepath.Join(content, DefaultIndexName), `{"chapters": []}`)
			},
			wantErr: ErrMalformedIndex,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			content := writeCourse(t)
			tt.mutate(t, content)
			out := filepath.Join(t.TempDir(), "site")

			_, err := mustBuilder(t).Build(context.Background(), Site{ContentDir: content, OutputDir: out})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Build() error = %v, want %v", err, tt.wantErr)
			}
			if _, err := os.Stat(out); !os.IsNotExist(err) {
				t.Error("output directory should not be created on failure")
			}
		})
	}
}

func TestBuild_ExplicitIndexPath(t *testing.T) {
	t.Parallel()

	content := writeCourse(t)
	indexPath := filepath.Join(t.TempDir(), "structure.json")
	writeTestFile(t, indexPath, sampleIndex)
	if err := os.Remove(filepath.Join(content, DefaultIndexName)); err != nil {
		t.Fatal(err)
	}

	result, err := mustBuilder(t).Build(context.Background(), Site{
		ContentDir: content,
		IndexPath:  indexPath,
		OutputDir:  t.TempDir(),
	})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if len(result.Pages) != 3 {
		t.Errorf("len(Pages) = %d, want 3", len(result.Pages))
	}
}

func TestBuild_EmptyOutputDir(t *testing.T) {
	t.Parallel()

	_, err := mustBuilder(t).Build(context.Background(), Site{ContentDir: writeCourse(t)})
	if !errors.Is(err, ErrOutputWrite) {
		t.Errorf("Build() error = %v, want ErrOutputWrite", err)
	}
}
