package textbook

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-textbook/internal/assets"
	"github.com/alnah/go-textbook/internal/fileutil"
	"github.com/alnah/go-textbook/internal/pipeline"
	"github.com/alnah/go-textbook/internal/theme"
	"github.com/alnah/go-textbook/internal/tracker"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.MarkdownPreprocessor = (*pipeline.LessonPreprocessor)(nil)
	_ pipeline.HTMLConverter        = (*pipeline.GoldmarkConverter)(nil)
	_ pdfRenderer                   = (*rodRenderer)(nil)
)

// DefaultIndexName is the structural index file looked up in the content root.
const DefaultIndexName = ".structure-cache.json"

// Site locates the input and output of a build.
type Site struct {
	ContentDir string // root that chapter files are relative to
	IndexPath  string // structural index; empty means ContentDir/.structure-cache.json
	OutputDir  string // generated site
	Clean      bool   // remove previously generated pages and assets first
}

func (s Site) indexPath() string {
	if s.IndexPath != "" {
		return s.IndexPath
	}
	return filepath.Join(s.ContentDir, DefaultIndexName)
}

// ChapterPage is one rendered chapter.
type ChapterPage struct {
	Chapter    Chapter
	Path       string    // output path relative to the site root
	HTML       []byte    // complete document
	Sections   []Section // extracted level-2 headings
	Anchors    []string  // ids assigned to headings
	Misses     []string  // headings that matched no section
	Dead       []string  // sidebar targets with no element in the body
	Media      []string  // local media referenced by the lesson
	CodeBlocks int
}

// BuildResult summarizes a completed build.
type BuildResult struct {
	Index    *Index
	Pages    []*ChapterPage
	Files    []string // written files, relative to the output directory
	Warnings int
	Duration time.Duration
}

// Builder renders a structural index and its chapters into a static site.
// Create with NewBuilder; a Builder is safe for concurrent use.
type Builder struct {
	cfg           builderConfig
	logger        *zap.Logger
	theme         theme.Theme
	assetLoader   assets.AssetLoader
	preprocessor  pipeline.MarkdownPreprocessor
	htmlConverter pipeline.HTMLConverter
	templates     *template.Template
	bundle        *assetBundle
	newRenderer   func(timeout time.Duration) pdfRenderer
}

// NewBuilder creates a Builder. Options customize theme, labels, assets and
// logging. Returns an error if the theme is unknown, the asset path is
// invalid or an asset fails to load.
func NewBuilder(opts ...Option) (*Builder, error) {
	cfg := builderConfig{
		themeName:      theme.Default,
		targetLanguage: pipeline.DefaultTargetLanguage,
		highlightStyle: pipeline.DefaultHighlightStyle,
		labels:         DefaultLabels(),
		site:           SiteInfo{Lang: "zh-CN"},
		logger:         zap.NewNop(),
		tracker:        tracker.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	th, err := theme.Get(cfg.themeName)
	if err != nil {
		return nil, err
	}

	b := &Builder{
		cfg:          cfg,
		logger:       cfg.logger,
		theme:        th,
		assetLoader:  assets.NewEmbeddedLoader(),
		preprocessor: &pipeline.LessonPreprocessor{},
	}

	if cfg.assetPath != "" {
		resolver, err := assets.NewAssetResolver(cfg.assetPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
		}
		b.assetLoader = resolver
	}

	converter := pipeline.NewGoldmarkConverter(
		pipeline.WithTargetLanguage(cfg.targetLanguage),
		pipeline.WithHighlightStyle(cfg.highlightStyle),
		pipeline.WithCopyLabels(cfg.labels.Copy, cfg.labels.Copied),
	)
	b.htmlConverter = converter

	highlightCSS, err := converter.HighlightCSS()
	if err != nil {
		return nil, fmt.Errorf("generating highlight stylesheet: %w", err)
	}
	if b.bundle, err = b.loadBundle(highlightCSS); err != nil {
		return nil, err
	}

	ts, err := assets.LoadTemplateSet(b.assetLoader)
	if err != nil {
		return nil, fmt.Errorf("loading templates: %w", err)
	}
	if b.templates, err = parseTemplates(ts); err != nil {
		return nil, err
	}

	return b, nil
}

// loadBundle assembles and fingerprints the site stylesheet and scripts.
func (b *Builder) loadBundle(highlightCSS string) (*assetBundle, error) {
	css, err := assets.SiteStylesheet(b.assetLoader, b.theme.Stylesheet(), highlightCSS)
	if err != nil {
		return nil, fmt.Errorf("loading stylesheet: %w", err)
	}
	bundle := &assetBundle{Stylesheet: fingerprint("site", ".css", []byte(css))}

	for _, name := range []string{assets.TrackerScript, assets.CopyScript} {
		js, err := b.assetLoader.LoadScript(name)
		if err != nil {
			return nil, fmt.Errorf("loading script: %w", err)
		}
		bundle.Scripts = append(bundle.Scripts, fingerprint(name, ".js", []byte(js)))
	}
	return bundle, nil
}

// Theme returns the resolved sidebar theme.
func (b *Builder) Theme() theme.Theme { return b.theme }

// Build renders the whole site. Every page is rendered in memory before
// anything is written, so a missing or malformed input leaves the output
// directory untouched. Recovers from internal panics to prevent crashes
// from propagating to callers.
func (b *Builder) Build(ctx context.Context, site Site) (result *BuildResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	start := time.Now()
	if site.OutputDir == "" {
		return nil, fmt.Errorf("%w: %v", ErrOutputWrite, fileutil.ErrEmptyPath)
	}

	idx, err := LoadIndex(site.indexPath())
	if err != nil {
		return nil, err
	}
	if unknown := idx.UnknownStageWeeks(); len(unknown) > 0 {
		b.logger.Warn("syllabus names weeks without a chapter", zap.Strings("weeks", unknown))
	}

	store := NewStore(site.ContentDir)
	pages, err := b.renderChapters(ctx, idx, store)
	if err != nil {
		return nil, err
	}
	home, err := b.RenderHome(idx)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result = &BuildResult{Index: idx, Pages: pages}
	if site.Clean {
		if err := cleanOutput(site.OutputDir); err != nil {
			return nil, err
		}
	}
	if err := b.write(site.OutputDir, "index.html", home, result); err != nil {
		return nil, err
	}
	for _, a := range b.bundle.files() {
		if err := b.write(site.OutputDir, a.Path, a.Content, result); err != nil {
			return nil, err
		}
	}
	for _, p := range pages {
		if err := b.write(site.OutputDir, p.Path, p.HTML, result); err != nil {
			return nil, err
		}
		result.Warnings += len(p.Misses) + len(p.Dead)
		result.Warnings += b.copyMedia(store, site.OutputDir, p, result)
	}

	result.Duration = time.Since(start)
	b.logger.Info("site built",
		zap.String("output", site.OutputDir),
		zap.Int("chapters", len(pages)),
		zap.Int("files", len(result.Files)),
		zap.Int("warnings", result.Warnings),
		zap.Duration("duration", result.Duration),
	)
	return result, nil
}

// renderChapters reads and renders every chapter with bounded parallelism.
// The first failure cancels the remaining work.
func (b *Builder) renderChapters(ctx context.Context, idx *Index, store *Store) ([]*ChapterPage, error) {
	pages := make([]*ChapterPage, len(idx.Chapters))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ResolvePoolSize(b.cfg.workers))
	for i, ch := range idx.Chapters {
		g.Go(func() error {
			md, err := store.ReadChapter(ch)
			if err != nil {
				return err
			}
			page, err := b.RenderChapter(gctx, idx, i, md)
			if err != nil {
				return fmt.Errorf("week %q: %w", ch.Week, err)
			}
			pages[i] = page
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return pages, nil
}

// RenderChapter renders chapter i of idx from its Markdown source without
// touching the filesystem.
func (b *Builder) RenderChapter(ctx context.Context, idx *Index, i int, markdown string) (*ChapterPage, error) {
	if idx == nil || i < 0 || i >= len(idx.Chapters) {
		return nil, fmt.Errorf("%w: %d", ErrChapterOutOfRange, i)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ch := idx.Chapters[i]
	log := b.logger.With(zap.String("chapter", ch.Slug()))

	content := b.preprocessor.PreprocessMarkdown(ctx, markdown)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	titles := pipeline.ExtractSections(content)
	res, err := b.htmlConverter.ToHTML(ctx, content, titles)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("converting to HTML: %w", err)
	}

	for _, miss := range res.Misses {
		log.Warn("heading matched no section", zap.String("heading", miss))
	}
	dead, err := pipeline.DeadAnchors(res.HTML, len(titles))
	if err != nil {
		return nil, fmt.Errorf("checking anchors: %w", err)
	}
	for _, id := range dead {
		log.Warn("sidebar entry has no target", zap.String("anchor", id))
	}
	media, err := pipeline.LocalMedia(res.HTML)
	if err != nil {
		return nil, fmt.Errorf("collecting media: %w", err)
	}
	if len(ch.Sections) > 0 && !slices.Equal(ch.Sections, titles) {
		log.Debug("cached sections differ from content", zap.Int("cached", len(ch.Sections)), zap.Int("extracted", len(titles)))
	}

	sections := SectionsOf(titles)
	doc, err := b.execute(b.chapterPage(idx, i, sections, res.HTML))
	if err != nil {
		return nil, err
	}

	log.Debug("chapter rendered",
		zap.Int("sections", len(sections)),
		zap.Int("code_blocks", res.CodeBlocks),
	)
	return &ChapterPage{
		Chapter:    ch,
		Path:       ch.Slug() + "/index.html",
		HTML:       doc,
		Sections:   sections,
		Anchors:    res.Anchors,
		Misses:     res.Misses,
		Dead:       dead,
		Media:      media,
		CodeBlocks: res.CodeBlocks,
	}, nil
}

// RenderHome renders the landing page.
func (b *Builder) RenderHome(idx *Index) ([]byte, error) {
	if err := idx.Validate(); err != nil {
		return nil, err
	}
	return b.execute(b.homePage(idx))
}

// write stores one output file and records it in result.
func (b *Builder) write(outDir, rel string, data []byte, result *BuildResult) error {
	dst, err := fileutil.Within(outDir, filepath.FromSlash(rel))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrOutputWrite, err)
	}
	if err := fileutil.WriteFile(dst, data); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrOutputWrite, rel, err)
	}
	result.Files = append(result.Files, rel)
	return nil
}

// copyMedia copies the lesson's local images and videos next to its page.
// Missing media is logged and counted, never fatal.
func (b *Builder) copyMedia(store *Store, outDir string, p *ChapterPage, result *BuildResult) (warnings int) {
	if len(p.Media) == 0 {
		return 0
	}
	srcDir, err := store.Dir(p.Chapter)
	if err != nil {
		return 0
	}
	pageDir := filepath.Join(outDir, p.Chapter.Slug())
	log := b.logger.With(zap.String("chapter", p.Chapter.Slug()))

	for _, rel := range p.Media {
		src, err := fileutil.Within(srcDir, filepath.FromSlash(rel))
		if err != nil || !fileutil.FileExists(src) {
			log.Warn("media not found", zap.String("src", rel))
			warnings++
			continue
		}
		dst, err := fileutil.Within(pageDir, filepath.FromSlash(rel))
		if err != nil {
			log.Warn("media path rejected", zap.String("src", rel), zap.Error(err))
			warnings++
			continue
		}
		if err := fileutil.CopyFile(src, dst); err != nil {
			log.Warn("media copy failed", zap.String("src", rel), zap.Error(err))
			warnings++
			continue
		}
		result.Files = append(result.Files, p.Chapter.Slug()+"/"+rel)
	}
	return warnings
}

// cleanOutput removes what a previous build generated: the landing page,
// the asset directory and week-* page directories. Other files are kept.
func cleanOutput(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrOutputWrite, err)
	}
	for _, e := range entries {
		name := e.Name()
		generated := name == "index.html" ||
			(e.IsDir() && (name == assetDir || strings.HasPrefix(name, "week-")))
		if !generated {
			continue
		}
		if err := os.RemoveAll(filepath.Join(dir, name)); err != nil {
			return fmt.Errorf("%w: cleaning %s: %v", ErrOutputWrite, name, err)
		}
	}
	return nil
}
