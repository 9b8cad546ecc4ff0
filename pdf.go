package textbook

import (
	"context"
	"fmt"
	"html"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/alnah/go-textbook/internal/fileutil"
	"github.com/alnah/go-textbook/internal/process"
)

// DefaultPDFTimeout bounds loading and printing one chapter page.
const DefaultPDFTimeout = 30 * time.Second

// pdfRenderer abstracts PDF rendering from an HTML file to enable testing without a browser.
type pdfRenderer interface {
	RenderFromFile(ctx context.Context, filePath string, footer string) ([]byte, error)
	Close() error
}

// PDF page dimensions in inches (A4).
const (
	paperWidthInches  = 8.27
	paperHeightInches = 11.69
	marginInches      = 0.5
	marginBottom      = 0.75 // room for the page number footer
)

const footerFontFamily = "sans-serif"

// rodRenderer implements pdfRenderer using go-rod.
// Rod automatically downloads Chromium on first run if not found.
type rodRenderer struct {
	mu       sync.Mutex
	launcher *launcher.Launcher
	browser  *rod.Browser
	timeout  time.Duration
}

// newRodRenderer creates a rodRenderer with the given page timeout.
func newRodRenderer(timeout time.Duration) *rodRenderer {
	if timeout <= 0 {
		timeout = DefaultPDFTimeout
	}
	return &rodRenderer{timeout: timeout}
}

// ensureBrowser lazily connects to the browser.
func (r *rodRenderer) ensureBrowser() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.browser != nil {
		return nil
	}

	l := launcher.New()

	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}
	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	r.launcher = l
	r.browser = browser
	return nil
}

// Close releases browser resources.
func (r *rodRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var err error
	if r.browser != nil {
		err = r.browser.Close()
		r.browser = nil
	}
	if r.launcher != nil {
		// Chrome forks helpers that outlive a plain kill of the main process.
		if pid := r.launcher.PID(); pid > 0 {
			process.KillTree(pid)
		}
		r.launcher.Kill()
		r.launcher.Cleanup()
		r.launcher = nil
	}
	return err
}

// RenderFromFile opens a generated page in headless Chrome and prints it.
// The print stylesheet hides the sidebar, the copy buttons and the chapter
// navigation. Returns explicit errors instead of panicking when browser
// operations fail.
func (r *rodRenderer) RenderFromFile(ctx context.Context, filePath string, footer string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := r.ensureBrowser(); err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	page, err := r.browser.Page(proto.TargetCreateTarget{URL: "file://" + filepath.ToSlash(abs)})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer func() { _ = page.Close() }()

	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}

	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, err := page.PDF(buildPDFOptions(footer))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}
	pdf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	return pdf, nil
}

// buildPDFOptions constructs proto.PagePrintToPDF with a page-number footer.
func buildPDFOptions(footer string) *proto.PagePrintToPDF {
	return &proto.PagePrintToPDF{
		PaperWidth:          floatPtr(paperWidthInches),
		PaperHeight:         floatPtr(paperHeightInches),
		MarginTop:           floatPtr(marginInches),
		MarginBottom:        floatPtr(marginBottom),
		MarginLeft:          floatPtr(marginInches),
		MarginRight:         floatPtr(marginInches),
		PrintBackground:     true,
		DisplayHeaderFooter: true,
		HeaderTemplate:      "<span></span>",
		FooterTemplate:      buildFooterTemplate(footer),
	}
}

// buildFooterTemplate generates Chrome's native footer: the chapter title on
// the left and pageNumber/totalPages on the right.
func buildFooterTemplate(title string) string {
	left := ""
	if title != "" {
		left = fmt.Sprintf(`<span style="float: left;">%s</span>`, html.EscapeString(title))
	}
	return fmt.Sprintf(`<div style="font-size: 9px; font-family: %s; color: #aaa; width: 100%%; padding: 0 0.5in;">%s<span style="float: right;"><span class="pageNumber"></span>/<span class="totalPages"></span></span></div>`,
		footerFontFamily, left)
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}

// Export locates a built site and the PDF destination.
type Export struct {
	SiteDir string        // output directory of a previous Build
	PDFDir  string        // destination; empty means SiteDir/pdf
	Workers int           // parallel browsers; zero resolves from GOMAXPROCS
	Timeout time.Duration // per chapter; zero means DefaultPDFTimeout
}

func (e Export) pdfDir() string {
	if e.PDFDir != "" {
		return e.PDFDir
	}
	return filepath.Join(e.SiteDir, "pdf")
}

// ExportPDF prints every chapter page of a built site to {week-XX}.pdf.
// Pages must have been built without a base URL so that the stylesheet
// resolves from the filesystem. Returns the written PDF paths in index order.
func (b *Builder) ExportPDF(ctx context.Context, idx *Index, e Export) ([]string, error) {
	if err := idx.Validate(); err != nil {
		return nil, err
	}
	if b.cfg.baseURL != "" {
		b.logger.Warn("pages use absolute links; styles may not load from disk", zap.String("base_url", b.cfg.baseURL))
	}

	factory := b.newRenderer
	if factory == nil {
		factory = func(d time.Duration) pdfRenderer { return newRodRenderer(d) }
	}
	n := min(ResolvePoolSize(e.Workers), len(idx.Chapters))
	pool := newPrinterPool(n, func() pdfRenderer { return factory(e.Timeout) })
	defer func() {
		if err := pool.close(); err != nil {
			b.logger.Warn("closing browsers", zap.Error(err))
		}
	}()

	outDir := e.pdfDir()
	written := make([]string, len(idx.Chapters))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(n)
	for i, ch := range idx.Chapters {
		g.Go(func() error {
			page, err := fileutil.Within(e.SiteDir, filepath.Join(ch.Slug(), "index.html"))
			if err != nil {
				return err
			}
			if !fileutil.FileExists(page) {
				return fmt.Errorf("%w: %s (run build first)", ErrChapterNotFound, page)
			}

			r := pool.acquire()
			pdf, err := r.RenderFromFile(gctx, page, ch.Title)
			pool.release(r)
			if err != nil {
				return fmt.Errorf("week %q: %w", ch.Week, err)
			}

			dst := filepath.Join(outDir, ch.Slug()+".pdf")
			if err := fileutil.WriteFile(dst, pdf); err != nil {
				return fmt.Errorf("%w: %v", ErrOutputWrite, err)
			}
			written[i] = dst
			b.logger.Info("chapter printed", zap.String("chapter", ch.Slug()), zap.Int("bytes", len(pdf)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return written, nil
}
