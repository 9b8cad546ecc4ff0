//go:build integration

package textbook

// Notes:
// - Runs against a real headless Chrome (go-rod downloads one if needed)
// - ExportPDF: prints the built sample course
// - tracker.js / copy.js: drives generated pages and checks the DOM state the
//   scripts maintain

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// ---------------------------------------------------------------------------
// Test Configuration
// ---------------------------------------------------------------------------

// testTimeout is the standard timeout for browser operations.
const testTimeout = 30 * time.Second

// openPage builds the course with opts and opens chapter week in Chrome.
// The browser is closed via t.Cleanup().
func openPage(t *testing.T, week string, opts ...Option) *rod.Page {
	t.Helper()

	b := mustBuilder(t, opts...)
	out := filepath.Join(t.TempDir(), "site")
	if _, err := b.Build(context.Background(), Site{ContentDir: writeCourse(t), OutputDir: out}); err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	r := newRodRenderer(testTimeout)
	if err := r.ensureBrowser(); err != nil {
		t.Fatalf("starting browser: %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })

	abs, err := filepath.Abs(filepath.Join(out, "week-"+week, "index.html"))
	if err != nil {
		t.Fatal(err)
	}
	page, err := r.browser.Page(proto.TargetCreateTarget{URL: "file://" + filepath.ToSlash(abs)})
	if err != nil {
		t.Fatalf("opening page: %v", err)
	}
	if err := page.Timeout(testTimeout).WaitLoad(); err != nil {
		t.Fatalf("loading page: %v", err)
	}
	return page
}

func evalBool(t *testing.T, page *rod.Page, js string) bool {
	t.Helper()
	res, err := page.Eval(js)
	if err != nil {
		t.Fatalf("Eval(%s): %v", js, err)
	}
	return res.Value.Bool()
}

func evalStr(t *testing.T, page *rod.Page, js string) string {
	t.Helper()
	res, err := page.Eval(js)
	if err != nil {
		t.Fatalf("Eval(%s): %v", js, err)
	}
	return res.Value.Str()
}

// ---------------------------------------------------------------------------
// TestExportPDF_Chrome - Real Printing
// ---------------------------------------------------------------------------

func TestExportPDF_Chrome(t *testing.T) {
	b, idx, site := builtSite(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*testTimeout)
	defer cancel()

	written, err := b.ExportPDF(ctx, idx, Export{SiteDir: site, Workers: 2, Timeout: testTimeout})
	if err != nil {
		t.Fatalf("ExportPDF() error: %v", err)
	}
	for _, path := range written {
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("reading %s: %v", path, err)
		}
		if !bytes.HasPrefix(data, []byte("%PDF")) {
			t.Errorf("%s is not a PDF", path)
		}
	}
}

// ---------------------------------------------------------------------------
// TestTrackerScript - Sidebar Behavior
// ---------------------------------------------------------------------------

func TestTrackerScript_Dock(t *testing.T) {
	page := openPage(t, "01", WithTheme("playful"))

	collapsed := `() => document.querySelector('nav.sidebar').classList.contains('is-collapsed')`
	overlayHidden := `() => document.querySelector('[data-dock-overlay]').hidden`

	if !evalBool(t, page, collapsed) {
		t.Fatal("playful sidebar should start collapsed")
	}

	_ = evalBool(t, page, `() => { document.querySelector('[data-dock-toggle]').click(); return true }`)
	if evalBool(t, page, collapsed) {
		t.Error("toggle should expand the dock")
	}
	if evalBool(t, page, overlayHidden) {
		t.Error("overlay should show while the dock is open")
	}
	if got := evalStr(t, page, `() => document.querySelector('[data-dock-toggle]').getAttribute('aria-expanded')`); got != "true" {
		t.Errorf("aria-expanded = %q, want true", got)
	}

	_ = evalBool(t, page, `() => { document.querySelector('[data-dock-overlay]').click(); return true }`)
	if !evalBool(t, page, collapsed) {
		t.Error("overlay click should collapse the dock")
	}
}

func TestTrackerScript_JumpCollapsesAndSetsHash(t *testing.T) {
	page := openPage(t, "01", WithTheme("collapsible"))

	_ = evalBool(t, page, `() => { document.querySelector('[data-dock-toggle]').click(); return true }`)
	_ = evalBool(t, page, `() => { document.querySelector('a[data-section="section-1"]').click(); return true }`)

	if got := evalStr(t, page, `() => location.hash`); got != "#section-1" {
		t.Errorf("location.hash = %q, want #section-1", got)
	}
	if !evalBool(t, page, `() => document.querySelector('nav.sidebar').classList.contains('is-collapsed')`) {
		t.Error("jumping should collapse the dock")
	}
}

func TestTrackerScript_AutoHide(t *testing.T) {
	page := openPage(t, "02")

	// Make the page tall enough to scroll.
	_ = evalBool(t, page, `() => { document.body.style.minHeight = '5000px'; return true }`)

	hidden := `() => document.querySelector('nav.sidebar').classList.contains('is-hidden')`
	scroll := func(y int) {
		t.Helper()
		if _, err := page.Eval(`(y) => window.scrollTo(0, y)`, y); err != nil {
			t.Fatal(err)
		}
		// Scroll events are dispatched on the next frame.
		if err := page.WaitRepaint(); err != nil {
			t.Fatal(err)
		}
	}

	scroll(600)
	if !evalBool(t, page, hidden) {
		t.Error("scrolling down past the top should hide the sidebar")
	}
	scroll(300)
	if evalBool(t, page, hidden) {
		t.Error("scrolling up should show the sidebar")
	}
	scroll(900)
	scroll(50)
	if evalBool(t, page, hidden) {
		t.Error("near the top the sidebar should be visible")
	}
}

// ---------------------------------------------------------------------------
// TestCopyScript - Copy Button
// ---------------------------------------------------------------------------

func TestCopyScript_FailureKeepsLabel(t *testing.T) {
	page := openPage(t, "01")

	// Headless file:// pages have no clipboard permission; stub a rejection.
	_ = evalBool(t, page, `() => {
		Object.defineProperty(navigator, 'clipboard', { value: { writeText: () => Promise.reject(new Error('denied')) } });
		document.querySelector('button.code-copy').click();
		return true;
	}`)
	if err := page.WaitRepaint(); err != nil {
		t.Fatal(err)
	}
	if got := evalStr(t, page, `() => document.querySelector('button.code-copy').textContent`); got != "复制" {
		t.Errorf("label after failed copy = %q, want 复制", got)
	}
}

func TestCopyScript_SuccessSwapsLabel(t *testing.T) {
	page := openPage(t, "01")

	_ = evalBool(t, page, `() => {
		window.__copied = null;
		Object.defineProperty(navigator, 'clipboard', { value: { writeText: (s) => { window.__copied = s; return Promise.resolve(); } } });
		document.querySelector('button.code-copy').click();
		return true;
	}`)
	if err := page.WaitRepaint(); err != nil {
		t.Fatal(err)
	}
	if got := evalStr(t, page, `() => window.__copied`); got != `print("你好")` {
		t.Errorf("copied text = %q", got)
	}
	if got := evalStr(t, page, `() => document.querySelector('button.code-copy').textContent`); got != "已复制" {
		t.Errorf("label after copy = %q, want 已复制", got)
	}
}
