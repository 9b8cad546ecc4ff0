// Package textbook renders a course of Markdown lessons into a static site.
//
// # Quick Start
//
// Create a builder and build the site described by a structural index:
//
//	b, err := textbook.NewBuilder()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := b.Build(ctx, textbook.Site{
//	    ContentDir: "course",
//	    OutputDir:  "site",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(len(result.Pages), "chapters")
//
// The index (course/.structure-cache.json by default) lists the syllabus and
// the chapters in reading order. Each chapter becomes site/week-XX/index.html
// and the syllabus becomes site/index.html.
//
// # Rendering Pipeline
//
// Every chapter goes through these stages:
//
//  1. Markdown preprocessing (line endings, authoring comments)
//  2. Section extraction: level-2 headings, in order, outside code fences
//  3. Markdown to HTML via Goldmark (GFM), assigning section-i anchors and
//     adding copy buttons to code blocks in the target language
//  4. Page templating: sidebar, article and chapter navigation
//
// Nothing is written until every page renders, so a missing chapter or a
// malformed index leaves the output directory untouched.
//
// # Configuration
//
// Use functional options to customize the builder:
//
//	b, err := textbook.NewBuilder(
//	    textbook.WithTheme("playful"),
//	    textbook.WithTargetLanguage("go"),
//	    textbook.WithLabels(textbook.Labels{Copy: "Copy", Copied: "Copied!"}),
//	    textbook.WithAssetPath("/path/to/custom/assets"),
//	)
//
// # Sidebar Themes
//
// One sidebar component is parameterized by theme: clean (floating rail that
// hides while scrolling down), collapsible and playful (drawers with an
// overlay) and classic (sticky column). All highlight the section in view.
//
// # Custom Assets
//
// Override built-in styles, scripts and templates file by file:
//
//	assets/
//	├── styles/
//	│   ├── base.css
//	│   └── clean.css
//	├── scripts/
//	│   └── tracker.js
//	└── templates/
//	    └── sidebar.html
//
// # PDF Export
//
// ExportPDF prints built chapter pages through headless Chrome (go-rod). Rod
// downloads a managed Chromium on first run. Use ROD_BROWSER_BIN to specify a
// custom Chrome binary; the sandbox is disabled when it is set or when CI=true.
package textbook
