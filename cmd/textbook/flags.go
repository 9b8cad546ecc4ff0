package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config    string
	quiet     bool
	verbose   bool
	logFormat string
}

// contentFlags locate the course and the generated site.
type contentFlags struct {
	contentDir string
	index      string
	output     string
}

// renderFlags control how pages are rendered.
type renderFlags struct {
	theme     string
	language  string
	style     string
	baseURL   string
	assetPath string
	workers   int
	clean     bool
}

// buildFlags holds flags for the build command.
type buildFlags struct {
	common  commonFlags
	content contentFlags
	render  renderFlags
}

// serveFlags holds flags for the serve command.
type serveFlags struct {
	buildFlags
	addr    string
	watch   bool
	noBuild bool
}

// pdfFlags holds flags for the pdf command.
type pdfFlags struct {
	common  commonFlags
	content contentFlags
	pdfDir  string
	timeout string
	workers int
}

// initFlags holds flags for the init command.
type initFlags struct {
	force bool
}

func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs")
	fs.StringVar(&f.logFormat, "log-format", "", "log encoding: console, json")
}

func addContentFlags(fs *flag.FlagSet, f *contentFlags) {
	fs.StringVar(&f.contentDir, "content", "", "course directory holding the chapters")
	fs.StringVar(&f.index, "index", "", "structural index file (default {content}/.structure-cache.json)")
	fs.StringVarP(&f.output, "output", "o", "", "site output directory")
}

func addRenderFlags(fs *flag.FlagSet, f *renderFlags) {
	fs.StringVar(&f.theme, "theme", "", "sidebar theme: clean, collapsible, playful, classic")
	fs.StringVarP(&f.language, "language", "l", "", "code language that gets copy buttons")
	fs.StringVar(&f.style, "style", "", "chroma highlight style")
	fs.StringVar(&f.baseURL, "base-url", "", "absolute URL prefix for page links")
	fs.StringVar(&f.assetPath, "asset-path", "", "directory overriding embedded styles, scripts and templates")
	fs.IntVarP(&f.workers, "workers", "w", 0, "chapters rendered in parallel (0 = auto)")
	fs.BoolVar(&f.clean, "clean", false, "remove previous output before writing")
}

// newFlagSet creates a flag set that reports errors to w instead of exiting.
func newFlagSet(name string, w io.Writer, usage func(io.Writer)) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(w)
	fs.Usage = func() { usage(w) }
	return fs
}

func parseBuildFlags(args []string, w io.Writer) (*buildFlags, []string, error) {
	f := &buildFlags{}
	fs := newFlagSet("build", w, printBuildUsage)
	addCommonFlags(fs, &f.common)
	addContentFlags(fs, &f.content)
	addRenderFlags(fs, &f.render)

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

func parseServeFlags(args []string, w io.Writer) (*serveFlags, []string, error) {
	f := &serveFlags{}
	fs := newFlagSet("serve", w, printServeUsage)
	addCommonFlags(fs, &f.common)
	addContentFlags(fs, &f.content)
	addRenderFlags(fs, &f.render)
	fs.StringVarP(&f.addr, "addr", "a", "", "listen address (default 127.0.0.1:8080)")
	fs.BoolVar(&f.watch, "watch", false, "rebuild when content changes")
	fs.BoolVar(&f.noBuild, "no-build", false, "serve the existing output without building first")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

func parsePDFFlags(args []string, w io.Writer) (*pdfFlags, []string, error) {
	f := &pdfFlags{}
	fs := newFlagSet("pdf", w, printPDFUsage)
	addCommonFlags(fs, &f.common)
	addContentFlags(fs, &f.content)
	fs.StringVar(&f.pdfDir, "pdf-dir", "", "PDF output directory (default {output}/pdf)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "per-chapter timeout (e.g., 30s, 2m)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel browser pages (0 = auto)")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

func parseInitFlags(args []string, w io.Writer) (*initFlags, []string, error) {
	f := &initFlags{}
	fs := newFlagSet("init", w, printInitUsage)
	fs.BoolVarP(&f.force, "force", "f", false, "overwrite an existing config file")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

// usageError marks a flag parsing failure as a usage error.
// flag.ErrHelp passes through so -h exits successfully.
func usageError(err error) error {
	if errors.Is(err, flag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUsage, err)
}

// noArgs rejects positional arguments for commands that take none.
func noArgs(cmd string, rest []string) error {
	if len(rest) > 0 {
		return fmt.Errorf("%w: %s takes no arguments, got %q", ErrUsage, cmd, rest[0])
	}
	return nil
}
