// Command textbook renders a course of Markdown chapters into a static
// textbook site, previews it, and prints chapters to PDF.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"slices"
	"syscall"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"

	textbook "github.com/alnah/go-textbook"
	"github.com/alnah/go-textbook/internal/config"
	"github.com/alnah/go-textbook/internal/hints"
	"github.com/alnah/go-textbook/internal/theme"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Command names.
const (
	cmdBuild   = "build"
	cmdServe   = "serve"
	cmdPDF     = "pdf"
	cmdDoctor  = "doctor"
	cmdInit    = "init"
	cmdVersion = "version"
	cmdHelp    = "help"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage              = errors.New("invalid usage")
	ErrUnknownCommand     = errors.New("unknown command")
	ErrInvalidWorkerCount = errors.New("invalid worker count")
)

func main() {
	verbose := slices.Contains(os.Args[1:], "--verbose") || slices.Contains(os.Args[1:], "-v")

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	if verbose {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	os.Exit(runMain(os.Args, DefaultEnv()))
}

// runMain dispatches args[1] to its command and returns the exit code.
func runMain(args []string, env *Environment) (code int) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(env.Stderr, "internal error: %v\n%s", r, debug.Stack())
			code = ExitGeneral
		}
	}()

	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	cmd, rest := args[1], args[2:]
	var err error
	switch cmd {
	case cmdBuild:
		err = runBuild(ctx, rest, env)
	case cmdServe:
		err = runServe(ctx, rest, env)
	case cmdPDF:
		err = runPDF(ctx, rest, env)
	case cmdDoctor:
		return runDoctorCmd(rest, env)
	case cmdInit:
		err = runInit(rest, env)
	case cmdVersion, "--version":
		fmt.Fprintf(env.Stdout, "textbook %s\n", Version)
		return ExitSuccess
	case cmdHelp, "--help", "-h":
		runHelp(rest, env)
		return ExitSuccess
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownCommand, cmd)
		fmt.Fprintln(env.Stderr, err)
		printUsage(env.Stderr)
		return exitCodeFor(err)
	}

	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err))
	}
	return exitCodeFor(err)
}

// hintFor returns an actionable hint for well-known failures, or "".
func hintFor(err error) string {
	var indexErr *indexError
	switch {
	case errors.Is(err, textbook.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(config.SearchPaths(defaultConfigName))
	case errors.Is(err, textbook.ErrIndexNotFound) && errors.As(err, &indexErr):
		return hints.ForIndexNotFound(indexErr.path)
	case errors.Is(err, textbook.ErrChapterNotFound):
		return hints.ForChapterNotFound()
	case errors.Is(err, textbook.ErrOutputWrite):
		return hints.ForOutputDirectory()
	case errors.Is(err, textbook.ErrUnknownTheme):
		return hints.ForUnknownTheme(theme.Names())
	case errors.Is(err, syscall.EADDRINUSE):
		return hints.ForAddressInUse()
	}
	return ""
}
