package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: textbook <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  build      Render the course into a static site")
	fmt.Fprintln(w, "  serve      Build, then preview the site over HTTP")
	fmt.Fprintln(w, "  pdf        Print every built chapter to PDF")
	fmt.Fprintln(w, "  doctor     Check the course and the system")
	fmt.Fprintln(w, "  init       Write a starter textbook.yaml")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'textbook help <command>' for details on a specific command.")
}

func printCommonFlags(w io.Writer) {
	fmt.Fprintln(w, "Common:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path (default textbook.yaml if present)")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs")
	fmt.Fprintln(w, "      --log-format <s>      Log encoding: console, json")
}

func printContentFlags(w io.Writer) {
	fmt.Fprintln(w, "Content:")
	fmt.Fprintln(w, "      --content <dir>       Course directory holding the chapters")
	fmt.Fprintln(w, "      --index <path>        Structural index (default {content}/.structure-cache.json)")
	fmt.Fprintln(w, "  -o, --output <dir>        Site output directory (default site)")
}

func printRenderFlags(w io.Writer) {
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "      --theme <name>        Sidebar theme: clean, collapsible, playful, classic")
	fmt.Fprintln(w, "  -l, --language <name>     Code language that gets copy buttons (default python)")
	fmt.Fprintln(w, "      --style <name>        Chroma highlight style (default github)")
	fmt.Fprintln(w, "      --base-url <url>      Absolute URL prefix for page links")
	fmt.Fprintln(w, "      --asset-path <dir>    Override embedded styles, scripts and templates")
	fmt.Fprintln(w, "  -w, --workers <n>         Chapters rendered in parallel (0 = auto)")
	fmt.Fprintln(w, "      --clean               Remove previous output before writing")
}

// printBuildUsage prints usage for the build command.
func printBuildUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: textbook build [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render the landing page and every chapter listed in the structural index.")
	fmt.Fprintln(w, "Nothing is written unless every page renders.")
	fmt.Fprintln(w)
	printContentFlags(w)
	fmt.Fprintln(w)
	printRenderFlags(w)
	fmt.Fprintln(w)
	printCommonFlags(w)
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: textbook serve [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Build the site, then serve the output directory until interrupted.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Server:")
	fmt.Fprintln(w, "  -a, --addr <host:port>    Listen address (default 127.0.0.1:8080)")
	fmt.Fprintln(w, "      --watch               Rebuild when content changes")
	fmt.Fprintln(w, "      --no-build            Serve the existing output as is")
	fmt.Fprintln(w)
	printContentFlags(w)
	fmt.Fprintln(w)
	printRenderFlags(w)
	fmt.Fprintln(w)
	printCommonFlags(w)
}

// printPDFUsage prints usage for the pdf command.
func printPDFUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: textbook pdf [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print every chapter of a built site to week-XX.pdf with headless Chrome.")
	fmt.Fprintln(w, "Run 'textbook build' first.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "PDF:")
	fmt.Fprintln(w, "      --pdf-dir <dir>       Output directory (default {output}/pdf)")
	fmt.Fprintln(w, "  -t, --timeout <dur>       Per-chapter timeout (default 30s)")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel browser pages (0 = auto)")
	fmt.Fprintln(w)
	printContentFlags(w)
	fmt.Fprintln(w)
	printCommonFlags(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  ROD_BROWSER_BIN           Use a pre-installed Chrome")
	fmt.Fprintln(w, "  ROD_NO_SANDBOX=1          Disable the Chrome sandbox (Docker/CI)")
}

// printInitUsage prints usage for the init command.
func printInitUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: textbook init [path] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Write the default configuration to path (default textbook.yaml).")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -f, --force               Overwrite an existing file")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: textbook doctor [--json] [--config <name>]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check Chrome for PDF export, the environment, and the course content.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --json                Machine-readable output")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
}

// runHelp prints help for the given command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case cmdBuild:
		printBuildUsage(env.Stdout)
	case cmdServe:
		printServeUsage(env.Stdout)
	case cmdPDF:
		printPDFUsage(env.Stdout)
	case cmdDoctor:
		printDoctorUsage(env.Stdout)
	case cmdInit:
		printInitUsage(env.Stdout)
	case cmdVersion:
		fmt.Fprintln(env.Stdout, "Usage: textbook version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case cmdHelp:
		fmt.Fprintln(env.Stdout, "Usage: textbook help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
