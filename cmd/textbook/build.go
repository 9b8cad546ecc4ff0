package main

import (
	"context"
	"fmt"
	"io"
	"time"

	textbook "github.com/alnah/go-textbook"
)

// runBuild renders the site once.
func runBuild(ctx context.Context, args []string, env *Environment) error {
	f, rest, err := parseBuildFlags(args, env.Stderr)
	if err != nil {
		return usageError(err)
	}
	if err := noArgs(cmdBuild, rest); err != nil {
		return err
	}
	warnUnknownEnvVars(env.Stderr)

	cfg, err := loadConfig(f.common.config, env)
	if err != nil {
		return err
	}
	if err := mergeContentFlags(f.content, cfg); err != nil {
		return err
	}
	if err := mergeRenderFlags(f.render, cfg); err != nil {
		return err
	}

	logger, err := newLogger(cfg, f.common, env.Stderr)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	b, err := textbook.NewBuilder(builderOptions(cfg, logger, f.render.workers)...)
	if err != nil {
		return err
	}

	site := siteFor(cfg)
	result, err := b.Build(ctx, site)
	if err != nil {
		return withIndexPath(err, site.IndexPath)
	}

	if !f.common.quiet {
		printBuildResult(env.Stdout, result, site.OutputDir)
	}
	return nil
}

// printBuildResult prints a one-line build summary.
func printBuildResult(w io.Writer, r *textbook.BuildResult, outDir string) {
	fmt.Fprintf(w, "Built %d chapters into %s (%d files, %v)\n",
		len(r.Pages), outDir, len(r.Files), r.Duration.Round(time.Millisecond))
	if r.Warnings > 0 {
		fmt.Fprintf(w, "%d warnings logged above\n", r.Warnings)
	}
}
