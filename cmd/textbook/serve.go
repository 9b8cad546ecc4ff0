package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	textbook "github.com/alnah/go-textbook"
	"github.com/alnah/go-textbook/internal/config"
	"github.com/alnah/go-textbook/internal/server"
)

// runServe builds the site, then serves it until ctx is canceled.
// With --watch, content changes trigger a rebuild.
func runServe(ctx context.Context, args []string, env *Environment) error {
	f, rest, err := parseServeFlags(args, env.Stderr)
	if err != nil {
		return usageError(err)
	}
	if err := noArgs(cmdServe, rest); err != nil {
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
	if f.addr != "" {
		cfg.Serve.Addr = f.addr
	}
	if f.watch {
		cfg.Serve.Watch = true
	}

	logger, err := newLogger(cfg, f.common, env.Stderr)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	site := siteFor(cfg)
	rebuild := rebuilder(cfg, logger, f.render.workers, site)
	if !f.noBuild {
		if err := rebuild(ctx); err != nil {
			return withIndexPath(err, site.IndexPath)
		}
	}

	srv, err := server.New(server.Config{Addr: cfg.Serve.Addr, Dir: site.OutputDir, Logger: logger})
	if err != nil {
		return err
	}

	var watcher *server.Watcher
	if cfg.Serve.Watch {
		watcher, err = server.NewWatcher(server.WatchConfig{
			Roots:   watchRoots(cfg),
			Ignore:  []string{site.OutputDir},
			Rebuild: rebuild,
			Logger:  logger,
		})
		if err != nil {
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(gctx) })
	if watcher != nil {
		g.Go(func() error { return watcher.Run(gctx) })
	}

	if !f.common.quiet {
		fmt.Fprintf(env.Stdout, "Serving %s at http://%s (Ctrl+C to stop)\n", site.OutputDir, srv.Addr())
	}
	return g.Wait()
}

// rebuilder returns a build function that creates a fresh Builder each
// time, so edits to custom assets are picked up along with content.
func rebuilder(cfg *config.Config, logger *zap.Logger, workers int, site textbook.Site) func(context.Context) error {
	opts := builderOptions(cfg, logger, workers)
	return func(ctx context.Context) error {
		b, err := textbook.NewBuilder(opts...)
		if err != nil {
			return err
		}
		_, err = b.Build(ctx, site)
		return err
	}
}

// watchRoots lists the directories whose changes affect the site. An index
// kept outside the content directory adds its own directory.
func watchRoots(cfg *config.Config) []string {
	roots := []string{cfg.Content.Dir}
	if dir := filepath.Dir(cfg.Content.IndexPath()); !within(cfg.Content.Dir, dir) {
		roots = append(roots, dir)
	}
	if cfg.Assets.BasePath != "" {
		roots = append(roots, cfg.Assets.BasePath)
	}
	return roots
}

// within reports whether dir is base or lies below it.
func within(base, dir string) bool {
	absBase, err := filepath.Abs(base)
	if err != nil {
		return false
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(absBase, absDir)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
