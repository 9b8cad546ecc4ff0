package main

import (
	"context"
	"fmt"

	textbook "github.com/alnah/go-textbook"
)

// runPDF prints every chapter of an already built site to PDF.
func runPDF(ctx context.Context, args []string, env *Environment) error {
	f, rest, err := parsePDFFlags(args, env.Stderr)
	if err != nil {
		return usageError(err)
	}
	if err := noArgs(cmdPDF, rest); err != nil {
		return err
	}
	if f.workers < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkerCount, f.workers)
	}
	warnUnknownEnvVars(env.Stderr)

	cfg, err := loadConfig(f.common.config, env)
	if err != nil {
		return err
	}
	if err := mergeContentFlags(f.content, cfg); err != nil {
		return err
	}
	if f.pdfDir != "" {
		cfg.PDF.Dir = f.pdfDir
	}
	if f.workers > 0 {
		cfg.PDF.Workers = f.workers
	}
	timeout, err := resolveTimeout(f.timeout, cfg)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg, f.common, env.Stderr)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	site := siteFor(cfg)
	idx, err := textbook.LoadIndex(site.IndexPath)
	if err != nil {
		return withIndexPath(err, site.IndexPath)
	}

	b, err := textbook.NewBuilder(builderOptions(cfg, logger, 0)...)
	if err != nil {
		return err
	}

	written, err := b.ExportPDF(ctx, idx, textbook.Export{
		SiteDir: site.OutputDir,
		PDFDir:  cfg.PDF.Dir,
		Workers: cfg.PDF.Workers,
		Timeout: timeout,
	})
	if err != nil {
		return err
	}

	if !f.common.quiet {
		for _, path := range written {
			fmt.Fprintf(env.Stdout, "Created %s\n", path)
		}
	}
	return nil
}
