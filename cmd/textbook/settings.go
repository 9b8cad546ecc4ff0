package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	textbook "github.com/alnah/go-textbook"
	"github.com/alnah/go-textbook/internal/config"
	"github.com/alnah/go-textbook/internal/logging"
	"github.com/alnah/go-textbook/internal/tracker"
)

// defaultConfigName is looked up when neither --config nor TEXTBOOK_CONFIG is set.
const defaultConfigName = "textbook"

// indexError remembers which index path was missing, for the hint.
type indexError struct {
	path string
	err  error
}

func (e *indexError) Error() string { return e.err.Error() }
func (e *indexError) Unwrap() error { return e.err }

// withIndexPath annotates a missing-index error with its location.
func withIndexPath(err error, path string) error {
	if errors.Is(err, textbook.ErrIndexNotFound) {
		return &indexError{path: path, err: err}
	}
	return err
}

// loadConfig resolves the configuration: a named file, else an optional
// textbook.yaml, else env.Config. Environment variables are applied on top.
func loadConfig(name string, env *Environment) (*config.Config, error) {
	ec := loadEnvConfig()
	if name == "" {
		name = ec.ConfigPath
	}

	var cfg *config.Config
	if name != "" {
		c, err := config.LoadConfig(name)
		if err != nil {
			return nil, err
		}
		cfg = c
	} else {
		c, err := config.LoadConfig(defaultConfigName)
		switch {
		case err == nil:
			cfg = c
		case errors.Is(err, config.ErrConfigNotFound):
			cfg = config.DefaultConfig()
			if env.Config != nil {
				copied := *env.Config
				cfg = &copied
			}
		default:
			return nil, err
		}
	}

	applyEnvConfig(ec, cfg)
	return cfg, nil
}

// newLogger builds the zap logger for a command. Logs go to stderr so that
// stdout carries only command summaries.
func newLogger(cfg *config.Config, f commonFlags, w io.Writer) (*zap.Logger, error) {
	format := cfg.Log.Format
	if f.logFormat != "" {
		format = f.logFormat
	}
	return logging.New(logging.Options{
		Level:  logging.LevelFor(cfg.Log.Level, f.verbose, f.quiet),
		Format: format,
		Output: w,
	})
}

// mergeContentFlags applies content flags over cfg.
func mergeContentFlags(f contentFlags, cfg *config.Config) error {
	if f.contentDir != "" {
		cfg.Content.Dir = f.contentDir
	}
	if f.index != "" {
		// A flag path is relative to the working directory, not the content.
		abs, err := filepath.Abs(f.index)
		if err != nil {
			return fmt.Errorf("resolving --index: %w", err)
		}
		cfg.Content.Index = abs
	}
	if f.output != "" {
		cfg.Output.Dir = f.output
	}
	return nil
}

// mergeRenderFlags applies rendering flags over cfg.
func mergeRenderFlags(f renderFlags, cfg *config.Config) error {
	if f.workers < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkerCount, f.workers)
	}
	if f.theme != "" {
		cfg.Theme = f.theme
	}
	if f.language != "" {
		cfg.Code.Language = f.language
	}
	if f.style != "" {
		cfg.Code.Style = f.style
	}
	if f.baseURL != "" {
		cfg.Site.BaseURL = f.baseURL
	}
	if f.assetPath != "" {
		cfg.Assets.BasePath = f.assetPath
	}
	if f.clean {
		cfg.Output.Clean = true
	}
	return cfg.Validate()
}

// siteFor describes the build inputs and outputs held in cfg.
func siteFor(cfg *config.Config) textbook.Site {
	return textbook.Site{
		ContentDir: cfg.Content.Dir,
		IndexPath:  cfg.Content.IndexPath(),
		OutputDir:  cfg.Output.Dir,
		Clean:      cfg.Output.Clean,
	}
}

// builderOptions maps cfg onto Builder options.
func builderOptions(cfg *config.Config, logger *zap.Logger, workers int) []textbook.Option {
	return []textbook.Option{
		textbook.WithTheme(cfg.Theme),
		textbook.WithTargetLanguage(cfg.Code.Language),
		textbook.WithHighlightStyle(cfg.Code.Style),
		textbook.WithBaseURL(cfg.Site.BaseURL),
		textbook.WithAssetPath(cfg.Assets.BasePath),
		textbook.WithLogger(logger),
		textbook.WithWorkers(workers),
		textbook.WithSiteInfo(textbook.SiteInfo{
			Title:       cfg.Site.Title,
			Lang:        cfg.Site.Lang,
			Tagline:     cfg.Site.Tagline,
			Description: cfg.Site.Description,
			Highlights:  cfg.Site.Highlights,
			FooterTitle: cfg.Site.FooterTitle,
			FooterNote:  cfg.Site.FooterNote,
		}),
		textbook.WithLabels(textbook.Labels{
			Contents:        cfg.Labels.Contents,
			SectionContents: cfg.Labels.SectionContents,
			Home:            cfg.Labels.Home,
			Prev:            cfg.Labels.Prev,
			Next:            cfg.Labels.Next,
			Copy:            cfg.Labels.Copy,
			Copied:          cfg.Labels.Copied,
			Hint:            cfg.Labels.Hint,
			Week:            cfg.Labels.Week,
			Stages:          cfg.Labels.Stages,
			Chapters:        cfg.Labels.Chapters,
		}),
		textbook.WithTracker(tracker.Config{
			NearTop:       cfg.Tracker.NearTop,
			HeaderOffset:  cfg.Tracker.HeaderOffset,
			TopMargin:     cfg.Tracker.TopMargin,
			BottomPercent: cfg.Tracker.BottomPercent,
			Threshold:     cfg.Tracker.Threshold,
		}),
	}
}

// resolveTimeout picks the PDF timeout: flag, then config (env included).
func resolveTimeout(flagValue string, cfg *config.Config) (time.Duration, error) {
	if flagValue != "" {
		d, err := time.ParseDuration(flagValue)
		if err != nil || d <= 0 {
			return 0, fmt.Errorf("%w: --timeout %q: want a positive duration like 30s", ErrUsage, flagValue)
		}
		return d, nil
	}
	return cfg.PDF.TimeoutDuration()
}
