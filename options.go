package textbook

import (
	"go.uber.org/zap"

	"github.com/alnah/go-textbook/internal/tracker"
)

// Option configures a Builder.
type Option func(*builderConfig)

// builderConfig holds Builder settings before resolution.
type builderConfig struct {
	themeName      string
	targetLanguage string
	highlightStyle string
	labels         Labels
	site           SiteInfo
	baseURL        string
	assetPath      string
	logger         *zap.Logger
	workers        int
	tracker        tracker.Config
}

// WithTheme selects the sidebar theme by name.
func WithTheme(name string) Option {
	return func(c *builderConfig) {
		c.themeName = name
	}
}

// WithTargetLanguage sets the language whose code blocks get a copy button.
func WithTargetLanguage(lang string) Option {
	return func(c *builderConfig) {
		if lang != "" {
			c.targetLanguage = lang
		}
	}
}

// WithHighlightStyle selects the chroma style used for highlighted blocks.
func WithHighlightStyle(name string) Option {
	return func(c *builderConfig) {
		if name != "" {
			c.highlightStyle = name
		}
	}
}

// WithLabels overrides UI strings. Empty fields keep the defaults.
func WithLabels(l Labels) Option {
	return func(c *builderConfig) {
		c.labels = c.labels.Merge(l)
	}
}

// WithSiteInfo sets the landing page text and document language.
func WithSiteInfo(s SiteInfo) Option {
	return func(c *builderConfig) {
		if s.Lang == "" {
			s.Lang = c.site.Lang
		}
		c.site = s
	}
}

// WithBaseURL makes page links absolute under url instead of relative.
func WithBaseURL(url string) Option {
	return func(c *builderConfig) {
		c.baseURL = url
	}
}

// WithAssetPath sets a custom asset directory that overrides embedded
// styles, scripts and templates file by file.
func WithAssetPath(path string) Option {
	return func(c *builderConfig) {
		c.assetPath = path
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *builderConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithWorkers bounds how many chapters render in parallel.
// Zero or less selects ResolvePoolSize(0).
func WithWorkers(n int) Option {
	return func(c *builderConfig) {
		c.workers = n
	}
}

// WithTracker sets the sidebar tracker parameters. Zero fields keep defaults.
func WithTracker(t tracker.Config) Option {
	return func(c *builderConfig) {
		c.tracker = t.WithDefaults()
	}
}
