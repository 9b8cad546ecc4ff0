package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-textbook/internal/fileutil"
	"github.com/alnah/go-textbook/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// AppDir is the directory name under the user config dir searched by LoadConfig.
const AppDir = "go-textbook"

// Field length limits.
const (
	MaxTitleLength    = 200  // Site title
	MaxTextLength     = 500  // Tagline, description, footer lines
	MaxLabelLength    = 50   // UI labels ("上一章", "Copy")
	MaxPathLength     = 4096 // Filesystem paths
	MaxURLLength      = 2048 // Browser limit
	MaxLangLength     = 35   // BCP 47 tags
	MaxLanguageLength = 32   // Code language identifier
	MaxHighlights     = 8    // Landing page highlight chips
)

// Config holds all configuration for building a textbook site.
type Config struct {
	Site    SiteConfig    `yaml:"site"`
	Content ContentConfig `yaml:"content"`
	Output  OutputConfig  `yaml:"output"`
	Theme   string        `yaml:"theme"`
	Code    CodeConfig    `yaml:"code"`
	Tracker TrackerConfig `yaml:"tracker"`
	Labels  LabelsConfig  `yaml:"labels"`
	Assets  AssetsConfig  `yaml:"assets"`
	PDF     PDFConfig     `yaml:"pdf"`
	Serve   ServeConfig   `yaml:"serve"`
	Log     LogConfig     `yaml:"log"`
}

// SiteConfig holds page-level metadata. Empty Title falls back to the syllabus title.
type SiteConfig struct {
	Title       string   `yaml:"title"`
	Lang        string   `yaml:"lang"`
	BaseURL     string   `yaml:"baseURL"`
	Tagline     string   `yaml:"tagline"`
	Description string   `yaml:"description"`
	Highlights  []string `yaml:"highlights"`
	FooterTitle string   `yaml:"footerTitle"`
	FooterNote  string   `yaml:"footerNote"`
}

// ContentConfig locates the structural index and chapter Markdown files.
type ContentConfig struct {
	Dir   string `yaml:"dir"`
	Index string `yaml:"index"` // relative to Dir unless absolute
}

// OutputConfig defines the build destination.
type OutputConfig struct {
	Dir   string `yaml:"dir"`
	Clean bool   `yaml:"clean"` // remove Dir before building
}

// CodeConfig controls fenced code rendering.
type CodeConfig struct {
	Language string `yaml:"language"` // blocks in this language get a copy button
	Style    string `yaml:"style"`    // chroma style name
}

// TrackerConfig tunes the sidebar scroll tracker. Zero values take defaults.
type TrackerConfig struct {
	NearTop       int     `yaml:"nearTop"`
	HeaderOffset  int     `yaml:"headerOffset"`
	TopMargin     int     `yaml:"topMargin"`
	BottomPercent int     `yaml:"bottomPercent"`
	Threshold     float64 `yaml:"threshold"`
}

// LabelsConfig overrides UI strings. Empty fields keep the built-in labels.
type LabelsConfig struct {
	Contents        string `yaml:"contents"`
	SectionContents string `yaml:"sectionContents"`
	Home            string `yaml:"home"`
	Prev            string `yaml:"prev"`
	Next            string `yaml:"next"`
	Copy            string `yaml:"copy"`
	Copied          string `yaml:"copied"`
	Hint            string `yaml:"hint"`
	Week            string `yaml:"week"`
	Stages          string `yaml:"stages"`
	Chapters        string `yaml:"chapters"`
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// PDFConfig controls chapter PDF export.
type PDFConfig struct {
	Dir     string `yaml:"dir"`     // Empty = {output.dir}/pdf
	Timeout string `yaml:"timeout"` // Go duration, e.g. "30s"
	Workers int    `yaml:"workers"`
}

// ServeConfig controls the local preview server.
type ServeConfig struct {
	Addr  string `yaml:"addr"`
	Watch bool   `yaml:"watch"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console, json
}

// TimeoutDuration parses PDF.Timeout. Empty yields zero.
func (p PDFConfig) TimeoutDuration() (time.Duration, error) {
	if p.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(p.Timeout)
	if err != nil {
		return 0, fmt.Errorf("%w: pdf.timeout: %v", ErrInvalidValue, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: pdf.timeout: must be positive, got %s", ErrInvalidValue, p.Timeout)
	}
	return d, nil
}

// IndexPath resolves the structural index location.
func (c ContentConfig) IndexPath() string {
	if filepath.IsAbs(c.Index) {
		return c.Index
	}
	return filepath.Join(c.Dir, c.Index)
}

// Validate checks field lengths and value ranges.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"site.title", c.Site.Title, MaxTitleLength},
		{"site.lang", c.Site.Lang, MaxLangLength},
		{"site.baseURL", c.Site.BaseURL, MaxURLLength},
		{"site.tagline", c.Site.Tagline, MaxTextLength},
		{"site.description", c.Site.Description, MaxTextLength},
		{"site.footerTitle", c.Site.FooterTitle, MaxTextLength},
		{"site.footerNote", c.Site.FooterNote, MaxTextLength},
		{"content.dir", c.Content.Dir, MaxPathLength},
		{"content.index", c.Content.Index, MaxPathLength},
		{"output.dir", c.Output.Dir, MaxPathLength},
		{"code.language", c.Code.Language, MaxLanguageLength},
		{"code.style", c.Code.Style, MaxLanguageLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
		{"pdf.dir", c.PDF.Dir, MaxPathLength},
		{"labels.contents", c.Labels.Contents, MaxLabelLength},
		{"labels.sectionContents", c.Labels.SectionContents, MaxLabelLength},
		{"labels.home", c.Labels.Home, MaxLabelLength},
		{"labels.prev", c.Labels.Prev, MaxLabelLength},
		{"labels.next", c.Labels.Next, MaxLabelLength},
		{"labels.copy", c.Labels.Copy, MaxLabelLength},
		{"labels.copied", c.Labels.Copied, MaxLabelLength},
		{"labels.hint", c.Labels.Hint, MaxTextLength},
		{"labels.week", c.Labels.Week, MaxLabelLength},
		{"labels.stages", c.Labels.Stages, MaxLabelLength},
		{"labels.chapters", c.Labels.Chapters, MaxLabelLength},
	}
	for _, f := range fields {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}

	if len(c.Site.Highlights) > MaxHighlights {
		return fmt.Errorf("%w: site.highlights: at most %d entries, got %d", ErrInvalidValue, MaxHighlights, len(c.Site.Highlights))
	}
	for i, h := range c.Site.Highlights {
		if err := validateFieldLength(fmt.Sprintf("site.highlights[%d]", i), h, MaxLabelLength); err != nil {
			return err
		}
	}

	if c.Site.BaseURL != "" && !fileutil.IsURL(c.Site.BaseURL) && !strings.HasPrefix(c.Site.BaseURL, "/") {
		return fmt.Errorf("%w: site.baseURL: must be an http(s) URL or start with /, got %q", ErrInvalidValue, c.Site.BaseURL)
	}

	if err := c.Tracker.validate(); err != nil {
		return err
	}

	if _, err := c.PDF.TimeoutDuration(); err != nil {
		return err
	}
	if c.PDF.Workers < 0 {
		return fmt.Errorf("%w: pdf.workers: must not be negative, got %d", ErrInvalidValue, c.PDF.Workers)
	}

	if c.Log.Level != "" {
		switch strings.ToLower(c.Log.Level) {
		case "debug", "info", "warn", "error":
		default:
			return fmt.Errorf("%w: log.level: %q (must be debug, info, warn, or error)", ErrInvalidValue, c.Log.Level)
		}
	}
	if c.Log.Format != "" {
		switch strings.ToLower(c.Log.Format) {
		case "console", "json":
		default:
			return fmt.Errorf("%w: log.format: %q (must be console or json)", ErrInvalidValue, c.Log.Format)
		}
	}

	return nil
}

func (t TrackerConfig) validate() error {
	if t.NearTop < 0 || t.HeaderOffset < 0 || t.TopMargin < 0 {
		return fmt.Errorf("%w: tracker: pixel offsets must not be negative", ErrInvalidValue)
	}
	if t.BottomPercent < 0 || t.BottomPercent > 100 {
		return fmt.Errorf("%w: tracker.bottomPercent: must be between 0 and 100, got %d", ErrInvalidValue, t.BottomPercent)
	}
	if t.Threshold < 0 || t.Threshold > 1 {
		return fmt.Errorf("%w: tracker.threshold: must be between 0 and 1, got %.2f", ErrInvalidValue, t.Threshold)
	}
	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Site:    SiteConfig{Lang: "zh-CN"},
		Content: ContentConfig{Dir: ".", Index: ".structure-cache.json"},
		Output:  OutputConfig{Dir: "site"},
		Theme:   "clean",
		Code:    CodeConfig{Language: "python", Style: "github"},
		Serve:   ServeConfig{Addr: "127.0.0.1:8080"},
		Log:     LogConfig{Level: "info", Format: "console"},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's searched in the current directory, then ~/.config/go-textbook/.
// Missing fields keep DefaultConfig values. Returns error if the file is not found.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	f, err := os.Open(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	cfg := DefaultConfig()
	if err := yamlutil.ReadStrict(f, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SearchPaths lists the locations LoadConfig tries for a config name.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, AppDir, name+ext))
		}
	}
	return paths
}

// resolveConfigPath returns the first existing path from SearchPaths.
func resolveConfigPath(name string) (string, error) {
	tried := SearchPaths(name)
	for _, p := range tried {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}

// Marshal encodes cfg as YAML, used by the init command to write a starter file.
func Marshal(cfg *Config) ([]byte, error) {
	return yamlutil.Marshal(cfg)
}
