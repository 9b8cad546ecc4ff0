package textbook

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/alnah/go-textbook/internal/fileutil"
)

// MaxIndexSize bounds the structural index file.
const MaxIndexSize = 8 << 20

// LoadIndex reads and validates the structural index at path.
// A missing file yields ErrIndexNotFound; unreadable JSON or a failed
// validation yields ErrMalformedIndex.
func LoadIndex(path string) (*Index, error) {
	f, err := os.Open(path) // #nosec G304 -- user-provided path
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrIndexNotFound, path)
		}
		return nil, fmt.Errorf("opening index: %w", err)
	}
	defer func() { _ = f.Close() }()

	idx, err := ParseIndex(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return idx, nil
}

// ParseIndex decodes and validates a structural index.
func ParseIndex(r io.Reader) (*Index, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxIndexSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading index: %w", err)
	}
	if len(data) > MaxIndexSize {
		return nil, fmt.Errorf("%w: larger than %d bytes", ErrMalformedIndex, MaxIndexSize)
	}

	var idx Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedIndex, err)
	}
	if err := idx.Validate(); err != nil {
		return nil, err
	}
	return &idx, nil
}

// Store reads chapter Markdown from a content root.
type Store struct {
	root string
}

// NewStore creates a Store rooted at dir.
func NewStore(dir string) *Store {
	if dir == "" {
		dir = "."
	}
	return &Store{root: dir}
}

// Root returns the content root.
func (s *Store) Root() string { return s.root }

// Path resolves a chapter's file inside the content root.
func (s *Store) Path(ch Chapter) (string, error) {
	p, err := fileutil.Within(s.root, filepath.FromSlash(ch.File))
	if err != nil {
		return "", fmt.Errorf("%w: week %q: %v", ErrMalformedIndex, ch.Week, err)
	}
	return p, nil
}

// ReadChapter returns the raw Markdown of ch.
// A missing file yields ErrChapterNotFound.
func (s *Store) ReadChapter(ch Chapter) (string, error) {
	p, err := s.Path(ch)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(p) // #nosec G304 -- contained in content root
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: week %q: %s", ErrChapterNotFound, ch.Week, p)
		}
		return "", fmt.Errorf("reading week %q: %w", ch.Week, err)
	}
	return string(data), nil
}

// Dir returns the directory holding ch's Markdown file. Relative media
// references in the lesson resolve against it.
func (s *Store) Dir(ch Chapter) (string, error) {
	p, err := s.Path(ch)
	if err != nil {
		return "", err
	}
	return filepath.Dir(p), nil
}
