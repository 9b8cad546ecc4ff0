package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alnah/go-textbook/internal/config"
)

const testIndex = `{
  "syllabus": {
    "title": "Python 程序设计",
    "stages": [{"name": "基础", "weeks": ["01", "02"]}]
  },
  "chapters": [
    {"week": "01", "title": "Week 01：起步", "file": "week_01/CHAPTER.md", "sections": ["安装"]},
    {"week": "02", "title": "Week 02：变量", "file": "week_02/CHAPTER.md"}
  ]
}`

// testEnv returns an Environment writing to buffers with a fixed clock.
func testEnv() (*Environment, *bytes.Buffer, *bytes.Buffer) {
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	return &Environment{
		Now:    func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) },
		Stdout: stdout,
		Stderr: stderr,
		Config: config.DefaultConfig(),
	}, stdout, stderr
}

// setupTestDir creates a temp directory with the given file structure.
// Files map paths to content. Returns the temp directory path.
func setupTestDir(t *testing.T, files map[string]string) string {
	t.Helper()
	tempDir := t.TempDir()

	for path, content := range files {
		fullPath := filepath.Join(tempDir, path)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0o750); err != nil {
			t.Fatalf("failed to create dir for %s: %v", path, err)
		}
		if err := os.WriteFile(fullPath, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", path, err)
		}
	}

	return tempDir
}

// setupCourse writes a two-chapter course and returns its directory.
func setupCourse(t *testing.T) string {
	t.Helper()
	return setupTestDir(t, map[string]string{
		".structure-cache.json": testIndex,
		"week_01/CHAPTER.md":    "# 起步\n\n## 安装\n\n```python\nprint(1)\n```\n",
		"week_02/CHAPTER.md":    "# 变量\n\n## 赋值\n",
	})
}
