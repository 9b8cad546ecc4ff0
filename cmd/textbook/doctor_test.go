package main

// Notes:
// - checkChrome depends on the host and is only exercised through
//   runDoctorCmd, where a missing browser is a warning, never an error.
// - isContainer reads the environment; its tests use t.Setenv.

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/alnah/go-textbook/internal/config"
)

// ---------------------------------------------------------------------------
// TestCheckContent - Course checks
// ---------------------------------------------------------------------------

func TestCheckContent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		files        map[string]string
		language     string
		wantChapters int
		wantMissing  int
		wantErrors   int
		wantWarning  string
	}{
		{
			name: "complete course",
			files: map[string]string{
				".structure-cache.json": testIndex,
				"week_01/CHAPTER.md":    "# a\n",
				"week_02/CHAPTER.md":    "# b\n",
			},
			language:     "python",
			wantChapters: 2,
		},
		{
			name: "missing chapter",
			files: map[string]string{
				".structure-cache.json": testIndex,
				"week_01/CHAPTER.md":    "# a\n",
			},
			language:     "python",
			wantChapters: 2,
			wantMissing:  1,
			wantErrors:   1,
		},
		{
			name:       "no index",
			files:      map[string]string{"README.md": "x"},
			language:   "python",
			wantErrors: 1,
		},
		{
			name: "unknown language",
			files: map[string]string{
				".structure-cache.json": testIndex,
				"week_01/CHAPTER.md":    "# a\n",
				"week_02/CHAPTER.md":    "# b\n",
			},
			language:     "klingon",
			wantChapters: 2,
			wantWarning:  "no highlighter",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.DefaultConfig()
			cfg.Content.Dir = setupTestDir(t, tt.files)
			cfg.Code.Language = tt.language

			result := &doctorResult{}
			checkContent(result, cfg)

			if result.Content.Chapters != tt.wantChapters {
				t.Errorf("Chapters = %d, want %d", result.Content.Chapters, tt.wantChapters)
			}
			if result.Content.Missing != tt.wantMissing {
				t.Errorf("Missing = %d, want %d", result.Content.Missing, tt.wantMissing)
			}
			if len(result.Errors) != tt.wantErrors {
				t.Errorf("Errors = %v, want %d", result.Errors, tt.wantErrors)
			}
			if tt.wantWarning != "" && !strings.Contains(strings.Join(result.Warnings, "\n"), tt.wantWarning) {
				t.Errorf("Warnings = %v, want one containing %q", result.Warnings, tt.wantWarning)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestRunDoctorCmd - Output formats and exit codes
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_JSON(t *testing.T) {
	t.Parallel()

	course := setupCourse(t)
	cfgDir := setupTestDir(t, map[string]string{"textbook.yaml": "content:\n  dir: " + course + "\n"})
	env, stdout, stderr := testEnv()

	code := runDoctorCmd([]string{"--json", "-c", cfgDir + "/textbook.yaml"}, env)

	var result doctorResult
	if err := json.Unmarshal(stdout.Bytes(), &result); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, stdout)
	}
	if code != ExitSuccess {
		t.Errorf("exit code = %d, want %d (errors: %v, stderr: %s)", code, ExitSuccess, result.Errors, stderr)
	}
	if result.Status == "errors" {
		t.Errorf("Status = errors: %v", result.Errors)
	}
	if result.Content.Chapters != 2 {
		t.Errorf("Content.Chapters = %d, want 2", result.Content.Chapters)
	}
}

func TestRunDoctorCmd_Text(t *testing.T) {
	t.Parallel()

	env, stdout, _ := testEnv()
	env.Config.Content.Dir = t.TempDir()

	code := runDoctorCmd(nil, env)

	if code != ExitGeneral {
		t.Errorf("exit code = %d, want %d for a course without index", code, ExitGeneral)
	}
	out := stdout.String()
	for _, want := range []string{"textbook doctor", "Content", "[ERROR]", "Status: Not ready"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunDoctorCmd_BadFlag(t *testing.T) {
	t.Parallel()

	env, _, _ := testEnv()
	if code := runDoctorCmd([]string{"--yaml"}, env); code != ExitUsage {
		t.Errorf("exit code = %d, want %d", code, ExitUsage)
	}
}

// ---------------------------------------------------------------------------
// TestIsContainer - Container detection signals
// ---------------------------------------------------------------------------

func TestIsContainer_ExplicitOverride(t *testing.T) {
	t.Setenv("TEXTBOOK_CONTAINER", "1")

	got, hint := isContainer()
	if !got || hint != "TEXTBOOK_CONTAINER=1" {
		t.Errorf("isContainer() = %v, %q", got, hint)
	}
}

func TestIsContainer_Kubernetes(t *testing.T) {
	t.Setenv("TEXTBOOK_CONTAINER", "")
	t.Setenv("container", "")
	t.Setenv("KUBERNETES_SERVICE_HOST", "10.0.0.1")

	got, hint := isContainer()
	if !got {
		t.Fatal("isContainer() = false with KUBERNETES_SERVICE_HOST set")
	}
	// /.dockerenv takes priority when the test itself runs in Docker.
	if hint != "KUBERNETES_SERVICE_HOST" && hint != "/.dockerenv" {
		t.Errorf("hint = %q", hint)
	}
}
