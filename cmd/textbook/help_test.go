package main

import (
	"strings"
	"testing"
)

func TestRunHelp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		wantStdout string
		wantStderr string
	}{
		{name: "no command", wantStdout: "Commands:"},
		{name: "build", args: []string{"build"}, wantStdout: "--base-url"},
		{name: "serve", args: []string{"serve"}, wantStdout: "--watch"},
		{name: "pdf", args: []string{"pdf"}, wantStdout: "ROD_BROWSER_BIN"},
		{name: "doctor", args: []string{"doctor"}, wantStdout: "--json"},
		{name: "init", args: []string{"init"}, wantStdout: "--force"},
		{name: "version", args: []string{"version"}, wantStdout: "Show version"},
		{name: "help", args: []string{"help"}, wantStdout: "help [command]"},
		{name: "unknown", args: []string{"deploy"}, wantStderr: "Unknown command: deploy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, stdout, stderr := testEnv()
			runHelp(tt.args, env)

			if tt.wantStdout != "" && !strings.Contains(stdout.String(), tt.wantStdout) {
				t.Errorf("stdout missing %q:\n%s", tt.wantStdout, stdout)
			}
			if tt.wantStderr != "" && !strings.Contains(stderr.String(), tt.wantStderr) {
				t.Errorf("stderr missing %q:\n%s", tt.wantStderr, stderr)
			}
		})
	}
}
