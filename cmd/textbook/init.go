package main

import (
	"fmt"
	"os"

	"github.com/alnah/go-textbook/internal/config"
	"github.com/alnah/go-textbook/internal/fileutil"
)

// runInit writes the default configuration as a starting point.
func runInit(args []string, env *Environment) error {
	f, rest, err := parseInitFlags(args, env.Stderr)
	if err != nil {
		return usageError(err)
	}
	if len(rest) > 1 {
		return fmt.Errorf("%w: init takes at most one path, got %d", ErrUsage, len(rest))
	}

	path := defaultConfigName + ".yaml"
	if len(rest) == 1 {
		path = rest[0]
	}
	if !f.force && fileutil.FileExists(path) {
		return fmt.Errorf("%s: %w (use --force to overwrite)", path, os.ErrExist)
	}

	data, err := config.Marshal(config.DefaultConfig())
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := fileutil.WriteFile(path, data); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	fmt.Fprintf(env.Stdout, "Created %s\n", path)
	return nil
}
