// Package datasource finds, reads, writes, and watches the agenda file.
package datasource

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnvAgenda names the environment variable that overrides discovery.
const EnvAgenda = "AGV_AGENDA"

const defaultFile = "agenda.yaml"

// Discover finds the agenda file path.
// Priority: AGV_AGENDA env var > agenda.yaml in CWD > walk up parents.
func Discover() (string, error) {
	if env := os.Getenv(EnvAgenda); env != "" {
		if _, err := os.Stat(env); err == nil {
			return env, nil
		}
		return "", fmt.Errorf("%s=%q: %w", EnvAgenda, env, os.ErrNotExist)
	}

	if _, err := os.Stat(defaultFile); err == nil {
		abs, err := filepath.Abs(defaultFile)
		if err != nil {
			return "", fmt.Errorf("resolve absolute path for %s: %w", defaultFile, err)
		}
		return abs, nil
	}

	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, defaultFile)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("no agenda found (looked for %s)", defaultFile)
}
