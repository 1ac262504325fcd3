//go:build integration

package itest

import (
	"fmt"
	"os"
	"path/filepath"
)

// repoRoot walks up from the working directory to the directory holding
// go.mod, so the harness can invoke the furycut CLI no matter which package
// directory runs the tests.
func repoRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no go.mod found above %s", dir)
		}
		dir = parent
	}
}
