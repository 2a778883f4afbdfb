package utils

import (
	"fmt"
	"os"
)

// EnsureDirs creates each directory (and parents) with 0750 permissions.
func EnsureDirs(dirs ...string) error {
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o750); err != nil { //nolint:mnd
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}
