// Package pathutil resolves file paths written in config files.
package pathutil

import (
	"os"
	"path/filepath"
	"strings"
)

// Expand replaces a leading "~/" with the home directory and expands $VAR
// references. A path it cannot expand is returned as written.
func Expand(path string) string {
	path = os.ExpandEnv(path)
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Resolve expands path and anchors it at baseDir when it is relative.
// Empty stays empty so optional fields remain unset.
func Resolve(baseDir, path string) string {
	if path == "" {
		return ""
	}
	p := Expand(path)
	if filepath.IsAbs(p) || strings.HasPrefix(p, "~") || baseDir == "" {
		return p
	}
	return filepath.Join(baseDir, p)
}
