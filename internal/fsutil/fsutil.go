// Package fsutil resolves and validates output directories.
// Downloads always land under a fixed base directory; user input may only
// name subfolders, never absolute paths or paths escaping the base.
package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ExpandBase resolves the download base directory. An empty value defaults
// to ~/Downloads; a leading ~/ is expanded.
func ExpandBase(base string) (string, error) {
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		return filepath.Join(home, "Downloads"), nil
	}
	if strings.HasPrefix(base, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expanding home dir: %w", err)
		}
		base = filepath.Join(home, base[2:])
	}
	return filepath.Abs(base)
}

// segmentCleaner replaces characters that are problematic on various OSes.
var segmentCleaner = strings.NewReplacer(
	"\x00", "",
	":", "_",
	"*", "_",
	"?", "_",
	"\"", "_",
	"<", "_",
	">", "_",
	"|", "_",
)

// SanitizeSegment cleans one folder-name segment. Traversal tokens are left
// alone here; containment is checked at resolve time.
func SanitizeSegment(seg string) string {
	return segmentCleaner.Replace(seg)
}

// ResolveOutputDir resolves a user-supplied subfolder under base and creates
// it if absent. Empty input means the base itself. Absolute paths are
// rejected, as is anything that escapes the base after cleaning; segment
// names are sanitized for cross-OS safety.
func ResolveOutputDir(base, sub string) (string, error) {
	absBase, err := filepath.Abs(base)
	if err != nil {
		return "", fmt.Errorf("resolving base directory: %w", err)
	}

	dir := absBase
	if sub != "" {
		if filepath.IsAbs(sub) {
			return "", fmt.Errorf("absolute paths are not allowed; use subfolders only")
		}
		segs := strings.Split(strings.ReplaceAll(sub, "\\", "/"), "/")
		for i, s := range segs {
			segs[i] = SanitizeSegment(s)
		}
		dir = filepath.Join(absBase, filepath.Join(segs...))

		// Join cleans the path; verify containment afterwards.
		if !strings.HasPrefix(dir, absBase+string(filepath.Separator)) && dir != absBase {
			return "", fmt.Errorf("path %q escapes the download directory", sub)
		}
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	return dir, nil
}
