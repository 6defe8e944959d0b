// Package cookies discovers credential sources and negotiates which one
// actually works for the current batch.
package cookies

import (
	"os"
	"path/filepath"

	"github.com/Ekart13/ripbox/internal/engine"
)

// Source names one place the engine can take authentication material from:
// an exported cookie file or a browser's stored session.
type Source struct {
	Name    string
	File    string // non-empty for a file-based source
	Browser string // non-empty for a browser-based source
}

func (s Source) String() string { return s.Name }

// Credentials converts the source into engine credential material.
func (s Source) Credentials() engine.Credentials {
	return engine.Credentials{CookieFile: s.File, Browser: s.Browser}
}

// Discover returns the ordered credential sources for a session. An
// exported cookie file in dir takes precedence; otherwise each configured
// browser profile becomes one source, in order.
func Discover(dir, cookieFile string, browsers []string) []Source {
	if cookieFile != "" && dir != "" {
		path := filepath.Join(dir, cookieFile)
		if fi, err := os.Stat(path); err == nil && fi.Mode().IsRegular() {
			return []Source{{Name: cookieFile, File: path}}
		}
	}

	sources := make([]Source, 0, len(browsers))
	for _, b := range browsers {
		sources = append(sources, Source{Name: b, Browser: b})
	}
	return sources
}

// ExecutableDir returns the directory holding the running binary; the
// exported cookie file is expected to live next to it.
func ExecutableDir() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	return filepath.Dir(exe)
}
