package engine

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/Ekart13/ripbox/internal/config"
	"github.com/Ekart13/ripbox/internal/format"
)

// POTokenEnv optionally supplies a YouTube PO token to the engine.
const POTokenEnv = "YTDLP_PO_TOKEN"

// outputTemplate is the engine's filename template; %(ext)s is substituted
// per export format at option-build time.
const outputTemplate = "%(title)s [%(id)s].%(ext)s"

// Credentials names one source of authentication material for the engine.
// The zero value means an unauthenticated attempt.
type Credentials struct {
	CookieFile string // exported cookie file path
	Browser    string // browser whose cookie store to read
}

// None reports whether the attempt carries no credentials.
func (c Credentials) None() bool {
	return c.CookieFile == "" && c.Browser == ""
}

// Options is the immutable parameter bundle for one engine attempt.
// Each attempt gets a fresh value derived from a shared base via ForFormat
// and WithCredentials; nothing mutates an Options after construction, so a
// stale setting can never leak from one format into the next.
type Options struct {
	OutputTemplate      string
	FormatSelector      string
	MergeFormat         string // container to merge into; empty in audio mode
	ExtractAudio        bool
	AudioFormat         string
	AudioQuality        string
	Retries             int
	FragmentRetries     int
	ConcurrentFragments int
	TitleLimit          int
	UserAgent           string
	PlayerClients       []string
	POToken             string
	Credentials         Credentials
}

// Base builds the options shared by every attempt in a batch: output
// location, retry budgets, and platform workarounds. Credentials and the
// format-specific fields are filled in later.
func Base(outDir string, cfg *config.Config) Options {
	return Options{
		OutputTemplate:      filepath.Join(outDir, outputTemplate),
		FormatSelector:      "bv*+ba/b",
		MergeFormat:         format.Default.Ext,
		Retries:             cfg.Retries,
		FragmentRetries:     cfg.FragmentRetries,
		ConcurrentFragments: cfg.ConcurrentFragments,
		TitleLimit:          cfg.TitleLimit,
		UserAgent:           "Mozilla/5.0",
		PlayerClients:       []string{"tv", "mweb", "tv_embedded"},
		POToken:             strings.TrimSpace(os.Getenv(POTokenEnv)),
	}
}

// ForFormat derives a fresh Options for one export format.
//
// Video containers download best video + best audio and merge; the literal
// extension replaces %(ext)s so the final name matches the container. Audio
// export downloads the best audio-only stream and transcodes to mp3 —
// %(ext)s stays in the template because the transcode step names the final
// file (forcing .mp3 there yields ".mp3.mp3"). An unrecognized extension
// falls back to the default container rather than erroring.
func (o Options) ForFormat(f format.Format) Options {
	if _, known := format.ByExt(f.Ext); !known {
		f = format.Default
	}

	if f.Audio {
		o.FormatSelector = "bestaudio/best"
		o.MergeFormat = ""
		o.ExtractAudio = true
		o.AudioFormat = f.Ext
		o.AudioQuality = "0" // best VBR
		return o
	}

	o.FormatSelector = "bv*+ba/b"
	o.MergeFormat = f.Ext
	o.ExtractAudio = false
	o.AudioFormat = ""
	o.AudioQuality = ""
	o.OutputTemplate = strings.ReplaceAll(o.OutputTemplate, "%(ext)s", f.Ext)
	return o
}

// WithCredentials derives a fresh Options carrying the given credentials.
func (o Options) WithCredentials(c Credentials) Options {
	o.Credentials = c
	return o
}
