// Package engine is the single narrow boundary around the external yt-dlp
// download engine. Everything the rest of the orchestrator needs is reduced
// to a typed AttemptResult; no engine error ever propagates as a panic or
// an unstructured failure.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/lrstanley/go-ytdlp"

	"github.com/Ekart13/ripbox/internal/media"
)

// Runner abstracts one engine attempt so the negotiation and batch layers
// can be tested without the yt-dlp binary.
type Runner interface {
	Attempt(ctx context.Context, url string, opts Options) media.AttemptResult
}

// YTDLP runs attempts through the yt-dlp binary via go-ytdlp.
type YTDLP struct {
	log *slog.Logger
}

// New returns the production engine runner.
func New(log *slog.Logger) *YTDLP {
	return &YTDLP{log: log}
}

// Attempt runs one download for a (URL, format, credential-mode) triple.
// Success requires a clean engine exit AND at least one output artifact
// verified on disk; an engine that reports success but produced nothing is
// a failure.
func (y *YTDLP) Attempt(ctx context.Context, url string, opts Options) media.AttemptResult {
	dl := y.build(opts)

	res, err := dl.Run(ctx, url)

	artifacts := verifyArtifacts(collectArtifacts(res, opts))
	out := reduce(err, artifacts, diagnostic(err, res))
	if !out.Success {
		y.log.Debug("engine attempt failed",
			slog.String("url", url),
			slog.String("diagnostic", out.Diagnostic))
	}
	return out
}

// reduce folds a run's error, verified artifacts, and diagnostic text into
// the final result. A clean exit with nothing on disk is a failure.
func reduce(err error, artifacts []string, diag string) media.AttemptResult {
	if err != nil {
		return media.AttemptResult{Diagnostic: diag}
	}
	if len(artifacts) == 0 {
		return media.AttemptResult{
			Diagnostic: "engine reported success but produced no output files",
		}
	}
	return media.AttemptResult{Success: true, Artifacts: artifacts}
}

// build translates an Options value into a yt-dlp invocation.
func (y *YTDLP) build(opts Options) *ytdlp.Command {
	dl := ytdlp.New().
		IgnoreErrors().
		Continue().
		RestrictFilenames().
		TrimFilenames(opts.TitleLimit).
		Output(opts.OutputTemplate).
		Format(opts.FormatSelector).
		Retries(strconv.Itoa(opts.Retries)).
		FragmentRetries(strconv.Itoa(opts.FragmentRetries)).
		ConcurrentFragments(opts.ConcurrentFragments).
		UserAgent(opts.UserAgent)

	if opts.MergeFormat != "" {
		dl = dl.MergeOutputFormat(opts.MergeFormat)
	}
	if opts.ExtractAudio {
		dl = dl.ExtractAudio().
			AudioFormat(opts.AudioFormat).
			AudioQuality(opts.AudioQuality)
	}
	if len(opts.PlayerClients) > 0 {
		dl = dl.ExtractorArgs("youtube:player_client=" + strings.Join(opts.PlayerClients, ","))
	}
	if opts.POToken != "" {
		dl = dl.ExtractorArgs("youtube:po_token=" + opts.POToken)
	}

	switch {
	case opts.Credentials.CookieFile != "":
		dl = dl.Cookies(opts.Credentials.CookieFile)
	case opts.Credentials.Browser != "":
		dl = dl.CookiesFromBrowser(opts.Credentials.Browser)
	}

	return dl
}

// collectArtifacts gathers candidate output paths from the engine result.
// In audio mode the transcode step renames the file, so the sibling with
// the audio extension is also a candidate.
func collectArtifacts(res *ytdlp.Result, opts Options) []string {
	if res == nil {
		return nil
	}
	info, err := res.GetExtractedInfo()
	if err != nil {
		return nil
	}

	var paths []string
	for _, i := range info {
		if i == nil || i.Filename == nil || *i.Filename == "" {
			continue
		}
		paths = append(paths, *i.Filename)
		if opts.ExtractAudio && opts.AudioFormat != "" {
			paths = append(paths, swapExt(*i.Filename, opts.AudioFormat))
		}
	}
	return paths
}

// verifyArtifacts keeps only paths that exist on disk as regular files.
func verifyArtifacts(paths []string) []string {
	var verified []string
	seen := make(map[string]bool)
	for _, p := range paths {
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		if fi, err := os.Stat(p); err == nil && fi.Mode().IsRegular() {
			verified = append(verified, p)
		}
	}
	return verified
}

// swapExt replaces the extension of path with ext.
func swapExt(path, ext string) string {
	if i := strings.LastIndexByte(path, '.'); i > strings.LastIndexByte(path, '/') {
		return path[:i+1] + ext
	}
	return path + "." + ext
}

// diagnostic extracts the most useful failure text: the engine's own last
// stderr line when available, the Go error otherwise.
func diagnostic(err error, res *ytdlp.Result) string {
	if res != nil {
		if line := lastLine(res.Stderr); line != "" {
			return line
		}
		if line := lastLine(res.Stdout); line != "" {
			return line
		}
	}
	if err != nil {
		return err.Error()
	}
	return "download failed"
}

// lastLine returns the last non-empty line of s, preferring ERROR lines.
func lastLine(s string) string {
	lines := strings.Split(s, "\n")
	last := ""
	for _, l := range lines {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		if strings.HasPrefix(l, "ERROR") {
			last = l
		} else if last == "" || !strings.HasPrefix(last, "ERROR") {
			last = l
		}
	}
	return last
}

// Version reports the yt-dlp binary version, for diagnostics.
func Version(ctx context.Context) (string, error) {
	res, err := ytdlp.New().Version(ctx)
	if err != nil {
		return "", fmt.Errorf("querying yt-dlp version: %w", err)
	}
	return strings.TrimSpace(res.Stdout), nil
}
