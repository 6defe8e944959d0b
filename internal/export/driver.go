// Package export runs the negotiated download sequence for one URL across
// every requested output format.
package export

import (
	"context"
	"log/slog"

	"github.com/Ekart13/ripbox/internal/cookies"
	"github.com/Ekart13/ripbox/internal/engine"
	"github.com/Ekart13/ripbox/internal/format"
	"github.com/Ekart13/ripbox/internal/media"
)

// FormatResult is the final outcome for one (URL, format) pair.
type FormatResult struct {
	Format format.Format
	Result media.AttemptResult
}

// Driver exports one URL at a time. Formats are processed in requested
// order; a failure in one export format never blocks the remaining formats
// for the same URL.
type Driver struct {
	runner engine.Runner
	neg    *cookies.Negotiator
	log    *slog.Logger
}

// New returns a Driver over the given engine runner and negotiator.
func New(runner engine.Runner, neg *cookies.Negotiator, log *slog.Logger) *Driver {
	return &Driver{runner: runner, neg: neg, log: log}
}

// Run exports url once per requested format, running the full cookie-mode
// negotiation for each. It reports the per-format results and whether every
// format succeeded.
func (d *Driver) Run(ctx context.Context, url string, base engine.Options, formats []format.Format) ([]FormatResult, bool) {
	results := make([]FormatResult, 0, len(formats))
	allOK := true

	for _, f := range formats {
		opts := base.ForFormat(f)
		res := d.neg.Negotiate(ctx, d.runner, url, opts)

		if res.Success {
			d.log.Info("export done",
				slog.String("url", url),
				slog.String("format", f.Ext),
				slog.Int("artifacts", len(res.Artifacts)))
		} else {
			allOK = false
			d.log.Warn("export failed",
				slog.String("url", url),
				slog.String("format", f.Ext),
				slog.String("diagnostic", res.Diagnostic))
		}
		results = append(results, FormatResult{Format: f, Result: res})
	}

	return results, allOK
}
