// Package batch orchestrates one pass over a list of URLs: pre-flight
// validation, export with cookie-mode negotiation, and outcome aggregation.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/Ekart13/ripbox/internal/engine"
	"github.com/Ekart13/ripbox/internal/export"
	"github.com/Ekart13/ripbox/internal/format"
	"github.com/Ekart13/ripbox/internal/media"
)

// Checker is the pre-flight validator interface.
type Checker interface {
	Check(ctx context.Context, url string) (valid bool, reason string)
}

// Exporter drives all requested formats for one URL.
type Exporter interface {
	Run(ctx context.Context, url string, base engine.Options, formats []format.Format) ([]export.FormatResult, bool)
}

// RecordFunc is called once per successful (URL, format) export so callers
// can persist history. May be nil.
type RecordFunc func(batchID, url, formatExt string, artifacts []string)

// Batch processes URLs strictly one at a time, in input order. No failure
// of a single URL aborts the pass.
type Batch struct {
	ID        string
	validator Checker
	driver    Exporter
	record    RecordFunc
	log       *slog.Logger
}

// New returns a Batch with a fresh batch ID.
func New(v Checker, d Exporter, record RecordFunc, log *slog.Logger) *Batch {
	id := uuid.New().String()
	return &Batch{
		ID:        id,
		validator: v,
		driver:    d,
		record:    record,
		log:       log.With(slog.String("batch", id)),
	}
}

// Summary is the read-only aggregate over a finished pass.
type Summary struct {
	OK      []media.URLResult
	Failed  []media.URLResult
	Invalid []media.URLResult
	Total   int
}

// FailedURLs returns the bare failed URL list, one per line, formatted for
// direct re-submission.
func (s Summary) FailedURLs() []string {
	urls := make([]string, len(s.Failed))
	for i, r := range s.Failed {
		urls[i] = r.URL
	}
	return urls
}

// Run processes every URL against every requested format and aggregates the
// outcomes. A URL is ok only if all requested formats succeeded, failed
// once every format exhausted its negotiation, and invalid if the validator
// rejected it before any engine attempt.
func (b *Batch) Run(ctx context.Context, urls []string, base engine.Options, formats []format.Format) Summary {
	sum := Summary{Total: len(urls)}

	for _, url := range urls {
		valid, reason := b.validator.Check(ctx, url)
		if !valid {
			b.log.Warn("url rejected", slog.String("url", url), slog.String("reason", reason))
			sum.Invalid = append(sum.Invalid, media.URLResult{
				URL:     url,
				Outcome: media.Invalid,
				Reason:  reason,
			})
			continue
		}

		results, allOK := b.driver.Run(ctx, url, base, formats)

		// Every successful format is recorded, even when a sibling format
		// failed; the artifact is on disk either way.
		if b.record != nil {
			for _, fr := range results {
				if fr.Result.Success {
					b.record(b.ID, url, fr.Format.Ext, fr.Result.Artifacts)
				}
			}
		}

		if allOK {
			sum.OK = append(sum.OK, media.URLResult{URL: url, Outcome: media.OK})
			continue
		}

		sum.Failed = append(sum.Failed, media.URLResult{
			URL:     url,
			Outcome: media.Failed,
			Reason:  failureReason(results),
		})
	}

	b.log.Info("batch pass finished",
		slog.Int("ok", len(sum.OK)),
		slog.Int("failed", len(sum.Failed)),
		slog.Int("invalid", len(sum.Invalid)))
	return sum
}

// failureReason accumulates the per-format diagnostics of a failed URL.
func failureReason(results []export.FormatResult) string {
	var parts []string
	for _, fr := range results {
		if fr.Result.Success {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s", fr.Format.Ext, fr.Result.Diagnostic))
	}
	return strings.Join(parts, "; ")
}
