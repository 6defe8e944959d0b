package cookies

import (
	"context"
	"log/slog"

	"github.com/Ekart13/ripbox/internal/classify"
	"github.com/Ekart13/ripbox/internal/engine"
	"github.com/Ekart13/ripbox/internal/media"
)

// Negotiator decides, per (URL, format), whether an unauthenticated attempt
// suffices and which credential source to escalate to when it doesn't. The
// first source that succeeds is locked in and reused for the rest of the
// batch, so later URLs skip the full sweep.
//
// State is owned by the single batch control thread; there are no
// concurrent writers. The lock is set at most once per batch and cleared
// only by discarding the Negotiator on an explicit session reset.
type Negotiator struct {
	sources []Source
	locked  *Source
	log     *slog.Logger
}

// NewNegotiator returns a Negotiator over the given ordered sources.
func NewNegotiator(sources []Source, log *slog.Logger) *Negotiator {
	return &Negotiator{sources: sources, log: log}
}

// Locked returns the locked credential source, if one has been established.
func (n *Negotiator) Locked() (Source, bool) {
	if n.locked == nil {
		return Source{}, false
	}
	return *n.locked, true
}

// Negotiate runs the full attempt ladder for one (URL, format):
//
//  1. Try without credentials. Success ends the ladder.
//  2. A terminal failure (permanent-unavailable, network-failure) aborts:
//     no credentials can fix those, so no sweep is spent on them.
//  3. With a mode already locked, retry using it alone. A terminal failure
//     here also aborts — the URL is unreachable even with the working mode,
//     which is no reason to unlock.
//  4. Otherwise sweep the source list in order. The first success locks the
//     mode for the rest of the batch; a terminal failure stops the sweep;
//     an exhausted sweep fails with the most recent diagnostic retained.
func (n *Negotiator) Negotiate(ctx context.Context, r engine.Runner, url string, opts engine.Options) media.AttemptResult {
	res := r.Attempt(ctx, url, opts)
	if res.Success {
		return res
	}

	cls := classify.Classify(res.Diagnostic)
	n.log.Debug("unauthenticated attempt failed",
		slog.String("url", url),
		slog.String("class", cls.String()),
		slog.String("diagnostic", res.Diagnostic))
	if cls.Terminal() {
		return res
	}

	var retried *Source
	if n.locked != nil {
		lk := *n.locked
		retried = &lk
		res = r.Attempt(ctx, url, opts.WithCredentials(lk.Credentials()))
		if res.Success {
			return res
		}
		cls = classify.Classify(res.Diagnostic)
		n.log.Debug("locked-mode retry failed",
			slog.String("url", url),
			slog.String("source", lk.Name),
			slog.String("class", cls.String()))
		if cls.Terminal() {
			return res
		}
	}

	last := res
	for _, src := range n.sources {
		if retried != nil && src == *retried {
			continue // just failed with this source
		}

		res = r.Attempt(ctx, url, opts.WithCredentials(src.Credentials()))
		if res.Success {
			n.lock(src)
			return res
		}
		last = res

		cls = classify.Classify(res.Diagnostic)
		n.log.Debug("credential attempt failed",
			slog.String("url", url),
			slog.String("source", src.Name),
			slog.String("class", cls.String()))
		if cls.Terminal() {
			return res
		}
	}

	return last
}

// lock records the working source. At most one lock exists per batch; once
// set it is never replaced.
func (n *Negotiator) lock(src Source) {
	if n.locked != nil {
		return
	}
	n.locked = &src
	n.log.Info("cookie mode locked for this batch", slog.String("source", src.Name))
}
