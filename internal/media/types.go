// Package media defines shared types for the ripbox application.
package media

// AttemptResult is the reduced outcome of one engine invocation for a
// (URL, format, credential-mode) triple. Success requires that the engine
// returned cleanly AND at least one output artifact was verified on disk.
type AttemptResult struct {
	Success    bool
	Diagnostic string   // engine's best error text; empty on success
	Artifacts  []string // verified on-disk output paths
}

// Outcome classifies what happened to one URL over a full batch pass.
type Outcome int

const (
	OK Outcome = iota
	Failed
	Invalid
)

func (o Outcome) String() string {
	switch o {
	case OK:
		return "ok"
	case Failed:
		return "failed"
	case Invalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// URLResult pairs a URL with its final outcome for the batch summary.
// Immutable once the URL's processing finishes.
type URLResult struct {
	URL     string
	Outcome Outcome
	Reason  string // rejection reason (invalid) or accumulated failure text (failed)
}
