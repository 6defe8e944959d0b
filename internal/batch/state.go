package batch

import (
	"log/slog"

	"github.com/Ekart13/ripbox/internal/cookies"
	"github.com/Ekart13/ripbox/internal/format"
)

// State is the sticky session memory shared across URLs: the resolved
// output directory, the requested format list, and the negotiator carrying
// the locked cookie mode. All three survive from one URL to the next and
// are cleared only by an explicit reset.
//
// State is owned by the single interactive control thread; it is never
// shared across goroutines.
type State struct {
	OutputDir  string
	Formats    []format.Format
	Negotiator *cookies.Negotiator

	sources []cookies.Source
	log     *slog.Logger
}

// NewState returns a fresh session state over the given credential sources.
func NewState(sources []cookies.Source, log *slog.Logger) *State {
	return &State{
		Negotiator: cookies.NewNegotiator(sources, log),
		sources:    sources,
		log:        log,
	}
}

// Reset clears the sticky output directory, format list, and locked cookie
// mode. Outcomes already recorded by earlier passes are unaffected.
func (s *State) Reset() {
	s.OutputDir = ""
	s.Formats = nil
	s.Negotiator = cookies.NewNegotiator(s.sources, s.log)
}
