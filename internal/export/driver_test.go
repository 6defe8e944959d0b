package export

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/Ekart13/ripbox/internal/cookies"
	"github.com/Ekart13/ripbox/internal/engine"
	"github.com/Ekart13/ripbox/internal/format"
	"github.com/Ekart13/ripbox/internal/media"
)

// scriptRunner fails or succeeds per merge-format extension.
type scriptRunner struct {
	failExts map[string]string // ext -> diagnostic
	seen     []string          // selectors observed, in order
}

func (s *scriptRunner) Attempt(ctx context.Context, url string, opts engine.Options) media.AttemptResult {
	ext := opts.MergeFormat
	if opts.ExtractAudio {
		ext = opts.AudioFormat
	}
	s.seen = append(s.seen, ext)
	if diag, ok := s.failExts[ext]; ok {
		return media.AttemptResult{Diagnostic: diag}
	}
	return media.AttemptResult{Success: true, Artifacts: []string{"/tmp/out." + ext}}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunAllFormatsSucceed(t *testing.T) {
	r := &scriptRunner{}
	d := New(r, cookies.NewNegotiator(nil, testLogger()), testLogger())

	results, allOK := d.Run(context.Background(), "https://u", engine.Options{}, []format.Format{format.MP4, format.MP3})
	if !allOK {
		t.Fatal("expected all formats to succeed")
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2", len(results))
	}
	if results[0].Format.Ext != "mp4" || results[1].Format.Ext != "mp3" {
		t.Errorf("formats processed out of requested order: %v", r.seen)
	}
}

func TestRunFailedFormatDoesNotBlockOthers(t *testing.T) {
	r := &scriptRunner{failExts: map[string]string{
		"mp4": "ERROR: Video unavailable",
	}}
	d := New(r, cookies.NewNegotiator(nil, testLogger()), testLogger())

	results, allOK := d.Run(context.Background(), "https://u", engine.Options{}, []format.Format{format.MP4, format.MP3})
	if allOK {
		t.Fatal("expected partial failure")
	}
	if len(results) != 2 {
		t.Fatalf("results = %d, want 2 (independent formats must both run)", len(results))
	}
	if results[0].Result.Success {
		t.Error("mp4 should have failed")
	}
	if !results[1].Result.Success {
		t.Error("mp3 must still be attempted and succeed after mp4 failed")
	}
}

func TestRunEachFormatGetsFreshOptions(t *testing.T) {
	var audioSelectors, videoSelectors []string
	r := &inspectRunner{onAttempt: func(opts engine.Options) {
		if opts.ExtractAudio {
			audioSelectors = append(audioSelectors, opts.FormatSelector)
		} else {
			videoSelectors = append(videoSelectors, opts.FormatSelector)
		}
	}}
	d := New(r, cookies.NewNegotiator(nil, testLogger()), testLogger())

	d.Run(context.Background(), "https://u", engine.Options{FormatSelector: "bv*+ba/b"}, []format.Format{format.MP3, format.MKV})

	if len(audioSelectors) != 1 || audioSelectors[0] != "bestaudio/best" {
		t.Errorf("audio selector = %v, want [bestaudio/best]", audioSelectors)
	}
	// The later video format must not inherit the audio selector.
	if len(videoSelectors) != 1 || videoSelectors[0] != "bv*+ba/b" {
		t.Errorf("video selector = %v, want [bv*+ba/b]", videoSelectors)
	}
}

type inspectRunner struct {
	onAttempt func(engine.Options)
}

func (i *inspectRunner) Attempt(ctx context.Context, url string, opts engine.Options) media.AttemptResult {
	i.onAttempt(opts)
	return media.AttemptResult{Success: true, Artifacts: []string{"/tmp/x"}}
}
