package engine

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/Ekart13/ripbox/internal/config"
	"github.com/Ekart13/ripbox/internal/format"
)

func testBase(t *testing.T) Options {
	t.Helper()
	return Base(filepath.Join("out"), config.Default())
}

func TestBase(t *testing.T) {
	t.Setenv(POTokenEnv, "")
	o := testBase(t)

	if !strings.Contains(o.OutputTemplate, "%(title)s [%(id)s].%(ext)s") {
		t.Errorf("output template = %q, want title [id].ext shape", o.OutputTemplate)
	}
	if o.Retries != 10 || o.FragmentRetries != 10 || o.ConcurrentFragments != 4 {
		t.Errorf("retry budgets = %d/%d/%d, want 10/10/4", o.Retries, o.FragmentRetries, o.ConcurrentFragments)
	}
	if !o.Credentials.None() {
		t.Error("base options must carry no credentials")
	}
	if o.POToken != "" {
		t.Errorf("POToken = %q, want empty when env is unset", o.POToken)
	}
}

func TestBasePOTokenFromEnv(t *testing.T) {
	t.Setenv(POTokenEnv, "  tok123  ")
	o := testBase(t)
	if o.POToken != "tok123" {
		t.Errorf("POToken = %q, want trimmed tok123", o.POToken)
	}
}

func TestForFormatVideo(t *testing.T) {
	base := testBase(t)

	for _, f := range []format.Format{format.MP4, format.MKV, format.MOV} {
		o := base.ForFormat(f)
		if o.MergeFormat != f.Ext {
			t.Errorf("%s: merge format = %q, want %q", f.Ext, o.MergeFormat, f.Ext)
		}
		if o.FormatSelector != "bv*+ba/b" {
			t.Errorf("%s: selector = %q, want bv*+ba/b", f.Ext, o.FormatSelector)
		}
		if o.ExtractAudio {
			t.Errorf("%s: video export must not extract audio", f.Ext)
		}
		if !strings.HasSuffix(o.OutputTemplate, "."+f.Ext) {
			t.Errorf("%s: template = %q, want literal .%s extension", f.Ext, o.OutputTemplate, f.Ext)
		}
	}
}

func TestForFormatAudio(t *testing.T) {
	o := testBase(t).ForFormat(format.MP3)

	if o.FormatSelector != "bestaudio/best" {
		t.Errorf("selector = %q, want bestaudio/best", o.FormatSelector)
	}
	if o.MergeFormat != "" {
		t.Errorf("merge format = %q, want empty in audio mode", o.MergeFormat)
	}
	if !o.ExtractAudio || o.AudioFormat != "mp3" || o.AudioQuality != "0" {
		t.Errorf("audio postprocessing = %v/%q/%q, want true/mp3/0", o.ExtractAudio, o.AudioFormat, o.AudioQuality)
	}
	// The transcode step names the final file; forcing .mp3 in the template
	// would produce ".mp3.mp3".
	if !strings.Contains(o.OutputTemplate, "%(ext)s") {
		t.Errorf("template = %q, must keep %%(ext)s in audio mode", o.OutputTemplate)
	}
}

func TestForFormatUnknownFallsBackToDefault(t *testing.T) {
	o := testBase(t).ForFormat(format.Format{Ext: "avi"})

	if o.MergeFormat != format.Default.Ext {
		t.Errorf("merge format = %q, want default %q", o.MergeFormat, format.Default.Ext)
	}
	if !strings.HasSuffix(o.OutputTemplate, "."+format.Default.Ext) {
		t.Errorf("template = %q, want default container extension", o.OutputTemplate)
	}
}

func TestDerivedOptionsDoNotMutateBase(t *testing.T) {
	base := testBase(t)
	tmpl := base.OutputTemplate

	_ = base.ForFormat(format.MP4)
	_ = base.ForFormat(format.MP3)
	_ = base.WithCredentials(Credentials{Browser: "firefox"})

	if base.OutputTemplate != tmpl {
		t.Error("ForFormat mutated the shared base template")
	}
	if !base.Credentials.None() {
		t.Error("WithCredentials mutated the shared base credentials")
	}
	if base.ExtractAudio {
		t.Error("audio derivation leaked into the shared base")
	}

	// A video derivation after an audio one must not inherit audio settings.
	video := base.ForFormat(format.MKV)
	if video.ExtractAudio || video.AudioFormat != "" {
		t.Error("audio settings leaked into a later video derivation")
	}
}
