package engine

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestVerifyArtifacts(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "video [abc].mp4")
	if err := os.WriteFile(existing, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	got := verifyArtifacts([]string{
		existing,
		existing, // duplicate
		filepath.Join(dir, "missing.mp4"),
		"",
		dir, // directory, not a regular file
	})

	want := []string{existing}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("verifyArtifacts() = %v, want %v", got, want)
	}
}

func TestVerifyArtifactsEmpty(t *testing.T) {
	if got := verifyArtifacts(nil); got != nil {
		t.Errorf("verifyArtifacts(nil) = %v, want nil", got)
	}
	if got := verifyArtifacts([]string{filepath.Join(t.TempDir(), "nope")}); got != nil {
		t.Errorf("verifyArtifacts(missing) = %v, want nil", got)
	}
}

func TestReduce(t *testing.T) {
	if out := reduce(nil, []string{"/out/a.mp4"}, ""); !out.Success {
		t.Errorf("reduce with artifacts = %+v, want success", out)
	}

	out := reduce(nil, nil, "")
	if out.Success {
		t.Error("a clean exit with zero verified artifacts must be a failure")
	}
	if out.Diagnostic == "" {
		t.Error("the no-output failure must carry a diagnostic")
	}

	out = reduce(context.DeadlineExceeded, []string{"/out/a.mp4"}, "ERROR: timed out")
	if out.Success {
		t.Error("an engine error must fail even when partial files exist")
	}
	if out.Diagnostic != "ERROR: timed out" {
		t.Errorf("diagnostic = %q, want the engine's own text", out.Diagnostic)
	}
}

func TestSwapExt(t *testing.T) {
	tests := []struct {
		path, ext, want string
	}{
		{"/out/song [id].webm", "mp3", "/out/song [id].mp3"},
		{"/out/noext", "mp3", "/out/noext.mp3"},
		{"/out.dir/name.m4a", "mp3", "/out.dir/name.mp3"},
		{"/out.dir/noext", "mp3", "/out.dir/noext.mp3"},
	}
	for _, tt := range tests {
		if got := swapExt(tt.path, tt.ext); got != tt.want {
			t.Errorf("swapExt(%q, %q) = %q, want %q", tt.path, tt.ext, got, tt.want)
		}
	}
}

func TestLastLine(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"single line", "something broke", "something broke"},
		{"last non-empty wins", "a\nb\n\n", "b"},
		{
			"error line preferred over trailing noise",
			"[youtube] extracting\nERROR: Video unavailable\nexiting",
			"ERROR: Video unavailable",
		},
		{
			"last error line wins",
			"ERROR: first\nretrying\nERROR: second",
			"ERROR: second",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := lastLine(tt.in); got != tt.want {
				t.Errorf("lastLine(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
