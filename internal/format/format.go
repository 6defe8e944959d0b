// Package format defines the export format menu and token parsing.
package format

import (
	"fmt"
	"strconv"
	"strings"
)

// Format is one export target: a video container or an audio-only extraction.
type Format struct {
	Ext   string // final file extension, e.g. "mp4"
	Audio bool   // audio-only extraction (transcode via ffmpeg)
	Label string // menu description
}

// The fixed menu, in display order. MP4 is the default on empty input.
var (
	MP4 = Format{Ext: "mp4", Label: "Video MP4"}
	MKV = Format{Ext: "mkv", Label: "Video MKV"}
	MOV = Format{Ext: "mov", Label: "Video MOV"}
	MP3 = Format{Ext: "mp3", Audio: true, Label: "Audio MP3 (audio-only)"}
)

// Default is used when input selects nothing valid.
var Default = MP4

// Menu lists the selectable formats; menu numbers are 1-based indices.
var Menu = []Format{MP4, MKV, MOV, MP3}

// ByExt looks up a format by its extension.
func ByExt(ext string) (Format, bool) {
	for _, f := range Menu {
		if f.Ext == strings.ToLower(ext) {
			return f, true
		}
	}
	return Format{}, false
}

// MenuLines renders the selection menu for display.
func MenuLines() []string {
	lines := make([]string, len(Menu))
	for i, f := range Menu {
		tag := ""
		if f == Default {
			tag = " (default)"
		}
		lines[i] = fmt.Sprintf("  %d) %s%s", i+1, f.Label, tag)
	}
	return lines
}

// Parse interprets a user-supplied format selection. Tokens may be menu
// numbers ("1 4") or extensions ("mp4,mp3"); commas are tolerated as
// separators. Unknown tokens are skipped, duplicates are dropped preserving
// first-seen order, and an empty or fully invalid selection yields the
// default format.
func Parse(input string) []Format {
	tokens := strings.Fields(strings.ReplaceAll(input, ",", " "))

	var picked []Format
	for _, tok := range tokens {
		var f Format
		if n, err := strconv.Atoi(tok); err == nil {
			if n < 1 || n > len(Menu) {
				continue
			}
			f = Menu[n-1]
		} else {
			var ok bool
			f, ok = ByExt(tok)
			if !ok {
				continue
			}
		}

		dup := false
		for _, p := range picked {
			if p.Ext == f.Ext {
				dup = true
				break
			}
		}
		if !dup {
			picked = append(picked, f)
		}
	}

	if len(picked) == 0 {
		return []Format{Default}
	}
	return picked
}

// Exts returns the extensions of the given formats, for display.
func Exts(formats []Format) []string {
	exts := make([]string, len(formats))
	for i, f := range formats {
		exts[i] = f.Ext
	}
	return exts
}
