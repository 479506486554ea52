package caption

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/nguyentantai21042004/lessonreel/internal/apperr"
	"github.com/nguyentantai21042004/lessonreel/internal/script"
	"github.com/nguyentantai21042004/lessonreel/internal/timeline"
)

// Cue is one subtitle entry.
type Cue struct {
	Start float64
	End   float64
	Text  string
}

const header = "WEBVTT"

var textEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"\r\n", " ",
	"\n", " ",
	"\r", " ",
)

// Emit builds one cue per segment with bounds copied from the matching window.
func Emit(s script.Script, windows []timeline.Window) ([]Cue, error) {
	if len(s.Segments) != len(windows) {
		return nil, apperr.New(apperr.InvalidInput, "caption.emit", "%d segments but %d windows", len(s.Segments), len(windows))
	}

	cues := make([]Cue, len(windows))
	for i, w := range windows {
		cues[i] = Cue{
			Start: w.Start,
			End:   w.End,
			Text:  s.Segments[w.SegmentIndex].Narration,
		}
	}
	return cues, nil
}

// WriteVTT writes cues as a WebVTT document: the header, a blank line,
// then each cue followed by exactly one blank line.
func WriteVTT(w io.Writer, cues []Cue) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "%s\n\n", header); err != nil {
		return err
	}
	for i, c := range cues {
		if i > 0 {
			if _, err := bw.WriteString("\n"); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(bw, "%s --> %s\n%s\n", FormatTimestamp(c.Start), FormatTimestamp(c.End), EscapeText(c.Text)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFile writes the cues to path as WebVTT.
func WriteFile(path string, cues []Cue) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create caption file: %w", err)
	}
	if err := WriteVTT(f, cues); err != nil {
		f.Close()
		return fmt.Errorf("write caption file: %w", err)
	}
	return f.Close()
}

// EscapeText makes text safe as a single-line cue payload.
func EscapeText(s string) string {
	return textEscaper.Replace(strings.TrimSpace(s))
}

// FormatTimestamp renders seconds as HH:MM:SS.mmm.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	ms := int64(math.Round(seconds * 1000))
	h := ms / 3_600_000
	ms -= h * 3_600_000
	m := ms / 60_000
	ms -= m * 60_000
	s := ms / 1000
	ms -= s * 1000
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, ms)
}
