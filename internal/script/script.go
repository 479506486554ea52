package script

import (
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/lessonreel/internal/apperr"
)

// Script is an ordered lesson. Segments are in narration order.
type Script struct {
	Title    string    `json:"title"`
	Segments []Segment `json:"segments"`
}

// Segment is one titled slide with its narration.
type Segment struct {
	Title     string   `json:"title"`
	Bullets   []string `json:"bullets"`
	Narration string   `json:"narration"`
}

// Kind is the positional visual treatment of a segment.
type Kind int

const (
	KindOpening Kind = iota
	KindBody
	KindClosing
)

func (k Kind) String() string {
	switch k {
	case KindOpening:
		return "opening"
	case KindClosing:
		return "closing"
	default:
		return "body"
	}
}

// KindOf returns the kind of segment i in a script of n segments.
// A single-segment script is treated as an opening.
func KindOf(i, n int) Kind {
	switch {
	case i == 0:
		return KindOpening
	case i == n-1:
		return KindClosing
	default:
		return KindBody
	}
}

// Validate normalizes whitespace in place and rejects scripts that
// cannot be narrated: no segments, or a segment without title or narration.
func Validate(s *Script) error {
	s.Title = strings.TrimSpace(s.Title)
	if len(s.Segments) == 0 {
		return apperr.New(apperr.InvalidInput, "script.validate", "script has no segments")
	}

	for i := range s.Segments {
		seg := &s.Segments[i]
		seg.Title = strings.TrimSpace(seg.Title)
		seg.Narration = strings.TrimSpace(seg.Narration)
		if seg.Title == "" {
			return apperr.New(apperr.InvalidInput, "script.validate", "segment %d has an empty title", i)
		}
		if seg.Narration == "" {
			return apperr.New(apperr.InvalidInput, "script.validate", "segment %d has an empty narration", i)
		}

		bullets := seg.Bullets[:0]
		for _, b := range seg.Bullets {
			if b = strings.TrimSpace(b); b != "" {
				bullets = append(bullets, b)
			}
		}
		seg.Bullets = bullets
	}

	if s.Title == "" {
		s.Title = s.Segments[0].Title
	}
	return nil
}

// WithBookends returns a copy of s framed by an opening title card and a closing recap,
// both narrated from the course title.
func WithBookends(s Script) Script {
	out := Script{Title: s.Title, Segments: make([]Segment, 0, len(s.Segments)+2)}

	out.Segments = append(out.Segments, Segment{
		Title:     s.Title,
		Narration: fmt.Sprintf("Welcome! In this lesson we will explore %s. Let's get started.", s.Title),
	})
	out.Segments = append(out.Segments, s.Segments...)
	out.Segments = append(out.Segments, Segment{
		Title:     "Recap",
		Narration: fmt.Sprintf("That wraps up our lesson on %s. Let's review what we covered, and keep practicing. Thank you for learning!", s.Title),
	})
	return out
}
