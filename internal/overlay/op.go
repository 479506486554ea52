package overlay

import (
	"github.com/nguyentantai21042004/lessonreel/internal/timeline"
)

// OpKind is the type of a draw operation.
type OpKind int

const (
	KindBackground OpKind = iota
	KindBox
	KindText
)

func (k OpKind) String() string {
	switch k {
	case KindBackground:
		return "background"
	case KindBox:
		return "box"
	default:
		return "text"
	}
}

// Geometry holds ffmpeg expressions for placement. W and H apply to boxes, FontSize to text.
type Geometry struct {
	X        string
	Y        string
	W        string
	H        string
	FontSize int
}

// Op is one time-gated draw instruction. Content is already escaped for the filter graph.
type Op struct {
	Kind     OpKind
	Geometry Geometry
	Color    string
	Content  string
	Window   timeline.Window
}

// Literal returns the text an Op draws on screen.
func (o Op) Literal() string {
	return Unescape(o.Content)
}

// Style controls canvas-dependent layout.
type Style struct {
	WrapWidth int
	FontFile  string
}

func (s Style) wrapWidth() int {
	if s.WrapWidth <= 0 {
		return 48
	}
	return s.WrapWidth
}
