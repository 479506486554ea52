package overlay

import (
	"fmt"

	"github.com/nguyentantai21042004/lessonreel/internal/apperr"
	"github.com/nguyentantai21042004/lessonreel/internal/script"
	"github.com/nguyentantai21042004/lessonreel/internal/timeline"
)

var (
	bodyBackgrounds    = []string{"0x1a1a2e", "0x16213e", "0x0f3460", "0x222831", "0x2d4059"}
	bodyAccents        = []string{"0xe94560", "0x00adb5", "0x48c9b0", "0xf39c12", "0x9b59b6"}
	bookendBackgrounds = []string{"0x0b132b", "0x1c2541", "0x3a506b"}
	bookendAccents     = []string{"0xffd460", "0x5bc0be", "0xf07b3f"}
)

const (
	textColor      = "white"
	mutedColor     = "0x888888"
	trackColor     = "0xffffff@0.15"
	bodyTitleSize  = 42
	largeTitleSize = 64
	bodyTextSize   = 28
	recapTextSize  = 30
	pageTextSize   = 20
	lineStep       = 46
	bodyTop        = 200
	bodyLeft       = 100
	bodyIndent     = 130
	recapLeft      = 160
)

// Compose builds the ordered draw operations for every segment, each gated to its window.
// Per window the order is background, title, underline, then body or recap content.
func Compose(s script.Script, windows []timeline.Window, style Style) ([]Op, error) {
	if len(windows) == 0 || len(s.Segments) != len(windows) {
		return nil, apperr.New(apperr.InvalidInput, "overlay.compose", "%d segments but %d windows", len(s.Segments), len(windows))
	}

	n := len(windows)
	var ops []Op
	for _, w := range windows {
		i := w.SegmentIndex
		if i < 0 || i >= n {
			return nil, apperr.New(apperr.InvalidInput, "overlay.compose", "window references segment %d of %d", i, n)
		}
		seg := s.Segments[i]
		kind := script.KindOf(i, n)
		b := builder{window: w}

		bg, accent := paletteFor(kind, i)
		b.background(bg)

		switch kind {
		case script.KindOpening:
			b.text(seg.Title, accent, largeTitleSize, "(w-text_w)/2", "(h-text_h)/2-40")
			b.box(accent, "(iw-480)/2", "ih/2+30", "480", "4")
		case script.KindClosing:
			b.text(seg.Title, accent, largeTitleSize, "(w-text_w)/2", "70")
			b.box(accent, "(iw-360)/2", "160", "360", "4")
			for k, title := range recapTitles(s) {
				b.text(fmt.Sprintf("%d. %s", k+1, title), textColor, recapTextSize, fmt.Sprint(recapLeft), fmt.Sprint(bodyTop+k*lineStep))
			}
		default:
			b.text(seg.Title, accent, bodyTitleSize, "(w-text_w)/2", "70")
			b.box(accent, "(iw-360)/2", "135", "360", "4")
			b.bodyLines(seg, style.wrapWidth())
			b.box(trackColor, fmt.Sprint(bodyLeft), "ih-70", fmt.Sprintf("iw-%d", 2*bodyLeft), "8")
			b.box(accent, fmt.Sprint(bodyLeft), "ih-70", fmt.Sprintf("(iw-%d)*%d/%d", 2*bodyLeft, i+1, n), "8")
			b.text(fmt.Sprintf("%d/%d", i+1, n), mutedColor, pageTextSize, "w-text_w-60", "h-50")
		}

		ops = append(ops, b.ops...)
	}

	for k, op := range ops {
		if op.Kind != KindText {
			continue
		}
		if err := CheckEscaped(op.Content); err != nil {
			return nil, apperr.New(apperr.InvalidInput, "overlay.compose", "op %d: %v", k, err)
		}
	}
	return ops, nil
}

func paletteFor(kind script.Kind, i int) (bg, accent string) {
	if kind == script.KindBody {
		return bodyBackgrounds[i%len(bodyBackgrounds)], bodyAccents[i%len(bodyAccents)]
	}
	return bookendBackgrounds[i%len(bookendBackgrounds)], bookendAccents[i%len(bookendAccents)]
}

// recapTitles lists the titles between the opening and the closing segment.
// Scripts without interior segments recap the opening title.
func recapTitles(s script.Script) []string {
	n := len(s.Segments)
	if n <= 2 {
		return []string{s.Segments[0].Title}
	}
	titles := make([]string, 0, n-2)
	for _, seg := range s.Segments[1 : n-1] {
		titles = append(titles, seg.Title)
	}
	return titles
}

type builder struct {
	window timeline.Window
	ops    []Op
}

func (b *builder) background(color string) {
	b.ops = append(b.ops, Op{
		Kind:     KindBackground,
		Geometry: Geometry{X: "0", Y: "0", W: "iw", H: "ih"},
		Color:    color,
		Window:   b.window,
	})
}

func (b *builder) box(color, x, y, w, h string) {
	b.ops = append(b.ops, Op{
		Kind:     KindBox,
		Geometry: Geometry{X: x, Y: y, W: w, H: h},
		Color:    color,
		Window:   b.window,
	})
}

func (b *builder) text(content, color string, size int, x, y string) {
	b.ops = append(b.ops, Op{
		Kind:     KindText,
		Geometry: Geometry{X: x, Y: y, FontSize: size},
		Color:    color,
		Content:  Escape(content),
		Window:   b.window,
	})
}

// bodyLines stacks one wrapped line per bullet. A segment without bullets shows its narration.
func (b *builder) bodyLines(seg script.Segment, width int) {
	row := 0
	emit := func(line string, x int) {
		b.text(line, textColor, bodyTextSize, fmt.Sprint(x), fmt.Sprint(bodyTop+row*lineStep))
		row++
	}

	if len(seg.Bullets) == 0 {
		for _, line := range Wrap(seg.Narration, width) {
			emit(line, bodyLeft)
		}
		return
	}

	for _, bullet := range seg.Bullets {
		for k, line := range Wrap(bullet, width-2) {
			if k == 0 {
				emit("• "+line, bodyLeft)
			} else {
				emit(line, bodyIndent)
			}
		}
	}
}
