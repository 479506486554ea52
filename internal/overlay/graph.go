package overlay

import (
	"fmt"
	"math"
	"strings"
)

// Graph renders ops into a single comma-separated drawbox/drawtext chain.
// Each op is visible while gte(t,start)*lt(t,end) holds, with bounds rounded to
// one decimal so adjacent windows share the exact same boundary value.
func Graph(ops []Op, fontFile string) string {
	var last float64
	for _, op := range ops {
		last = math.Max(last, op.Window.End)
	}

	filters := make([]string, 0, len(ops))
	for _, op := range ops {
		filters = append(filters, renderOp(op, fontFile, op.Window.End >= last))
	}
	return strings.Join(filters, ",")
}

func renderOp(op Op, fontFile string, final bool) string {
	g := op.Geometry
	enable := gate(op.Window.Start, op.Window.End, final)

	switch op.Kind {
	case KindBackground, KindBox:
		return fmt.Sprintf("drawbox=x=%s:y=%s:w=%s:h=%s:color=%s:t=fill:enable=%s",
			g.X, g.Y, g.W, g.H, op.Color, enable)
	default:
		var font string
		if fontFile != "" {
			font = "fontfile=" + Escape(fontFile) + ":"
		}
		return fmt.Sprintf("drawtext=%sexpansion=none:text=%s:fontcolor=%s:fontsize=%d:x=%s:y=%s:enable=%s",
			font, op.Content, op.Color, g.FontSize, g.X, g.Y, enable)
	}
}

// gate builds the closed-open visibility test. The final window's end is rounded up
// so the last frames are never left uncovered.
func gate(start, end float64, final bool) string {
	e := round1(end)
	if final {
		e = math.Ceil(end*10) / 10
	}
	return fmt.Sprintf("'gte(t,%.1f)*lt(t,%.1f)'", round1(start), e)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
