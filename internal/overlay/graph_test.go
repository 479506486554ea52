package overlay

import (
	"strings"
	"testing"

	"github.com/nguyentantai21042004/lessonreel/internal/timeline"
)

func TestGraph(t *testing.T) {
	windows, _ := timeline.Compose([]float64{5.3, 4.1, 6.04})
	ops := []Op{
		{Kind: KindBackground, Geometry: Geometry{X: "0", Y: "0", W: "iw", H: "ih"}, Color: "0x1a1a2e", Window: windows[0]},
		{Kind: KindText, Geometry: Geometry{X: "(w-text_w)/2", Y: "70", FontSize: 42}, Color: "0xe94560", Content: Escape("a: b"), Window: windows[1]},
		{Kind: KindBox, Geometry: Geometry{X: "100", Y: "ih-70", W: "iw-200", H: "8"}, Color: "0xffffff@0.15", Window: windows[2]},
	}

	got := strings.Split(Graph(ops, ""), ",drawtext")
	if len(got) != 2 {
		t.Fatalf("unexpected graph: %q", got)
	}

	full := Graph(ops, "")
	wants := []string{
		"drawbox=x=0:y=0:w=iw:h=ih:color=0x1a1a2e:t=fill:enable='gte(t,0.0)*lt(t,5.3)'",
		`drawtext=expansion=none:text=a\\: b:fontcolor=0xe94560:fontsize=42:x=(w-text_w)/2:y=70:enable='gte(t,5.3)*lt(t,9.4)'`,
		"drawbox=x=100:y=ih-70:w=iw-200:h=8:color=0xffffff@0.15:t=fill:enable='gte(t,9.4)*lt(t,15.5)'",
	}
	for _, w := range wants {
		if !strings.Contains(full, w) {
			t.Errorf("graph missing %q\n in %q", w, full)
		}
	}
}

func TestGraphFontFile(t *testing.T) {
	w := timeline.Window{Start: 0, End: 1}
	ops := []Op{{Kind: KindText, Geometry: Geometry{X: "0", Y: "0", FontSize: 10}, Color: "white", Content: Escape("x"), Window: w}}

	g := Graph(ops, `C:\fonts\DejaVu Sans.ttf`)
	if !strings.HasPrefix(g, `drawtext=fontfile=C\\:\\\\fonts\\\\DejaVu Sans.ttf:expansion=none`) {
		t.Errorf("Graph() = %q", g)
	}
}

func TestGateSharedBoundaries(t *testing.T) {
	windows, _ := timeline.Compose([]float64{0.35, 0.35, 0.35, 0.35})
	for i := 1; i < len(windows); i++ {
		prev := gate(windows[i-1].Start, windows[i-1].End, false)
		cur := gate(windows[i].Start, windows[i].End, false)
		prevEnd := prev[strings.Index(prev, "lt(t,")+5 : strings.LastIndex(prev, ")")]
		curStart := cur[strings.Index(cur, "gte(t,")+6 : strings.Index(cur, ")*")]
		if prevEnd != curStart {
			t.Errorf("gap or overlap between windows %d and %d: %s vs %s", i-1, i, prev, cur)
		}
	}
}
