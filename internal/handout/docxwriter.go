package handout

import (
	"context"
	"fmt"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"

	"github.com/nguyentantai21042004/lessonreel/internal/caption"
	"github.com/nguyentantai21042004/lessonreel/internal/script"
)

const (
	fontName = "Times New Roman"
	fontSize = 13
)

// Write lays out one section per segment (title, bullets, narration)
// followed by the transcript with cue start times.
func (w *implWriter) Write(ctx context.Context, s script.Script, cues []caption.Cue, outPath string) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("new document: %w", err)
	}

	addStyledRun(doc.AddParagraph(""), s.Title, true, 16)

	n := len(s.Segments)
	for i, seg := range s.Segments {
		heading := seg.Title
		if script.KindOf(i, n) == script.KindBody {
			heading = fmt.Sprintf("%d. %s", i, seg.Title)
		}
		addStyledRun(doc.AddParagraph(""), heading, true, headingSize(2))

		for _, b := range seg.Bullets {
			addStyledRun(doc.AddParagraph(""), "• "+b, false, fontSize)
		}
		if seg.Narration != "" {
			p := doc.AddParagraph("")
			p.AddText(seg.Narration).Font(fontName).Size(fontSize).Color("444444")
		}
	}

	if len(cues) > 0 {
		doc.AddParagraph("")
		addStyledRun(doc.AddParagraph(""), "Transcript", true, headingSize(1))
		for _, c := range cues {
			p := doc.AddParagraph("")
			p.AddText("["+caption.FormatTimestamp(c.Start)+"] ").Font(fontName).Size(fontSize).Color("888888")
			p.AddText(c.Text).Font(fontName).Size(fontSize).Color("000000")
		}
	}

	if err := doc.SaveTo(outPath); err != nil {
		return fmt.Errorf("save handout: %w", err)
	}

	w.logger.Debug(ctx, "Handout written: %s", outPath)
	return nil
}

func headingSize(level int) uint64 {
	switch level {
	case 1:
		return 16
	case 2:
		return 15
	case 3:
		return 14
	default:
		return fontSize
	}
}

func addStyledRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	run := p.AddText(strings.TrimSpace(text)).Font(fontName).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}
