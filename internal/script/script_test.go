package script

import (
	"testing"

	"github.com/nguyentantai21042004/lessonreel/internal/apperr"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		i, n int
		want Kind
	}{
		{"first", 0, 5, KindOpening},
		{"interior", 2, 5, KindBody},
		{"last", 4, 5, KindClosing},
		{"single", 0, 1, KindOpening},
		{"two segments last", 1, 2, KindClosing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.i, tt.n); got != tt.want {
				t.Errorf("KindOf(%d, %d) = %v, want %v", tt.i, tt.n, got, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		script  Script
		wantErr bool
	}{
		{"valid", Script{Title: "T", Segments: []Segment{{Title: "A", Narration: "n"}}}, false},
		{"no segments", Script{Title: "T"}, true},
		{"empty narration", Script{Title: "T", Segments: []Segment{{Title: "A", Narration: "  "}}}, true},
		{"empty title", Script{Title: "T", Segments: []Segment{{Narration: "n"}}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(&tt.script)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !apperr.Is(err, apperr.InvalidInput) {
				t.Errorf("error kind = %v, want InvalidInput", apperr.KindOf(err))
			}
		})
	}
}

func TestValidateNormalizes(t *testing.T) {
	s := Script{Segments: []Segment{{Title: " A ", Bullets: []string{" one ", "", "  "}, Narration: " n "}}}
	if err := Validate(&s); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if s.Title != "A" {
		t.Errorf("Title = %q, want first segment title", s.Title)
	}
	if len(s.Segments[0].Bullets) != 1 || s.Segments[0].Bullets[0] != "one" {
		t.Errorf("Bullets = %q", s.Segments[0].Bullets)
	}
}

func TestWithBookends(t *testing.T) {
	s := Script{Title: "Linear Algebra", Segments: []Segment{
		{Title: "A", Narration: "a"},
		{Title: "B", Narration: "b"},
	}}

	out := WithBookends(s)
	if len(out.Segments) != 4 {
		t.Fatalf("len(Segments) = %d, want 4", len(out.Segments))
	}
	if out.Segments[0].Title != "Linear Algebra" {
		t.Errorf("opening title = %q", out.Segments[0].Title)
	}
	if out.Segments[1].Title != "A" || out.Segments[2].Title != "B" {
		t.Error("body order not preserved")
	}
	for i, seg := range out.Segments {
		if seg.Narration == "" {
			t.Errorf("segment %d has empty narration", i)
		}
	}
	if len(s.Segments) != 2 {
		t.Error("WithBookends mutated its input")
	}
}
