package overlay

import (
	"fmt"
	"strings"
)

// Text lands in a drawtext option value, which ffmpeg unescapes twice:
// once when splitting the filter graph and once when splitting filter options.
const (
	optionSpecials = `\':`
	graphSpecials  = `\'[],;`
)

var newlineFolder = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// Escape makes s safe to embed as a drawtext value: newlines become spaces,
// then option-level and graph-level specials are backslash-escaped in that order.
func Escape(s string) string {
	s = newlineFolder.Replace(s)
	return escapeLevel(escapeLevel(s, optionSpecials), graphSpecials)
}

// Unescape reverses Escape for newline-free input.
func Unescape(s string) string {
	return unescapeLevel(unescapeLevel(s))
}

// CheckEscaped reports whether content could terminate its option or inject
// another filter once ffmpeg parses it.
func CheckEscaped(content string) error {
	if strings.ContainsAny(content, "\r\n") {
		return fmt.Errorf("content contains a raw newline")
	}
	if err := scanLevel(content, graphSpecials); err != nil {
		return fmt.Errorf("graph level: %w", err)
	}
	if err := scanLevel(unescapeLevel(content), optionSpecials); err != nil {
		return fmt.Errorf("option level: %w", err)
	}
	return nil
}

func escapeLevel(s, specials string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if strings.ContainsRune(specials, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func unescapeLevel(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	escaped := false
	for _, r := range s {
		if !escaped && r == '\\' {
			escaped = true
			continue
		}
		escaped = false
		b.WriteRune(r)
	}
	return b.String()
}

func scanLevel(s, specials string) error {
	escaped := false
	for i, r := range s {
		switch {
		case escaped:
			escaped = false
		case r == '\\':
			escaped = true
		case strings.ContainsRune(specials, r):
			return fmt.Errorf("unescaped %q at byte %d", r, i)
		}
	}
	if escaped {
		return fmt.Errorf("dangling escape character")
	}
	return nil
}
