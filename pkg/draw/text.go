package draw

import (
	"html"
	"strings"
	"unicode"
)

// SplitLegend breaks legend text into display lines. A single space (or
// any other whitespace) is a line break; exactly two consecutive spaces
// collapse into one literal space inside the current line. This lets
// authors force a space within one visual line while wrapping on normal
// word boundaries.
//
// Implemented as a direct scan rather than sentinel-byte substitution so
// legend text can contain any character.
func SplitLegend(text string) []string {
	var (
		lines []string
		cur   strings.Builder
	)
	flush := func() {
		if cur.Len() > 0 {
			lines = append(lines, cur.String())
			cur.Reset()
		}
	}

	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == ' ' && i+1 < len(runes) && runes[i+1] == ' ' {
			// double space: literal space within the line
			cur.WriteRune(' ')
			i++
			continue
		}
		if unicode.IsSpace(r) {
			flush()
			continue
		}
		cur.WriteRune(r)
	}
	flush()
	return lines
}

// classAttr renders a class attribute from the non-empty entries,
// including the leading space so call sites can inline it. Returns ""
// when nothing remains.
func classAttr(classes ...string) string {
	kept := make([]string, 0, len(classes))
	for _, c := range classes {
		if c != "" {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		return ""
	}
	return ` class="` + strings.Join(kept, " ") + `"`
}

// escape sanitizes legend text for embedding in SVG.
func escape(s string) string {
	return html.EscapeString(s)
}
