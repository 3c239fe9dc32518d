// Package extract locates and normalises dispatch fields in free-text
// requests. Every function is pure and returns "" when a value is absent.
package extract

import (
	"strings"
)

// Line is one non-empty, trimmed line of a request together with its index in
// the original text.
type Line struct {
	Index int
	Text  string
}

// Lines is the ordered sequence of non-empty lines of a request.
type Lines []Line

// SplitLines splits text on any line ending and drops blank lines.
func SplitLines(text string) Lines {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var lines Lines
	for i, raw := range strings.Split(text, "\n") {
		if t := strings.TrimSpace(raw); t != "" {
			lines = append(lines, Line{Index: i, Text: t})
		}
	}
	return lines
}

// Next returns the line physically following the one at pos. It is absent
// when that line was blank in the original text.
func (ls Lines) Next(pos int) (Line, bool) {
	if pos < 0 || pos+1 >= len(ls) {
		return Line{}, false
	}
	if ls[pos+1].Index != ls[pos].Index+1 {
		return Line{}, false
	}
	return ls[pos+1], true
}
