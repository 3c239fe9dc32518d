package extract

import (
	"strings"

	"dispatch_parser/internal/patterns"
)

// How a value was read relative to its label.
const (
	ByColon    = "colon"     // "label : value" on one line.
	ByNextLine = "next_line" // "label :" with the value on the following line.
	ByInline   = "inline"    // "label value" without a colon.
)

// Located is a value found next to one of a set's keywords.
type Located struct {
	Value   string
	Keyword string
	By      string
	Pos     int // Position in Lines of the label line.
	End     int // Position in Lines of the last line consumed.
}

// Found reports whether a value was located.
func (l Located) Found() bool { return l.Value != "" }

// Locate scans lines in order and returns the value attached to the first
// keyword of set that yields one. For each line the keywords are tried longest
// first, reading the value after a colon, then from the next line when the
// colon is followed by nothing, then the text after a keyword used without a
// colon up to the next keyword of the set. An inline value must hold a letter
// or digit, and bracketed headings are never read inline.
func Locate(lines Lines, set *KeywordSet) Located {
	if set == nil {
		return Located{Pos: -1, End: -1}
	}

	for pos, line := range lines {
		for _, kw := range set.words {
			if !kw.bare.MatchString(line.Text) {
				continue
			}

			if m := kw.colon.FindStringSubmatch(line.Text); m != nil {
				if v := strings.TrimSpace(m[1]); v != "" {
					return Located{Value: v, Keyword: kw.text, By: ByColon, Pos: pos, End: pos}
				}
				next, ok := lines.Next(pos)
				if ok && !LooksLikeLabel(next.Text) && !set.MatchLine(next.Text) &&
					!set.boundary.StartsLine(next.Text) && !patterns.BracketPattern.MatchString(next.Text) {
					return Located{Value: next.Text, Keyword: kw.text, By: ByNextLine, Pos: pos, End: pos + 1}
				}
				continue
			}

			// Headings such as "[상차지]" name a section, they carry no value.
			if kw.anchored || patterns.BracketPattern.MatchString(line.Text) {
				continue
			}

			loc := kw.bare.FindStringIndex(line.Text)
			after := strings.TrimSpace(line.Text[loc[1]:])
			// A shorter keyword inside a longer label of another field.
			if patterns.InlineLabelPattern.MatchString(after) {
				continue
			}
			if v := strings.TrimSpace(set.cutAtKeyword(after, kw.text)); patterns.MeaningfulPattern.MatchString(v) {
				return Located{Value: v, Keyword: kw.text, By: ByInline, Pos: pos, End: pos}
			}
		}
	}

	return Located{Pos: -1, End: -1}
}

// LocateValue returns just the located value, or "".
func LocateValue(lines Lines, set *KeywordSet) string {
	return Locate(lines, set).Value
}

// LooksLikeLabel reports whether a line starts a new "label :" field.
func LooksLikeLabel(text string) bool {
	return patterns.LabelLinePattern.MatchString(text)
}

// lineValue reads the value a keyword introduces on a single line: after the
// colon when there is one, otherwise after the keyword.
func (s *KeywordSet) lineValue(text string) (value, word string, ok bool) {
	for _, kw := range s.words {
		if !kw.bare.MatchString(text) {
			continue
		}
		if m := kw.colon.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1]), kw.text, true
		}
		if kw.anchored {
			continue
		}
		loc := kw.bare.FindStringIndex(text)
		return strings.TrimSpace(text[loc[1]:]), kw.text, true
	}
	return "", "", false
}
