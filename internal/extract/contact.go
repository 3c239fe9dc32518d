package extract

import (
	"dispatch_parser/internal/patterns"
)

// LocateContact locates a contact value and splits it into name and phone.
// When the label line holds only a name or only a number, the next line is
// taken as well if it is not a new field.
func LocateContact(lines Lines, set, stop *KeywordSet) patterns.Contact {
	loc := Locate(lines, set)
	if !loc.Found() {
		return patterns.Contact{}
	}

	c := patterns.SplitContact(loc.Value)
	if c.Name != "" && c.Phone != "" {
		return c
	}

	next, ok := lines.Next(loc.End)
	if !ok || LooksLikeLabel(next.Text) || stop.MatchLine(next.Text) || patterns.BracketPattern.MatchString(next.Text) {
		return c
	}

	more := patterns.SplitContact(next.Text)
	switch {
	case c.Phone == "" && more.Phone != "":
		c.Phone = more.Phone
		if more.Name != "" && (c.Name == "" || c.Name == loc.Value) {
			c.Name = more.Name
		}
	case c.Phone != "" && c.Name == "" && more.Phone == "":
		if m := patterns.TitledNamePattern.FindStringSubmatch(next.Text); m != nil {
			c.Name = m[1]
		}
	}
	return c
}
