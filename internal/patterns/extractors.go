// Package patterns provides extraction functions for dispatch request parsing.
package patterns

import (
	"strings"
)

// Contact is a contact person split into name and phone number.
type Contact struct {
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// ExtractPhone returns the first phone number in text, or "".
func ExtractPhone(text string) string {
	return PhonePattern.FindString(text)
}

// SplitContact splits free contact text into a name and phone number.
// A "/" separated pair is classified by which side holds the phone number;
// otherwise the name is taken from the Hangul run next to the phone number.
// Text with no phone number is returned whole as the name. Delimiters and
// punctuation alone give an empty Contact.
func SplitContact(text string) Contact {
	text = strings.TrimSpace(text)
	if text == "" {
		return Contact{}
	}

	if strings.Contains(text, "/") {
		parts := SplitParts(text, "/")
		switch len(parts) {
		case 0:
			return Contact{}
		case 1:
			text = parts[0]
		}
		if len(parts) >= 2 {
			for i, p := range parts {
				phone := ExtractPhone(p)
				if phone == "" {
					continue
				}
				c := Contact{Phone: phone}
				for j, other := range parts {
					if j == i {
						continue
					}
					if name := cleanName(other); name != "" {
						c.Name = name
						break
					}
				}
				if c.Name == "" {
					c.Name = nameAround(p, phone)
				}
				return c
			}
		}
	}

	loc := PhonePattern.FindStringIndex(text)
	if loc == nil {
		if !MeaningfulPattern.MatchString(text) {
			return Contact{}
		}
		return Contact{Name: text}
	}

	return Contact{
		Name:  nameAround(text, text[loc[0]:loc[1]]),
		Phone: text[loc[0]:loc[1]],
	}
}

// nameAround finds the name next to phone within text, preferring the text
// before the number.
func nameAround(text, phone string) string {
	idx := strings.Index(text, phone)
	if idx < 0 {
		return ""
	}
	before := strings.TrimSpace(text[:idx])
	after := text[idx+len(phone):]

	if before != "" {
		if m := NameBeforePhonePattern.FindStringSubmatch(before); len(m) > 1 && !isTitle(m[1]) {
			return m[1]
		}
		// Not Hangul: keep the first word, e.g. a romanised name.
		first := strings.Fields(before)[0]
		return strings.Trim(first, ":：,/-")
	}

	if m := NameAfterPhonePattern.FindStringSubmatch(after); len(m) > 1 && !isTitle(m[1]) {
		return m[1]
	}
	return ""
}

// cleanName strips trailing titles from a name-only part.
func cleanName(part string) string {
	part = strings.TrimSpace(part)
	if m := TitledNamePattern.FindStringSubmatch(part); len(m) > 1 && !isTitle(m[1]) {
		return m[1]
	}
	return part
}

func isTitle(s string) bool {
	switch s {
	case "사원", "과장", "대리", "차장", "부장", "대표", "팀장", "실장", "주임", "소장":
		return true
	}
	return false
}

// IsAddressLike reports whether text contains an address component such as
// a province, an administrative or road suffix, or a road-attached lot number.
func IsAddressLike(text string) bool {
	for _, tok := range strings.Fields(text) {
		if isAddressToken(tok) || (LotTokenPattern.MatchString(tok) && hangulPattern.MatchString(tok)) {
			return true
		}
	}
	return false
}

func isAddressToken(tok string) bool {
	return ProvinceTokenPattern.MatchString(tok) || AddressTokenPattern.MatchString(tok)
}

// SplitAddressText separates an address from company text written on the same
// line, e.g. "경기도 화성시 우정읍 버들로899-87 대림플라텍". The address is the span
// from the first address token through the last one, extended by a lot number
// and any floor or unit detail after it. Everything else is the company.
// address is "" when text contains no address token.
func SplitAddressText(text string) (address, company string) {
	tokens := strings.Fields(text)
	first, last := -1, -1
	sawLot := false

	for i, tok := range tokens {
		if sawLot {
			if DetailTokenPattern.MatchString(tok) {
				last = i
				continue
			}
			break
		}
		switch {
		case isAddressToken(tok):
			if first < 0 {
				first = i
			}
			last = i
		case LotTokenPattern.MatchString(tok) && (first >= 0 || hangulPattern.MatchString(tok)):
			if first < 0 {
				first = i
			}
			last = i
			sawLot = true
		}
	}

	if first < 0 {
		return "", strings.TrimSpace(text)
	}

	address = strings.Join(tokens[first:last+1], " ")
	rest := make([]string, 0, len(tokens)-(last-first+1))
	rest = append(rest, tokens[:first]...)
	rest = append(rest, tokens[last+1:]...)
	return address, strings.Join(rest, " ")
}

// SplitParts splits text on sep and returns the trimmed, non-empty parts.
func SplitParts(text, sep string) []string {
	var parts []string
	for _, p := range strings.Split(text, sep) {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}
