package extract

import (
	"strings"

	"dispatch_parser/internal/patterns"
)

// Place is a pickup or delivery location split into address and company.
type Place struct {
	Address string `json:"address,omitempty"`
	Company string `json:"company,omitempty"`
}

// LocatePlace locates a place value and extends it over continuation lines.
// A following line continues the value while it is not a new label, holds no
// keyword from stop, and is either address-like or plain Hangul text such as a
// company name written under its address.
func LocatePlace(lines Lines, set, stop *KeywordSet) Located {
	loc := Locate(lines, set)
	if !loc.Found() {
		return loc
	}

	parts := []string{loc.Value}
	for i := loc.End + 1; i < len(lines); i++ {
		t := lines[i].Text
		if LooksLikeLabel(t) || stop.MatchLine(t) || patterns.BracketPattern.MatchString(t) {
			break
		}
		if !patterns.IsAddressLike(t) && !patterns.PureHangulPattern.MatchString(t) {
			break
		}
		parts = append(parts, t)
		loc.End = i
	}
	loc.Value = strings.Join(parts, " ")
	return loc
}

// SplitPlace splits a combined place value into address and company.
//
// With a "/" delimiter the part that looks like an address is the address.
// When both or neither part do, the first part is the address and the second
// the company. Without a delimiter the address-suffixed span is the address
// and the remaining text is the company. Text with no address component at all
// is the company. No text is ever dropped.
func SplitPlace(text string) Place {
	text = strings.TrimSpace(text)
	if text == "" {
		return Place{}
	}

	if strings.Contains(text, "/") {
		parts := patterns.SplitParts(text, "/")
		switch len(parts) {
		case 0:
			return Place{}
		case 1:
			return classifyPlace(parts[0])
		}
		first, second := parts[0], strings.Join(parts[1:], " / ")
		if !patterns.IsAddressLike(first) && patterns.IsAddressLike(second) {
			return Place{Address: second, Company: first}
		}
		return Place{Address: first, Company: second}
	}

	address, company := patterns.SplitAddressText(text)
	if address == "" {
		return Place{Company: text}
	}
	return Place{Address: address, Company: company}
}

func classifyPlace(part string) Place {
	if patterns.IsAddressLike(part) {
		return Place{Address: part}
	}
	return Place{Company: part}
}

// SplitAddressCompany locates a combined place value and splits it.
func SplitAddressCompany(lines Lines, set, stop *KeywordSet) Place {
	return SplitPlace(LocatePlace(lines, set, stop).Value)
}
