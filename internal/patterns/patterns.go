// Package patterns provides shared regex patterns and helper functions for
// dispatch request parsing.
package patterns

import "regexp"

// Line structure patterns shared by the extractors.
var (
	// LabelLinePattern matches a line that begins with a Hangul label and a colon,
	// e.g. "하차지 주소 :".
	LabelLinePattern = regexp.MustCompile(`^[가-힣\s]*[:：]`)

	// InlineLabelPattern matches text that still carries a label of its own,
	// e.g. "담당자 / 연락처 : 031-..." left over after a shorter keyword.
	InlineLabelPattern = regexp.MustCompile(`^[가-힣A-Za-z\s/()·]*[:：]`)

	// PureHangulPattern matches a line of Hangul words only.
	PureHangulPattern = regexp.MustCompile(`^[가-힣\s]+$`)

	// SectionPattern matches a line that opens a new section of a request.
	SectionPattern = regexp.MustCompile(`^(?:상차|하차|요청|\[)`)

	// BracketPattern matches a bracketed section heading such as "[하차지]".
	BracketPattern = regexp.MustCompile(`^\[`)

	// MeaningfulPattern matches text holding at least one letter or digit.
	MeaningfulPattern = regexp.MustCompile(`[\p{L}\p{N}]`)

	// ColonPrefixPattern captures the value after a leading colon.
	ColonPrefixPattern = regexp.MustCompile(`^\s*[:：]\s*(.*)$`)
)

// Contact patterns.
var (
	PhonePattern = regexp.MustCompile(Expand(`{PHONE}`))

	// NameBeforePhonePattern captures a name, optionally titled, that ends
	// the text preceding a phone number.
	NameBeforePhonePattern = regexp.MustCompile(Expand(
		`([가-힣]{2,4}?)\s*(?:(?:{TITLE})\s*)*[:：,/\-]?\s*$`))

	// NameAfterPhonePattern captures a name that follows a phone number.
	NameAfterPhonePattern = regexp.MustCompile(Expand(
		`^[\s,/:：\-]*([가-힣]{2,4}?)(?:\s*(?:{TITLE}))*(?:\s|$)`))

	// TitledNamePattern matches a whole part that is a name with optional titles.
	TitledNamePattern = regexp.MustCompile(Expand(
		`^([가-힣]{2,4}?)(?:\s*(?:{TITLE}))*$`))
)

// Address token patterns. Address text is split on whitespace and each token
// is classified on its own.
var (
	// AddressTokenPattern matches a token ending in an administrative or road suffix.
	AddressTokenPattern = regexp.MustCompile(Expand(
		`^(?:[가-힣A-Za-z\d]*[가-힣](?:{ADDR_SUFFIX})|\d+(?:번길|길|가))[,.]?$`))

	// ProvinceTokenPattern matches an abbreviated province or metropolitan city.
	ProvinceTokenPattern = regexp.MustCompile(Expand(`^(?:{PROVINCE})[,.]?$`))

	// LotTokenPattern matches a building or lot number, optionally attached to
	// its road name, e.g. "642-22", "버들로899-87", "12번지".
	LotTokenPattern = regexp.MustCompile(Expand(
		`^(?:[가-힣A-Za-z]*(?:로|길|리|동|가)|산)?\d+(?:-\d+)?(?:{LOT_SUFFIX})?[,.]?$`))

	// DetailTokenPattern matches detail that may follow a lot number, such as
	// a floor, unit or building letter.
	DetailTokenPattern = regexp.MustCompile(
		`^(?:\(.*\)|(?:지하)?\d+층|\d+(?:-\d+)?호|[A-Za-z가-힣]?\d*동|\d+(?:-\d+)?)[,.]?$`)

	hangulPattern = regexp.MustCompile(`[가-힣]`)
)
