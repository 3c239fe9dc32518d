// Package patterns provides shared regex patterns and helper functions for
// dispatch request parsing. This file contains grok-style base patterns for
// use with the Compiler.

package patterns

// BasePatterns defines reusable regex components for grok-style pattern composition.
// These are referenced in format patterns using {PATTERN_NAME} syntax.
var BasePatterns = map[string]string{
	// Digit boundaries. RE2 has no lookbehind, so the leading boundary
	// consumes one character.
	"NB": `(?:^|[^\d])`,
	"NE": `(?:[^\d]|$)`,

	// Numbers and units. Text is upper-cased before matching.
	"NUM":   `\d+(?:\.\d+)?`,
	"TON":   `[톤T]`,
	"METRE": `(?:M|미터)`,

	// Dates and times.
	"YEAR4": `\d{4}`,
	"YEAR2": `\d{2}`,
	"MONTH": `\d{1,2}`,
	"DAY":   `\d{1,2}`,
	"HOUR":  `\d{1,2}`,
	"MIN":   `\d{2}`,

	// 오전 is a.m., 오후 is p.m.
	"MERIDIEM": `오전|오후`,

	// Contacts.
	"PHONE":       `\d{2,3}-\d{3,4}-\d{4}|\d{10,11}`,
	"HANGUL_NAME": `[가-힣]{2,4}`,
	"TITLE":       `사원|과장|대리|차장|부장|대표|팀장|실장|주임|소장|님`,

	// Administrative and road suffixes of Korean addresses.
	"ADDR_SUFFIX": `특별자치시|특별자치도|특별시|광역시|시|도|군|구|읍|면|동|리|로|길|가`,
	"LOT_SUFFIX":  `번지|번길|호`,
	"PROVINCE":    `서울|부산|대구|인천|광주|대전|울산|세종|경기|강원|충북|충남|전북|전남|경북|경남|제주`,
}
