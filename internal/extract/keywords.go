package extract

import (
	"regexp"
	"sort"
	"unicode"
	"unicode/utf8"
)

// KeywordSet is an immutable, ordered set of label synonyms for one field.
// Keywords are matched case-insensitively, longest first.
type KeywordSet struct {
	words []keyword

	// boundary holds labels of other fields. A next-line value may not open
	// with one of them.
	boundary *KeywordSet
}

type keyword struct {
	text  string
	bare  *regexp.Regexp // keyword anywhere in the line
	colon *regexp.Regexp // keyword followed by a colon; group 1 is the value

	// A single Hangul syllable such as 출 or 착 is only a label at the start
	// of a line followed by a colon.
	anchored bool
}

// NewKeywordSet compiles words into a set. Duplicates and blanks are dropped.
func NewKeywordSet(words ...string) *KeywordSet {
	seen := make(map[string]bool, len(words))
	var uniq []string
	for _, w := range words {
		if w == "" || seen[w] {
			continue
		}
		seen[w] = true
		uniq = append(uniq, w)
	}

	sort.SliceStable(uniq, func(i, j int) bool {
		return utf8.RuneCountInString(uniq[i]) > utf8.RuneCountInString(uniq[j])
	})

	s := &KeywordSet{words: make([]keyword, 0, len(uniq))}
	for _, w := range uniq {
		q := regexp.QuoteMeta(w)
		kw := keyword{text: w, anchored: isSingleSyllable(w)}
		if kw.anchored {
			kw.bare = regexp.MustCompile(`(?i)^` + q + `\s*[:：]`)
			kw.colon = regexp.MustCompile(`(?i)^` + q + `\s*[:：]\s*(.*)$`)
		} else {
			kw.bare = regexp.MustCompile(`(?i)` + q)
			kw.colon = regexp.MustCompile(`(?i)` + q + `\s*[:：]\s*(.*)$`)
		}
		s.words = append(s.words, kw)
	}
	return s
}

// Union returns a set holding the keywords of every given set.
func Union(sets ...*KeywordSet) *KeywordSet {
	var words []string
	for _, s := range sets {
		words = append(words, s.Words()...)
	}
	return NewKeywordSet(words...)
}

// Words returns the keywords in match order.
func (s *KeywordSet) Words() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.words))
	for i, kw := range s.words {
		out[i] = kw.text
	}
	return out
}

// Len returns the number of keywords.
func (s *KeywordSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.words)
}

// Has reports whether word is one of the set's keywords.
func (s *KeywordSet) Has(word string) bool {
	if s == nil {
		return false
	}
	for _, kw := range s.words {
		if kw.text == word {
			return true
		}
	}
	return false
}

// WithBoundary returns a copy of s that rejects next-line values opening with
// a keyword of b, such as a bare "비고" under an empty "상차지 :".
func (s *KeywordSet) WithBoundary(b *KeywordSet) *KeywordSet {
	if s == nil {
		return nil
	}
	return &KeywordSet{words: s.words, boundary: b}
}

// StartsLine reports whether line opens with a keyword of the set.
func (s *KeywordSet) StartsLine(line string) bool {
	if s == nil {
		return false
	}
	for _, kw := range s.words {
		if loc := kw.bare.FindStringIndex(line); loc != nil && loc[0] == 0 {
			return true
		}
	}
	return false
}

// MatchLine reports whether any keyword of the set appears in line.
func (s *KeywordSet) MatchLine(line string) bool {
	if s == nil {
		return false
	}
	for _, kw := range s.words {
		if kw.bare.MatchString(line) {
			return true
		}
	}
	return false
}

// cutAtKeyword truncates text at the first keyword of the set other than skip.
func (s *KeywordSet) cutAtKeyword(text, skip string) string {
	end := len(text)
	for _, kw := range s.words {
		if kw.text == skip || kw.anchored {
			continue
		}
		if loc := kw.bare.FindStringIndex(text); loc != nil && loc[0] < end {
			end = loc[0]
		}
	}
	return text[:end]
}

func isSingleSyllable(w string) bool {
	r, size := utf8.DecodeRuneInString(w)
	return size == len(w) && unicode.Is(unicode.Hangul, r)
}
