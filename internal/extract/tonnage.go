package extract

import "dispatch_parser/internal/patterns"

// ExtractTonnage locates the requested tonnage and normalises it.
func ExtractTonnage(lines Lines, set *KeywordSet) string {
	return patterns.NormaliseTonnage(LocateValue(lines, set))
}
