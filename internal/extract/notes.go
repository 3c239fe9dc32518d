package extract

import (
	"strings"

	"dispatch_parser/internal/patterns"
)

// VehicleCountLabel prefixes a requested vehicle count folded into notes.
const VehicleCountLabel = "요청차량대수"

// CollectNotes gathers free-form remarks. Collection starts at a line holding
// a note keyword, taking the value on that line, and continues verbatim
// through the following lines until a new section or a labelled field from
// stop begins. Segments are joined with a single space. A requested vehicle
// count located separately is appended when the notes do not already carry it.
func CollectNotes(lines Lines, notes, vehicleCount, stop *KeywordSet) string {
	var parts []string
	collecting := false

	for _, line := range lines {
		t := line.Text
		if value, _, ok := notes.lineValue(t); ok {
			collecting = true
			if value != "" && vehicleCount.MatchLine(t) {
				value = VehicleCountLabel + ": " + value
			}
			if value != "" {
				parts = append(parts, value)
			}
			continue
		}
		if !collecting {
			continue
		}
		if patterns.SectionPattern.MatchString(t) || (LooksLikeLabel(t) && stop.MatchLine(t)) {
			collecting = false
			continue
		}
		parts = append(parts, t)
	}

	result := strings.Join(parts, " ")
	if result == "" {
		result = LocateValue(lines, notes)
	}

	count := LocateValue(lines, vehicleCount)
	if count == "" || strings.Contains(result, count) {
		return result
	}
	if result == "" {
		return VehicleCountLabel + ": " + count
	}
	return result + " / " + VehicleCountLabel + ": " + count
}
