package testsession

import (
	"regexp"
	"strings"
	"time"
)

const maxLabelRunes = 50

var measuredAtPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// normalizeLabel trims whitespace, maps empty to nil and truncates to the
// column limit. Truncation is silent; callers never see an error for a
// long label.
func normalizeLabel(label *string) *string {
	if label == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*label)
	if trimmed == "" {
		return nil
	}
	if runes := []rune(trimmed); len(runes) > maxLabelRunes {
		trimmed = string(runes[:maxLabelRunes])
	}
	return &trimmed
}

// parseMeasuredAt parses a strict YYYY-MM-DD calendar date. The regexp
// rejects shapes time.Parse would tolerate; time.Parse rejects impossible
// dates like 2024-02-30.
func parseMeasuredAt(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if !measuredAtPattern.MatchString(s) {
		return time.Time{}, invalidInput("measuredAt must be a YYYY-MM-DD date")
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, invalidInput("measuredAt must be a valid calendar date")
	}
	return t, nil
}
