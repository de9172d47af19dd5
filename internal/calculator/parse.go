package calculator

import (
	"regexp"
	"strconv"
	"strings"
)

// thousandsOnly matches dot-grouped integers such as "4.000" or "1.234.567".
var thousandsOnly = regexp.MustCompile(`^-?\d{1,3}(\.\d{3})+$`)

// ParseGross reads a gross salary typed into a form. It accepts a plain
// decimal ("4000.50"), a German decimal comma ("4000,50"), German thousands
// separators ("4.000,50", "4.000") and a trailing euro sign. Without a comma
// a dot is a decimal point unless every group after it has three digits.
func ParseGross(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimSpace(strings.TrimSuffix(s, "€"))
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSuffix(s, "EUR"), "eur"))
	s = strings.ReplaceAll(s, " ", "")

	switch {
	case strings.Contains(s, ","):
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case thousandsOnly.MatchString(s):
		s = strings.ReplaceAll(s, ".", "")
	}

	if s == "" {
		return 0, &ValidationError{Field: "gross salary", Reason: "is required"}
	}

	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &ValidationError{Field: "gross salary", Reason: strconv.Quote(raw) + " is not a number"}
	}
	return value, nil
}
