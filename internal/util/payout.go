package util

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	reLeadingFloat = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)`)
	reGroupedInt   = regexp.MustCompile(`^\d{1,3}(?:,\d{3})+$`)
)

// FormatPayoutShorthand renders 163750 as "163.75k" and 2500000 as "2.5m".
func FormatPayoutShorthand(value float64) string {
	abs := value
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs >= 1_000_000:
		return trimDecimals(strconv.FormatFloat(value/1_000_000, 'f', 2, 64)) + "m"
	case abs >= 1_000:
		return trimDecimals(strconv.FormatFloat(value/1_000, 'f', 2, 64)) + "k"
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// ParsePayoutShorthand is the inverse of FormatPayoutShorthand. Anything it
// cannot read yields 0.
func ParsePayoutShorthand(input string) float64 {
	s := strings.ToLower(strings.TrimSpace(input))
	if s == "" {
		return 0
	}
	s = strings.ReplaceAll(s, ",", "")

	multiplier := 1.0
	switch {
	case strings.HasSuffix(s, "k"):
		multiplier = 1_000
		s = strings.TrimSpace(strings.TrimSuffix(s, "k"))
	case strings.HasSuffix(s, "m"):
		multiplier = 1_000_000
		s = strings.TrimSpace(strings.TrimSuffix(s, "m"))
	}

	token := reLeadingFloat.FindString(s)
	if token == "" {
		return 0
	}
	parsed, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0
	}
	return parsed * multiplier
}

// ParseGroupedInt reads "12,345" or "12345". ok is false for anything else.
func ParseGroupedInt(token string) (int, bool) {
	compact := strings.TrimSpace(token)
	if reGroupedInt.MatchString(compact) {
		compact = strings.ReplaceAll(compact, ",", "")
	}
	n, err := strconv.Atoi(compact)
	if err != nil {
		return 0, false
	}
	return n, true
}

func trimDecimals(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// FormatKiloPayout always renders in thousands: 1500 -> "1.5k", 2500000 ->
// "2500k". Zero renders as "".
func FormatKiloPayout(value int) string {
	if value == 0 {
		return ""
	}
	return trimDecimals(strconv.FormatFloat(float64(value)/1_000, 'f', 2, 64)) + "k"
}
