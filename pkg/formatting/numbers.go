package formatting

import (
	"strconv"
	"strings"
)

// ExtractFirstFloat returns the first whitespace-separated token in s that is a
// plain decimal number: ASCII digits with at most one decimal point. Tokens
// carrying signs, units, or punctuation ("0.4,", "40%") do not match.
func ExtractFirstFloat(s string) (float64, bool) {
	for _, tok := range strings.Fields(s) {
		if !isDecimal(tok) {
			continue
		}
		if v, err := strconv.ParseFloat(tok, 64); err == nil {
			return v, true
		}
	}
	return 0, false
}

// ExtractFirstInt returns the first whitespace-separated token in s made
// entirely of ASCII digits.
func ExtractFirstInt(s string) (int64, bool) {
	for _, tok := range strings.Fields(s) {
		if !isDigits(tok) {
			continue
		}
		if v, err := strconv.ParseInt(tok, 10, 64); err == nil {
			return v, true
		}
	}
	return 0, false
}

// ExtractDigits concatenates every ASCII digit in s and parses the result.
// "€2,500,000" yields 2500000. Reports false when s holds no digits or the
// concatenation overflows int64.
func ExtractDigits(s string) (int64, bool) {
	var sb strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	if sb.Len() == 0 {
		return 0, false
	}
	v, err := strconv.ParseInt(sb.String(), 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ValueAfterColon returns the trimmed text following the first colon in s.
func ValueAfterColon(s string) (string, bool) {
	_, after, ok := strings.Cut(s, ":")
	if !ok {
		return "", false
	}
	return strings.TrimSpace(after), true
}

// ContainsFold reports whether substr is within s, ignoring case.
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// ContainsAllFold reports whether every substring is within s, ignoring case.
func ContainsAllFold(s string, substrs ...string) bool {
	lower := strings.ToLower(s)
	for _, sub := range substrs {
		if !strings.Contains(lower, strings.ToLower(sub)) {
			return false
		}
	}
	return true
}

// ContainsAnyFold reports whether any substring is within s, ignoring case.
func ContainsAnyFold(s string, substrs ...string) bool {
	lower := strings.ToLower(s)
	for _, sub := range substrs {
		if strings.Contains(lower, strings.ToLower(sub)) {
			return true
		}
	}
	return false
}

func isDigits(tok string) bool {
	if tok == "" {
		return false
	}
	for _, r := range tok {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func isDecimal(tok string) bool {
	return isDigits(strings.Replace(tok, ".", "", 1))
}
