// Package formatting provides parsing utilities for loosely structured text:
// byte sizes, numeric tokens embedded in prose, and JSON replies wrapped in
// markdown fences.
package formatting

import (
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

var units = []string{"B", "KB", "MB", "GB", "TB"}

var bytesPattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*([A-Za-z]*)$`)

// FormatBytes renders n in base-1024 units up to TB with the given number
// of decimals. Negative precision is treated as zero.
func FormatBytes(n int64, precision int) string {
	size := float64(n)
	i := 0
	for math.Abs(size) >= 1024 && i < len(units)-1 {
		size /= 1024
		i++
	}
	if i == 0 {
		return strconv.FormatInt(n, 10) + " B"
	}
	return strconv.FormatFloat(size, 'f', max(precision, 0), 64) + " " + units[i]
}

// ParseBytes reads sizes such as "1MB", "512 kb" or "2048". Units are
// base-1024 and case-insensitive; a bare number is bytes.
func ParseBytes(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty byte size")
	}

	m := bytesPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid byte size: %q", s)
	}

	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid byte size number: %w", err)
	}

	exp := 0
	if unit := strings.ToUpper(m[2]); unit != "" {
		exp = slices.Index(units, unit)
		if exp < 0 {
			return 0, fmt.Errorf("unknown byte size unit: %q", m[2])
		}
	}
	return int64(value * math.Pow(1024, float64(exp))), nil
}
