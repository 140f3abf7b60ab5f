package formatting

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrParseFailed reports a reply that holds no decodable JSON.
var ErrParseFailed = errors.New("failed to parse response")

var fencePattern = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(.*?)\\n?```")

// Parse decodes a generation reply into T. It tries, in order: the whole
// reply, the first markdown code fence, and the span between the first
// opening and last closing bracket of T's JSON kind.
func Parse[T any](content string) (T, error) {
	content = strings.TrimSpace(content)

	for _, candidate := range candidates(content) {
		var result T
		if err := json.Unmarshal([]byte(candidate), &result); err == nil {
			return result, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("%w: %s", ErrParseFailed, truncate(content, 120))
}

func candidates(content string) []string {
	out := []string{content}
	if m := fencePattern.FindStringSubmatch(content); len(m) == 2 {
		out = append(out, strings.TrimSpace(m[1]))
	}
	for _, pair := range [][2]string{{"[", "]"}, {"{", "}"}} {
		start := strings.Index(content, pair[0])
		end := strings.LastIndex(content, pair[1])
		if start >= 0 && end > start {
			out = append(out, content[start:end+1])
		}
	}
	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
