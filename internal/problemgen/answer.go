package problemgen

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseAnswer parses a learner's typed answer. Only plain decimal numbers
// are accepted; surrounding whitespace is ignored.
func ParseAnswer(input string) (float64, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, fmt.Errorf("empty answer")
	}
	v, err := strconv.ParseFloat(input, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q: %w", input, err)
	}
	return v, nil
}

// CheckAnswer reports whether input equals the problem's answer.
//
// Comparison is exact float equality with no tolerance: problems are
// written to have exact answers, so "0.30" matches 0.3 but "0.333" does not
// match 1/3.
func CheckAnswer(input string, p Problem) bool {
	v, err := ParseAnswer(input)
	if err != nil {
		return false
	}
	return v == p.Answer
}
