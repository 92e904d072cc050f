package problemgen

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

// maxTextLen is the longest question text accepted, in characters.
const maxTextLen = 500

// StructuralValidator accepts problems with displayable text and a finite
// answer. Whether the answer is right is not its concern.
type StructuralValidator struct{}

var structuralChecks = []func(p *Problem) string{
	func(p *Problem) string {
		if strings.TrimSpace(p.Text) == "" {
			return "questionText is empty"
		}
		return ""
	},
	func(p *Problem) string {
		if n := utf8.RuneCountInString(p.Text); n > maxTextLen {
			return fmt.Sprintf("questionText has %d characters, limit is %d", n, maxTextLen)
		}
		return ""
	},
	func(p *Problem) string {
		if math.IsNaN(p.Answer) || math.IsInf(p.Answer, 0) {
			return "answer is not a finite number"
		}
		return ""
	},
}

func (StructuralValidator) Name() string { return "structural" }

func (v StructuralValidator) Validate(p *Problem) *ValidationError {
	for _, check := range structuralChecks {
		if msg := check(p); msg != "" {
			return &ValidationError{Validator: v.Name(), Message: msg}
		}
	}
	return nil
}
