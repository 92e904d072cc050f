package problemgen

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"
)

// Intn is the randomness source the fallback templates draw from.
// *rand.Rand satisfies it.
type Intn interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// template builds an ASCII arithmetic expression for a level.
type template func(r Intn, l Level) string

// between returns a random integer in [lo, hi].
func between(r Intn, lo, hi int) int {
	return lo + r.IntN(hi-lo+1)
}

var fallbackTemplates = []struct {
	from, to  Level
	templates []template
}{
	{1, 2, []template{
		func(r Intn, l Level) string {
			return fmt.Sprintf("%d + %d", between(r, 1, 10)+int(l), between(r, 1, 10))
		},
		func(r Intn, l Level) string {
			b := between(r, 1, 10)
			return fmt.Sprintf("%d - %d", b+between(r, 0, 10)*int(l), b)
		},
		func(r Intn, _ Level) string {
			return fmt.Sprintf("%d * %d", between(r, 2, 9), between(r, 2, 9))
		},
		func(r Intn, _ Level) string {
			d := between(r, 2, 9)
			return fmt.Sprintf("%d / %d", d*between(r, 1, 10), d)
		},
	}},
	{3, 5, []template{
		func(r Intn, _ Level) string {
			return fmt.Sprintf("%d + %d * %d", between(r, 5, 50), between(r, 2, 12), between(r, 2, 12))
		},
		func(r Intn, _ Level) string {
			return fmt.Sprintf("(%d + %d) * %d", between(r, 2, 20), between(r, 2, 20), between(r, 2, 9))
		},
		func(r Intn, _ Level) string {
			a, b := between(r, 3, 15), between(r, 3, 15)
			return fmt.Sprintf("%d * %d - %d", a, b, between(r, 1, a*b))
		},
		func(r Intn, _ Level) string {
			return fmt.Sprintf("%d + %d", between(r, 100, 999), between(r, 100, 999))
		},
	}},
	{6, 10, []template{
		func(r Intn, _ Level) string {
			return fmt.Sprintf("(%d - %d) * %d + %d", between(r, 20, 60), between(r, 1, 19), between(r, 3, 12), between(r, 1, 50))
		},
		func(r Intn, _ Level) string {
			d := between(r, 3, 12)
			return fmt.Sprintf("%d / %d + %d", d*between(r, 5, 25), d, between(r, 10, 99))
		},
		func(r Intn, _ Level) string {
			return fmt.Sprintf("%d * (%d + %d) - %d", between(r, 3, 15), between(r, 5, 30), between(r, 5, 30), between(r, 1, 99))
		},
	}},
	{11, 20, []template{
		func(r Intn, _ Level) string {
			a := between(r, 11, 40)
			b := between(r, 2, a-1)
			return fmt.Sprintf("(%d + %d) * (%d - %d)", a, b, a, b)
		},
		func(r Intn, _ Level) string {
			return fmt.Sprintf("%d * %d * %d - %d", between(r, 6, 25), between(r, 6, 25), between(r, 2, 9), between(r, 100, 999))
		},
		func(r Intn, _ Level) string {
			a, b := between(r, 12, 35), between(r, 12, 35)
			return fmt.Sprintf("%d * %d - %d * %d", a, a, b, b)
		},
	}},
}

// Fallback builds a synthetic arithmetic problem for level. It never fails
// and performs no I/O. The answer is computed from the same expression the
// text shows.
func Fallback(level Level) Problem {
	return FallbackWithRand(level, globalRand{})
}

// FallbackWithRand is Fallback with an explicit randomness source.
func FallbackWithRand(level Level, r Intn) Problem {
	level = level.Clamp()

	var pool []template
	for _, set := range fallbackTemplates {
		if level >= set.from && level <= set.to {
			pool = set.templates
			break
		}
	}

	expr := pool[r.IntN(len(pool))](r, level)
	answer, err := Evaluate(expr)
	if err != nil {
		// Templates only produce well-formed expressions; keep the
		// function total anyway.
		expr, answer = "1 + 1", 2
	}

	return Problem{
		ID:         uuid.NewString(),
		Text:       fmt.Sprintf("What is %s?", displayExpr(expr)),
		Answer:     answer,
		Level:      level,
		Provenance: ProvenanceFallback,
	}
}

var displayReplacer = strings.NewReplacer("*", "×", "/", "÷")

func displayExpr(expr string) string {
	return displayReplacer.Replace(expr)
}
